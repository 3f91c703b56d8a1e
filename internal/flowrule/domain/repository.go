package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// ListFilter narrows a rule listing.
type ListFilter struct {
	IsActive   *bool
	StatusID   *snowflake.ID
	CategoryID *snowflake.ID
}

// Repository provides persistence for status flow rules. List results are
// ordered by priority descending, then creation time ascending.
type Repository interface {
	Insert(ctx context.Context, rule *StatusFlowRule) error
	Update(ctx context.Context, id snowflake.ID, patch map[string]any) (int64, error)
	Delete(ctx context.Context, id snowflake.ID) (int64, error)
	FindByID(ctx context.Context, id snowflake.ID) (*StatusFlowRule, error)
	List(ctx context.Context, filter ListFilter) ([]StatusFlowRule, error)
	FindActiveByStatus(ctx context.Context, statusID snowflake.ID) ([]StatusFlowRule, error)
}
