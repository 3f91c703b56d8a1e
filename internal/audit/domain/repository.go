package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type AuditCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type ListFilter struct {
	Action     string
	TargetType string
	TargetID   string
	ActorType  string
	StartAt    *time.Time
	EndAt      *time.Time
	Cursor     *AuditCursor
	Limit      int
}

type Repository interface {
	Insert(ctx context.Context, entry *AuditLog) error
	List(ctx context.Context, filter ListFilter) ([]*AuditLog, error)
}

// Service records and lists audit entries. Record failures are logged and
// swallowed; an audit miss never fails the audited operation.
type Service interface {
	Record(ctx context.Context, actorID, action, targetType string, targetID *string, metadata map[string]any) error
	List(ctx context.Context, filter ListFilter) ([]*AuditLog, error)
}
