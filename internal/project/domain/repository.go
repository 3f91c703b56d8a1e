package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Repository provides project, status and category persistence.
type Repository interface {
	FindByID(ctx context.Context, id snowflake.ID) (*Project, error)
	UpdateStatus(ctx context.Context, id, statusID snowflake.ID, at time.Time) (int64, error)
	StatusExists(ctx context.Context, id snowflake.ID) (bool, error)
	CategoryExists(ctx context.Context, id snowflake.ID) (bool, error)

	// AddMembership inserts a membership row, reporting false when the
	// project is already in the category.
	AddMembership(ctx context.Context, m *ProjectCategoryMembership) (bool, error)
	RemoveMembership(ctx context.Context, projectID, categoryID snowflake.ID) (bool, error)
	ListMemberships(ctx context.Context, projectID snowflake.ID) ([]ProjectCategoryMembership, error)
}
