package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	StatusID    string `json:"status_id"`
	CategoryID  string `json:"category_id"`
	Action      string `json:"action"`
	Priority    int    `json:"priority"`
	Description string `json:"description"`
}

type UpdateRequest struct {
	ID          string  `json:"id"`
	StatusID    *string `json:"status_id"`
	CategoryID  *string `json:"category_id"`
	Action      *string `json:"action"`
	Priority    *int    `json:"priority"`
	IsActive    *bool   `json:"is_active"`
	Description *string `json:"description"`
}

type ListRequest struct {
	IsActive   *bool  `form:"is_active"`
	StatusID   string `form:"status_id"`
	CategoryID string `form:"category_id"`
}

type Response struct {
	ID          string    `json:"id"`
	StatusID    string    `json:"status_id"`
	CategoryID  string    `json:"category_id"`
	Action      string    `json:"action"`
	Priority    int       `json:"priority"`
	IsActive    bool      `json:"is_active"`
	Description string    `json:"description"`
	CreatedBy   *string   `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Service is CRUD over status flow rules plus the evaluation entry point.
// Unlike the snapshot and adjustment engines, validation failures here are
// surfaced to the caller: rules are user-edited configuration and must be
// correctable.
type Service interface {
	Create(ctx context.Context, req CreateRequest, actorID string) (*Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error

	// ApplyForStatus runs the active rules for a status against the
	// project's category memberships and returns how many changed it.
	ApplyForStatus(ctx context.Context, projectID, statusID snowflake.ID) (int, error)
}
