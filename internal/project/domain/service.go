package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrProjectNotFound = errors.New("project_not_found")
	ErrStatusNotFound  = errors.New("status_not_found")
	ErrInvalidID       = errors.New("invalid_id")
)

// StatusChangeResult reports what a status transition did.
type StatusChangeResult struct {
	ProjectID    string `json:"project_id"`
	StatusID     string `json:"status_id"`
	PrevStatusID string `json:"prev_status_id"`
	RulesApplied int    `json:"rules_applied"`
}

// Service owns project status transitions. Changing a status runs the
// configured flow rules against the project's category memberships.
type Service interface {
	ChangeStatus(ctx context.Context, projectID, statusID snowflake.ID, actorID string) (*StatusChangeResult, error)
}
