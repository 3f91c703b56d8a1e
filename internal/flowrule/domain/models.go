// Package domain contains status flow rule models and contracts.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// StatusFlowRule maps a project status to an automatic category
// membership change.
type StatusFlowRule struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	StatusID    snowflake.ID `gorm:"not null;index" json:"status_id"`
	CategoryID  snowflake.ID `gorm:"not null;index" json:"category_id"`
	Action      string       `gorm:"type:text;not null" json:"action"`
	Priority    int          `gorm:"not null;default:0" json:"priority"`
	IsActive    bool         `gorm:"not null;default:true" json:"is_active"`
	Description string       `gorm:"type:text" json:"description"`
	CreatedBy   *string      `gorm:"type:text" json:"created_by"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (StatusFlowRule) TableName() string { return "status_flow_rules" }

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidAction    = errors.New("invalid_action")
	ErrStatusNotFound   = errors.New("status_not_found")
	ErrCategoryNotFound = errors.New("category_not_found")
	ErrNotFound         = errors.New("not_found")
)

// ValidAction reports whether the action is one of the allowed values.
func ValidAction(action string) bool {
	switch action {
	case ActionAdd, ActionRemove:
		return true
	default:
		return false
	}
}

// ParseID parses a caller-supplied snowflake id.
func ParseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}
