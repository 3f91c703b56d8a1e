// Package domain contains the expense snapshot model and contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	// TriggerChildCreation marks snapshots captured before a child line
	// is attached to its parent.
	TriggerChildCreation = "child_creation"
	// TriggerManual marks snapshots requested explicitly by a user.
	TriggerManual = "manual"
)

// Payload keys inside SnapshotData.
const (
	PayloadKeyParent     = "parent_expense"
	PayloadKeyChild      = "child_expense"
	PayloadKeyTrigger    = "trigger_reason"
	PayloadKeyCapturedAt = "captured_at"
)

// RestorableFields is the whitelist of parent columns a restore may touch.
var RestorableFields = []string{
	"description",
	"amount",
	"currency",
	"expense_date",
	"status",
	"notes",
	"receipt_url",
}

// ExpenseSnapshot preserves a parent expense's state at a point in time.
// Rows are never deleted; is_active soft-hides them from restore paths.
type ExpenseSnapshot struct {
	ID              snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name            string            `gorm:"type:text;not null" json:"name"`
	Description     string            `gorm:"type:text" json:"description"`
	SnapshotType    string            `gorm:"type:text;not null;index:idx_snapshots_parent_type,priority:2" json:"snapshot_type"`
	SnapshotData    datatypes.JSONMap `gorm:"type:jsonb;not null" json:"snapshot_data"`
	ParentExpenseID snowflake.ID      `gorm:"not null;index:idx_snapshots_parent_type,priority:1" json:"parent_expense_id"`
	ChildExpenseID  *snowflake.ID     `json:"child_expense_id"`
	ProjectID       *snowflake.ID     `json:"project_id"`
	CreatedBy       *string           `gorm:"type:text" json:"created_by"`
	IsActive        bool              `gorm:"not null;default:true" json:"-"`
	RestoredAt      *time.Time        `json:"restored_at"`
	RestoredBy      *string           `gorm:"type:text" json:"restored_by"`
	CreatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (ExpenseSnapshot) TableName() string { return "expense_snapshots" }

// HistoryEntry is the reduced view returned by restore-history queries.
type HistoryEntry struct {
	SnapshotID      string     `json:"snapshot_id"`
	Name            string     `json:"name"`
	CreatedAt       time.Time  `json:"created_at"`
	RestoredAt      *time.Time `json:"restored_at"`
	CanRestore      bool       `json:"can_restore"`
	ParentExpenseID string     `json:"parent_expense_id"`
	ChildExpenseID  *string    `json:"child_expense_id"`
	ProjectID       *string    `json:"project_id"`
}
