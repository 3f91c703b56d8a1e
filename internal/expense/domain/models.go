// Package domain contains persistence models shared by the expense tables.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	ExpenseStatusDraft    = "draft"
	ExpenseStatusPending  = "pending"
	ExpenseStatusApproved = "approved"
	ExpenseStatusRejected = "rejected"
	ExpenseStatusPaid     = "paid"
)

// Expense is the row shape shared by the expenses, project_expenses and
// project_expenses_quote tables. A row with a ParentExpenseID is a child
// line that aggregates into its parent.
type Expense struct {
	ID              snowflake.ID  `gorm:"primaryKey" json:"id"`
	ParentExpenseID *snowflake.ID `gorm:"index" json:"parent_expense_id"`
	ProjectID       *snowflake.ID `gorm:"index" json:"project_id"`
	Description     string        `gorm:"type:text;not null" json:"description"`
	Amount          float64       `gorm:"not null" json:"amount"`
	Currency        string        `gorm:"type:text;not null;default:'VND'" json:"currency"`
	ExpenseDate     *time.Time    `json:"expense_date"`
	Status          string        `gorm:"type:text;not null;default:draft" json:"status"`
	Notes           *string       `gorm:"type:text" json:"notes"`
	ReceiptURL      *string       `gorm:"type:text" json:"receipt_url"`
	CreatedBy       *string       `gorm:"type:text" json:"created_by"`
	IsActive        bool          `gorm:"not null;default:true" json:"-"`
	CreatedAt       time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
