// Package domain contains project, status and category models used by the
// status flow rules.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ProjectStatus is a configurable lifecycle state for projects.
type ProjectStatus struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Code      string       `gorm:"type:text;not null;uniqueIndex" json:"code"`
	SortOrder int          `gorm:"not null;default:0" json:"sort_order"`
	IsActive  bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ProjectStatus) TableName() string { return "project_statuses" }

// ExpenseCategory groups projects for reporting and checklist routing.
type ExpenseCategory struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Code      string       `gorm:"type:text;not null;uniqueIndex" json:"code"`
	IsActive  bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ExpenseCategory) TableName() string { return "expense_categories" }

// Project is the minimal project row the flow-rule evaluator needs.
type Project struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	StatusID  snowflake.ID `gorm:"not null;index" json:"status_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Project) TableName() string { return "projects" }

// ProjectCategoryMembership links a project to an expense category.
type ProjectCategoryMembership struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	ProjectID  snowflake.ID `gorm:"not null;uniqueIndex:ux_project_category,priority:1" json:"project_id"`
	CategoryID snowflake.ID `gorm:"not null;uniqueIndex:ux_project_category,priority:2" json:"category_id"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ProjectCategoryMembership) TableName() string { return "project_category_memberships" }
