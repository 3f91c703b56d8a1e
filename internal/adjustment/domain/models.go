// Package domain contains material adjustment rules and value types.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// DimensionType is a tracked physical dimension of a cost object.
type DimensionType string

const (
	DimensionArea     DimensionType = "area"
	DimensionVolume   DimensionType = "volume"
	DimensionHeight   DimensionType = "height"
	DimensionLength   DimensionType = "length"
	DimensionDepth    DimensionType = "depth"
	DimensionQuantity DimensionType = "quantity"
)

// ChangeDirection constrains which way a dimension must move for a rule
// to fire.
type ChangeDirection string

const (
	DirectionIncrease ChangeDirection = "increase"
	DirectionDecrease ChangeDirection = "decrease"
	DirectionBoth     ChangeDirection = "both"
)

// ThresholdType selects how a rule's threshold value is compared.
type ThresholdType string

const (
	ThresholdPercentage ThresholdType = "percentage"
	ThresholdAbsolute   ThresholdType = "absolute"
)

// AdjustmentType selects how a rule's adjustment value is applied.
type AdjustmentType string

const (
	AdjustPercentage AdjustmentType = "percentage"
	AdjustAbsolute   AdjustmentType = "absolute"
)

// MaterialAdjustmentRule adjusts a component quantity when a linked
// dimension moves past a threshold. Rules are configuration data and
// read-only to this engine.
type MaterialAdjustmentRule struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	CostObjectID    snowflake.ID    `gorm:"not null;index:idx_adjustment_rules_object_dim,priority:1" json:"cost_object_id"`
	Dimension       DimensionType   `gorm:"type:text;not null;index:idx_adjustment_rules_object_dim,priority:2" json:"dimension"`
	Direction       ChangeDirection `gorm:"type:text;not null;default:both" json:"direction"`
	ThresholdType   ThresholdType   `gorm:"type:text;not null" json:"threshold_type"`
	ThresholdValue  float64         `gorm:"not null" json:"threshold_value"`
	AdjustmentType  AdjustmentType  `gorm:"type:text;not null" json:"adjustment_type"`
	AdjustmentValue float64         `gorm:"not null" json:"adjustment_value"`
	Priority        int             `gorm:"not null;default:100" json:"priority"`
	IsActive        bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (MaterialAdjustmentRule) TableName() string { return "material_adjustment_rules" }

// DimensionChange captures the before/after values of one dimension.
// A nil New means the dimension did not change and is skipped.
type DimensionChange struct {
	Old *float64 `json:"old"`
	New *float64 `json:"new"`
}

// Component is a priced material line attached to a cost object.
type Component struct {
	ID           string        `json:"id"`
	CostObjectID *snowflake.ID `json:"cost_object_id"`
	Quantity     float64       `json:"quantity"`
	UnitPrice    float64       `json:"unit_price"`
	TotalPrice   float64       `json:"total_price"`
}

// Adjustment is the computed result of applying a rule chain.
type Adjustment struct {
	Quantity   float64 `json:"adjusted_quantity"`
	UnitPrice  float64 `json:"adjusted_unit_price"`
	TotalPrice float64 `json:"adjusted_total_price"`
}
