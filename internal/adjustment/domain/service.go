package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Service evaluates adjustment rules against dimension changes. Rule
// lookup failures degrade to "no adjustment" so a mis-configured rule set
// never blocks a pricing calculation.
type Service interface {
	// ApplicableRules returns the priority-ordered rules that fire for the
	// given change. A zero change returns an empty list immediately.
	ApplicableRules(ctx context.Context, costObjectID snowflake.ID, dimension DimensionType, oldValue *float64, newValue float64) []MaterialAdjustmentRule

	// CalculateAdjustment applies the rules in order, compounding on the
	// running quantity. Unit price is never modified; quantity is floored
	// at zero and the total recomputed.
	CalculateAdjustment(quantity, unitPrice float64, rules []MaterialAdjustmentRule) Adjustment

	// ApplyToComponents returns a copy of components with matching rule
	// chains applied. Components without a cost object or without matching
	// rules pass through unchanged.
	ApplyToComponents(ctx context.Context, components []Component, changes map[DimensionType]DimensionChange) []Component
}
