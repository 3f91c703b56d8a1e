package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository loads configured adjustment rules.
type Repository interface {
	// FindActive returns active rules for the (cost object, dimension)
	// pair ordered by priority ascending.
	FindActive(ctx context.Context, costObjectID snowflake.ID, dimension DimensionType) ([]MaterialAdjustmentRule, error)
}
