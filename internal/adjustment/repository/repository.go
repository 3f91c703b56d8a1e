// Package repository implements adjustment rule lookups on gorm.
package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sitebooks/sitebooks/internal/adjustment/domain"
	pkgrepo "github.com/sitebooks/sitebooks/pkg/repository"
	"gorm.io/gorm"
)

type ruleRepository struct {
	store pkgrepo.Repository[domain.MaterialAdjustmentRule]
}

// Provide builds the adjustment rule repository.
func Provide(db *gorm.DB) domain.Repository {
	return &ruleRepository{
		store: pkgrepo.ProvideStore[domain.MaterialAdjustmentRule](db),
	}
}

func (r *ruleRepository) FindActive(ctx context.Context, costObjectID snowflake.ID, dimension domain.DimensionType) ([]domain.MaterialAdjustmentRule, error) {
	return r.store.Find(ctx,
		map[string]any{
			"cost_object_id": costObjectID,
			"dimension":      dimension,
			"is_active":      true,
		},
		pkgrepo.OrderBy("priority ASC, id ASC"),
	)
}
