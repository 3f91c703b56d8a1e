// Package repository implements status flow rule persistence on gorm.
package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sitebooks/sitebooks/internal/flowrule/domain"
	pkgrepo "github.com/sitebooks/sitebooks/pkg/repository"
	"gorm.io/gorm"
)

const listOrder = "priority DESC, created_at ASC, id ASC"

type ruleRepository struct {
	store pkgrepo.Repository[domain.StatusFlowRule]
}

// Provide builds the flow rule repository.
func Provide(db *gorm.DB) domain.Repository {
	return &ruleRepository{
		store: pkgrepo.ProvideStore[domain.StatusFlowRule](db),
	}
}

func (r *ruleRepository) Insert(ctx context.Context, rule *domain.StatusFlowRule) error {
	return r.store.Create(ctx, rule)
}

func (r *ruleRepository) Update(ctx context.Context, id snowflake.ID, patch map[string]any) (int64, error) {
	return r.store.Update(ctx, map[string]any{"id": id}, patch)
}

func (r *ruleRepository) Delete(ctx context.Context, id snowflake.ID) (int64, error) {
	return r.store.Delete(ctx, map[string]any{"id": id})
}

func (r *ruleRepository) FindByID(ctx context.Context, id snowflake.ID) (*domain.StatusFlowRule, error) {
	return r.store.FindOne(ctx, map[string]any{"id": id})
}

func (r *ruleRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.StatusFlowRule, error) {
	filters := map[string]any{}
	if filter.IsActive != nil {
		filters["is_active"] = *filter.IsActive
	}
	if filter.StatusID != nil {
		filters["status_id"] = *filter.StatusID
	}
	if filter.CategoryID != nil {
		filters["category_id"] = *filter.CategoryID
	}
	return r.store.Find(ctx, filters, pkgrepo.OrderBy(listOrder))
}

func (r *ruleRepository) FindActiveByStatus(ctx context.Context, statusID snowflake.ID) ([]domain.StatusFlowRule, error) {
	return r.store.Find(ctx,
		map[string]any{
			"status_id": statusID,
			"is_active": true,
		},
		pkgrepo.OrderBy(listOrder),
	)
}
