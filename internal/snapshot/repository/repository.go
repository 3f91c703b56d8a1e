// Package repository implements snapshot persistence on gorm.
package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	expensedomain "github.com/sitebooks/sitebooks/internal/expense/domain"
	"github.com/sitebooks/sitebooks/internal/snapshot/domain"
	pkgrepo "github.com/sitebooks/sitebooks/pkg/repository"
	"gorm.io/gorm"
)

type snapshotRepository struct {
	db    *gorm.DB
	store pkgrepo.Repository[domain.ExpenseSnapshot]
}

// Provide builds the snapshot repository.
func Provide(db *gorm.DB) domain.Repository {
	return &snapshotRepository{
		db:    db,
		store: pkgrepo.ProvideStore[domain.ExpenseSnapshot](db),
	}
}

func (r *snapshotRepository) Insert(ctx context.Context, snap *domain.ExpenseSnapshot) error {
	return r.store.Create(ctx, snap)
}

func (r *snapshotRepository) FindLatest(ctx context.Context, parentID snowflake.ID, snapshotType string) (*domain.ExpenseSnapshot, error) {
	return r.store.FindOne(ctx,
		map[string]any{
			"parent_expense_id": parentID,
			"snapshot_type":     snapshotType,
			"is_active":         true,
		},
		pkgrepo.OrderBy("created_at DESC, id DESC"),
	)
}

func (r *snapshotRepository) ListActive(ctx context.Context, parentID snowflake.ID, snapshotType string) ([]domain.ExpenseSnapshot, error) {
	return r.store.Find(ctx,
		map[string]any{
			"parent_expense_id": parentID,
			"snapshot_type":     snapshotType,
			"is_active":         true,
		},
		pkgrepo.OrderBy("created_at DESC, id DESC"),
	)
}

func (r *snapshotRepository) MarkRestored(ctx context.Context, snapshotID snowflake.ID, restoredBy string, at time.Time) (bool, error) {
	patch := map[string]any{
		"restored_at": at,
		"updated_at":  at,
	}
	if restoredBy != "" {
		patch["restored_by"] = restoredBy
	}
	rows, err := r.store.Update(ctx, map[string]any{"id": snapshotID}, patch)
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

type parentRepository struct {
	db *gorm.DB
}

// ProvideParent builds the cross-table parent expense repository.
func ProvideParent(db *gorm.DB) domain.ParentRepository {
	return &parentRepository{db: db}
}

func (r *parentRepository) FindParent(ctx context.Context, kind expensedomain.TableKind, id snowflake.ID) (*expensedomain.Expense, error) {
	var row expensedomain.Expense
	err := r.db.WithContext(ctx).
		Table(kind.Table()).
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *parentRepository) UpdateParent(ctx context.Context, kind expensedomain.TableKind, id snowflake.ID, patch map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Table(kind.Table()).
		Where("id = ?", id).
		Updates(patch)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
