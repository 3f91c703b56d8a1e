package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	expensedomain "github.com/sitebooks/sitebooks/internal/expense/domain"
)

// Repository provides persistence for snapshot rows.
type Repository interface {
	Insert(ctx context.Context, snap *ExpenseSnapshot) error
	FindLatest(ctx context.Context, parentID snowflake.ID, snapshotType string) (*ExpenseSnapshot, error)
	ListActive(ctx context.Context, parentID snowflake.ID, snapshotType string) ([]ExpenseSnapshot, error)
	MarkRestored(ctx context.Context, snapshotID snowflake.ID, restoredBy string, at time.Time) (bool, error)
}

// ParentRepository reads and patches live parent rows across the three
// expense tables.
type ParentRepository interface {
	FindParent(ctx context.Context, kind expensedomain.TableKind, id snowflake.ID) (*expensedomain.Expense, error)
	UpdateParent(ctx context.Context, kind expensedomain.TableKind, id snowflake.ID, patch map[string]any) (int64, error)
}
