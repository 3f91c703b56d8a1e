package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	expensedomain "github.com/sitebooks/sitebooks/internal/expense/domain"
)

// Service preserves and restores parent expense state. Snapshot capture is
// a best-effort side channel: every method degrades to nil/false/empty on
// storage failure instead of returning an error, so a backing-store hiccup
// never blocks the primary expense write.
type Service interface {
	// CreateAutoSnapshot captures the child's parent before the child row
	// lands. Returns nil when the child carries no parent reference, the
	// parent row is missing, or the insert fails.
	CreateAutoSnapshot(ctx context.Context, child *expensedomain.Expense, kind expensedomain.TableKind, actorID string) *ExpenseSnapshot

	// CreateManualSnapshot captures a parent on demand. An empty name gets
	// a generated one.
	CreateManualSnapshot(ctx context.Context, parentID snowflake.ID, kind expensedomain.TableKind, name, actorID string) *ExpenseSnapshot

	// Latest returns the newest active snapshot for the parent, or nil.
	Latest(ctx context.Context, parentID snowflake.ID, kind expensedomain.TableKind) *ExpenseSnapshot

	// RestoreParent re-applies the whitelisted fields from the latest
	// snapshot onto the live parent row. True iff at least one row changed.
	RestoreParent(ctx context.Context, parentID snowflake.ID, kind expensedomain.TableKind) bool

	// History lists all active snapshots for the parent, newest first.
	History(ctx context.Context, parentID snowflake.ID, kind expensedomain.TableKind) []HistoryEntry

	// MarkRestored stamps restored-at/by on a snapshot row.
	MarkRestored(ctx context.Context, snapshotID snowflake.ID, restorerID string) bool
}
