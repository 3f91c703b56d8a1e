package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sitebooks/sitebooks/internal/clock"
	expensedomain "github.com/sitebooks/sitebooks/internal/expense/domain"
	"github.com/sitebooks/sitebooks/internal/snapshot/domain"
	"github.com/sitebooks/sitebooks/internal/snapshot/repository"
)

func TestCreateAutoSnapshotWithoutParentRef(t *testing.T) {
	db := setupSnapshotTestDB(t)
	svc := newTestService(t, db, time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))

	child := &expensedomain.Expense{ID: 100, Description: "standalone"}
	if snap := svc.CreateAutoSnapshot(context.Background(), child, expensedomain.TableKindExpenses, ""); snap != nil {
		t.Fatalf("expected nil snapshot for child without parent, got %v", snap.ID)
	}
	if snap := svc.CreateAutoSnapshot(context.Background(), nil, expensedomain.TableKindExpenses, ""); snap != nil {
		t.Fatalf("expected nil snapshot for nil child, got %v", snap.ID)
	}

	var count int64
	if err := db.Table("expense_snapshots").Count(&count).Error; err != nil {
		t.Fatalf("count snapshots: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no snapshot rows, got %d", count)
	}
}

func TestCreateAutoSnapshotMissingParent(t *testing.T) {
	db := setupSnapshotTestDB(t)
	svc := newTestService(t, db, time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))

	parentID := snowflake.ID(201)
	child := &expensedomain.Expense{ID: 202, ParentExpenseID: &parentID}
	if snap := svc.CreateAutoSnapshot(context.Background(), child, expensedomain.TableKindExpenses, ""); snap != nil {
		t.Fatalf("expected nil snapshot for missing parent, got %v", snap.ID)
	}
}

func TestCreateAutoSnapshotCapturesParentState(t *testing.T) {
	db := setupSnapshotTestDB(t)
	at := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	svc := newTestService(t, db, at)

	parentID := snowflake.ID(301)
	insertExpense(t, db, "expenses", parentID, "Main contract", 150000, "approved")

	child := &expensedomain.Expense{ID: 302, ParentExpenseID: &parentID, Description: "cement"}
	snap := svc.CreateAutoSnapshot(context.Background(), child, expensedomain.TableKindExpenses, "user-1")
	if snap == nil {
		t.Fatal("expected snapshot, got nil")
	}

	var stored domain.ExpenseSnapshot
	if err := db.Where("parent_expense_id = ?", parentID).Take(&stored).Error; err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if stored.SnapshotType != "expenses" {
		t.Fatalf("unexpected snapshot_type %q", stored.SnapshotType)
	}
	if stored.SnapshotData[domain.PayloadKeyTrigger] != domain.TriggerChildCreation {
		t.Fatalf("unexpected trigger %v", stored.SnapshotData[domain.PayloadKeyTrigger])
	}
	parentData, ok := stored.SnapshotData[domain.PayloadKeyParent].(map[string]any)
	if !ok {
		t.Fatalf("missing parent payload: %v", stored.SnapshotData)
	}
	if parentData["description"] != "Main contract" {
		t.Fatalf("unexpected parent description %v", parentData["description"])
	}
	wantName := "Auto-snapshot-expenses-" + at.Format("2006-01-02T15:04:05Z07:00")
	if stored.Name != wantName {
		t.Fatalf("unexpected name %q, want %q", stored.Name, wantName)
	}
}

func TestCreateManualSnapshotUsesGivenName(t *testing.T) {
	db := setupSnapshotTestDB(t)
	svc := newTestService(t, db, time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC))

	parentID := snowflake.ID(401)
	insertExpense(t, db, "project_expenses", parentID, "Foundation", 90000, "pending")

	snap := svc.CreateManualSnapshot(context.Background(), parentID, expensedomain.TableKindProjectActual, "before rework", "user-2")
	if snap == nil {
		t.Fatal("expected snapshot, got nil")
	}
	if snap.Name != "before rework" {
		t.Fatalf("unexpected name %q", snap.Name)
	}
	if snap.SnapshotType != "project_actual" {
		t.Fatalf("unexpected snapshot_type %q", snap.SnapshotType)
	}
	if snap.SnapshotData[domain.PayloadKeyTrigger] != domain.TriggerManual {
		t.Fatalf("unexpected trigger %v", snap.SnapshotData[domain.PayloadKeyTrigger])
	}
	if snap.CreatedBy == nil || *snap.CreatedBy != "user-2" {
		t.Fatalf("unexpected created_by %v", snap.CreatedBy)
	}
}

func TestLatestPicksNewestSnapshot(t *testing.T) {
	db := setupSnapshotTestDB(t)
	svc := newTestService(t, db, time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC))

	parentID := snowflake.ID(501)
	insertExpense(t, db, "expenses", parentID, "Roofing", 10000, "draft")

	first := svc.CreateManualSnapshot(context.Background(), parentID, expensedomain.TableKindExpenses, "first", "")
	second := svc.CreateManualSnapshot(context.Background(), parentID, expensedomain.TableKindExpenses, "second", "")
	if first == nil || second == nil {
		t.Fatal("expected both snapshots to be created")
	}

	latest := svc.Latest(context.Background(), parentID, expensedomain.TableKindExpenses)
	if latest == nil {
		t.Fatal("expected latest snapshot, got nil")
	}
	if latest.ID != second.ID {
		t.Fatalf("expected latest %v, got %v", second.ID, latest.ID)
	}
}

func TestRestoreParentAppliesWhitelistedFields(t *testing.T) {
	db := setupSnapshotTestDB(t)
	svc := newTestService(t, db, time.Date(2025, 3, 13, 14, 0, 0, 0, time.UTC))

	parentID := snowflake.ID(601)
	insertExpense(t, db, "expenses", parentID, "Original description", 200000, "approved")

	if snap := svc.CreateManualSnapshot(context.Background(), parentID, expensedomain.TableKindExpenses, "checkpoint", ""); snap == nil {
		t.Fatal("expected snapshot, got nil")
	}

	if err := db.Table("expenses").Where("id = ?", parentID).
		Updates(map[string]any{"description": "Mutated", "amount": 999999.0, "status": "rejected"}).Error; err != nil {
		t.Fatalf("mutate parent: %v", err)
	}

	if !svc.RestoreParent(context.Background(), parentID, expensedomain.TableKindExpenses) {
		t.Fatal("expected restore to succeed")
	}

	var row expensedomain.Expense
	if err := db.Table("expenses").Where("id = ?", parentID).Take(&row).Error; err != nil {
		t.Fatalf("reload parent: %v", err)
	}
	if row.Description != "Original description" {
		t.Fatalf("description not restored: %q", row.Description)
	}
	if row.Amount != 200000 {
		t.Fatalf("amount not restored: %v", row.Amount)
	}
	if row.Status != "approved" {
		t.Fatalf("status not restored: %q", row.Status)
	}
}

func TestRestoreParentTwiceReappliesSameState(t *testing.T) {
	db := setupSnapshotTestDB(t)
	svc := newTestService(t, db, time.Date(2025, 3, 13, 16, 0, 0, 0, time.UTC))

	parentID := snowflake.ID(651)
	insertExpense(t, db, "expenses", parentID, "Drywall", 45000, "approved")

	if snap := svc.CreateManualSnapshot(context.Background(), parentID, expensedomain.TableKindExpenses, "checkpoint", ""); snap == nil {
		t.Fatal("expected snapshot, got nil")
	}
	if err := db.Table("expenses").Where("id = ?", parentID).
		Updates(map[string]any{"description": "Mutated", "amount": 1.0, "status": "rejected"}).Error; err != nil {
		t.Fatalf("mutate parent: %v", err)
	}

	if !svc.RestoreParent(context.Background(), parentID, expensedomain.TableKindExpenses) {
		t.Fatal("expected first restore to succeed")
	}
	if !svc.RestoreParent(context.Background(), parentID, expensedomain.TableKindExpenses) {
		t.Fatal("expected second restore to succeed")
	}

	var row expensedomain.Expense
	if err := db.Table("expenses").Where("id = ?", parentID).Take(&row).Error; err != nil {
		t.Fatalf("reload parent: %v", err)
	}
	if row.Description != "Drywall" {
		t.Fatalf("description not restored: %q", row.Description)
	}
	if row.Amount != 45000 {
		t.Fatalf("amount not restored: %v", row.Amount)
	}
	if row.Status != "approved" {
		t.Fatalf("status not restored: %q", row.Status)
	}
}

func TestRestoreParentWithoutSnapshot(t *testing.T) {
	db := setupSnapshotTestDB(t)
	svc := newTestService(t, db, time.Date(2025, 3, 13, 14, 0, 0, 0, time.UTC))

	if svc.RestoreParent(context.Background(), snowflake.ID(701), expensedomain.TableKindExpenses) {
		t.Fatal("expected restore to fail when no snapshot exists")
	}
}

func TestHistoryReportsRestorability(t *testing.T) {
	db := setupSnapshotTestDB(t)
	svc := newTestService(t, db, time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))

	parentID := snowflake.ID(801)
	insertExpense(t, db, "expenses", parentID, "Windows", 30000, "draft")

	first := svc.CreateManualSnapshot(context.Background(), parentID, expensedomain.TableKindExpenses, "first", "")
	second := svc.CreateManualSnapshot(context.Background(), parentID, expensedomain.TableKindExpenses, "second", "")
	if first == nil || second == nil {
		t.Fatal("expected both snapshots to be created")
	}
	if !svc.MarkRestored(context.Background(), first.ID, "user-3") {
		t.Fatal("expected mark restored to succeed")
	}

	entries := svc.History(context.Background(), parentID, expensedomain.TableKindExpenses)
	if len(entries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(entries))
	}
	byID := map[string]bool{}
	for _, entry := range entries {
		byID[entry.SnapshotID] = entry.CanRestore
	}
	if byID[first.ID.String()] {
		t.Fatal("restored snapshot should not be restorable again")
	}
	if !byID[second.ID.String()] {
		t.Fatal("untouched snapshot should be restorable")
	}
}

func newTestService(t *testing.T, db *gorm.DB, at time.Time) domain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new snowflake node: %v", err)
	}
	return NewService(ServiceParam{
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clock.Fixed(at),
		Repo:       repository.Provide(db),
		ParentRepo: repository.ProvideParent(db),
	})
}

func setupSnapshotTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, table := range []string{"expenses", "project_expenses", "project_expenses_quote"} {
		if err := db.Exec(
			`CREATE TABLE IF NOT EXISTS ` + table + ` (
				id BIGINT PRIMARY KEY,
				parent_expense_id BIGINT,
				project_id BIGINT,
				description TEXT NOT NULL,
				amount REAL NOT NULL DEFAULT 0,
				currency TEXT NOT NULL DEFAULT 'VND',
				expense_date DATETIME,
				status TEXT NOT NULL DEFAULT 'draft',
				notes TEXT,
				receipt_url TEXT,
				created_by TEXT,
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		).Error; err != nil {
			t.Fatalf("create %s: %v", table, err)
		}
		if err := db.Exec(`DELETE FROM ` + table).Error; err != nil {
			t.Fatalf("reset %s: %v", table, err)
		}
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS expense_snapshots (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			snapshot_type TEXT NOT NULL,
			snapshot_data TEXT NOT NULL,
			parent_expense_id BIGINT NOT NULL,
			child_expense_id BIGINT,
			project_id BIGINT,
			created_by TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			restored_at DATETIME,
			restored_by TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	).Error; err != nil {
		t.Fatalf("create expense_snapshots: %v", err)
	}
	if err := db.Exec(`DELETE FROM expense_snapshots`).Error; err != nil {
		t.Fatalf("reset expense_snapshots: %v", err)
	}
	return db
}

func insertExpense(t *testing.T, db *gorm.DB, table string, id snowflake.ID, description string, amount float64, status string) {
	t.Helper()
	if err := db.Exec(
		`INSERT INTO `+table+` (id, description, amount, currency, status, is_active)
		 VALUES (?, ?, ?, 'VND', ?, TRUE)`,
		id, description, amount, status,
	).Error; err != nil {
		t.Fatalf("insert into %s: %v", table, err)
	}
}
