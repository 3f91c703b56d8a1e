package events

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestPublishStoresEvent(t *testing.T) {
	db := setupOutboxTestDB(t)
	outbox := newTestOutbox(t, db)

	err := outbox.Publish(context.Background(), Event{
		Type:    EventSnapshotCreated,
		Payload: map[string]any{"snapshot_id": "1", "trigger_reason": "manual"},
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	var row ExpenseEvent
	if err := db.Take(&row).Error; err != nil {
		t.Fatalf("load event: %v", err)
	}
	if row.EventType != EventSnapshotCreated {
		t.Fatalf("unexpected event type %q", row.EventType)
	}
	if row.Published {
		t.Fatal("new events must start unpublished")
	}
	if row.Payload["trigger_reason"] != "manual" {
		t.Fatalf("unexpected payload %v", row.Payload)
	}
}

func TestPublishDedupes(t *testing.T) {
	db := setupOutboxTestDB(t)
	outbox := newTestOutbox(t, db)

	event := Event{
		Type:      EventParentRestored,
		Payload:   map[string]any{"parent_expense_id": "7"},
		DedupeKey: "restore-7",
	}
	if err := outbox.Publish(context.Background(), event); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if err := outbox.Publish(context.Background(), event); err != nil {
		t.Fatalf("duplicate publish: %v", err)
	}

	var count int64
	if err := db.Model(&ExpenseEvent{}).Count(&count).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 event row, got %d", count)
	}
}

func TestPublishRejectsMissingType(t *testing.T) {
	db := setupOutboxTestDB(t)
	outbox := newTestOutbox(t, db)

	if err := outbox.Publish(context.Background(), Event{Type: "  "}); err == nil {
		t.Fatal("expected error for missing event type")
	}
}

func newTestOutbox(t *testing.T, db *gorm.DB) *Outbox {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new snowflake node: %v", err)
	}
	return NewOutbox(db, node)
}

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS expense_events (
			id BIGINT PRIMARY KEY,
			event_type TEXT NOT NULL,
			payload TEXT NOT NULL,
			dedupe_key TEXT UNIQUE,
			published BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	).Error; err != nil {
		t.Fatalf("create expense_events: %v", err)
	}
	if err := db.Exec(`DELETE FROM expense_events`).Error; err != nil {
		t.Fatalf("reset expense_events: %v", err)
	}
	return db
}
