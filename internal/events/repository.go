package events

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// OutboxRepository provides locking and update operations for event dispatch.
type OutboxRepository interface {
	LockPending(ctx context.Context, db *gorm.DB, limit int) ([]ExpenseEvent, error)
	MarkPublished(ctx context.Context, db *gorm.DB, ids []snowflake.ID) error
	CountPending(ctx context.Context) (int64, error)
}

type outboxRepository struct {
	db *gorm.DB
}

// ProvideOutboxRepository builds the outbox repository.
func ProvideOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) LockPending(ctx context.Context, db *gorm.DB, limit int) ([]ExpenseEvent, error) {
	var rows []ExpenseEvent
	err := db.WithContext(ctx).Raw(
		`SELECT id, event_type, payload, dedupe_key, published, created_at
		 FROM expense_events
		 WHERE published = false
		 ORDER BY created_at ASC, id ASC
		 LIMIT ?
		 FOR UPDATE SKIP LOCKED`,
		limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *outboxRepository) MarkPublished(ctx context.Context, db *gorm.DB, ids []snowflake.ID) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`UPDATE expense_events SET published = true WHERE id IN ?`,
		ids,
	).Error
}

func (r *outboxRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM expense_events WHERE published = false`,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
