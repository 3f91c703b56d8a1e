package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Event describes an expense event to store in the outbox.
type Event struct {
	Type      string
	Payload   map[string]any
	DedupeKey string
}

// ExpenseEvent is the persisted outbox row.
type ExpenseEvent struct {
	ID        snowflake.ID      `gorm:"primaryKey"`
	EventType string            `gorm:"type:text;not null;index"`
	Payload   datatypes.JSONMap `gorm:"type:jsonb;not null"`
	DedupeKey *string           `gorm:"type:text;uniqueIndex"`
	Published bool              `gorm:"not null;default:false;index"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ExpenseEvent) TableName() string { return "expense_events" }

// Outbox inserts expense events into the expense_events table.
type Outbox struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewOutbox(db *gorm.DB, genID *snowflake.Node) *Outbox {
	return &Outbox{db: db, genID: genID}
}

// Publish stores an event using the default database connection.
func (o *Outbox) Publish(ctx context.Context, event Event) error {
	return o.publish(ctx, o.db, event)
}

// PublishTx stores an event using an existing transaction.
func (o *Outbox) PublishTx(ctx context.Context, tx *gorm.DB, event Event) error {
	if tx == nil {
		return errors.New("missing_transaction")
	}
	return o.publish(ctx, tx, event)
}

func (o *Outbox) publish(ctx context.Context, db *gorm.DB, event Event) error {
	if o == nil || db == nil || o.genID == nil {
		return errors.New("outbox_unavailable")
	}
	name := strings.TrimSpace(event.Type)
	if name == "" {
		return errors.New("missing_event_type")
	}

	payload := datatypes.JSONMap{}
	for key, value := range event.Payload {
		if strings.TrimSpace(key) == "" {
			continue
		}
		payload[key] = value
	}

	row := ExpenseEvent{
		ID:        o.genID.Generate(),
		EventType: name,
		Payload:   payload,
		Published: false,
		CreatedAt: time.Now().UTC(),
	}
	if dedupe := strings.TrimSpace(event.DedupeKey); dedupe != "" {
		row.DedupeKey = &dedupe
	}

	tx := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	return tx.Error
}
