// Package dispatcher drains the expense event outbox.
package dispatcher

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sitebooks/sitebooks/internal/events"
	flowruledomain "github.com/sitebooks/sitebooks/internal/flowrule/domain"
	"github.com/sitebooks/sitebooks/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	OutboxRepo events.OutboxRepository
	Rules      flowruledomain.Service
	Metrics    *metrics.SnapshotMetrics `optional:"true"`
	Config     Config                   `optional:"true"`
}

// Worker drains the outbox in batches. Every status-change event re-applies
// flow rules; membership writes are idempotent, so re-applying after the
// synchronous path already ran is a no-op. All handled events are marked
// published.
type Worker struct {
	db         *gorm.DB
	log        *zap.Logger
	outboxRepo events.OutboxRepository
	rules      flowruledomain.Service
	metrics    *metrics.SnapshotMetrics
	cfg        Config
}

func NewWorker(p Params) *Worker {
	cfg := p.Config.withDefaults()
	return &Worker{
		db:         p.DB,
		log:        p.Log.Named("events.dispatcher"),
		outboxRepo: p.OutboxRepo,
		rules:      p.Rules,
		metrics:    p.Metrics,
		cfg:        cfg,
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := w.RunOnce(); err != nil {
			w.log.Warn("outbox dispatch run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) RunOnce() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := w.processBatch(ctx, w.cfg.BatchSize)

	if pending, countErr := w.outboxRepo.CountPending(ctx); countErr == nil {
		w.metrics.SetOutboxPending(int(pending))
	}
	return err
}

func (w *Worker) processBatch(ctx context.Context, limit int) (int, error) {
	if w.db == nil || w.outboxRepo == nil {
		return 0, errors.New("dispatcher_unavailable")
	}
	if limit <= 0 {
		limit = w.cfg.BatchSize
	}

	processed := 0
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := w.outboxRepo.LockPending(ctx, tx, limit)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		done := make([]snowflake.ID, 0, len(rows))
		for _, row := range rows {
			if err := w.handle(ctx, row); err != nil {
				w.log.Warn("event handling failed",
					zap.String("event_id", row.ID.String()),
					zap.String("event_type", row.EventType),
					zap.Error(err))
				continue
			}
			done = append(done, row.ID)
			processed++
		}
		return w.outboxRepo.MarkPublished(ctx, tx, done)
	})
	if err != nil {
		return processed, err
	}
	return processed, nil
}

func (w *Worker) handle(ctx context.Context, event events.ExpenseEvent) error {
	switch event.EventType {
	case events.EventProjectStatusChanged:
		projectID, err := parsePayloadID(event, "project_id")
		if err != nil {
			return err
		}
		statusID, err := parsePayloadID(event, "status_id")
		if err != nil {
			return err
		}
		_, err = w.rules.ApplyForStatus(ctx, projectID, statusID)
		return err
	default:
		// Snapshot and restore events are informational; publishing them
		// is the whole job.
		return nil
	}
}

func parsePayloadID(event events.ExpenseEvent, key string) (snowflake.ID, error) {
	raw, _ := event.Payload[key].(string)
	if raw == "" {
		return 0, errors.New("missing_" + key)
	}
	return snowflake.ParseString(raw)
}
