package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sitebooks/sitebooks/internal/clock"
	"github.com/sitebooks/sitebooks/internal/events"
	expensedomain "github.com/sitebooks/sitebooks/internal/expense/domain"
	"github.com/sitebooks/sitebooks/internal/observability/metrics"
	"github.com/sitebooks/sitebooks/internal/snapshot/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	ParentRepo domain.ParentRepository
	Metrics    *metrics.SnapshotMetrics `optional:"true"`
	Outbox     *events.Outbox           `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	parentRepo domain.ParentRepository
	metrics    *metrics.SnapshotMetrics
	outbox     *events.Outbox
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:        p.Log.Named("snapshot.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		parentRepo: p.ParentRepo,
		metrics:    p.Metrics,
		outbox:     p.Outbox,
	}
}

func (s *Service) CreateAutoSnapshot(ctx context.Context, child *expensedomain.Expense, kind expensedomain.TableKind, actorID string) *domain.ExpenseSnapshot {
	if child == nil || child.ParentExpenseID == nil {
		return nil
	}
	parentID := *child.ParentExpenseID

	parent, err := s.parentRepo.FindParent(ctx, kind, parentID)
	if err != nil {
		s.log.Warn("parent lookup failed, skipping snapshot",
			zap.String("table", kind.Table()),
			zap.String("parent_id", parentID.String()),
			zap.Error(err))
		return nil
	}
	if parent == nil {
		s.log.Warn("parent not found, skipping snapshot",
			zap.String("table", kind.Table()),
			zap.String("parent_id", parentID.String()))
		return nil
	}

	now := s.clock.Now()
	snap := s.buildSnapshot(parent, child, kind, domain.TriggerChildCreation, "", actorID, now)
	return s.insert(ctx, snap, domain.TriggerChildCreation)
}

func (s *Service) CreateManualSnapshot(ctx context.Context, parentID snowflake.ID, kind expensedomain.TableKind, name, actorID string) *domain.ExpenseSnapshot {
	parent, err := s.parentRepo.FindParent(ctx, kind, parentID)
	if err != nil {
		s.log.Warn("parent lookup failed, skipping snapshot",
			zap.String("table", kind.Table()),
			zap.String("parent_id", parentID.String()),
			zap.Error(err))
		return nil
	}
	if parent == nil {
		s.log.Warn("parent not found, skipping snapshot",
			zap.String("table", kind.Table()),
			zap.String("parent_id", parentID.String()))
		return nil
	}

	now := s.clock.Now()
	snap := s.buildSnapshot(parent, nil, kind, domain.TriggerManual, name, actorID, now)
	return s.insert(ctx, snap, domain.TriggerManual)
}

func (s *Service) Latest(ctx context.Context, parentID snowflake.ID, kind expensedomain.TableKind) *domain.ExpenseSnapshot {
	snap, err := s.repo.FindLatest(ctx, parentID, kind.Short())
	if err != nil {
		s.log.Warn("latest snapshot lookup failed",
			zap.String("parent_id", parentID.String()),
			zap.String("snapshot_type", kind.Short()),
			zap.Error(err))
		return nil
	}
	return snap
}

func (s *Service) RestoreParent(ctx context.Context, parentID snowflake.ID, kind expensedomain.TableKind) bool {
	start := time.Now()
	restored := s.restoreParent(ctx, parentID, kind)
	s.metrics.ObserveRestoreDuration(time.Since(start))
	return restored
}

func (s *Service) restoreParent(ctx context.Context, parentID snowflake.ID, kind expensedomain.TableKind) bool {
	snap := s.Latest(ctx, parentID, kind)
	if snap == nil {
		s.metrics.IncRestore("missing")
		return false
	}

	parentData, ok := snap.SnapshotData[domain.PayloadKeyParent].(map[string]any)
	if !ok {
		s.log.Warn("snapshot missing parent payload",
			zap.String("snapshot_id", snap.ID.String()))
		s.metrics.IncRestore("missing")
		return false
	}

	patch := restorePatch(parentData)
	if len(patch) == 0 {
		s.metrics.IncRestore("missing")
		return false
	}
	patch["updated_at"] = s.clock.Now()

	rows, err := s.parentRepo.UpdateParent(ctx, kind, parentID, patch)
	if err != nil {
		s.log.Warn("parent restore failed",
			zap.String("table", kind.Table()),
			zap.String("parent_id", parentID.String()),
			zap.Error(err))
		s.metrics.IncRestore("failed")
		return false
	}
	if rows == 0 {
		s.metrics.IncRestore("missing")
		return false
	}

	if s.outbox != nil {
		_ = s.outbox.Publish(ctx, events.Event{
			Type: events.EventParentRestored,
			Payload: map[string]any{
				"parent_expense_id": parentID.String(),
				"snapshot_id":       snap.ID.String(),
				"table_name":        kind.Table(),
			},
		})
	}
	s.metrics.IncRestore("restored")
	return true
}

func (s *Service) History(ctx context.Context, parentID snowflake.ID, kind expensedomain.TableKind) []domain.HistoryEntry {
	snaps, err := s.repo.ListActive(ctx, parentID, kind.Short())
	if err != nil {
		s.log.Warn("restore history lookup failed",
			zap.String("parent_id", parentID.String()),
			zap.String("snapshot_type", kind.Short()),
			zap.Error(err))
		return []domain.HistoryEntry{}
	}

	entries := make([]domain.HistoryEntry, 0, len(snaps))
	for _, snap := range snaps {
		entry := domain.HistoryEntry{
			SnapshotID:      snap.ID.String(),
			Name:            snap.Name,
			CreatedAt:       snap.CreatedAt,
			RestoredAt:      snap.RestoredAt,
			CanRestore:      snap.RestoredAt == nil,
			ParentExpenseID: snap.ParentExpenseID.String(),
		}
		if snap.ChildExpenseID != nil {
			childID := snap.ChildExpenseID.String()
			entry.ChildExpenseID = &childID
		}
		if snap.ProjectID != nil {
			projectID := snap.ProjectID.String()
			entry.ProjectID = &projectID
		}
		entries = append(entries, entry)
	}
	return entries
}

func (s *Service) MarkRestored(ctx context.Context, snapshotID snowflake.ID, restorerID string) bool {
	updated, err := s.repo.MarkRestored(ctx, snapshotID, restorerID, s.clock.Now())
	if err != nil {
		s.log.Warn("mark restored failed",
			zap.String("snapshot_id", snapshotID.String()),
			zap.Error(err))
		return false
	}
	return updated
}

func (s *Service) buildSnapshot(
	parent, child *expensedomain.Expense,
	kind expensedomain.TableKind,
	trigger, name, actorID string,
	now time.Time,
) *domain.ExpenseSnapshot {
	payload := datatypes.JSONMap{
		domain.PayloadKeyParent:     expensePayload(parent),
		domain.PayloadKeyTrigger:    trigger,
		domain.PayloadKeyCapturedAt: now.Format(time.RFC3339),
	}
	if child != nil {
		payload[domain.PayloadKeyChild] = expensePayload(child)
	}

	if name == "" {
		name = fmt.Sprintf("Auto-snapshot-%s-%s", kind.Short(), now.Format("2006-01-02T15:04:05Z07:00"))
	}

	snap := &domain.ExpenseSnapshot{
		ID:              s.genID.Generate(),
		Name:            name,
		Description:     fmt.Sprintf("State of parent %s before %s", parent.ID.String(), trigger),
		SnapshotType:    kind.Short(),
		SnapshotData:    payload,
		ParentExpenseID: parent.ID,
		ProjectID:       parent.ProjectID,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if child != nil && child.ID != 0 {
		childID := child.ID
		snap.ChildExpenseID = &childID
	}
	if actorID != "" {
		snap.CreatedBy = &actorID
	}
	return snap
}

func (s *Service) insert(ctx context.Context, snap *domain.ExpenseSnapshot, trigger string) *domain.ExpenseSnapshot {
	if err := s.repo.Insert(ctx, snap); err != nil {
		s.log.Warn("snapshot insert failed",
			zap.String("parent_id", snap.ParentExpenseID.String()),
			zap.String("snapshot_type", snap.SnapshotType),
			zap.Error(err))
		return nil
	}

	if s.outbox != nil {
		_ = s.outbox.Publish(ctx, events.Event{
			Type: events.EventSnapshotCreated,
			Payload: map[string]any{
				"snapshot_id":       snap.ID.String(),
				"parent_expense_id": snap.ParentExpenseID.String(),
				"snapshot_type":     snap.SnapshotType,
				"trigger_reason":    trigger,
			},
		})
	}
	s.metrics.IncSnapshotCreated(trigger)
	return snap
}

// expensePayload flattens an expense row into the JSON shape stored inside
// snapshot_data.
func expensePayload(e *expensedomain.Expense) map[string]any {
	payload := map[string]any{
		"id":          e.ID.String(),
		"description": e.Description,
		"amount":      e.Amount,
		"currency":    e.Currency,
		"status":      e.Status,
	}
	if e.ParentExpenseID != nil {
		payload["parent_expense_id"] = e.ParentExpenseID.String()
	}
	if e.ProjectID != nil {
		payload["project_id"] = e.ProjectID.String()
	}
	if e.ExpenseDate != nil {
		payload["expense_date"] = e.ExpenseDate.Format(time.RFC3339)
	}
	if e.Notes != nil {
		payload["notes"] = *e.Notes
	}
	if e.ReceiptURL != nil {
		payload["receipt_url"] = *e.ReceiptURL
	}
	return payload
}

// restorePatch builds the update set from a stored parent payload. Only
// whitelisted fields are applied, null values are dropped.
func restorePatch(parentData map[string]any) map[string]any {
	patch := make(map[string]any, len(domain.RestorableFields))
	for _, field := range domain.RestorableFields {
		value, ok := parentData[field]
		if !ok || value == nil {
			continue
		}
		if field == "expense_date" {
			if raw, ok := value.(string); ok {
				if at, err := time.Parse(time.RFC3339, raw); err == nil {
					patch[field] = at
				}
				continue
			}
		}
		patch[field] = value
	}
	return patch
}
