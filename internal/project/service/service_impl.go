package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sitebooks/sitebooks/internal/clock"
	"github.com/sitebooks/sitebooks/internal/events"
	flowruledomain "github.com/sitebooks/sitebooks/internal/flowrule/domain"
	"github.com/sitebooks/sitebooks/internal/project/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock
	Repo    domain.Repository
	Rules   flowruledomain.Service
	Outbox  *events.Outbox `optional:"true"`
}

type Service struct {
	log    *zap.Logger
	clock  clock.Clock
	repo   domain.Repository
	rules  flowruledomain.Service
	outbox *events.Outbox
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:    p.Log.Named("project.service"),
		clock:  p.Clock,
		repo:   p.Repo,
		rules:  p.Rules,
		outbox: p.Outbox,
	}
}

func (s *Service) ChangeStatus(ctx context.Context, projectID, statusID snowflake.ID, actorID string) (*domain.StatusChangeResult, error) {
	project, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrProjectNotFound
	}

	exists, err := s.repo.StatusExists(ctx, statusID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrStatusNotFound
	}

	prevStatusID := project.StatusID
	if _, err := s.repo.UpdateStatus(ctx, projectID, statusID, s.clock.Now()); err != nil {
		return nil, err
	}

	applied, err := s.rules.ApplyForStatus(ctx, projectID, statusID)
	if err != nil {
		// The transition itself stands; rule application is reported but
		// the membership state may be partial.
		s.log.Warn("flow rule application failed",
			zap.String("project_id", projectID.String()),
			zap.String("status_id", statusID.String()),
			zap.Error(err))
	}

	if s.outbox != nil {
		payload := events.StatusChangedPayload{
			ProjectID:    projectID.String(),
			StatusID:     statusID.String(),
			PrevStatusID: prevStatusID.String(),
			ActorID:      actorID,
		}
		_ = s.outbox.Publish(ctx, events.Event{
			Type:    events.EventProjectStatusChanged,
			Payload: payload.ToMap(),
		})
	}

	return &domain.StatusChangeResult{
		ProjectID:    projectID.String(),
		StatusID:     statusID.String(),
		PrevStatusID: prevStatusID.String(),
		RulesApplied: applied,
	}, nil
}
