package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sitebooks/sitebooks/internal/audit/domain"
	"github.com/sitebooks/sitebooks/internal/auditcontext"
	"github.com/sitebooks/sitebooks/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, actorID, action, targetType string, targetID *string, metadata map[string]any) error {
	entry := &domain.AuditLog{
		ID:         s.genID.Generate(),
		ActorType:  string(domain.ActorTypeSystem),
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   datatypes.JSONMap{},
		CreatedAt:  s.clock.Now(),
	}
	if actorID != "" {
		entry.ActorType = string(domain.ActorTypeUser)
		entry.ActorID = &actorID
	}
	for key, value := range metadata {
		entry.Metadata[key] = value
	}
	if ip := auditcontext.IPAddressFromContext(ctx); ip != "" {
		entry.IPAddress = &ip
	}
	if ua := auditcontext.UserAgentFromContext(ctx); ua != "" {
		entry.UserAgent = &ua
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		s.log.Warn("audit insert failed",
			zap.String("action", action),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]*domain.AuditLog, error) {
	return s.repo.List(ctx, filter)
}
