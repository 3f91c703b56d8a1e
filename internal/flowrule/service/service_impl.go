package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/sitebooks/sitebooks/internal/clock"
	"github.com/sitebooks/sitebooks/internal/flowrule/domain"
	projectdomain "github.com/sitebooks/sitebooks/internal/project/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	ProjectRepo projectdomain.Repository
}

type Service struct {
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	projectRepo projectdomain.Repository
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:         p.Log.Named("flowrule.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		projectRepo: p.ProjectRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest, actorID string) (*domain.Response, error) {
	action := strings.TrimSpace(req.Action)
	if !domain.ValidAction(action) {
		return nil, domain.ErrInvalidAction
	}

	statusID, err := domain.ParseID(req.StatusID)
	if err != nil {
		return nil, err
	}
	categoryID, err := domain.ParseID(req.CategoryID)
	if err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, statusID, categoryID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	rule := &domain.StatusFlowRule{
		ID:          s.genID.Generate(),
		StatusID:    statusID,
		CategoryID:  categoryID,
		Action:      action,
		Priority:    req.Priority,
		IsActive:    true,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if actorID != "" {
		rule.CreatedBy = &actorID
	}

	if err := s.repo.Insert(ctx, rule); err != nil {
		return nil, err
	}
	return toResponse(rule), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	ruleID, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	rule, err := s.repo.FindByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(rule), nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	filter := domain.ListFilter{IsActive: req.IsActive}
	if raw := strings.TrimSpace(req.StatusID); raw != "" {
		statusID, err := domain.ParseID(raw)
		if err != nil {
			return nil, err
		}
		filter.StatusID = &statusID
	}
	if raw := strings.TrimSpace(req.CategoryID); raw != "" {
		categoryID, err := domain.ParseID(raw)
		if err != nil {
			return nil, err
		}
		filter.CategoryID = &categoryID
	}

	rules, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]domain.Response, 0, len(rules))
	for i := range rules {
		responses = append(responses, *toResponse(&rules[i]))
	}
	return responses, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	ruleID, err := domain.ParseID(req.ID)
	if err != nil {
		return nil, err
	}
	rule, err := s.repo.FindByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, domain.ErrNotFound
	}

	patch := map[string]any{}

	if req.Action != nil {
		action := strings.TrimSpace(*req.Action)
		if !domain.ValidAction(action) {
			return nil, domain.ErrInvalidAction
		}
		patch["action"] = action
	}

	statusID := rule.StatusID
	if req.StatusID != nil {
		statusID, err = domain.ParseID(*req.StatusID)
		if err != nil {
			return nil, err
		}
		patch["status_id"] = statusID
	}

	categoryID := rule.CategoryID
	if req.CategoryID != nil {
		categoryID, err = domain.ParseID(*req.CategoryID)
		if err != nil {
			return nil, err
		}
		patch["category_id"] = categoryID
	}

	if req.StatusID != nil || req.CategoryID != nil {
		if err := s.checkReferences(ctx, statusID, categoryID); err != nil {
			return nil, err
		}
	}

	if req.Priority != nil {
		patch["priority"] = *req.Priority
	}
	if req.IsActive != nil {
		patch["is_active"] = *req.IsActive
	}
	if req.Description != nil {
		patch["description"] = strings.TrimSpace(*req.Description)
	}

	if len(patch) == 0 {
		return toResponse(rule), nil
	}
	patch["updated_at"] = s.clock.Now()

	if _, err := s.repo.Update(ctx, ruleID, patch); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(updated), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ruleID, err := domain.ParseID(id)
	if err != nil {
		return err
	}
	rows, err := s.repo.Delete(ctx, ruleID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) ApplyForStatus(ctx context.Context, projectID, statusID snowflake.ID) (int, error) {
	rules, err := s.repo.FindActiveByStatus(ctx, statusID)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, rule := range rules {
		switch rule.Action {
		case domain.ActionAdd:
			inserted, err := s.projectRepo.AddMembership(ctx, &projectdomain.ProjectCategoryMembership{
				ID:         s.genID.Generate(),
				ProjectID:  projectID,
				CategoryID: rule.CategoryID,
				CreatedAt:  s.clock.Now(),
			})
			if err != nil {
				return applied, err
			}
			if inserted {
				applied++
			}
		case domain.ActionRemove:
			removed, err := s.projectRepo.RemoveMembership(ctx, projectID, rule.CategoryID)
			if err != nil {
				return applied, err
			}
			if removed {
				applied++
			}
		default:
			s.log.Warn("skipping rule with unknown action",
				zap.String("rule_id", rule.ID.String()),
				zap.String("action", rule.Action))
		}
	}
	return applied, nil
}

func (s *Service) checkReferences(ctx context.Context, statusID, categoryID snowflake.ID) error {
	exists, err := s.projectRepo.StatusExists(ctx, statusID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrStatusNotFound
	}

	exists, err = s.projectRepo.CategoryExists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func toResponse(rule *domain.StatusFlowRule) *domain.Response {
	return &domain.Response{
		ID:          rule.ID.String(),
		StatusID:    rule.StatusID.String(),
		CategoryID:  rule.CategoryID.String(),
		Action:      rule.Action,
		Priority:    rule.Priority,
		IsActive:    rule.IsActive,
		Description: rule.Description,
		CreatedBy:   rule.CreatedBy,
		CreatedAt:   rule.CreatedAt,
		UpdatedAt:   rule.UpdatedAt,
	}
}
