package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sitebooks/sitebooks/internal/adjustment/domain"
	"github.com/sitebooks/sitebooks/internal/cache"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ruleCacheTTL bounds staleness of hot-path rule lookups.
const ruleCacheTTL = 30 * time.Second

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	Repo  domain.Repository
	Cache cache.Cache[string, []domain.MaterialAdjustmentRule] `optional:"true"`
}

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	cache cache.Cache[string, []domain.MaterialAdjustmentRule]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:   p.Log.Named("adjustment.service"),
		repo:  p.Repo,
		cache: p.Cache,
	}
}

func (s *Service) ApplicableRules(ctx context.Context, costObjectID snowflake.ID, dimension domain.DimensionType, oldValue *float64, newValue float64) []domain.MaterialAdjustmentRule {
	var old float64
	if oldValue != nil {
		old = *oldValue
	}

	changeAbsolute := newValue - old
	if changeAbsolute == 0 {
		return []domain.MaterialAdjustmentRule{}
	}

	// Guard divide-by-zero: an absent or zero baseline yields a zero
	// percentage so only absolute thresholds can match.
	var changePercentage float64
	if old != 0 {
		changePercentage = changeAbsolute / old * 100
	}

	direction := domain.DirectionIncrease
	if changeAbsolute < 0 {
		direction = domain.DirectionDecrease
	}

	rules, err := s.loadRules(ctx, costObjectID, dimension)
	if err != nil {
		s.log.Warn("rule lookup failed, falling back to no adjustment",
			zap.String("cost_object_id", costObjectID.String()),
			zap.String("dimension", string(dimension)),
			zap.Error(err))
		return []domain.MaterialAdjustmentRule{}
	}

	matched := make([]domain.MaterialAdjustmentRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Direction != domain.DirectionBoth && rule.Direction != direction {
			continue
		}
		switch rule.ThresholdType {
		case domain.ThresholdPercentage:
			if math.Abs(changePercentage) < math.Abs(rule.ThresholdValue) {
				continue
			}
		case domain.ThresholdAbsolute:
			if math.Abs(changeAbsolute) < math.Abs(rule.ThresholdValue) {
				continue
			}
		default:
			continue
		}
		matched = append(matched, rule)
	}
	return matched
}

func (s *Service) CalculateAdjustment(quantity, unitPrice float64, rules []domain.MaterialAdjustmentRule) domain.Adjustment {
	adjusted := quantity
	for _, rule := range rules {
		switch rule.AdjustmentType {
		case domain.AdjustPercentage:
			adjusted *= 1 + rule.AdjustmentValue/100
		case domain.AdjustAbsolute:
			adjusted += rule.AdjustmentValue
		}
	}
	if adjusted < 0 {
		adjusted = 0
	}

	// Unit price is reserved for future business logic; this engine
	// adjusts quantity only.
	return domain.Adjustment{
		Quantity:   adjusted,
		UnitPrice:  unitPrice,
		TotalPrice: adjusted * unitPrice,
	}
}

func (s *Service) ApplyToComponents(ctx context.Context, components []domain.Component, changes map[domain.DimensionType]domain.DimensionChange) []domain.Component {
	// Dimensions are visited in sorted name order so the cross-dimension
	// batch order is deterministic. Within each dimension the rules stay
	// priority-sorted.
	dimensions := make([]domain.DimensionType, 0, len(changes))
	for dimension, change := range changes {
		if change.New == nil {
			continue
		}
		dimensions = append(dimensions, dimension)
	}
	sort.Slice(dimensions, func(i, j int) bool { return dimensions[i] < dimensions[j] })

	out := make([]domain.Component, len(components))
	for i, component := range components {
		out[i] = component
		if component.CostObjectID == nil {
			continue
		}

		var matched []domain.MaterialAdjustmentRule
		for _, dimension := range dimensions {
			change := changes[dimension]
			matched = append(matched, s.ApplicableRules(ctx, *component.CostObjectID, dimension, change.Old, *change.New)...)
		}
		if len(matched) == 0 {
			continue
		}

		adjusted := s.CalculateAdjustment(component.Quantity, component.UnitPrice, matched)
		out[i].Quantity = adjusted.Quantity
		out[i].UnitPrice = adjusted.UnitPrice
		out[i].TotalPrice = adjusted.TotalPrice
	}
	return out
}

func (s *Service) loadRules(ctx context.Context, costObjectID snowflake.ID, dimension domain.DimensionType) ([]domain.MaterialAdjustmentRule, error) {
	key := costObjectID.String() + ":" + string(dimension)
	if s.cache != nil {
		if rules, ok := s.cache.Get(key); ok {
			return rules, nil
		}
	}

	rules, err := s.repo.FindActive(ctx, costObjectID, dimension)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(key, rules, ruleCacheTTL)
	}
	return rules, nil
}
