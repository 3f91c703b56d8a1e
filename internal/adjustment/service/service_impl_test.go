package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sitebooks/sitebooks/internal/adjustment/domain"
	"github.com/sitebooks/sitebooks/internal/adjustment/repository"
)

func TestApplicableRulesZeroChange(t *testing.T) {
	db := setupAdjustmentTestDB(t)
	svc := newAdjustmentTestService(t, db)

	old := 50.0
	rules := svc.ApplicableRules(context.Background(), 1, domain.DimensionArea, &old, 50)
	if len(rules) != 0 {
		t.Fatalf("expected no rules for unchanged dimension, got %d", len(rules))
	}
}

func TestApplicableRulesPercentageThreshold(t *testing.T) {
	db := setupAdjustmentTestDB(t)
	svc := newAdjustmentTestService(t, db)

	costObjectID := snowflake.ID(11)
	insertRule(t, db, 111, costObjectID, domain.DimensionArea, domain.DirectionBoth, domain.ThresholdPercentage, 15, domain.AdjustPercentage, 10, 100)
	insertRule(t, db, 112, costObjectID, domain.DimensionArea, domain.DirectionBoth, domain.ThresholdPercentage, 25, domain.AdjustPercentage, 20, 200)

	// 100 -> 120 is a 20% increase: past 15, short of 25.
	old := 100.0
	rules := svc.ApplicableRules(context.Background(), costObjectID, domain.DimensionArea, &old, 120)
	if len(rules) != 1 {
		t.Fatalf("expected 1 matching rule, got %d", len(rules))
	}
	if rules[0].ID != 111 {
		t.Fatalf("unexpected rule %v", rules[0].ID)
	}
}

func TestApplicableRulesDirectionFilter(t *testing.T) {
	db := setupAdjustmentTestDB(t)
	svc := newAdjustmentTestService(t, db)

	costObjectID := snowflake.ID(21)
	insertRule(t, db, 211, costObjectID, domain.DimensionVolume, domain.DirectionIncrease, domain.ThresholdPercentage, 5, domain.AdjustPercentage, 10, 100)
	insertRule(t, db, 212, costObjectID, domain.DimensionVolume, domain.DirectionDecrease, domain.ThresholdPercentage, 5, domain.AdjustPercentage, -10, 200)

	old := 40.0
	rules := svc.ApplicableRules(context.Background(), costObjectID, domain.DimensionVolume, &old, 30)
	if len(rules) != 1 {
		t.Fatalf("expected 1 matching rule, got %d", len(rules))
	}
	if rules[0].ID != 212 {
		t.Fatalf("expected decrease rule to match, got %v", rules[0].ID)
	}
}

func TestApplicableRulesNilBaseline(t *testing.T) {
	db := setupAdjustmentTestDB(t)
	svc := newAdjustmentTestService(t, db)

	costObjectID := snowflake.ID(31)
	insertRule(t, db, 311, costObjectID, domain.DimensionHeight, domain.DirectionBoth, domain.ThresholdPercentage, 10, domain.AdjustPercentage, 5, 100)
	insertRule(t, db, 312, costObjectID, domain.DimensionHeight, domain.DirectionBoth, domain.ThresholdAbsolute, 2, domain.AdjustAbsolute, 1, 200)

	// No baseline: percentage change is defined as zero, only the
	// absolute rule can match.
	rules := svc.ApplicableRules(context.Background(), costObjectID, domain.DimensionHeight, nil, 3)
	if len(rules) != 1 {
		t.Fatalf("expected 1 matching rule, got %d", len(rules))
	}
	if rules[0].ID != 312 {
		t.Fatalf("expected absolute rule to match, got %v", rules[0].ID)
	}
}

func TestApplicableRulesPriorityOrder(t *testing.T) {
	db := setupAdjustmentTestDB(t)
	svc := newAdjustmentTestService(t, db)

	costObjectID := snowflake.ID(41)
	insertRule(t, db, 411, costObjectID, domain.DimensionLength, domain.DirectionBoth, domain.ThresholdPercentage, 5, domain.AdjustPercentage, 10, 300)
	insertRule(t, db, 412, costObjectID, domain.DimensionLength, domain.DirectionBoth, domain.ThresholdPercentage, 5, domain.AdjustPercentage, 20, 100)

	old := 10.0
	rules := svc.ApplicableRules(context.Background(), costObjectID, domain.DimensionLength, &old, 20)
	if len(rules) != 2 {
		t.Fatalf("expected 2 matching rules, got %d", len(rules))
	}
	if rules[0].ID != 412 || rules[1].ID != 411 {
		t.Fatalf("expected priority order [412 411], got [%v %v]", rules[0].ID, rules[1].ID)
	}
}

func TestCalculateAdjustmentPercentage(t *testing.T) {
	svc := &Service{log: zap.NewNop()}

	rules := []domain.MaterialAdjustmentRule{
		{AdjustmentType: domain.AdjustPercentage, AdjustmentValue: 10},
	}
	result := svc.CalculateAdjustment(10, 5000, rules)
	if result.Quantity != 11 {
		t.Fatalf("unexpected quantity %v", result.Quantity)
	}
	if result.UnitPrice != 5000 {
		t.Fatalf("unit price must stay untouched, got %v", result.UnitPrice)
	}
	if result.TotalPrice != 55000 {
		t.Fatalf("unexpected total %v", result.TotalPrice)
	}
}

func TestCalculateAdjustmentCompounds(t *testing.T) {
	svc := &Service{log: zap.NewNop()}

	rules := []domain.MaterialAdjustmentRule{
		{AdjustmentType: domain.AdjustPercentage, AdjustmentValue: 10},
		{AdjustmentType: domain.AdjustAbsolute, AdjustmentValue: 4},
	}
	result := svc.CalculateAdjustment(100, 2, rules)
	if result.Quantity != 114 {
		t.Fatalf("unexpected quantity %v", result.Quantity)
	}
	if result.TotalPrice != 228 {
		t.Fatalf("unexpected total %v", result.TotalPrice)
	}
}

func TestCalculateAdjustmentNeverNegative(t *testing.T) {
	svc := &Service{log: zap.NewNop()}

	rules := []domain.MaterialAdjustmentRule{
		{AdjustmentType: domain.AdjustAbsolute, AdjustmentValue: -50},
	}
	result := svc.CalculateAdjustment(10, 100, rules)
	if result.Quantity != 0 {
		t.Fatalf("quantity must clamp at zero, got %v", result.Quantity)
	}
	if result.TotalPrice != 0 {
		t.Fatalf("unexpected total %v", result.TotalPrice)
	}
}

func TestApplyToComponents(t *testing.T) {
	db := setupAdjustmentTestDB(t)
	svc := newAdjustmentTestService(t, db)

	costObjectID := snowflake.ID(51)
	insertRule(t, db, 511, costObjectID, domain.DimensionArea, domain.DirectionIncrease, domain.ThresholdPercentage, 10, domain.AdjustPercentage, 10, 100)

	oldArea, newArea := 100.0, 120.0
	changes := map[domain.DimensionType]domain.DimensionChange{
		domain.DimensionArea: {Old: &oldArea, New: &newArea},
	}
	components := []domain.Component{
		{ID: "linked", CostObjectID: &costObjectID, Quantity: 10, UnitPrice: 5000, TotalPrice: 50000},
		{ID: "free", Quantity: 3, UnitPrice: 100, TotalPrice: 300},
	}

	out := svc.ApplyToComponents(context.Background(), components, changes)
	if len(out) != 2 {
		t.Fatalf("expected 2 components, got %d", len(out))
	}
	if out[0].Quantity != 11 || out[0].TotalPrice != 55000 {
		t.Fatalf("linked component not adjusted: %+v", out[0])
	}
	if out[1].Quantity != 3 || out[1].TotalPrice != 300 {
		t.Fatalf("unlinked component must pass through: %+v", out[1])
	}
}

func newAdjustmentTestService(t *testing.T, db *gorm.DB) domain.Service {
	t.Helper()
	return NewService(ServiceParam{
		Log:  zap.NewNop(),
		Repo: repository.Provide(db),
	})
}

func setupAdjustmentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS material_adjustment_rules (
			id BIGINT PRIMARY KEY,
			cost_object_id BIGINT NOT NULL,
			dimension TEXT NOT NULL,
			direction TEXT NOT NULL DEFAULT 'both',
			threshold_type TEXT NOT NULL,
			threshold_value REAL NOT NULL,
			adjustment_type TEXT NOT NULL,
			adjustment_value REAL NOT NULL,
			priority INTEGER NOT NULL DEFAULT 100,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	).Error; err != nil {
		t.Fatalf("create material_adjustment_rules: %v", err)
	}
	if err := db.Exec(`DELETE FROM material_adjustment_rules`).Error; err != nil {
		t.Fatalf("reset material_adjustment_rules: %v", err)
	}
	return db
}

func insertRule(
	t *testing.T,
	db *gorm.DB,
	id, costObjectID snowflake.ID,
	dimension domain.DimensionType,
	direction domain.ChangeDirection,
	thresholdType domain.ThresholdType,
	thresholdValue float64,
	adjustmentType domain.AdjustmentType,
	adjustmentValue float64,
	priority int,
) {
	t.Helper()
	if err := db.Exec(
		`INSERT INTO material_adjustment_rules
		 (id, cost_object_id, dimension, direction, threshold_type, threshold_value, adjustment_type, adjustment_value, priority, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, TRUE)`,
		id, costObjectID, dimension, direction, thresholdType, thresholdValue, adjustmentType, adjustmentValue, priority,
	).Error; err != nil {
		t.Fatalf("insert rule: %v", err)
	}
}
