package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	projectdomain "github.com/sitebooks/sitebooks/internal/project/domain"
)

type statusSeed struct {
	Name      string
	Code      string
	SortOrder int
}

type categorySeed struct {
	Name string
	Code string
}

var defaultStatuses = []statusSeed{
	{Name: "Draft", Code: "draft", SortOrder: 10},
	{Name: "Quoting", Code: "quoting", SortOrder: 20},
	{Name: "In Progress", Code: "in_progress", SortOrder: 30},
	{Name: "Completed", Code: "completed", SortOrder: 40},
	{Name: "Closed", Code: "closed", SortOrder: 50},
}

var defaultCategories = []categorySeed{
	{Name: "Materials", Code: "materials"},
	{Name: "Labor", Code: "labor"},
	{Name: "Equipment", Code: "equipment"},
	{Name: "Overhead", Code: "overhead"},
}

// EnsureDefaults seeds the baseline project statuses and expense categories
// for startup bootstrap. Existing rows are left untouched.
func EnsureDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureStatusesTx(ctx, tx, node); err != nil {
			return err
		}
		return ensureCategoriesTx(ctx, tx, node)
	})
}

func ensureStatusesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	for _, s := range defaultStatuses {
		var existing projectdomain.ProjectStatus
		err := tx.WithContext(ctx).Where("code = ?", s.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		status := projectdomain.ProjectStatus{
			ID:        node.Generate(),
			Name:      s.Name,
			Code:      s.Code,
			SortOrder: s.SortOrder,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.WithContext(ctx).Create(&status).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureCategoriesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	for _, c := range defaultCategories {
		var existing projectdomain.ExpenseCategory
		err := tx.WithContext(ctx).Where("code = ?", c.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		category := projectdomain.ExpenseCategory{
			ID:        node.Generate(),
			Name:      c.Name,
			Code:      c.Code,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.WithContext(ctx).Create(&category).Error; err != nil {
			return err
		}
	}
	return nil
}
