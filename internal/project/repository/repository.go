// Package repository implements project persistence on gorm.
package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sitebooks/sitebooks/internal/project/domain"
	pkgrepo "github.com/sitebooks/sitebooks/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type projectRepository struct {
	db          *gorm.DB
	projects    pkgrepo.Repository[domain.Project]
	statuses    pkgrepo.Repository[domain.ProjectStatus]
	categories  pkgrepo.Repository[domain.ExpenseCategory]
	memberships pkgrepo.Repository[domain.ProjectCategoryMembership]
}

// Provide builds the project repository.
func Provide(db *gorm.DB) domain.Repository {
	return &projectRepository{
		db:          db,
		projects:    pkgrepo.ProvideStore[domain.Project](db),
		statuses:    pkgrepo.ProvideStore[domain.ProjectStatus](db),
		categories:  pkgrepo.ProvideStore[domain.ExpenseCategory](db),
		memberships: pkgrepo.ProvideStore[domain.ProjectCategoryMembership](db),
	}
}

func (r *projectRepository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Project, error) {
	return r.projects.FindOne(ctx, map[string]any{"id": id})
}

func (r *projectRepository) UpdateStatus(ctx context.Context, id, statusID snowflake.ID, at time.Time) (int64, error) {
	return r.projects.Update(ctx,
		map[string]any{"id": id},
		map[string]any{"status_id": statusID, "updated_at": at},
	)
}

func (r *projectRepository) StatusExists(ctx context.Context, id snowflake.ID) (bool, error) {
	row, err := r.statuses.FindOne(ctx, map[string]any{"id": id})
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

func (r *projectRepository) CategoryExists(ctx context.Context, id snowflake.ID) (bool, error) {
	row, err := r.categories.FindOne(ctx, map[string]any{"id": id})
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

func (r *projectRepository) AddMembership(ctx context.Context, m *domain.ProjectCategoryMembership) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(m)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *projectRepository) RemoveMembership(ctx context.Context, projectID, categoryID snowflake.ID) (bool, error) {
	rows, err := r.memberships.Delete(ctx, map[string]any{
		"project_id":  projectID,
		"category_id": categoryID,
	})
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *projectRepository) ListMemberships(ctx context.Context, projectID snowflake.ID) ([]domain.ProjectCategoryMembership, error) {
	return r.memberships.Find(ctx,
		map[string]any{"project_id": projectID},
		pkgrepo.OrderBy("created_at ASC, id ASC"),
	)
}
