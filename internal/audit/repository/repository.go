// Package repository implements audit log persistence on gorm.
package repository

import (
	"context"

	"github.com/sitebooks/sitebooks/internal/audit/domain"
	"gorm.io/gorm"
)

type auditRepository struct {
	db *gorm.DB
}

// Provide builds the audit repository.
func Provide(db *gorm.DB) domain.Repository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Insert(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.AuditLog, error) {
	tx := r.db.WithContext(ctx).Model(&domain.AuditLog{})
	if filter.Action != "" {
		tx = tx.Where("action = ?", filter.Action)
	}
	if filter.TargetType != "" {
		tx = tx.Where("target_type = ?", filter.TargetType)
	}
	if filter.TargetID != "" {
		tx = tx.Where("target_id = ?", filter.TargetID)
	}
	if filter.ActorType != "" {
		tx = tx.Where("actor_type = ?", filter.ActorType)
	}
	if filter.StartAt != nil {
		tx = tx.Where("created_at >= ?", *filter.StartAt)
	}
	if filter.EndAt != nil {
		tx = tx.Where("created_at < ?", *filter.EndAt)
	}
	if filter.Cursor != nil {
		tx = tx.Where(
			"(created_at, id) < (?, ?)",
			filter.Cursor.CreatedAt,
			filter.Cursor.ID,
		)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var entries []*domain.AuditLog
	err := tx.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
