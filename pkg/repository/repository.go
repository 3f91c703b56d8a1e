// Package repository provides a generic gorm-backed store used by the
// domain services for simple filter-based access.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Option mutates a query before execution (ordering, limits).
type Option func(*gorm.DB) *gorm.DB

// OrderBy applies an ORDER BY expression.
func OrderBy(expr string) Option {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Order(expr)
	}
}

// Limit caps the number of returned rows.
func Limit(n int) Option {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Limit(n)
	}
}

// Repository exposes the minimal persistence primitives the domain
// services compose: equality-filtered finds, inserts and patches.
type Repository[T any] interface {
	Find(ctx context.Context, filters map[string]any, opts ...Option) ([]T, error)
	FindOne(ctx context.Context, filters map[string]any, opts ...Option) (*T, error)
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, filters map[string]any, patch map[string]any) (int64, error)
	Delete(ctx context.Context, filters map[string]any) (int64, error)
}

type store[T any] struct {
	db *gorm.DB
}

// ProvideStore builds a Repository bound to the given connection.
func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (s *store[T]) query(ctx context.Context, filters map[string]any, opts ...Option) *gorm.DB {
	var model T
	tx := s.db.WithContext(ctx).Model(&model)
	if len(filters) > 0 {
		tx = tx.Where(filters)
	}
	for _, opt := range opts {
		tx = opt(tx)
	}
	return tx
}

func (s *store[T]) Find(ctx context.Context, filters map[string]any, opts ...Option) ([]T, error) {
	var rows []T
	if err := s.query(ctx, filters, opts...).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *store[T]) FindOne(ctx context.Context, filters map[string]any, opts ...Option) (*T, error) {
	var row T
	err := s.query(ctx, filters, opts...).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *store[T]) Create(ctx context.Context, record *T) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *store[T]) Update(ctx context.Context, filters map[string]any, patch map[string]any) (int64, error) {
	var model T
	result := s.db.WithContext(ctx).Model(&model).Where(filters).Updates(patch)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (s *store[T]) Delete(ctx context.Context, filters map[string]any) (int64, error) {
	var model T
	result := s.db.WithContext(ctx).Where(filters).Delete(&model)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
