package sql

import (
	"context"

	"portalcms/internal/entity"
	"portalcms/internal/model"

	"gorm.io/gorm"
)

// GormRepository implements model.Repository using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Transact runs fn in a single database transaction.
func (r *GormRepository) Transact(ctx context.Context, fn func(model.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

// calculatePagination calculates pagination metrics.
func (r *GormRepository) calculatePagination(totalCount, page, pageSize int64) *entity.Meta {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	return &entity.Meta{
		Total:    totalCount,
		Page:     page,
		PageSize: pageSize,
	}
}

func pageBounds(params entity.BaseParams) (offset, limit int) {
	page := params.Page
	pageSize := params.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return int((page - 1) * pageSize), int(pageSize)
}

var _ model.Repository = (*GormRepository)(nil)
