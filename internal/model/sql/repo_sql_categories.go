package sql

import (
	"context"
	"fmt"
	"strings"

	"portalcms/internal/entity"

	"gorm.io/gorm"
)

// CreateCategory persists a new category record.
func (r *GormRepository) CreateCategory(ctx context.Context, category *entity.DbCategory) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if category == nil {
		return fmt.Errorf("category is nil")
	}
	return r.db.WithContext(ctx).Create(category).Error
}

// GetCategoryByIDOrSlug loads a category by primary key or slug.
func (r *GormRepository) GetCategoryByIDOrSlug(ctx context.Context, identifier string) (*entity.DbCategory, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var category entity.DbCategory
	if err := r.db.WithContext(ctx).Where("id = ? OR slug = ?", trimmed, trimmed).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CategoryNameExists checks name uniqueness, optionally excluding a record.
func (r *GormRepository) CategoryNameExists(ctx context.Context, name, excludeID string) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repository not initialised")
	}
	query := r.db.WithContext(ctx).Model(&entity.DbCategory{}).Where("name = ?", name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CategorySlugExists checks slug uniqueness, optionally excluding a record.
func (r *GormRepository) CategorySlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repository not initialised")
	}
	query := r.db.WithContext(ctx).Model(&entity.DbCategory{}).Where("slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListCategories returns paginated categories sorted by name.
func (r *GormRepository) ListCategories(ctx context.Context, params *entity.CategoryQuery) ([]entity.DbCategory, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbCategory{})
	base := entity.BaseParams{}
	if params != nil {
		base = params.BaseParams
		if !params.IncludeInactive {
			query = query.Where("is_active = ?", true)
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(slug) LIKE ?", kw, kw)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset, limit := pageBounds(base)
	var categories []entity.DbCategory
	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&categories).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, base.Page, base.PageSize)
	return categories, meta, nil
}

// ListAllCategories returns every category. The table is small; the result
// feeds the permission scope resolution.
func (r *GormRepository) ListAllCategories(ctx context.Context) ([]entity.DbCategory, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var categories []entity.DbCategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateCategory applies staged updates to an existing category.
func (r *GormRepository) UpdateCategory(ctx context.Context, id string, updates entity.CategoryUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return gorm.ErrRecordNotFound
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbCategory{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// DeleteCategory removes a category by ID.
func (r *GormRepository) DeleteCategory(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return gorm.ErrRecordNotFound
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.DbCategory{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
