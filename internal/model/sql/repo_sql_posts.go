package sql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portalcms/internal/entity"

	"gorm.io/gorm"
)

// sortColumns whitelists the sortable post fields. Unrecognised fields fall
// back to created_at, unrecognised directions to desc.
var sortColumns = map[string]string{
	"created_at":   "posts.created_at",
	"published_at": "posts.published_at",
	"title":        "posts.title",
}

func parseOrder(order, defaultField string) string {
	field := defaultField
	direction := "desc"

	trimmed := strings.TrimSpace(order)
	if trimmed != "" {
		rawField := trimmed
		rawDir := "desc"
		if idx := strings.Index(trimmed, ":"); idx >= 0 {
			rawField = trimmed[:idx]
			rawDir = trimmed[idx+1:]
		}
		if _, ok := sortColumns[rawField]; ok {
			field = rawField
		}
		if rawDir == "asc" || rawDir == "desc" {
			direction = rawDir
		}
	}

	return fmt.Sprintf("%s %s", sortColumns[field], strings.ToUpper(direction))
}

// CreatePost persists a new post record.
func (r *GormRepository) CreatePost(ctx context.Context, post *entity.DbPost) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if post == nil {
		return fmt.Errorf("post is nil")
	}
	return r.db.WithContext(ctx).Create(post).Error
}

// GetPostByIDOrSlug loads a post with its category and author.
func (r *GormRepository) GetPostByIDOrSlug(ctx context.Context, identifier string) (*entity.DbPost, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var post entity.DbPost
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Author").
		Where("id = ? OR slug = ?", trimmed, trimmed).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// PostSlugExists checks slug uniqueness, optionally excluding a record.
func (r *GormRepository) PostSlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repository not initialised")
	}
	query := r.db.WithContext(ctx).Model(&entity.DbPost{}).Where("slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListPosts returns paginated posts for authenticated listings. The query
// composes the caller-provided filters with the category scope derived from
// the requesting user's role.
func (r *GormRepository) ListPosts(ctx context.Context, params *entity.PostQuery) ([]entity.DbPost, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}
	if params == nil {
		params = &entity.PostQuery{}
	}

	query := r.db.WithContext(ctx).Model(&entity.DbPost{}).
		Joins("JOIN categories ON categories.id = posts.category_id")

	if status := strings.TrimSpace(params.Status); status != "" {
		query = query.Where("posts.status = ?", status)
	}
	if category := strings.TrimSpace(params.Category); category != "" {
		query = query.Where("categories.slug = ? OR categories.id = ?", category, category)
	}
	if author := strings.TrimSpace(params.Author); author != "" {
		query = query.Where("posts.author_id = ?", author)
	}
	if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
		kw := "%" + strings.ToLower(keyword) + "%"
		query = query.Where(
			"LOWER(posts.title) LIKE ? OR LOWER(posts.excerpt) LIKE ? OR LOWER(categories.name) LIKE ? OR LOWER(categories.slug) LIKE ?",
			kw, kw, kw, kw,
		)
	}

	// An empty restricted scope must match nothing, never everything.
	if !params.Scope.All {
		if len(params.Scope.Slugs) == 0 {
			query = query.Where("1 = 0")
		} else {
			query = query.Where("categories.slug IN ?", params.Scope.Slugs)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset, limit := pageBounds(params.BaseParams)
	var posts []entity.DbPost
	err := query.
		Preload("Category").
		Preload("Author").
		Order(parseOrder(params.Order, "created_at")).
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, params.Page, params.PageSize)
	return posts, meta, nil
}

// ListPublicPosts returns the anonymous feed: published posts whose
// publication date is absent or due, in active categories only.
func (r *GormRepository) ListPublicPosts(ctx context.Context, params *entity.PublicPostQuery, now time.Time) ([]entity.DbPost, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}
	if params == nil {
		params = &entity.PublicPostQuery{}
	}

	query := r.db.WithContext(ctx).Model(&entity.DbPost{}).
		Joins("JOIN categories ON categories.id = posts.category_id").
		Where("posts.status = ?", entity.PostStatusPublished).
		Where("posts.published_at IS NULL OR posts.published_at <= ?", now.UTC()).
		Where("categories.is_active = ?", true)

	if slug := strings.TrimSpace(params.CategorySlug); slug != "" {
		query = query.Where("categories.slug = ?", slug)
	}
	if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
		kw := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("LOWER(posts.title) LIKE ? OR LOWER(posts.excerpt) LIKE ?", kw, kw)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset, limit := pageBounds(params.BaseParams)
	var posts []entity.DbPost
	err := query.
		Preload("Category").
		Preload("Author").
		Order(parseOrder(params.Order, "published_at")).
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, params.Page, params.PageSize)
	return posts, meta, nil
}

// GetPublicPostBySlug loads a post only if it is publicly visible.
func (r *GormRepository) GetPublicPostBySlug(ctx context.Context, slug string, now time.Time) (*entity.DbPost, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var post entity.DbPost
	err := r.db.WithContext(ctx).
		Joins("JOIN categories ON categories.id = posts.category_id").
		Where("posts.slug = ?", trimmed).
		Where("posts.status = ?", entity.PostStatusPublished).
		Where("posts.published_at IS NULL OR posts.published_at <= ?", now.UTC()).
		Where("categories.is_active = ?", true).
		Preload("Category").
		Preload("Author").
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// SavePost writes back a fully staged post record.
func (r *GormRepository) SavePost(ctx context.Context, post *entity.DbPost) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if post == nil || strings.TrimSpace(post.ID) == "" {
		return fmt.Errorf("post is not persisted")
	}
	return r.db.WithContext(ctx).Omit("Category", "Author").Save(post).Error
}

// DeletePost removes a post permanently.
func (r *GormRepository) DeletePost(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return gorm.ErrRecordNotFound
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.DbPost{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountPostsByCategory counts the posts referencing a category.
func (r *GormRepository) CountPostsByCategory(ctx context.Context, categoryID string) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.DbPost{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// CountPostsByAuthor counts the posts authored by a user.
func (r *GormRepository) CountPostsByAuthor(ctx context.Context, authorID string) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.DbPost{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// PublishDueScheduledPosts flips scheduled posts whose publication date has
// arrived to published, keeping the timestamp. Runs as a single statement so
// concurrent scheduler ticks stay consistent.
func (r *GormRepository) PublishDueScheduledPosts(ctx context.Context, now time.Time) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	result := r.db.WithContext(ctx).Model(&entity.DbPost{}).
		Where("status = ?", entity.PostStatusScheduled).
		Where("published_at IS NOT NULL AND published_at <= ?", now.UTC()).
		Update("status", entity.PostStatusPublished)
	return result.RowsAffected, result.Error
}
