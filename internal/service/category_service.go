package service

import (
	"context"
	"errors"
	"strings"

	"portalcms/internal/apperr"
	"portalcms/internal/entity"
	"portalcms/internal/model"
	"portalcms/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CategoryService handles category management.
type CategoryService struct {
	repo model.Repository
}

// NewCategoryService creates a category service instance.
func NewCategoryService(repo model.Repository) *CategoryService {
	return &CategoryService{repo: repo}
}

// normalizeAllowedRoles validates the roles a category grants access to.
func normalizeAllowedRoles(roles []string) (entity.StringArray, error) {
	cleaned := make(entity.StringArray, 0, len(roles))
	seen := make(map[entity.Role]struct{})
	for _, raw := range roles {
		role := entity.ParseRole(raw)
		if role == "" {
			return nil, apperr.Validation("INVALID_ROLE", "Papel de usuário inválido: "+raw)
		}
		if _, dup := seen[role]; dup {
			continue
		}
		seen[role] = struct{}{}
		cleaned = append(cleaned, string(role))
	}
	return cleaned, nil
}

func resolveSlug(explicit, name string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(explicit))
	if slug == "" {
		slug = utils.Slugify(name)
	}
	if !utils.IsValidSlug(slug) {
		return "", apperr.Validation("INVALID_SLUG", "Slug inválido")
	}
	return slug, nil
}

// CreateCategory registers a new category.
func (s *CategoryService) CreateCategory(ctx context.Context, req *entity.CategoryCreateRequest) (*entity.DbCategory, error) {
	name := strings.TrimSpace(req.Name)
	slug, err := resolveSlug(req.Slug, name)
	if err != nil {
		return nil, err
	}
	allowedRoles, err := normalizeAllowedRoles(req.AllowedRoles)
	if err != nil {
		return nil, err
	}

	category := &entity.DbCategory{
		Name:         name,
		Slug:         slug,
		Description:  strings.TrimSpace(req.Description),
		IsActive:     true,
		AllowedRoles: allowedRoles,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	err = s.repo.Transact(ctx, func(tx model.Repository) error {
		if taken, err := tx.CategoryNameExists(ctx, name, ""); err != nil {
			return apperr.Internal(err)
		} else if taken {
			return apperr.Conflict("CATEGORY_NAME_IN_USE", "Já existe uma categoria com este nome")
		}
		if taken, err := tx.CategorySlugExists(ctx, slug, ""); err != nil {
			return apperr.Internal(err)
		} else if taken {
			return apperr.Conflict("CATEGORY_SLUG_IN_USE", "Já existe uma categoria com este slug")
		}
		if err := tx.CreateCategory(ctx, category); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"category_id": category.ID, "slug": category.Slug}).Info("category created")
	return category, nil
}

// GetCategory loads a category by ID or slug.
func (s *CategoryService) GetCategory(ctx context.Context, identifier string) (*entity.DbCategory, error) {
	category, err := s.repo.GetCategoryByIDOrSlug(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("CATEGORY_NOT_FOUND", "Categoria não encontrada")
		}
		return nil, apperr.Internal(err)
	}
	return category, nil
}

// ListCategories returns paginated categories.
func (s *CategoryService) ListCategories(ctx context.Context, params *entity.CategoryQuery) ([]entity.DbCategory, *entity.Meta, error) {
	params.Normalize()
	categories, meta, err := s.repo.ListCategories(ctx, params)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	return categories, meta, nil
}

// UpdateCategory applies a partial update to a category.
func (s *CategoryService) UpdateCategory(ctx context.Context, identifier string, req *entity.CategoryUpdateRequest) (*entity.DbCategory, error) {
	var updated *entity.DbCategory
	err := s.repo.Transact(ctx, func(tx model.Repository) error {
		category, err := tx.GetCategoryByIDOrSlug(ctx, identifier)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("CATEGORY_NOT_FOUND", "Categoria não encontrada")
			}
			return apperr.Internal(err)
		}

		var updates entity.CategoryUpdates

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperr.Validation("INVALID_NAME", "Nome não pode ser vazio")
			}
			if name != category.Name {
				if taken, err := tx.CategoryNameExists(ctx, name, category.ID); err != nil {
					return apperr.Internal(err)
				} else if taken {
					return apperr.Conflict("CATEGORY_NAME_IN_USE", "Já existe uma categoria com este nome")
				}
			}
			updates.Name = &name
		}
		if req.Slug != nil {
			slug := strings.ToLower(strings.TrimSpace(*req.Slug))
			if !utils.IsValidSlug(slug) {
				return apperr.Validation("INVALID_SLUG", "Slug inválido")
			}
			if slug != category.Slug {
				if taken, err := tx.CategorySlugExists(ctx, slug, category.ID); err != nil {
					return apperr.Internal(err)
				} else if taken {
					return apperr.Conflict("CATEGORY_SLUG_IN_USE", "Já existe uma categoria com este slug")
				}
			}
			updates.Slug = &slug
		}
		if req.Description != nil {
			description := strings.TrimSpace(*req.Description)
			updates.Description = &description
		}
		if req.IsActive != nil {
			updates.IsActive = req.IsActive
		}
		if req.AllowedRoles != nil {
			allowedRoles, err := normalizeAllowedRoles(req.AllowedRoles)
			if err != nil {
				return err
			}
			updates.AllowedRoles = &allowedRoles
		}

		if err := tx.UpdateCategory(ctx, category.ID, updates); err != nil {
			return apperr.Internal(err)
		}

		updated, err = tx.GetCategoryByIDOrSlug(ctx, category.ID)
		if err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCategory removes a category. Categories still holding posts are kept,
// so posts never lose their category.
func (s *CategoryService) DeleteCategory(ctx context.Context, identifier string) error {
	return s.repo.Transact(ctx, func(tx model.Repository) error {
		category, err := tx.GetCategoryByIDOrSlug(ctx, identifier)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("CATEGORY_NOT_FOUND", "Categoria não encontrada")
			}
			return apperr.Internal(err)
		}

		count, err := tx.CountPostsByCategory(ctx, category.ID)
		if err != nil {
			return apperr.Internal(err)
		}
		if count > 0 {
			return apperr.Conflict("CATEGORY_HAS_POSTS", "Categoria possui publicações e não pode ser removida").
				WithDetails(map[string]any{"post_count": count})
		}

		if err := tx.DeleteCategory(ctx, category.ID); err != nil {
			return apperr.Internal(err)
		}
		logrus.WithField("category_id", category.ID).Info("category deleted")
		return nil
	})
}
