package service

import (
	"context"
	"errors"
	"strings"

	"portalcms/internal/apperr"
	"portalcms/internal/auth"
	"portalcms/internal/entity"
	"portalcms/internal/model"
	"portalcms/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// UserService handles editorial account management.
type UserService struct {
	repo model.Repository
}

// NewUserService creates a user service instance.
func NewUserService(repo model.Repository) *UserService {
	return &UserService{repo: repo}
}

// sanitizeAllowedSlugs normalises the allowed-category set for a role.
// Unrestricted roles never carry slugs, the tjd role is pinned to its home
// category, and editors must name at least one category.
func sanitizeAllowedSlugs(role entity.Role, slugs []string) (entity.StringArray, error) {
	cleaned := make(entity.StringArray, 0, len(slugs))
	seen := make(map[string]struct{})
	for _, raw := range slugs {
		slug := strings.ToLower(strings.TrimSpace(raw))
		if slug == "" {
			continue
		}
		if !utils.IsValidSlug(slug) {
			return nil, apperr.Validation("INVALID_CATEGORY_SLUG", "Slug de categoria inválido: "+slug)
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		cleaned = append(cleaned, slug)
	}

	switch role {
	case entity.RoleAdmin, entity.RoleSecretaria:
		return nil, nil
	case entity.RoleTJD:
		return entity.StringArray{"tjd"}, nil
	case entity.RoleEditor:
		if len(cleaned) == 0 {
			return nil, apperr.Validation("MISSING_CATEGORIES", "Editor precisa de ao menos uma categoria permitida")
		}
		return cleaned, nil
	default:
		return nil, apperr.Validation("INVALID_ROLE", "Papel de usuário inválido")
	}
}

// CreateUser registers a new account.
func (s *UserService) CreateUser(ctx context.Context, req *entity.UserCreateRequest) (*entity.DbUser, error) {
	role := entity.ParseRole(req.Role)
	if role == "" {
		return nil, apperr.Validation("INVALID_ROLE", "Papel de usuário inválido")
	}

	allowed, err := sanitizeAllowedSlugs(role, req.AllowedCategorySlugs)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &entity.DbUser{
		Name:                 strings.TrimSpace(req.Name),
		Email:                strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:         hash,
		Role:                 role,
		IsActive:             true,
		AllowedCategorySlugs: allowed,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	err = s.repo.Transact(ctx, func(tx model.Repository) error {
		if _, err := tx.GetUserByEmail(ctx, user.Email); err == nil {
			return apperr.Conflict("EMAIL_IN_USE", "E-mail já cadastrado")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Internal(err)
		}
		if err := tx.CreateUser(ctx, user); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user created")
	return user, nil
}

// GetUser loads a single account.
func (s *UserService) GetUser(ctx context.Context, id string) (*entity.DbUser, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("USER_NOT_FOUND", "Usuário não encontrado")
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// ListUsers returns paginated accounts.
func (s *UserService) ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.UserSummary, *entity.Meta, error) {
	params.Normalize()
	users, meta, err := s.repo.ListUsers(ctx, params)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	summaries := make([]entity.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, entity.MakeUserSummary(&users[i]))
	}
	return summaries, meta, nil
}

// UpdateUser applies a partial update to an account.
func (s *UserService) UpdateUser(ctx context.Context, id string, req *entity.UserUpdateRequest) (*entity.DbUser, error) {
	var updated *entity.DbUser
	err := s.repo.Transact(ctx, func(tx model.Repository) error {
		user, err := tx.GetUserByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("USER_NOT_FOUND", "Usuário não encontrado")
			}
			return apperr.Internal(err)
		}

		var updates entity.UserUpdates

		role := user.Role
		if req.Role != nil {
			parsed := entity.ParseRole(*req.Role)
			if parsed == "" {
				return apperr.Validation("INVALID_ROLE", "Papel de usuário inválido")
			}
			role = parsed
			updates.Role = &parsed
		}

		// Role and allowed slugs are validated together: changing one can
		// invalidate the other.
		if req.Role != nil || req.AllowedCategorySlugs != nil {
			source := user.AllowedCategorySlugs.ToSlice()
			if req.AllowedCategorySlugs != nil {
				source = req.AllowedCategorySlugs
			}
			allowed, err := sanitizeAllowedSlugs(role, source)
			if err != nil {
				return err
			}
			if allowed == nil {
				allowed = entity.StringArray{}
			}
			updates.AllowedCategorySlugs = &allowed
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperr.Validation("INVALID_NAME", "Nome não pode ser vazio")
			}
			updates.Name = &name
		}
		if req.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*req.Email))
			if email != user.Email {
				if _, err := tx.GetUserByEmail(ctx, email); err == nil {
					return apperr.Conflict("EMAIL_IN_USE", "E-mail já cadastrado")
				} else if !errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Internal(err)
				}
			}
			updates.Email = &email
		}
		if req.Password != nil {
			if len(*req.Password) < 6 {
				return apperr.Validation("WEAK_PASSWORD", "Senha deve ter ao menos 6 caracteres")
			}
			hash, err := auth.HashPassword(*req.Password)
			if err != nil {
				return apperr.Internal(err)
			}
			updates.PasswordHash = &hash
		}
		if req.IsActive != nil {
			updates.IsActive = req.IsActive
		}

		if err := tx.UpdateUser(ctx, id, updates); err != nil {
			return apperr.Internal(err)
		}

		updated, err = tx.GetUserByID(ctx, id)
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

// DeleteUser removes an account. Accounts that still own posts are kept, so
// authorship references never dangle.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Transact(ctx, func(tx model.Repository) error {
		if _, err := tx.GetUserByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("USER_NOT_FOUND", "Usuário não encontrado")
			}
			return apperr.Internal(err)
		}

		count, err := tx.CountPostsByAuthor(ctx, id)
		if err != nil {
			return apperr.Internal(err)
		}
		if count > 0 {
			return apperr.Conflict("USER_HAS_POSTS", "Usuário possui publicações e não pode ser removido").
				WithDetails(map[string]any{"post_count": count})
		}

		if err := tx.DeleteUser(ctx, id); err != nil {
			return apperr.Internal(err)
		}
		logrus.WithField("user_id", id).Info("user deleted")
		return nil
	})
}
