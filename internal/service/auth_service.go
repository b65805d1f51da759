package service

import (
	"context"
	"errors"

	"portalcms/internal/apperr"
	"portalcms/internal/auth"
	"portalcms/internal/entity"
	"portalcms/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthService handles credential checks and token issuance.
type AuthService struct {
	repo model.Repository
	jwt  *auth.Manager
}

// NewAuthService creates an auth service instance.
func NewAuthService(repo model.Repository, jwtManager *auth.Manager) *AuthService {
	return &AuthService{repo: repo, jwt: jwtManager}
}

// Login verifies the credentials and issues a token. Unknown emails and wrong
// passwords produce the same error so callers cannot probe for accounts.
func (s *AuthService) Login(ctx context.Context, req *entity.AuthLoginRequest) (*entity.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("INVALID_CREDENTIALS", "Credenciais inválidas")
		}
		return nil, apperr.Internal(err)
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		return nil, apperr.Unauthorized("INVALID_CREDENTIALS", "Credenciais inválidas")
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("USER_INACTIVE", "Usuário inativo")
	}

	token, expiresAt, err := s.jwt.GenerateToken(user)
	if err != nil {
		logrus.WithError(err).Error("token generation failed")
		return nil, apperr.Internal(err)
	}

	return &entity.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      entity.MakeUserSummary(user),
	}, nil
}

// CurrentUser loads the account behind a validated token.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*entity.DbUser, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("INVALID_TOKEN", "Sessão inválida")
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}
