package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"portalcms/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const currentUserContextKey = "current-user"

// AuthMiddleware validates the bearer token and loads the full account into
// the request context. The permission engine works off the stored record, not
// the token claims, so role or status changes take effect immediately.
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			AbortWithError(c, http.StatusUnauthorized, "MISSING_TOKEN", "Cabeçalho de autorização ausente")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			AbortWithError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Formato de autorização inválido")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			AbortWithError(c, http.StatusUnauthorized, "MISSING_TOKEN", "Token ausente")
			return
		}

		claims, err := h.authManager.ParseToken(tokenString)
		if err != nil {
			logrus.WithError(err).Warn("failed to parse jwt token")
			AbortWithError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Token inválido ou expirado")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := h.repo.GetUserByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				AbortWithError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Sessão inválida")
				return
			}
			logrus.WithError(err).WithField("user_id", claims.UserID).Error("failed to load user")
			AbortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Erro interno do servidor")
			return
		}

		if !user.IsActive {
			AbortWithError(c, http.StatusForbidden, "USER_INACTIVE", "Usuário inativo")
			return
		}

		c.Set(currentUserContextKey, user)
		c.Next()
	}
}

// RequireManager guards routes reserved for the administrative roles.
func (h *HTTPHandler) RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.HasFullAccess() {
			AbortWithError(c, http.StatusForbidden, "FORBIDDEN", "Usuário sem permissão para esta operação")
			return
		}
		c.Next()
	}
}

// CurrentUser fetches the authenticated account from the request context.
func CurrentUser(c *gin.Context) *entity.DbUser {
	value, exists := c.Get(currentUserContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*entity.DbUser)
	if !ok {
		return nil
	}
	return user
}
