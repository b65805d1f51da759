package api

import (
	"net/http"

	"portalcms/internal/entity"

	"github.com/gin-gonic/gin"
)

// Login authenticates with email and password and returns a bearer token.
func (h *HTTPHandler) Login(c *gin.Context) {
	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	Data(c, resp)
}

// Me returns the account behind the current token.
func (h *HTTPHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		AbortWithError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Sessão inválida")
		return
	}
	Data(c, entity.MakeUserSummary(user))
}
