package api

import (
	"portalcms/internal/entity"

	"github.com/gin-gonic/gin"
)

// ListUsers returns paginated accounts.
func (h *HTTPHandler) ListUsers(c *gin.Context) {
	var params entity.UserQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		InvalidPayload(c, err)
		return
	}

	users, meta, err := h.userService.ListUsers(c.Request.Context(), &params)
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	Paged(c, users, meta)
}

// CreateUser registers a new account.
func (h *HTTPHandler) CreateUser(c *gin.Context) {
	var req entity.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	Created(c, entity.MakeUserSummary(user))
}

// GetUser returns a single account.
func (h *HTTPHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	Data(c, entity.MakeUserSummary(user))
}

// UpdateUser applies a partial update to an account.
func (h *HTTPHandler) UpdateUser(c *gin.Context) {
	var req entity.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	Data(c, entity.MakeUserSummary(user))
}

// DeleteUser removes an account.
func (h *HTTPHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		WriteDomainError(c, err)
		return
	}
	NoContent(c)
}
