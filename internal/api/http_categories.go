package api

import (
	"portalcms/internal/entity"

	"github.com/gin-gonic/gin"
)

// ListCategories returns paginated categories.
func (h *HTTPHandler) ListCategories(c *gin.Context) {
	var params entity.CategoryQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		InvalidPayload(c, err)
		return
	}

	categories, meta, err := h.categoryService.ListCategories(c.Request.Context(), &params)
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	Paged(c, categories, meta)
}

// GetCategory returns a category by ID or slug.
func (h *HTTPHandler) GetCategory(c *gin.Context) {
	category, err := h.categoryService.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	Data(c, category)
}

// CreateCategory registers a new category.
func (h *HTTPHandler) CreateCategory(c *gin.Context) {
	var req entity.CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	Created(c, category)
}

// UpdateCategory applies a partial update to a category.
func (h *HTTPHandler) UpdateCategory(c *gin.Context) {
	var req entity.CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	Data(c, category)
}

// DeleteCategory removes a category without posts.
func (h *HTTPHandler) DeleteCategory(c *gin.Context) {
	if err := h.categoryService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		WriteDomainError(c, err)
		return
	}
	NoContent(c)
}
