package api

import (
	"portalcms/internal/entity"

	"github.com/gin-gonic/gin"
)

// ListPosts returns the authenticated post listing, scoped to the categories
// the acting user may see.
func (h *HTTPHandler) ListPosts(c *gin.Context) {
	var params entity.PostQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		InvalidPayload(c, err)
		return
	}

	posts, meta, err := h.postService.ListPosts(c.Request.Context(), CurrentUser(c), &params)
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	Paged(c, posts, meta)
}

// CreatePost creates a post.
func (h *HTTPHandler) CreatePost(c *gin.Context) {
	var req entity.PostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), CurrentUser(c), &req)
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	Created(c, entity.MakePostSummary(post, true))
}

// GetPost returns a single post with its markdown content.
func (h *HTTPHandler) GetPost(c *gin.Context) {
	post, err := h.postService.GetPost(c.Request.Context(), CurrentUser(c), c.Param("id"))
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	Data(c, entity.MakePostSummary(post, true))
}

// UpdatePost applies a partial update to a post.
func (h *HTTPHandler) UpdatePost(c *gin.Context) {
	var req entity.PostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	post, err := h.postService.UpdatePost(c.Request.Context(), CurrentUser(c), c.Param("id"), &req)
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	Data(c, entity.MakePostSummary(post, true))
}

// DeletePost removes a post.
func (h *HTTPHandler) DeletePost(c *gin.Context) {
	if err := h.postService.DeletePost(c.Request.Context(), CurrentUser(c), c.Param("id")); err != nil {
		WriteDomainError(c, err)
		return
	}
	NoContent(c)
}

// PublishPost moves a post to published.
func (h *HTTPHandler) PublishPost(c *gin.Context) {
	post, err := h.postService.PublishPost(c.Request.Context(), CurrentUser(c), c.Param("id"))
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	Data(c, entity.MakePostSummary(post, true))
}

// SchedulePost moves a post to scheduled with a future publication instant.
func (h *HTTPHandler) SchedulePost(c *gin.Context) {
	var req entity.PostScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	post, err := h.postService.SchedulePost(c.Request.Context(), CurrentUser(c), c.Param("id"), &req)
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	Data(c, entity.MakePostSummary(post, true))
}
