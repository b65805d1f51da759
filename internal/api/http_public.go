package api

import (
	"encoding/json"
	"net/http"

	"portalcms/internal/entity"

	"github.com/gin-gonic/gin"
)

type publicFeedPayload struct {
	Data     []entity.PostSummary `json:"data"`
	Page     int64                `json:"page"`
	PageSize int64                `json:"page_size"`
	Total    int64                `json:"total"`
}

// PublicFeed serves the anonymous feed. Responses are cached briefly under
// the full query string; the cache degrades to a miss when Redis is away.
func (h *HTTPHandler) PublicFeed(c *gin.Context) {
	var params entity.PublicPostQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		InvalidPayload(c, err)
		return
	}

	cacheKey := "public:feed:" + c.Request.URL.RawQuery
	if cached := h.cache.Get(c.Request.Context(), cacheKey); cached != nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	posts, meta, err := h.postService.PublicFeed(c.Request.Context(), &params)
	if err != nil {
		WriteDomainError(c, err)
		return
	}

	payload := publicFeedPayload{Data: posts}
	if meta != nil {
		payload.Page = meta.Page
		payload.PageSize = meta.PageSize
		payload.Total = meta.Total
	}
	if raw, err := json.Marshal(payload); err == nil {
		h.cache.Set(c.Request.Context(), cacheKey, raw, h.publicCacheTTL)
	}
	c.JSON(http.StatusOK, payload)
}

// PublicCategories lists the active categories for the anonymous site
// navigation.
func (h *HTTPHandler) PublicCategories(c *gin.Context) {
	var params entity.CategoryQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		InvalidPayload(c, err)
		return
	}
	// anonymous callers never see inactive categories
	params.IncludeInactive = false

	categories, meta, err := h.categoryService.ListCategories(c.Request.Context(), &params)
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	Paged(c, categories, meta)
}

// PublicPost serves one publicly visible post with rendered HTML content.
func (h *HTTPHandler) PublicPost(c *gin.Context) {
	slug := c.Param("slug")

	cacheKey := "public:post:" + slug
	if cached := h.cache.Get(c.Request.Context(), cacheKey); cached != nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	post, err := h.postService.PublicPost(c.Request.Context(), slug)
	if err != nil {
		WriteDomainError(c, err)
		return
	}

	payload := gin.H{"data": post}
	if raw, err := json.Marshal(payload); err == nil {
		h.cache.Set(c.Request.Context(), cacheKey, raw, h.publicCacheTTL)
	}
	c.JSON(http.StatusOK, payload)
}
