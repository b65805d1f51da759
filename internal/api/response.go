package api

import (
	"net/http"

	"portalcms/internal/entity"

	"github.com/gin-gonic/gin"
)

// Data writes a successful response with the payload wrapped in a "data"
// envelope.
func Data(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, gin.H{"data": payload})
}

// Created writes a successful creation response.
func Created(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, gin.H{"data": payload})
}

// Paged writes a successful list response with pagination metadata beside the
// data envelope.
func Paged(c *gin.Context, payload any, meta *entity.Meta) {
	body := gin.H{"data": payload}
	if meta != nil {
		body["page"] = meta.Page
		body["page_size"] = meta.PageSize
		body["total"] = meta.Total
	}
	c.JSON(http.StatusOK, body)
}

// NoContent writes an empty success response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
