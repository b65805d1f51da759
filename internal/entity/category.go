package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DbCategory represents a persisted content category.
type DbCategory struct {
	ID           string      `gorm:"column:id;type:varchar(36);primarykey" json:"id"`
	Name         string      `gorm:"column:name;type:varchar(120);uniqueIndex;not null" json:"name"`
	Slug         string      `gorm:"column:slug;type:varchar(150);uniqueIndex;not null" json:"slug"`
	Description  string      `gorm:"column:description;type:text" json:"description"`
	IsActive     bool        `gorm:"column:is_active;not null" json:"is_active"`
	AllowedRoles StringArray `gorm:"column:allowed_roles;type:text" json:"allowed_roles"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// TableName overrides default pluralised name.
func (DbCategory) TableName() string {
	return "categories"
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (c *DbCategory) BeforeCreate(_ *gorm.DB) error {
	if strings.TrimSpace(c.ID) == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// AllowsRole reports whether the category explicitly grants access to a role
// regardless of its slug.
func (c *DbCategory) AllowsRole(role Role) bool {
	return c.AllowedRoles.Contains(string(role))
}

// CategoryQuery supports listing categories with pagination.
type CategoryQuery struct {
	BaseParams
	IncludeInactive bool   `json:"include_inactive" form:"include_inactive"`
	Keyword         string `json:"q" form:"q"`
}

type CategoryCreateRequest struct {
	Name         string   `json:"name" binding:"required"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description"`
	IsActive     *bool    `json:"is_active"`
	AllowedRoles []string `json:"allowed_roles"`
}

type CategoryUpdateRequest struct {
	Name         *string  `json:"name,omitempty"`
	Slug         *string  `json:"slug,omitempty"`
	Description  *string  `json:"description,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
	AllowedRoles []string `json:"allowed_roles,omitempty"`
}
