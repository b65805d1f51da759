package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of editorial roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSecretaria Role = "secretaria"
	RoleTJD        Role = "tjd"
	RoleEditor     Role = "editor"
)

// ParseRole validates a role name. Returns the empty role for anything
// outside the closed set.
func ParseRole(value string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleSecretaria:
		return RoleSecretaria
	case RoleTJD:
		return RoleTJD
	case RoleEditor:
		return RoleEditor
	default:
		return ""
	}
}

// DbUser represents a persisted editorial user account.
type DbUser struct {
	ID                   string      `gorm:"column:id;type:varchar(36);primarykey" json:"id"`
	Name                 string      `gorm:"column:name;type:varchar(120);not null" json:"name"`
	Email                string      `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash         string      `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Role                 Role        `gorm:"column:role;type:varchar(20);index;not null" json:"role"`
	IsActive             bool        `gorm:"column:is_active;not null" json:"is_active"`
	AllowedCategorySlugs StringArray `gorm:"column:allowed_category_slugs;type:text" json:"allowed_category_slugs"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (u *DbUser) BeforeCreate(_ *gorm.DB) error {
	if strings.TrimSpace(u.ID) == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// HasFullAccess reports whether the role bypasses category scoping entirely.
func (u *DbUser) HasFullAccess() bool {
	return u.Role == RoleAdmin || u.Role == RoleSecretaria
}

// UserSummary is the user representation returned to clients.
type UserSummary struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	Role                 Role      `json:"role"`
	IsActive             bool      `json:"is_active"`
	AllowedCategorySlugs []string  `json:"allowed_category_slugs"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// MakeUserSummary converts a persisted user into its client representation.
func MakeUserSummary(user *DbUser) UserSummary {
	if user == nil {
		return UserSummary{}
	}
	return UserSummary{
		ID:                   user.ID,
		Name:                 user.Name,
		Email:                user.Email,
		Role:                 user.Role,
		IsActive:             user.IsActive,
		AllowedCategorySlugs: user.AllowedCategorySlugs.ToSlice(),
		CreatedAt:            user.CreatedAt,
		UpdatedAt:            user.UpdatedAt,
	}
}

// UserQuery supports listing users with pagination.
type UserQuery struct {
	BaseParams
	Role    string `json:"role" form:"role"`
	Keyword string `json:"q" form:"q"`
}

type UserCreateRequest struct {
	Name                 string   `json:"name" binding:"required"`
	Email                string   `json:"email" binding:"required,email"`
	Password             string   `json:"password" binding:"required,min=6"`
	Role                 string   `json:"role" binding:"required"`
	IsActive             *bool    `json:"is_active"`
	AllowedCategorySlugs []string `json:"allowed_category_slugs"`
}

type UserUpdateRequest struct {
	Name                 *string  `json:"name,omitempty"`
	Email                *string  `json:"email,omitempty"`
	Password             *string  `json:"password,omitempty"`
	Role                 *string  `json:"role,omitempty"`
	IsActive             *bool    `json:"is_active,omitempty"`
	AllowedCategorySlugs []string `json:"allowed_category_slugs,omitempty"`
}

type AuthLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}
