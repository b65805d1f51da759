package model

import (
	"context"
	"time"

	"portalcms/internal/entity"
)

// Repository defines the persistence operations used by the services. Every
// write endpoint runs its whole operation inside a single Transact call so
// that validation failures never leave partial mutations behind.
type Repository interface {
	// Transact runs fn inside one transaction, committing on nil and
	// rolling back on error. The Repository handed to fn operates on the
	// transaction.
	Transact(ctx context.Context, fn func(Repository) error) error

	// Users
	CreateUser(ctx context.Context, user *entity.DbUser) error
	GetUserByID(ctx context.Context, id string) (*entity.DbUser, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error)
	UpdateUser(ctx context.Context, id string, updates entity.UserUpdates) error
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int64, error)

	// Categories
	CreateCategory(ctx context.Context, category *entity.DbCategory) error
	GetCategoryByIDOrSlug(ctx context.Context, identifier string) (*entity.DbCategory, error)
	CategoryNameExists(ctx context.Context, name, excludeID string) (bool, error)
	CategorySlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	ListCategories(ctx context.Context, params *entity.CategoryQuery) ([]entity.DbCategory, *entity.Meta, error)
	ListAllCategories(ctx context.Context) ([]entity.DbCategory, error)
	UpdateCategory(ctx context.Context, id string, updates entity.CategoryUpdates) error
	DeleteCategory(ctx context.Context, id string) error

	// Posts
	CreatePost(ctx context.Context, post *entity.DbPost) error
	GetPostByIDOrSlug(ctx context.Context, identifier string) (*entity.DbPost, error)
	PostSlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	ListPosts(ctx context.Context, params *entity.PostQuery) ([]entity.DbPost, *entity.Meta, error)
	ListPublicPosts(ctx context.Context, params *entity.PublicPostQuery, now time.Time) ([]entity.DbPost, *entity.Meta, error)
	GetPublicPostBySlug(ctx context.Context, slug string, now time.Time) (*entity.DbPost, error)
	SavePost(ctx context.Context, post *entity.DbPost) error
	DeletePost(ctx context.Context, id string) error
	CountPostsByCategory(ctx context.Context, categoryID string) (int64, error)
	CountPostsByAuthor(ctx context.Context, authorID string) (int64, error)
	PublishDueScheduledPosts(ctx context.Context, now time.Time) (int64, error)
}
