package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostStatus is the closed set of post lifecycle states.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusPublished PostStatus = "PUBLISHED"
	PostStatusScheduled PostStatus = "SCHEDULED"
)

// ParsePostStatus validates a status name. Returns the empty status for
// anything outside the closed set.
func ParsePostStatus(value string) PostStatus {
	switch PostStatus(strings.ToUpper(strings.TrimSpace(value))) {
	case PostStatusDraft:
		return PostStatusDraft
	case PostStatusPublished:
		return PostStatusPublished
	case PostStatusScheduled:
		return PostStatusScheduled
	default:
		return ""
	}
}

// DbPost represents a persisted post.
type DbPost struct {
	ID              string     `gorm:"column:id;type:varchar(36);primarykey" json:"id"`
	Slug            string     `gorm:"column:slug;type:varchar(160);uniqueIndex;not null" json:"slug"`
	Title           string     `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Excerpt         string     `gorm:"column:excerpt;type:varchar(500)" json:"excerpt"`
	CoverImageURL   string     `gorm:"column:cover_image_url;type:varchar(500)" json:"cover_image_url"`
	ContentMarkdown string     `gorm:"column:content_markdown;type:text;not null" json:"content_markdown"`
	Status          PostStatus `gorm:"column:status;type:varchar(20);index;not null;default:DRAFT" json:"status"`
	CategoryID      string     `gorm:"column:category_id;type:varchar(36);index;not null" json:"category_id"`
	AuthorID        string     `gorm:"column:author_id;type:varchar(36);index;not null" json:"author_id"`
	PublishedAt     *time.Time `gorm:"column:published_at;index" json:"published_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Category *DbCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Author   *DbUser     `gorm:"foreignKey:AuthorID" json:"-"`
}

// TableName overrides default pluralised name.
func (DbPost) TableName() string {
	return "posts"
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (p *DbPost) BeforeCreate(_ *gorm.DB) error {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsPublicAt reports whether the post is publicly visible at the given
// instant: published, with a publication date that is absent or already due.
func (p *DbPost) IsPublicAt(now time.Time) bool {
	if p.Status != PostStatusPublished {
		return false
	}
	if p.PublishedAt == nil {
		return true
	}
	return !p.PublishedAt.UTC().After(now.UTC())
}

// PostSummary is the post representation returned to clients.
type PostSummary struct {
	ID              string      `json:"id"`
	Slug            string      `json:"slug"`
	Title           string      `json:"title"`
	Excerpt         string      `json:"excerpt"`
	CoverImageURL   string      `json:"cover_image_url"`
	Status          PostStatus  `json:"status"`
	Category        *DbCategory `json:"category,omitempty"`
	Author          *AuthorRef  `json:"author,omitempty"`
	PublishedAt     *time.Time  `json:"published_at"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	ContentMarkdown string      `json:"content_markdown,omitempty"`
	ContentHTML     string      `json:"content_html,omitempty"`
}

// AuthorRef identifies a post author without exposing account details.
type AuthorRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MakePostSummary converts a persisted post into its client representation.
// Content is included only when includeContent is set, keeping list payloads
// small.
func MakePostSummary(post *DbPost, includeContent bool) PostSummary {
	if post == nil {
		return PostSummary{}
	}
	summary := PostSummary{
		ID:            post.ID,
		Slug:          post.Slug,
		Title:         post.Title,
		Excerpt:       post.Excerpt,
		CoverImageURL: post.CoverImageURL,
		Status:        post.Status,
		Category:      post.Category,
		PublishedAt:   post.PublishedAt,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
	if post.Author != nil {
		summary.Author = &AuthorRef{ID: post.Author.ID, Name: post.Author.Name}
	}
	if includeContent {
		summary.ContentMarkdown = post.ContentMarkdown
	}
	return summary
}

// PostQuery supports authenticated post listings.
type PostQuery struct {
	BaseParams
	Status   string `json:"status" form:"status"`
	Category string `json:"category" form:"category"`
	Author   string `json:"author" form:"author"`
	Keyword  string `json:"q" form:"q"`
	Order    string `json:"order" form:"order"`

	// Scope is derived from the requesting user, never bound from the request.
	Scope CategoryScope `json:"-" form:"-"`
}

// PublicPostQuery supports the anonymous public feed.
type PublicPostQuery struct {
	BaseParams
	CategorySlug string `json:"category" form:"category"`
	Keyword      string `json:"q" form:"q"`
	Order        string `json:"order" form:"order"`
}

type PostCreateRequest struct {
	Slug            string     `json:"slug"`
	Title           string     `json:"title" binding:"required"`
	Excerpt         string     `json:"excerpt"`
	CoverImageURL   string     `json:"cover_image_url"`
	ContentMarkdown string     `json:"content_markdown" binding:"required"`
	Status          string     `json:"status"`
	CategoryID      string     `json:"category_id" binding:"required"`
	AuthorID        string     `json:"author_id" binding:"required"`
	PublishedAt     *time.Time `json:"published_at"`
}

type PostUpdateRequest struct {
	Slug            *string    `json:"slug,omitempty"`
	Title           *string    `json:"title,omitempty"`
	Excerpt         *string    `json:"excerpt,omitempty"`
	CoverImageURL   *string    `json:"cover_image_url,omitempty"`
	ContentMarkdown *string    `json:"content_markdown,omitempty"`
	Status          *string    `json:"status,omitempty"`
	CategoryID      *string    `json:"category_id,omitempty"`
	AuthorID        *string    `json:"author_id,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
}

type PostScheduleRequest struct {
	PublishedAt *time.Time `json:"published_at" binding:"required"`
}
