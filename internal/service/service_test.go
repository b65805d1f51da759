package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"portalcms/internal/auth"
	"portalcms/internal/clock"
	"portalcms/internal/entity"
	"portalcms/internal/model"
	gormsql "portalcms/internal/model/sql"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func testClock() clock.Clock {
	return clock.Fixed{Instant: testNow}
}

// newTestRepo opens an isolated in-memory database per test.
func newTestRepo(t *testing.T) model.Repository {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// a single connection keeps the shared in-memory database alive
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&entity.DbUser{}, &entity.DbCategory{}, &entity.DbPost{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gormsql.NewGormRepository(db)
}

func seedUser(t *testing.T, repo model.Repository, name string, role entity.Role, active bool, allowed ...string) *entity.DbUser {
	t.Helper()
	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &entity.DbUser{
		Name:                 name,
		Email:                strings.ToLower(name) + "@test.local",
		PasswordHash:         hash,
		Role:                 role,
		IsActive:             active,
		AllowedCategorySlugs: entity.StringArray(allowed),
	}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return user
}

func seedCategory(t *testing.T, repo model.Repository, name, slug string, active bool, allowedRoles ...string) *entity.DbCategory {
	t.Helper()
	category := &entity.DbCategory{
		Name:         name,
		Slug:         slug,
		IsActive:     active,
		AllowedRoles: entity.StringArray(allowedRoles),
	}
	if err := repo.CreateCategory(context.Background(), category); err != nil {
		t.Fatalf("seed category %s: %v", slug, err)
	}
	return category
}

func seedPost(t *testing.T, repo model.Repository, slug string, status entity.PostStatus, categoryID, authorID string, publishedAt *time.Time) *entity.DbPost {
	t.Helper()
	post := &entity.DbPost{
		Slug:            slug,
		Title:           strings.ReplaceAll(slug, "-", " "),
		ContentMarkdown: "conteúdo de " + slug,
		Status:          status,
		CategoryID:      categoryID,
		AuthorID:        authorID,
		PublishedAt:     publishedAt,
	}
	if err := repo.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("seed post %s: %v", slug, err)
	}
	return post
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }
