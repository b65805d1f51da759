package model

import (
	"context"
	"errors"
	"time"

	"portalcms/internal/auth"
	"portalcms/internal/entity"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedDemoData populates a fresh database with a starter set of categories,
// one user per role and a handful of posts. The seed is idempotent: records
// that already exist (matched by slug or email) are left untouched.
func SeedDemoData(ctx context.Context, repo Repository) error {
	categories := []entity.DbCategory{
		{Name: "Geral", Slug: "geral", Description: "Notícias gerais", IsActive: true},
		{Name: "Assembleias", Slug: "assembleias", Description: "Convocações e atas de assembleia", IsActive: true},
		{Name: "Atas", Slug: "atas", Description: "Atas oficiais", IsActive: true},
		{Name: "TJD", Slug: "tjd", Description: "Tribunal de Justiça Desportiva", IsActive: true, AllowedRoles: entity.StringArray{"tjd"}},
	}
	categoryIDs := map[string]string{}
	for i := range categories {
		existing, err := repo.GetCategoryByIDOrSlug(ctx, categories[i].Slug)
		if err == nil {
			categoryIDs[existing.Slug] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := repo.CreateCategory(ctx, &categories[i]); err != nil {
			return err
		}
		categoryIDs[categories[i].Slug] = categories[i].ID
		logrus.WithField("slug", categories[i].Slug).Info("seeded category")
	}

	users := []struct {
		name     string
		email    string
		password string
		role     entity.Role
		allowed  entity.StringArray
	}{
		{"Administrador", "admin@portalcms.local", "admin123", entity.RoleAdmin, nil},
		{"Secretaria", "secretaria@portalcms.local", "secretaria123", entity.RoleSecretaria, nil},
		{"Relator TJD", "tjd@portalcms.local", "tjd123456", entity.RoleTJD, entity.StringArray{"tjd"}},
		{"Editor", "editor@portalcms.local", "editor123", entity.RoleEditor, entity.StringArray{"geral", "assembleias", "atas"}},
	}
	userIDs := map[entity.Role]string{}
	for _, u := range users {
		existing, err := repo.GetUserByEmail(ctx, u.email)
		if err == nil {
			userIDs[existing.Role] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		user := entity.DbUser{
			Name:                 u.name,
			Email:                u.email,
			PasswordHash:         hash,
			Role:                 u.role,
			IsActive:             true,
			AllowedCategorySlugs: u.allowed,
		}
		if err := repo.CreateUser(ctx, &user); err != nil {
			return err
		}
		userIDs[u.role] = user.ID
		logrus.WithField("email", u.email).Info("seeded user")
	}

	published := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	posts := []entity.DbPost{
		{
			Slug:            "bem-vindo-ao-portal",
			Title:           "Bem-vindo ao portal",
			Excerpt:         "Primeira publicação do portal.",
			ContentMarkdown: "# Bem-vindo\n\nEste é o portal de notícias da federação.",
			Status:          entity.PostStatusPublished,
			CategoryID:      categoryIDs["geral"],
			AuthorID:        userIDs[entity.RoleAdmin],
			PublishedAt:     &published,
		},
		{
			Slug:            "edital-de-convocacao",
			Title:           "Edital de convocação",
			Excerpt:         "Convocação para a assembleia geral ordinária.",
			ContentMarkdown: "Ficam convocados os filiados para a assembleia geral.",
			Status:          entity.PostStatusDraft,
			CategoryID:      categoryIDs["assembleias"],
			AuthorID:        userIDs[entity.RoleSecretaria],
		},
		{
			Slug:            "resolucao-tjd-001",
			Title:           "Resolução TJD 001",
			Excerpt:         "Primeira resolução do tribunal.",
			ContentMarkdown: "O tribunal resolve, nos termos do regimento interno.",
			Status:          entity.PostStatusPublished,
			CategoryID:      categoryIDs["tjd"],
			AuthorID:        userIDs[entity.RoleTJD],
			PublishedAt:     &published,
		},
	}
	for i := range posts {
		if posts[i].CategoryID == "" || posts[i].AuthorID == "" {
			continue
		}
		exists, err := repo.PostSlugExists(ctx, posts[i].Slug, "")
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := repo.CreatePost(ctx, &posts[i]); err != nil {
			return err
		}
		logrus.WithField("slug", posts[i].Slug).Info("seeded post")
	}

	return nil
}
