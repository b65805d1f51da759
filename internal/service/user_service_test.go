package service

import (
	"context"
	"reflect"
	"testing"

	"portalcms/internal/apperr"
	"portalcms/internal/entity"
)

func TestSanitizeAllowedSlugs(t *testing.T) {
	tests := []struct {
		name    string
		role    entity.Role
		input   []string
		want    entity.StringArray
		wantErr apperr.Kind
		wantOK  bool
	}{
		{name: "admin nunca carrega slugs", role: entity.RoleAdmin, input: []string{"geral"}, want: nil, wantOK: true},
		{name: "secretaria nunca carrega slugs", role: entity.RoleSecretaria, input: nil, want: nil, wantOK: true},
		{name: "tjd fica preso à categoria tjd", role: entity.RoleTJD, input: []string{"geral", "atas"}, want: entity.StringArray{"tjd"}, wantOK: true},
		{name: "editor com categorias", role: entity.RoleEditor, input: []string{"Geral ", "atas", "geral"}, want: entity.StringArray{"geral", "atas"}, wantOK: true},
		{name: "editor sem categorias", role: entity.RoleEditor, input: nil, wantErr: apperr.KindValidation},
		{name: "slug inválido", role: entity.RoleEditor, input: []string{"Não válido!"}, wantErr: apperr.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sanitizeAllowedSlugs(tt.role, tt.input)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !reflect.DeepEqual(got, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
				return
			}
			if !apperr.IsKind(err, tt.wantErr) {
				t.Errorf("expected kind %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateUser(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewUserService(repo)

	created, err := svc.CreateUser(context.Background(), &entity.UserCreateRequest{
		Name: "Relator", Email: "Relator@Fed.Org", Password: "segredo1", Role: "tjd",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Email != "relator@fed.org" {
		t.Errorf("email must be lowercased, got %q", created.Email)
	}
	if !reflect.DeepEqual(created.AllowedCategorySlugs, entity.StringArray{"tjd"}) {
		t.Errorf("tjd user must be pinned to tjd category, got %v", created.AllowedCategorySlugs)
	}

	t.Run("e-mail duplicado", func(t *testing.T) {
		_, err := svc.CreateUser(context.Background(), &entity.UserCreateRequest{
			Name: "Outro", Email: "relator@fed.org", Password: "segredo1", Role: "editor",
			AllowedCategorySlugs: []string{"geral"},
		})
		if !apperr.IsKind(err, apperr.KindConflict) {
			t.Errorf("expected conflict, got %v", err)
		}
	})

	t.Run("papel inválido", func(t *testing.T) {
		_, err := svc.CreateUser(context.Background(), &entity.UserCreateRequest{
			Name: "Quebrado", Email: "quebrado@fed.org", Password: "segredo1", Role: "root",
		})
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestCreateUserInactivePersists(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewUserService(repo)

	inactive := false
	created, err := svc.CreateUser(context.Background(), &entity.UserCreateRequest{
		Name: "Suspenso", Email: "suspenso@fed.org", Password: "segredo1", Role: "editor",
		AllowedCategorySlugs: []string{"geral"},
		IsActive:             &inactive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.IsActive {
		t.Error("expected created user to be inactive")
	}

	stored, err := repo.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.IsActive {
		t.Error("expected stored user to remain inactive after reload")
	}
}

func TestUpdateUserRoleChangeRevalidatesSlugs(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewUserService(repo)

	user := seedUser(t, repo, "editor9", entity.RoleEditor, true, "geral")

	// demoting to tjd rewrites the allowed set
	updated, err := svc.UpdateUser(context.Background(), user.ID, &entity.UserUpdateRequest{Role: strPtr("tjd")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !reflect.DeepEqual(updated.AllowedCategorySlugs, entity.StringArray{"tjd"}) {
		t.Errorf("expected pinned tjd scope, got %v", updated.AllowedCategorySlugs)
	}

	t.Run("usuário inexistente", func(t *testing.T) {
		_, err := svc.UpdateUser(context.Background(), "missing-id", &entity.UserUpdateRequest{Name: strPtr("X")})
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})
}

func TestDeleteUserBlockedByPosts(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewUserService(repo)

	author := seedUser(t, repo, "autor10", entity.RoleEditor, true, "geral")
	idle := seedUser(t, repo, "ocioso10", entity.RoleEditor, true, "geral")
	geral := seedCategory(t, repo, "Geral", "geral", true)
	seedPost(t, repo, "da-autora", entity.PostStatusDraft, geral.ID, author.ID, nil)

	if err := svc.DeleteUser(context.Background(), author.ID); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("expected conflict for author with posts, got %v", err)
	}
	if err := svc.DeleteUser(context.Background(), idle.ID); err != nil {
		t.Errorf("expected idle user deletion to succeed, got %v", err)
	}
}
