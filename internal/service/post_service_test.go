package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"portalcms/internal/apperr"
	"portalcms/internal/entity"
)

func TestCreatePostPermissions(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewPostService(repo, testClock())

	admin := seedUser(t, repo, "admin1", entity.RoleAdmin, true)
	secretaria := seedUser(t, repo, "secretaria1", entity.RoleSecretaria, true)
	editor := seedUser(t, repo, "editor1", entity.RoleEditor, true, "geral")
	tjdUser := seedUser(t, repo, "tjd1", entity.RoleTJD, true, "tjd")
	inactive := seedUser(t, repo, "inactive1", entity.RoleAdmin, false)

	geral := seedCategory(t, repo, "Geral", "geral", true)
	tjdCat := seedCategory(t, repo, "TJD", "tjd", true)
	atas := seedCategory(t, repo, "Atas", "atas", true, "tjd")

	tests := []struct {
		name     string
		actor    *entity.DbUser
		category string
		author   string
		wantKind apperr.Kind
		wantOK   bool
	}{
		{name: "admin em qualquer categoria", actor: admin, category: geral.ID, author: editor.ID, wantOK: true},
		{name: "secretaria em qualquer categoria", actor: secretaria, category: tjdCat.ID, author: admin.ID, wantOK: true},
		{name: "editor sem restrição de escrita", actor: editor, category: geral.ID, author: editor.ID, wantOK: true},
		{name: "tjd na categoria tjd com autoria própria", actor: tjdUser, category: tjdCat.ID, author: tjdUser.ID, wantOK: true},
		{name: "tjd em categoria com papel permitido", actor: tjdUser, category: atas.ID, author: tjdUser.ID, wantOK: true},
		{name: "tjd fora do escopo", actor: tjdUser, category: geral.ID, author: tjdUser.ID, wantKind: apperr.KindForbidden},
		{name: "tjd atribuindo outro autor", actor: tjdUser, category: tjdCat.ID, author: admin.ID, wantKind: apperr.KindForbidden},
		{name: "usuário inativo", actor: inactive, category: geral.ID, author: inactive.ID, wantKind: apperr.KindForbidden},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &entity.PostCreateRequest{
				Title:           "Post " + strings.ReplaceAll(tt.name, " ", "-"),
				Slug:            "post-perm-" + string(rune('a'+i)),
				ContentMarkdown: "corpo",
				CategoryID:      tt.category,
				AuthorID:        tt.author,
			}
			post, err := svc.CreatePost(context.Background(), tt.actor, req)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				if post.Status != entity.PostStatusDraft {
					t.Errorf("expected default DRAFT status, got %s", post.Status)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got none")
			}
			if !apperr.IsKind(err, tt.wantKind) {
				t.Errorf("expected kind %v, got %v", tt.wantKind, err)
			}
		})
	}
}

func TestCreatePostLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewPostService(repo, testClock())

	admin := seedUser(t, repo, "admin2", entity.RoleAdmin, true)
	geral := seedCategory(t, repo, "Geral", "geral", true)

	t.Run("published sem data recebe o instante atual", func(t *testing.T) {
		post, err := svc.CreatePost(context.Background(), admin, &entity.PostCreateRequest{
			Title: "Publicado agora", ContentMarkdown: "corpo", Status: "PUBLISHED",
			CategoryID: geral.ID, AuthorID: admin.ID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if post.PublishedAt == nil || !post.PublishedAt.Equal(testNow) {
			t.Errorf("expected published_at %v, got %v", testNow, post.PublishedAt)
		}
	})

	t.Run("published com data futura mantém a data", func(t *testing.T) {
		future := testNow.Add(48 * time.Hour)
		post, err := svc.CreatePost(context.Background(), admin, &entity.PostCreateRequest{
			Title: "Publicado no futuro", ContentMarkdown: "corpo", Status: "PUBLISHED",
			CategoryID: geral.ID, AuthorID: admin.ID, PublishedAt: &future,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if post.PublishedAt == nil || !post.PublishedAt.Equal(future) {
			t.Errorf("expected published_at %v, got %v", future, post.PublishedAt)
		}
	})

	t.Run("scheduled exige data futura", func(t *testing.T) {
		past := testNow.Add(-time.Hour)
		_, err := svc.CreatePost(context.Background(), admin, &entity.PostCreateRequest{
			Title: "Agendado no passado", ContentMarkdown: "corpo", Status: "SCHEDULED",
			CategoryID: geral.ID, AuthorID: admin.ID, PublishedAt: &past,
		})
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("scheduled exige data presente", func(t *testing.T) {
		_, err := svc.CreatePost(context.Background(), admin, &entity.PostCreateRequest{
			Title: "Agendado sem data", ContentMarkdown: "corpo", Status: "SCHEDULED",
			CategoryID: geral.ID, AuthorID: admin.ID,
		})
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("status inválido", func(t *testing.T) {
		_, err := svc.CreatePost(context.Background(), admin, &entity.PostCreateRequest{
			Title: "Status quebrado", ContentMarkdown: "corpo", Status: "ARCHIVED",
			CategoryID: geral.ID, AuthorID: admin.ID,
		})
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("slug gerado a partir do título", func(t *testing.T) {
		post, err := svc.CreatePost(context.Background(), admin, &entity.PostCreateRequest{
			Title: "Convocação à Assembleia", ContentMarkdown: "corpo",
			CategoryID: geral.ID, AuthorID: admin.ID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if post.Slug != "convocacao-a-assembleia" {
			t.Errorf("expected transliterated slug, got %q", post.Slug)
		}
	})

	t.Run("slug explícito em uso", func(t *testing.T) {
		_, err := svc.CreatePost(context.Background(), admin, &entity.PostCreateRequest{
			Title: "Outro título", Slug: "convocacao-a-assembleia", ContentMarkdown: "corpo",
			CategoryID: geral.ID, AuthorID: admin.ID,
		})
		if !apperr.IsKind(err, apperr.KindConflict) {
			t.Errorf("expected conflict error, got %v", err)
		}
	})

	t.Run("slug gerado recebe sufixo em colisão", func(t *testing.T) {
		post, err := svc.CreatePost(context.Background(), admin, &entity.PostCreateRequest{
			Title: "Convocação à Assembleia", ContentMarkdown: "corpo",
			CategoryID: geral.ID, AuthorID: admin.ID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if post.Slug != "convocacao-a-assembleia-2" {
			t.Errorf("expected suffixed slug, got %q", post.Slug)
		}
	})
}

func TestPublishPreservesTimestamp(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewPostService(repo, testClock())

	admin := seedUser(t, repo, "admin3", entity.RoleAdmin, true)
	geral := seedCategory(t, repo, "Geral", "geral", true)

	future := testNow.Add(24 * time.Hour)
	post := seedPost(t, repo, "agendado", entity.PostStatusScheduled, geral.ID, admin.ID, &future)

	published, err := svc.PublishPost(context.Background(), admin, post.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.Status != entity.PostStatusPublished {
		t.Errorf("expected PUBLISHED, got %s", published.Status)
	}
	if published.PublishedAt == nil || !published.PublishedAt.Equal(future) {
		t.Errorf("publish must keep existing published_at %v, got %v", future, published.PublishedAt)
	}

	// draft without a timestamp gets the current instant
	draft := seedPost(t, repo, "rascunho", entity.PostStatusDraft, geral.ID, admin.ID, nil)
	published, err = svc.PublishPost(context.Background(), admin, draft.ID)
	if err != nil {
		t.Fatalf("publish draft: %v", err)
	}
	if published.PublishedAt == nil || !published.PublishedAt.Equal(testNow) {
		t.Errorf("expected published_at %v, got %v", testNow, published.PublishedAt)
	}
}

func TestScheduleRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewPostService(repo, testClock())

	admin := seedUser(t, repo, "admin4", entity.RoleAdmin, true)
	geral := seedCategory(t, repo, "Geral", "geral", true)
	post := seedPost(t, repo, "ciclo", entity.PostStatusDraft, geral.ID, admin.ID, nil)

	past := testNow.Add(-time.Minute)
	if _, err := svc.SchedulePost(context.Background(), admin, post.ID, &entity.PostScheduleRequest{PublishedAt: &past}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for past schedule, got %v", err)
	}
	if _, err := svc.SchedulePost(context.Background(), admin, post.ID, &entity.PostScheduleRequest{PublishedAt: &testNow}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for non-future schedule, got %v", err)
	}

	future := testNow.Add(2 * time.Hour)
	scheduled, err := svc.SchedulePost(context.Background(), admin, post.ID, &entity.PostScheduleRequest{PublishedAt: &future})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if scheduled.Status != entity.PostStatusScheduled {
		t.Errorf("expected SCHEDULED, got %s", scheduled.Status)
	}

	// publish → schedule → publish keeps the scheduled timestamp
	published, err := svc.PublishPost(context.Background(), admin, post.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.PublishedAt == nil || !published.PublishedAt.Equal(future) {
		t.Errorf("expected preserved published_at %v, got %v", future, published.PublishedAt)
	}
}

func TestUpdatePostRevalidatesFinalState(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewPostService(repo, testClock())

	admin := seedUser(t, repo, "admin5", entity.RoleAdmin, true)
	tjdUser := seedUser(t, repo, "tjd5", entity.RoleTJD, true, "tjd")
	geral := seedCategory(t, repo, "Geral", "geral", true)
	tjdCat := seedCategory(t, repo, "TJD", "tjd", true)

	own := seedPost(t, repo, "resolucao-001", entity.PostStatusDraft, tjdCat.ID, tjdUser.ID, nil)
	foreign := seedPost(t, repo, "noticia-geral", entity.PostStatusDraft, geral.ID, admin.ID, nil)

	t.Run("tjd não move post para categoria proibida", func(t *testing.T) {
		_, err := svc.UpdatePost(context.Background(), tjdUser, own.ID, &entity.PostUpdateRequest{CategoryID: &geral.ID})
		if !apperr.IsKind(err, apperr.KindForbidden) {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("tjd não transfere autoria", func(t *testing.T) {
		_, err := svc.UpdatePost(context.Background(), tjdUser, own.ID, &entity.PostUpdateRequest{AuthorID: &admin.ID})
		if !apperr.IsKind(err, apperr.KindForbidden) {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("tjd não edita post alheio", func(t *testing.T) {
		_, err := svc.UpdatePost(context.Background(), tjdUser, foreign.ID, &entity.PostUpdateRequest{Title: strPtr("Tomado")})
		if !apperr.IsKind(err, apperr.KindForbidden) {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("tjd edita o próprio post", func(t *testing.T) {
		updated, err := svc.UpdatePost(context.Background(), tjdUser, own.ID, &entity.PostUpdateRequest{Title: strPtr("Resolução 001 revisada")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Title != "Resolução 001 revisada" {
			t.Errorf("title not updated: %q", updated.Title)
		}
	})

	t.Run("admin move post entre categorias", func(t *testing.T) {
		updated, err := svc.UpdatePost(context.Background(), admin, foreign.ID, &entity.PostUpdateRequest{CategoryID: &tjdCat.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.CategoryID != tjdCat.ID {
			t.Errorf("category not updated")
		}
	})
}

func TestListPostsScoping(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewPostService(repo, testClock())

	admin := seedUser(t, repo, "admin6", entity.RoleAdmin, true)
	tjdUser := seedUser(t, repo, "tjd6", entity.RoleTJD, true, "tjd")
	geral := seedCategory(t, repo, "Geral", "geral", true)
	tjdCat := seedCategory(t, repo, "TJD", "tjd", true)
	atas := seedCategory(t, repo, "Atas", "atas", true, "tjd")

	seedPost(t, repo, "g1", entity.PostStatusPublished, geral.ID, admin.ID, timePtr(testNow.Add(-time.Hour)))
	seedPost(t, repo, "t1", entity.PostStatusDraft, tjdCat.ID, tjdUser.ID, nil)
	seedPost(t, repo, "a1", entity.PostStatusDraft, atas.ID, tjdUser.ID, nil)

	t.Run("admin enxerga todas as categorias", func(t *testing.T) {
		posts, meta, err := svc.ListPosts(context.Background(), admin, &entity.PostQuery{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if meta.Total != 3 || len(posts) != 3 {
			t.Errorf("expected 3 posts, got %d (total %d)", len(posts), meta.Total)
		}
	})

	t.Run("tjd enxerga apenas o próprio escopo", func(t *testing.T) {
		posts, meta, err := svc.ListPosts(context.Background(), tjdUser, &entity.PostQuery{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if meta.Total != 2 {
			t.Fatalf("expected 2 posts in scope, got %d", meta.Total)
		}
		for _, p := range posts {
			if p.Category == nil || (p.Category.Slug != "tjd" && p.Category.Slug != "atas") {
				t.Errorf("post %s outside scope", p.Slug)
			}
		}
	})

	t.Run("filtro por status", func(t *testing.T) {
		posts, _, err := svc.ListPosts(context.Background(), admin, &entity.PostQuery{Status: "PUBLISHED"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(posts) != 1 || posts[0].Slug != "g1" {
			t.Errorf("expected only g1, got %v", posts)
		}
	})

	t.Run("usuário inativo não lista", func(t *testing.T) {
		inactive := seedUser(t, repo, "inactive6", entity.RoleAdmin, false)
		_, _, err := svc.ListPosts(context.Background(), inactive, &entity.PostQuery{})
		if !apperr.IsKind(err, apperr.KindForbidden) {
			t.Errorf("expected forbidden, got %v", err)
		}
	})
}

func TestPublicFeedVisibility(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewPostService(repo, testClock())

	admin := seedUser(t, repo, "admin7", entity.RoleAdmin, true)
	geral := seedCategory(t, repo, "Geral", "geral", true)
	hidden := seedCategory(t, repo, "Oculta", "oculta", false)

	older := testNow.Add(-48 * time.Hour)
	recent := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)

	seedPost(t, repo, "antigo", entity.PostStatusPublished, geral.ID, admin.ID, &older)
	seedPost(t, repo, "recente", entity.PostStatusPublished, geral.ID, admin.ID, &recent)
	seedPost(t, repo, "sem-data", entity.PostStatusPublished, geral.ID, admin.ID, nil)
	seedPost(t, repo, "futuro", entity.PostStatusPublished, geral.ID, admin.ID, &future)
	seedPost(t, repo, "rascunho", entity.PostStatusDraft, geral.ID, admin.ID, nil)
	seedPost(t, repo, "agendado", entity.PostStatusScheduled, geral.ID, admin.ID, &future)
	seedPost(t, repo, "categoria-inativa", entity.PostStatusPublished, hidden.ID, admin.ID, &recent)

	posts, meta, err := svc.PublicFeed(context.Background(), &entity.PublicPostQuery{})
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if meta.Total != 3 {
		t.Fatalf("expected 3 visible posts, got %d", meta.Total)
	}

	visible := map[string]bool{}
	for _, p := range posts {
		visible[p.Slug] = true
	}
	for _, want := range []string{"antigo", "recente", "sem-data"} {
		if !visible[want] {
			t.Errorf("expected %s in feed", want)
		}
	}
	for _, unwanted := range []string{"futuro", "rascunho", "agendado", "categoria-inativa"} {
		if visible[unwanted] {
			t.Errorf("did not expect %s in feed", unwanted)
		}
	}

	// default order: published_at desc, nulls treated as oldest by sqlite ASC rules
	if posts[0].Slug != "recente" {
		t.Errorf("expected recente first, got %s", posts[0].Slug)
	}

	t.Run("post público por slug com HTML renderizado", func(t *testing.T) {
		post, err := svc.PublicPost(context.Background(), "recente")
		if err != nil {
			t.Fatalf("public post: %v", err)
		}
		if !strings.Contains(post.ContentHTML, "<p>") {
			t.Errorf("expected rendered HTML, got %q", post.ContentHTML)
		}
	})

	t.Run("post futuro não é acessível", func(t *testing.T) {
		_, err := svc.PublicPost(context.Background(), "futuro")
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})
}

func TestPromoteDueScheduledPosts(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewPostService(repo, testClock())

	admin := seedUser(t, repo, "admin8", entity.RoleAdmin, true)
	geral := seedCategory(t, repo, "Geral", "geral", true)

	due := testNow.Add(-time.Minute)
	pending := testNow.Add(time.Hour)
	seedPost(t, repo, "vencido", entity.PostStatusScheduled, geral.ID, admin.ID, &due)
	seedPost(t, repo, "pendente", entity.PostStatusScheduled, geral.ID, admin.ID, &pending)

	promoted, err := svc.PromoteDueScheduledPosts(context.Background())
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if promoted != 1 {
		t.Errorf("expected 1 promoted post, got %d", promoted)
	}

	post, err := repo.GetPostByIDOrSlug(context.Background(), "vencido")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if post.Status != entity.PostStatusPublished {
		t.Errorf("expected PUBLISHED, got %s", post.Status)
	}
	if post.PublishedAt == nil || !post.PublishedAt.Equal(due) {
		t.Errorf("promotion must keep published_at %v, got %v", due, post.PublishedAt)
	}

	untouched, err := repo.GetPostByIDOrSlug(context.Background(), "pendente")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if untouched.Status != entity.PostStatusScheduled {
		t.Errorf("future schedule must stay SCHEDULED, got %s", untouched.Status)
	}
}
