package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portalcms/internal/apperr"
	"portalcms/internal/clock"
	"portalcms/internal/entity"
	"portalcms/internal/model"
	"portalcms/internal/permission"
	"portalcms/internal/render"
	"portalcms/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PostService handles the post lifecycle: drafting, publication, scheduling
// and the public feed. Every write runs inside one transaction and is gated
// by the permission engine against the final state of the post.
type PostService struct {
	repo model.Repository
	clk  clock.Clock
}

// NewPostService creates a post service instance.
func NewPostService(repo model.Repository, clk clock.Clock) *PostService {
	if clk == nil {
		clk = clock.Real{}
	}
	return &PostService{repo: repo, clk: clk}
}

func loadCategoryByID(ctx context.Context, tx model.Repository, id string) (*entity.DbCategory, error) {
	category, err := tx.GetCategoryByIDOrSlug(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("CATEGORY_NOT_FOUND", "Categoria não encontrada")
		}
		return nil, apperr.Internal(err)
	}
	return category, nil
}

func loadAuthorByID(ctx context.Context, tx model.Repository, id string) (*entity.DbUser, error) {
	author, err := tx.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("AUTHOR_NOT_FOUND", "Autor não encontrado")
		}
		return nil, apperr.Internal(err)
	}
	return author, nil
}

// resolvePostSlug picks the slug for a post. Explicit slugs must be free;
// slugs derived from the title get a numeric suffix on collision.
func resolvePostSlug(ctx context.Context, tx model.Repository, explicit, title, excludeID string) (string, error) {
	if explicit = strings.ToLower(strings.TrimSpace(explicit)); explicit != "" {
		if !utils.IsValidSlug(explicit) {
			return "", apperr.Validation("INVALID_SLUG", "Slug inválido")
		}
		taken, err := tx.PostSlugExists(ctx, explicit, excludeID)
		if err != nil {
			return "", apperr.Internal(err)
		}
		if taken {
			return "", apperr.Conflict("POST_SLUG_IN_USE", "Já existe uma publicação com este slug")
		}
		return explicit, nil
	}

	base := utils.Slugify(title)
	if base == "" {
		return "", apperr.Validation("INVALID_SLUG", "Não foi possível gerar um slug a partir do título")
	}
	candidate := base
	for i := 2; ; i++ {
		taken, err := tx.PostSlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", apperr.Internal(err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// applyLifecycle enforces the status/published_at pairing on a staged post.
// Scheduling needs a strictly future instant; publishing keeps an existing
// timestamp and fills in the current one only when none is set.
func (s *PostService) applyLifecycle(post *entity.DbPost) error {
	now := s.clk.Now()
	post.PublishedAt = clock.EnsureUTCPtr(post.PublishedAt)

	switch post.Status {
	case entity.PostStatusDraft:
		return nil
	case entity.PostStatusPublished:
		if post.PublishedAt == nil {
			post.PublishedAt = &now
		}
		return nil
	case entity.PostStatusScheduled:
		if !clock.IsFuture(post.PublishedAt, now) {
			return apperr.Validation("SCHEDULE_NOT_FUTURE", "Agendamento exige uma data futura")
		}
		return nil
	default:
		return apperr.Validation("INVALID_STATUS", "Status de publicação inválido")
	}
}

// CreatePost creates a post on behalf of the acting user.
func (s *PostService) CreatePost(ctx context.Context, actor *entity.DbUser, req *entity.PostCreateRequest) (*entity.DbPost, error) {
	status := entity.PostStatusDraft
	if strings.TrimSpace(req.Status) != "" {
		status = entity.ParsePostStatus(req.Status)
		if status == "" {
			return nil, apperr.Validation("INVALID_STATUS", "Status de publicação inválido")
		}
	}

	var post *entity.DbPost
	err := s.repo.Transact(ctx, func(tx model.Repository) error {
		category, err := loadCategoryByID(ctx, tx, req.CategoryID)
		if err != nil {
			return err
		}
		author, err := loadAuthorByID(ctx, tx, req.AuthorID)
		if err != nil {
			return err
		}
		if err := permission.CanWrite(actor, category, author.ID); err != nil {
			return err
		}

		slug, err := resolvePostSlug(ctx, tx, req.Slug, req.Title, "")
		if err != nil {
			return err
		}

		post = &entity.DbPost{
			Slug:            slug,
			Title:           strings.TrimSpace(req.Title),
			Excerpt:         strings.TrimSpace(req.Excerpt),
			CoverImageURL:   strings.TrimSpace(req.CoverImageURL),
			ContentMarkdown: req.ContentMarkdown,
			Status:          status,
			CategoryID:      category.ID,
			AuthorID:        author.ID,
			PublishedAt:     clock.EnsureUTCPtr(req.PublishedAt),
		}
		if err := s.applyLifecycle(post); err != nil {
			return err
		}
		if err := tx.CreatePost(ctx, post); err != nil {
			return apperr.Internal(err)
		}
		post.Category = category
		post.Author = author
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"post_id": post.ID, "status": post.Status}).Info("post created")
	return post, nil
}

func loadPost(ctx context.Context, tx model.Repository, identifier string) (*entity.DbPost, error) {
	post, err := tx.GetPostByIDOrSlug(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("POST_NOT_FOUND", "Publicação não encontrada")
		}
		return nil, apperr.Internal(err)
	}
	return post, nil
}

// GetPost loads a post for an authenticated reader. Private content is
// visible only to users who could also write it.
func (s *PostService) GetPost(ctx context.Context, actor *entity.DbUser, identifier string) (*entity.DbPost, error) {
	post, err := loadPost(ctx, s.repo, identifier)
	if err != nil {
		return nil, err
	}
	if err := permission.CanRead(actor, post, post.Category, s.clk.Now()); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost applies a partial update. The actor must be allowed to write the
// post both as it stands and as it would end up, so a scoped user can neither
// take over a foreign post nor move one into a forbidden category.
func (s *PostService) UpdatePost(ctx context.Context, actor *entity.DbUser, identifier string, req *entity.PostUpdateRequest) (*entity.DbPost, error) {
	var updated *entity.DbPost
	err := s.repo.Transact(ctx, func(tx model.Repository) error {
		post, err := loadPost(ctx, tx, identifier)
		if err != nil {
			return err
		}
		if err := permission.CanWrite(actor, post.Category, post.AuthorID); err != nil {
			return err
		}

		category := post.Category
		if req.CategoryID != nil && *req.CategoryID != post.CategoryID {
			category, err = loadCategoryByID(ctx, tx, *req.CategoryID)
			if err != nil {
				return err
			}
			post.CategoryID = category.ID
		}
		author := post.Author
		if req.AuthorID != nil && *req.AuthorID != post.AuthorID {
			author, err = loadAuthorByID(ctx, tx, *req.AuthorID)
			if err != nil {
				return err
			}
			post.AuthorID = author.ID
		}

		if req.Slug != nil && strings.ToLower(strings.TrimSpace(*req.Slug)) != post.Slug {
			slug, err := resolvePostSlug(ctx, tx, *req.Slug, post.Title, post.ID)
			if err != nil {
				return err
			}
			post.Slug = slug
		}
		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				return apperr.Validation("INVALID_TITLE", "Título não pode ser vazio")
			}
			post.Title = title
		}
		if req.Excerpt != nil {
			post.Excerpt = strings.TrimSpace(*req.Excerpt)
		}
		if req.CoverImageURL != nil {
			post.CoverImageURL = strings.TrimSpace(*req.CoverImageURL)
		}
		if req.ContentMarkdown != nil {
			if strings.TrimSpace(*req.ContentMarkdown) == "" {
				return apperr.Validation("INVALID_CONTENT", "Conteúdo não pode ser vazio")
			}
			post.ContentMarkdown = *req.ContentMarkdown
		}
		if req.Status != nil {
			status := entity.ParsePostStatus(*req.Status)
			if status == "" {
				return apperr.Validation("INVALID_STATUS", "Status de publicação inválido")
			}
			post.Status = status
		}
		if req.PublishedAt != nil {
			post.PublishedAt = clock.EnsureUTCPtr(req.PublishedAt)
		}

		if err := s.applyLifecycle(post); err != nil {
			return err
		}
		// The final state needs a second permission check: the first one
		// only covered the post as it was.
		if err := permission.CanWrite(actor, category, post.AuthorID); err != nil {
			return err
		}

		if err := tx.SavePost(ctx, post); err != nil {
			return apperr.Internal(err)
		}
		post.Category = category
		post.Author = author
		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// PublishPost moves a post to published. An existing publication timestamp is
// preserved, so republishing never rewrites history; only a post that never
// had one gets the current instant.
func (s *PostService) PublishPost(ctx context.Context, actor *entity.DbUser, identifier string) (*entity.DbPost, error) {
	var published *entity.DbPost
	err := s.repo.Transact(ctx, func(tx model.Repository) error {
		post, err := loadPost(ctx, tx, identifier)
		if err != nil {
			return err
		}
		if err := permission.CanWrite(actor, post.Category, post.AuthorID); err != nil {
			return err
		}

		post.Status = entity.PostStatusPublished
		if err := s.applyLifecycle(post); err != nil {
			return err
		}
		if err := tx.SavePost(ctx, post); err != nil {
			return apperr.Internal(err)
		}
		published = post
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithField("post_id", published.ID).Info("post published")
	return published, nil
}

// SchedulePost moves a post to scheduled with a strictly future publication
// instant.
func (s *PostService) SchedulePost(ctx context.Context, actor *entity.DbUser, identifier string, req *entity.PostScheduleRequest) (*entity.DbPost, error) {
	var scheduled *entity.DbPost
	err := s.repo.Transact(ctx, func(tx model.Repository) error {
		post, err := loadPost(ctx, tx, identifier)
		if err != nil {
			return err
		}
		if err := permission.CanWrite(actor, post.Category, post.AuthorID); err != nil {
			return err
		}

		post.Status = entity.PostStatusScheduled
		post.PublishedAt = clock.EnsureUTCPtr(req.PublishedAt)
		if err := s.applyLifecycle(post); err != nil {
			return err
		}
		if err := tx.SavePost(ctx, post); err != nil {
			return apperr.Internal(err)
		}
		scheduled = post
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"post_id": scheduled.ID, "published_at": scheduled.PublishedAt}).Info("post scheduled")
	return scheduled, nil
}

// DeletePost removes a post.
func (s *PostService) DeletePost(ctx context.Context, actor *entity.DbUser, identifier string) error {
	return s.repo.Transact(ctx, func(tx model.Repository) error {
		post, err := loadPost(ctx, tx, identifier)
		if err != nil {
			return err
		}
		if err := permission.CanWrite(actor, post.Category, post.AuthorID); err != nil {
			return err
		}
		if err := tx.DeletePost(ctx, post.ID); err != nil {
			return apperr.Internal(err)
		}
		logrus.WithField("post_id", post.ID).Info("post deleted")
		return nil
	})
}

// ListPosts returns the authenticated listing, narrowed to the categories the
// acting user may see.
func (s *PostService) ListPosts(ctx context.Context, actor *entity.DbUser, params *entity.PostQuery) ([]entity.PostSummary, *entity.Meta, error) {
	if actor == nil || !actor.IsActive {
		return nil, nil, apperr.Forbidden("USER_INACTIVE", "Usuário inativo")
	}
	params.Normalize()

	categories, err := s.repo.ListAllCategories(ctx)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	params.Scope = permission.ScopeFor(actor, categories)

	posts, meta, err := s.repo.ListPosts(ctx, params)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}

	summaries := make([]entity.PostSummary, 0, len(posts))
	for i := range posts {
		summaries = append(summaries, entity.MakePostSummary(&posts[i], false))
	}
	return summaries, meta, nil
}

// PublicFeed returns the anonymous feed of publicly visible posts.
func (s *PostService) PublicFeed(ctx context.Context, params *entity.PublicPostQuery) ([]entity.PostSummary, *entity.Meta, error) {
	params.Normalize()
	posts, meta, err := s.repo.ListPublicPosts(ctx, params, s.clk.Now())
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	summaries := make([]entity.PostSummary, 0, len(posts))
	for i := range posts {
		summaries = append(summaries, entity.MakePostSummary(&posts[i], false))
	}
	return summaries, meta, nil
}

// PublicPost returns a publicly visible post with its content rendered to
// sanitised HTML.
func (s *PostService) PublicPost(ctx context.Context, slug string) (*entity.PostSummary, error) {
	post, err := s.repo.GetPublicPostBySlug(ctx, slug, s.clk.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("POST_NOT_FOUND", "Publicação não encontrada")
		}
		return nil, apperr.Internal(err)
	}

	summary := entity.MakePostSummary(post, true)
	html, err := render.MarkdownToHTML(post.ContentMarkdown)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	summary.ContentHTML = html
	return &summary, nil
}

// PromoteDueScheduledPosts flips every scheduled post whose publication
// instant has arrived to published. Called by the scheduler.
func (s *PostService) PromoteDueScheduledPosts(ctx context.Context) (int64, error) {
	return s.repo.PublishDueScheduledPosts(ctx, s.clk.Now())
}
