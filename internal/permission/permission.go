// Package permission is the access-control engine. It evaluates which role
// may read, write or list which content; it never performs I/O and never
// mutates state. All role membership decisions live here; other components
// call into this package instead of re-deriving role checks.
package permission

import (
	"sort"
	"time"

	"portalcms/internal/apperr"
	"portalcms/internal/entity"
)

// policy describes how a role interacts with categories. Adding a role is a
// single entry in the table below.
type policy struct {
	// fullWrite grants writing in any category with any author.
	fullWrite bool
	// categoryScoped restricts writing to the role's home category (the
	// category whose slug equals the role name) plus categories whose
	// allowed-roles set names the role, and forbids attributing authorship
	// to anyone but the requesting user.
	categoryScoped bool
	// unrestrictedList grants visibility over every category in listings.
	unrestrictedList bool
}

var policies = map[entity.Role]policy{
	entity.RoleAdmin:      {fullWrite: true, unrestrictedList: true},
	entity.RoleSecretaria: {fullWrite: true, unrestrictedList: true},
	entity.RoleEditor:     {fullWrite: true, unrestrictedList: true},
	entity.RoleTJD:        {categoryScoped: true},
}

// CanWrite decides whether the user may create, modify or delete a post in
// the given category attributed to the given author. Returns nil when
// permitted, a Forbidden error otherwise.
func CanWrite(user *entity.DbUser, category *entity.DbCategory, authorID string) error {
	if user == nil {
		return apperr.Forbidden("FORBIDDEN", "Usuário sem permissão para esta operação")
	}
	if !user.IsActive {
		return apperr.Forbidden("USER_INACTIVE", "Usuário inativo")
	}

	pol, known := policies[user.Role]
	if !known {
		return apperr.Forbidden("FORBIDDEN", "Usuário sem permissão para esta operação")
	}

	if pol.fullWrite {
		return nil
	}

	if pol.categoryScoped {
		if category == nil {
			return apperr.Forbidden("FORBIDDEN", "Usuário não pode publicar nesta categoria")
		}
		if category.Slug != string(user.Role) && !category.AllowsRole(user.Role) {
			return apperr.Forbidden("FORBIDDEN", "Usuário não pode publicar nesta categoria")
		}
		if authorID != user.ID {
			return apperr.Forbidden("FORBIDDEN", "Usuário não pode atribuir outro autor")
		}
		return nil
	}

	return apperr.Forbidden("FORBIDDEN", "Usuário sem permissão para esta operação")
}

// CanRead decides whether the user may read the post. Public posts are
// readable by anyone; private or unpublished content is visible only to
// users who could also write it.
func CanRead(user *entity.DbUser, post *entity.DbPost, category *entity.DbCategory, now time.Time) error {
	if post != nil && post.IsPublicAt(now) {
		return nil
	}
	var authorID string
	if post != nil {
		authorID = post.AuthorID
	}
	return CanWrite(user, category, authorID)
}

// ScopeFor translates the user's effective visibility into a category scope
// for list queries. The category list is needed to resolve allowed-roles
// grants; callers pass every known category.
func ScopeFor(user *entity.DbUser, categories []entity.DbCategory) entity.CategoryScope {
	if user == nil {
		return entity.CategoryScope{}
	}

	pol, known := policies[user.Role]
	if !known {
		return entity.CategoryScope{}
	}
	if pol.unrestrictedList {
		return entity.UnrestrictedScope()
	}

	slugs := make(map[string]struct{})
	for _, slug := range user.AllowedCategorySlugs {
		if slug != "" {
			slugs[slug] = struct{}{}
		}
	}
	if pol.categoryScoped {
		slugs[string(user.Role)] = struct{}{}
		for i := range categories {
			if categories[i].AllowsRole(user.Role) {
				slugs[categories[i].Slug] = struct{}{}
			}
		}
	}

	scope := entity.CategoryScope{Slugs: make([]string, 0, len(slugs))}
	for slug := range slugs {
		scope.Slugs = append(scope.Slugs, slug)
	}
	sort.Strings(scope.Slugs)
	return scope
}
