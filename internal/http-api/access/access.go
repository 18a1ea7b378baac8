// Package access holds the single authorization predicate for the API.
// Every handler consults Allow instead of re-implementing role checks.
package access

import "titlehub/internal/http-api/models"

// Action is what the caller wants to do with a resource.
type Action int

const (
	ActionList Action = iota
	ActionRetrieve
	ActionCreate
	ActionUpdate
	ActionDelete
)

// Resource is the kind of object the action targets.
type Resource int

const (
	ResourceCategory Resource = iota
	ResourceGenre
	ResourceTitle
	ResourceReview
	ResourceComment
	ResourceUser
)

// Caller identifies the requester. The zero value is an anonymous caller.
type Caller struct {
	ID            string
	Role          string
	Authenticated bool
}

// CallerFor builds a Caller from a resolved user record.
func CallerFor(u *models.User) Caller {
	if u == nil {
		return Caller{}
	}
	return Caller{ID: u.ID, Role: u.Role, Authenticated: true}
}

func (c Caller) isStaff() bool {
	return c.Authenticated && (c.Role == models.RoleModerator || c.Role == models.RoleAdmin)
}

func (c Caller) isAdmin() bool {
	return c.Authenticated && c.Role == models.RoleAdmin
}

// Allow decides whether the caller may perform action on a resource owned by
// ownerID (empty for unowned resources). Permission is boolean: an object is
// never partially visible.
func Allow(action Action, resource Resource, caller Caller, ownerID string) bool {
	if resource == ResourceUser {
		// user management is admin-only; the /users/me path never goes
		// through Allow, it is scoped to the bearer identity upstream
		return caller.isAdmin()
	}

	if action == ActionList || action == ActionRetrieve {
		return true
	}

	switch resource {
	case ResourceCategory, ResourceGenre, ResourceTitle:
		return caller.isAdmin()
	case ResourceReview, ResourceComment:
		if action == ActionCreate {
			return caller.Authenticated
		}
		return caller.isStaff() || (caller.Authenticated && caller.ID == ownerID)
	}
	return false
}
