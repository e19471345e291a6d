// Package permission holds the pure authorization decision functions.
// Policies never touch storage: callers resolve the actor's current role
// first (roles are re-read per request, never trusted from tokens) and
// pass resource ownership in explicitly.
package permission

import (
	"net/http"

	"github.com/fauzanhakim/ratebase/internal/entity"
	"github.com/fauzanhakim/ratebase/pkg/apperror"
	"github.com/google/uuid"
)

type Decision int

const (
	Allow Decision = iota
	// Unauthorized means the actor is anonymous; maps to 401.
	Unauthorized
	// Forbidden means the actor is known but disallowed; maps to 403.
	Forbidden
)

// Actor is the authenticated (or anonymous) principal of a request.
type Actor struct {
	ID            uuid.UUID
	Role          string
	Superuser     bool
	Authenticated bool
}

// AnonymousActor is the zero principal for unauthenticated requests.
var AnonymousActor = Actor{}

// ActorFor builds an Actor from a freshly loaded user row.
func ActorFor(u *entity.User) Actor {
	if u == nil {
		return AnonymousActor
	}
	return Actor{
		ID:            u.ID,
		Role:          u.Role,
		Superuser:     u.IsSuperuser,
		Authenticated: true,
	}
}

func (a Actor) isAdmin() bool {
	return a.Authenticated && (a.Role == entity.RoleAdmin || a.Superuser)
}

func (a Actor) isModerator() bool {
	return a.Authenticated && a.Role == entity.RoleModerator
}

// SafeMethod reports whether the verb is read-only and exempt from write
// authorization.
func SafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Policy decides whether an actor may perform a verb against a resource
// owned by ownerID. Policies that ignore ownership receive uuid.Nil.
type Policy func(actor Actor, method string, ownerID uuid.UUID) Decision

func deny(actor Actor) Decision {
	if !actor.Authenticated {
		return Unauthorized
	}
	return Forbidden
}

// AdminOnly allows only admins (by role or superuser flag).
func AdminOnly(actor Actor, method string, ownerID uuid.UUID) Decision {
	if actor.isAdmin() {
		return Allow
	}
	return deny(actor)
}

// AdminOrReadOnly allows safe verbs unconditionally; unsafe verbs require
// admin.
func AdminOrReadOnly(actor Actor, method string, ownerID uuid.UUID) Decision {
	if SafeMethod(method) {
		return Allow
	}
	return AdminOnly(actor, method, ownerID)
}

// Authenticated requires a logged-in actor for every verb.
func Authenticated(actor Actor, method string, ownerID uuid.UUID) Decision {
	if actor.Authenticated {
		return Allow
	}
	return Unauthorized
}

// AuthenticatedOrReadOnly allows safe verbs unconditionally; unsafe verbs
// require a logged-in actor.
func AuthenticatedOrReadOnly(actor Actor, method string, ownerID uuid.UUID) Decision {
	if SafeMethod(method) {
		return Allow
	}
	return Authenticated(actor, method, ownerID)
}

// AuthorOrModeratorOrReadOnly allows safe verbs unconditionally; unsafe
// verbs on an existing resource require admin, moderator, or ownership.
func AuthorOrModeratorOrReadOnly(actor Actor, method string, ownerID uuid.UUID) Decision {
	if SafeMethod(method) {
		return Allow
	}
	if actor.isAdmin() || actor.isModerator() {
		return Allow
	}
	if actor.Authenticated && actor.ID != uuid.Nil && actor.ID == ownerID {
		return Allow
	}
	return deny(actor)
}

// All composes policies with logical AND: the first non-Allow decision
// wins.
func All(actor Actor, method string, ownerID uuid.UUID, policies ...Policy) Decision {
	for _, policy := range policies {
		if d := policy(actor, method, ownerID); d != Allow {
			return d
		}
	}
	return Allow
}

// Evaluate runs the composed policies and maps the decision onto the error
// taxonomy, keeping the 401/403 split intact end to end.
func Evaluate(actor Actor, method string, ownerID uuid.UUID, policies ...Policy) error {
	switch All(actor, method, ownerID, policies...) {
	case Unauthorized:
		return apperror.ErrUnauthorized
	case Forbidden:
		return apperror.ErrForbidden
	}
	return nil
}
