// Package policy is the request-authorization engine. Endpoints declare an
// ordered set of policies; a request passes if any policy lets it through,
// and object-level checks take the target's owner explicitly rather than
// reading ambient session state.
package policy

import (
	"net/http"

	"reviewhub/internal/apperr"
	"reviewhub/internal/models"
)

// Principal is an immutable snapshot of the authenticated caller, built by
// the auth middleware from a fresh user row on every request. Role changes
// therefore take effect on the very next request.
type Principal struct {
	UserID        string
	Username      string
	Role          string
	Superuser     bool
	Authenticated bool
}

// Anonymous is the principal for requests without a credential.
func Anonymous() Principal {
	return Principal{}
}

// FromUser snapshots a user row into a principal.
func FromUser(u *models.User) Principal {
	return Principal{
		UserID:        u.ID,
		Username:      u.Username,
		Role:          u.Role,
		Superuser:     u.Superuser,
		Authenticated: true,
	}
}

func (p Principal) IsAdmin() bool {
	return p.Authenticated && p.Role == models.RoleAdmin
}

func (p Principal) IsModerator() bool {
	return p.Authenticated && p.Role == models.RoleModerator
}

func (p Principal) IsSuperuser() bool {
	return p.Authenticated && p.Superuser
}

// Action identifies what the request is trying to do.
type Action struct {
	Method string // HTTP method
	Name   string // e.g. "review.update", used in deny logs
}

// Safe reports whether the method has no mutating side effect.
func (a Action) Safe() bool {
	switch a.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Decision is the outcome of a single policy predicate.
type Decision int

const (
	// Defer means the policy cannot decide until the target object is known.
	Defer Decision = iota
	Allow
	Deny
)

// Policy is a pure predicate pair: request-level and object-level. Object
// ownership is passed explicitly as the owning user's ID.
type Policy interface {
	Permit(p Principal, act Action) Decision
	PermitObject(p Principal, act Action, ownerID string) Decision
}

// AdminOnly allows authenticated admins and the superuser break-glass
// account, identically at request and object level.
type AdminOnly struct{}

func (AdminOnly) Permit(p Principal, _ Action) Decision {
	if p.IsAdmin() || p.IsSuperuser() {
		return Allow
	}
	return Deny
}

func (a AdminOnly) PermitObject(p Principal, act Action, _ string) Decision {
	return a.Permit(p, act)
}

// ReadOnly allows safe methods for anyone, including anonymous callers.
type ReadOnly struct{}

func (ReadOnly) Permit(_ Principal, act Action) Decision {
	if act.Safe() {
		return Allow
	}
	return Deny
}

func (r ReadOnly) PermitObject(p Principal, act Action, _ string) Decision {
	return r.Permit(p, act)
}

// AuthorOrModeratorOrAdminOrReadOnly governs review and comment mutation.
// At request level it only filters out anonymous writers; the real decision
// waits for the target object.
type AuthorOrModeratorOrAdminOrReadOnly struct{}

func (AuthorOrModeratorOrAdminOrReadOnly) Permit(p Principal, act Action) Decision {
	if act.Safe() {
		return Allow
	}
	if p.Authenticated {
		return Defer
	}
	return Deny
}

func (AuthorOrModeratorOrAdminOrReadOnly) PermitObject(p Principal, act Action, ownerID string) Decision {
	if act.Safe() {
		return Allow
	}
	if p.Authenticated && p.UserID == ownerID {
		return Allow
	}
	if p.IsAdmin() || p.IsModerator() {
		return Allow
	}
	return Deny
}

// Set is an ordered list of policies combined with short-circuit OR.
type Set []Policy

// Request evaluates the set at request level. Defer counts as a pass here;
// the caller is expected to follow up with Object once the target is loaded.
func (s Set) Request(p Principal, act Action) error {
	for _, pol := range s {
		switch pol.Permit(p, act) {
		case Allow, Defer:
			return nil
		}
	}
	return s.deny(p)
}

// Object evaluates the set against a concrete target. A policy only counts
// if it did not deny at request level.
func (s Set) Object(p Principal, act Action, ownerID string) error {
	for _, pol := range s {
		if pol.Permit(p, act) == Deny {
			continue
		}
		if pol.PermitObject(p, act, ownerID) == Allow {
			return nil
		}
	}
	return s.deny(p)
}

// deny distinguishes "who are you" from "you may not".
func (s Set) deny(p Principal) error {
	if !p.Authenticated {
		return apperr.ErrUnauthenticated
	}
	return apperr.ErrForbidden
}
