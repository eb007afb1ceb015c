// Package authz decides whether an actor may perform an operation on a
// resource. Every domain service method consults it before mutating or
// reading; the service maps a denial to the operation's error shape (masked
// not-found for claims, explicit ownership errors for notes, administrator
// errors for admin-only operations).
package authz

import (
	"context"

	userdomain "insurance-claims/backend/internal/user/domain"
)

// Action names an operation gated by the rule set.
type Action string

const (
	ActionClaimRead         Action = "claim.read"
	ActionClaimCreate       Action = "claim.create"
	ActionClaimUpdateStatus Action = "claim.update_status"
	ActionClaimAssignAgent  Action = "claim.assign_agent"
	ActionNoteRead          Action = "note.read"
	ActionNoteWrite         Action = "note.write"
	ActionPolicyManage      Action = "policy.manage"
	ActionPolicyReadAll     Action = "policy.read_all"
	ActionPolicyReadActive  Action = "policy.read_active"
	ActionUserManage        Action = "user.manage"
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID   string
	Role userdomain.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == userdomain.RoleAdmin
}

// Resource carries the ownership facts a decision may depend on. OwnerUserID
// is empty for resources without an owner (e.g. policies).
type Resource struct {
	OwnerUserID string
}

// Evaluator answers allow/deny for an action. Implementations must be pure
// with respect to application state: identical inputs yield identical answers.
type Evaluator interface {
	Allowed(ctx context.Context, action Action, actor Actor, resource Resource) (bool, error)
}
