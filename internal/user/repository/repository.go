package repository

import (
	"context"
	"time"

	"insurance-claims/backend/internal/user/domain"
)

// ListFilter narrows List results. Zero values mean no filtering.
type ListFilter struct {
	Role     domain.Role
	IsActive *bool
}

// UpdateFields holds the mutable user fields; nil pointers are left unchanged.
type UpdateFields struct {
	FirstName *string
	LastName  *string
	IsActive  *bool
	PolicyID  *string
}

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	// GetByInviteToken returns the user holding the token, or nil when the
	// token is unknown or expired at now.
	GetByInviteToken(ctx context.Context, token string, now time.Time) (*domain.Profile, error)
	Create(ctx context.Context, u *domain.User) error
	// Update applies fields and returns the changed-row count (0 when the
	// user does not exist).
	Update(ctx context.Context, id string, fields UpdateFields, now time.Time) (int64, error)
	// Activate sets the credential, marks the user active, and clears the
	// invite token and expiry. Returns the changed-row count.
	Activate(ctx context.Context, id, passwordHash string, now time.Time) (int64, error)
	// Deactivate flips is_active to false. Returns the changed-row count.
	Deactivate(ctx context.Context, id string, now time.Time) (int64, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Profile, error)
	// ListActiveAgents returns all active admins ordered by name.
	ListActiveAgents(ctx context.Context) ([]*domain.User, error)
	// CountActiveAdmins returns the number of active admin users.
	CountActiveAdmins(ctx context.Context) (int, error)
}
