package repository

import (
	"context"
	"time"

	"insurance-claims/backend/internal/policy/domain"
)

// ListFilter narrows and orders List results.
type ListFilter struct {
	Status    domain.Status
	SortBy    string // created_at (default), name, effective_at_date, status
	SortOrder string // asc or desc (default)
}

// UpdateFields holds the mutable policy fields; nil pointers are left unchanged.
type UpdateFields struct {
	Name        *string
	Description *string
	Status      *domain.Status
	EffectiveAt *time.Time
}

// Repository defines persistence for policies. Policies are never removed;
// soft delete is an Update to cancelled.
type Repository interface {
	Create(ctx context.Context, p *domain.Policy) error
	GetByID(ctx context.Context, id string) (*domain.Detail, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Detail, error)
	// Update applies fields and returns the changed-row count (0 when the
	// policy does not exist).
	Update(ctx context.Context, id string, fields UpdateFields, now time.Time) (int64, error)
}
