package repository

import (
	"context"

	"insurance-claims/backend/internal/note/domain"
)

// Repository defines persistence for claim notes.
type Repository interface {
	Create(ctx context.Context, n *domain.Note) error
	GetByID(ctx context.Context, id string) (*domain.Detail, error)
	// ListByClaim returns the claim's notes joined with author display
	// fields, oldest first.
	ListByClaim(ctx context.Context, claimID string) ([]*domain.Detail, error)
	CountByClaim(ctx context.Context, claimID string) (int, error)
	// Delete removes a note and returns the changed-row count. Supported at
	// the store level but not exposed through any service operation.
	Delete(ctx context.Context, id string) (int64, error)
}
