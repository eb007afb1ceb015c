package repository

import (
	"context"

	"insurance-claims/backend/internal/claim/domain"
)

// ListFilter narrows and orders List results. A non-empty OwnerUserID scopes
// the list to that owner's claims (customer scoping). Search is a
// case-insensitive substring match across policy id, location, cause,
// description, owner name/email, and claim id.
type ListFilter struct {
	OwnerUserID     string
	Status          domain.Status
	AssignedAgentID string
	Search          string
	SortBy          string // created_at (default), date_of_occurrence, status
	SortOrder       string // asc or desc (default)
}

// Repository defines persistence for claims and their status history.
type Repository interface {
	// Create persists the claim and its creation history row (from-status
	// empty, to-status submitted) in one transaction.
	Create(ctx context.Context, c *domain.Claim) error
	GetByID(ctx context.Context, id string) (*domain.Detail, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Detail, error)
	// UpdateStatus atomically moves the claim from→to, records the updater,
	// and appends a history row. The update is conditional on the current
	// status still being from; returns the changed-row count (0 when the
	// claim is missing or was concurrently moved off from).
	UpdateStatus(ctx context.Context, id string, from, to domain.Status, updatedBy string) (int64, error)
	// AssignAgent overwrites assigned_agent_id and the updater. No history
	// row is written; assignment is tracked only via updated_by_id.
	AssignAgent(ctx context.Context, id, agentID, updatedBy string) (int64, error)
	History(ctx context.Context, claimID string) ([]*domain.HistoryEntry, error)
}
