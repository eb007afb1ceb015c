package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"insurance-claims/backend/internal/apperr"
	"insurance-claims/backend/internal/authz"
	claimdomain "insurance-claims/backend/internal/claim/domain"
	"insurance-claims/backend/internal/note/domain"
)

// NoteRepo is the minimal note repository needed by the note service.
type NoteRepo interface {
	Create(ctx context.Context, n *domain.Note) error
	GetByID(ctx context.Context, id string) (*domain.Detail, error)
	ListByClaim(ctx context.Context, claimID string) ([]*domain.Detail, error)
	CountByClaim(ctx context.Context, claimID string) (int, error)
}

// ClaimRepo resolves claims for the ownership check.
type ClaimRepo interface {
	GetByID(ctx context.Context, id string) (*claimdomain.Detail, error)
}

// NoteService implements the annotation thread on claims. Unlike claim reads,
// ownership violations here surface explicit messages rather than a masked
// not-found.
type NoteService struct {
	notes  NoteRepo
	claims ClaimRepo
	rules  authz.Evaluator
}

// NewNoteService returns a NoteService with the given dependencies.
func NewNoteService(notes NoteRepo, claims ClaimRepo, rules authz.Evaluator) *NoteService {
	return &NoteService{notes: notes, claims: claims, rules: rules}
}

// AddNote appends a note to the claim's thread. Customers may only annotate
// their own claims.
func (s *NoteService) AddNote(ctx context.Context, claimID, text string, actor authz.Actor) (*domain.Detail, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("Note text is required")
	}
	claim, err := s.claims.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, apperr.NotFound("Claim not found")
	}
	allowed, err := s.rules.Allowed(ctx, authz.ActionNoteWrite, actor, authz.Resource{OwnerUserID: claim.OwnerUserID})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Authorization("You can only add notes to your own claims")
	}
	n := &domain.Note{
		ID:           uuid.New().String(),
		ClaimID:      claimID,
		AuthorUserID: actor.ID,
		Text:         text,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, err
	}
	return s.notes.GetByID(ctx, n.ID)
}

// GetNotes returns the claim's notes, oldest first. Customers may only read
// notes on their own claims.
func (s *NoteService) GetNotes(ctx context.Context, claimID string, actor authz.Actor) ([]*domain.Detail, error) {
	claim, err := s.claims.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, apperr.NotFound("Claim not found")
	}
	allowed, err := s.rules.Allowed(ctx, authz.ActionNoteRead, actor, authz.Resource{OwnerUserID: claim.OwnerUserID})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Authorization("You can only view notes for your own claims")
	}
	return s.notes.ListByClaim(ctx, claimID)
}

// GetNoteCount returns the number of notes on the claim.
func (s *NoteService) GetNoteCount(ctx context.Context, claimID string) (int, error) {
	return s.notes.CountByClaim(ctx, claimID)
}
