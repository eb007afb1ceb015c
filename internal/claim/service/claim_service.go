package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"insurance-claims/backend/internal/apperr"
	"insurance-claims/backend/internal/audit"
	"insurance-claims/backend/internal/authz"
	"insurance-claims/backend/internal/claim/domain"
	"insurance-claims/backend/internal/claim/lifecycle"
	claimrepo "insurance-claims/backend/internal/claim/repository"
	userdomain "insurance-claims/backend/internal/user/domain"
)

// ClaimRepo is the minimal claim repository needed by the claim service.
type ClaimRepo interface {
	Create(ctx context.Context, c *domain.Claim) error
	GetByID(ctx context.Context, id string) (*domain.Detail, error)
	List(ctx context.Context, filter claimrepo.ListFilter) ([]*domain.Detail, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.Status, updatedBy string) (int64, error)
	AssignAgent(ctx context.Context, id, agentID, updatedBy string) (int64, error)
	History(ctx context.Context, claimID string) ([]*domain.HistoryEntry, error)
}

// UserRepo is the minimal user repository needed by the claim service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.Profile, error)
}

// SubmitClaimInput carries the submitter-provided claim fields. Documents are
// opaque filename references already persisted by the upload layer.
type SubmitClaimInput struct {
	DateOfOccurrence time.Time
	Location         string
	Cause            string
	Description      string
	Documents        []string
}

// ListInput carries claim list filters. Non-admin callers are always scoped
// to their own claims regardless of filter input.
type ListInput struct {
	Status          string
	AssignedAgentID string
	Search          string
	SortBy          string
	SortOrder       string
}

// ClaimService orchestrates claim submission, listing, status transitions,
// and agent assignment.
type ClaimService struct {
	claims   ClaimRepo
	users    UserRepo
	rules    authz.Evaluator
	auditLog audit.AuditLogger
}

// NewClaimService returns a ClaimService with the given dependencies.
func NewClaimService(claims ClaimRepo, users UserRepo, rules authz.Evaluator, auditLog audit.AuditLogger) *ClaimService {
	return &ClaimService{claims: claims, users: users, rules: rules, auditLog: auditLog}
}

// SubmitClaim validates the input, resolves the actor's assigned policy, and
// persists the claim at status submitted together with its creation history
// row. Returns the full claim projection.
func (s *ClaimService) SubmitClaim(ctx context.Context, in SubmitClaimInput, actor authz.Actor) (*domain.Detail, error) {
	if err := validateClaimInput(in); err != nil {
		return nil, err
	}
	allowed, err := s.rules.Allowed(ctx, authz.ActionClaimCreate, actor, authz.Resource{OwnerUserID: actor.ID})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Authorization("Authentication required. Please log in.")
	}
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	if user.PolicyID == "" {
		return nil, apperr.Validation("User does not have an assigned policy. Please contact support.")
	}
	now := time.Now().UTC()
	c := &domain.Claim{
		ID:               uuid.New().String(),
		OwnerUserID:      actor.ID,
		PolicyID:         user.PolicyID,
		DateOfOccurrence: in.DateOfOccurrence,
		Location:         strings.TrimSpace(in.Location),
		Cause:            domain.Cause(in.Cause),
		Description:      strings.TrimSpace(in.Description),
		Status:           domain.StatusSubmitted,
		Documents:        in.Documents,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.claims.Create(ctx, c); err != nil {
		return nil, err
	}
	s.auditLog.LogEvent(ctx, actor.ID, "claim_submitted", "claim:"+c.ID, "")
	return s.claims.GetByID(ctx, c.ID)
}

// GetClaims lists claims matching the filters. Non-admin results are scoped
// to the actor's own claims.
func (s *ClaimService) GetClaims(ctx context.Context, in ListInput, actor authz.Actor) ([]*domain.Detail, error) {
	filter := claimrepo.ListFilter{
		Status:          domain.Status(in.Status),
		AssignedAgentID: in.AssignedAgentID,
		Search:          in.Search,
		SortBy:          in.SortBy,
		SortOrder:       in.SortOrder,
	}
	if !actor.IsAdmin() {
		filter.OwnerUserID = actor.ID
	}
	return s.claims.List(ctx, filter)
}

// GetClaimByID returns the claim if the actor may read it. Non-owners receive
// the same not-found error as for a missing claim; existence is not leaked.
func (s *ClaimService) GetClaimByID(ctx context.Context, id string, actor authz.Actor) (*domain.Detail, error) {
	c, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Claim not found")
	}
	allowed, err := s.rules.Allowed(ctx, authz.ActionClaimRead, actor, authz.Resource{OwnerUserID: c.OwnerUserID})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.NotFound("Claim not found")
	}
	return c, nil
}

// GetClaimHistory returns the claim's status history, newest first, applying
// the claim read rule.
func (s *ClaimService) GetClaimHistory(ctx context.Context, id string, actor authz.Actor) ([]*domain.HistoryEntry, error) {
	if _, err := s.GetClaimByID(ctx, id, actor); err != nil {
		return nil, err
	}
	return s.claims.History(ctx, id)
}

// GetAllowedTransitions returns the allowed target statuses for the claim's
// current status, applying the claim read rule.
func (s *ClaimService) GetAllowedTransitions(ctx context.Context, id string, actor authz.Actor) ([]domain.Status, error) {
	c, err := s.GetClaimByID(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	return lifecycle.AllowedTransitions(c.Status), nil
}

// UpdateClaimStatus moves the claim to newStatus. Admin only. The transition
// is validated against the state machine and applied atomically against the
// loaded from-status; a concurrent transition surfaces as not-found.
func (s *ClaimService) UpdateClaimStatus(ctx context.Context, id string, newStatus domain.Status, actor authz.Actor) (*domain.Detail, error) {
	allowed, err := s.rules.Allowed(ctx, authz.ActionClaimUpdateStatus, actor, authz.Resource{})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Authorization("Only administrators can update claim status")
	}
	c, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Claim not found")
	}
	if v := lifecycle.ValidateTransition(c.Status, newStatus); !v.Valid {
		return nil, apperr.StateTransition(v.Reason)
	}
	rows, err := s.claims.UpdateStatus(ctx, id, c.Status, newStatus, actor.ID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.NotFound("Claim not found")
	}
	s.auditLog.LogEvent(ctx, actor.ID, "claim_status_changed", "claim:"+id,
		fmt.Sprintf("%s -> %s", c.Status, newStatus))
	return s.claims.GetByID(ctx, id)
}

// AssignAgent sets the claim's assigned agent. Admin only. No state-machine
// involvement and no history row; assignment is tracked via the updater field.
func (s *ClaimService) AssignAgent(ctx context.Context, claimID, agentID string, actor authz.Actor) (*domain.Detail, error) {
	allowed, err := s.rules.Allowed(ctx, authz.ActionClaimAssignAgent, actor, authz.Resource{})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Authorization("Only administrators can assign agents")
	}
	if strings.TrimSpace(agentID) == "" {
		return nil, apperr.Validation("Agent ID is required")
	}
	c, err := s.claims.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Claim not found")
	}
	rows, err := s.claims.AssignAgent(ctx, claimID, agentID, actor.ID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.NotFound("Claim not found")
	}
	s.auditLog.LogEvent(ctx, actor.ID, "claim_agent_assigned", "claim:"+claimID, "agent:"+agentID)
	return s.claims.GetByID(ctx, claimID)
}

func validateClaimInput(in SubmitClaimInput) error {
	var errs []string
	if in.DateOfOccurrence.IsZero() {
		errs = append(errs, "Date of occurrence is required")
	}
	if strings.TrimSpace(in.Location) == "" {
		errs = append(errs, "Location is required")
	}
	if !domain.Cause(in.Cause).Valid() {
		errs = append(errs, "Cause must be one of: "+domain.CausesString())
	}
	if strings.TrimSpace(in.Description) == "" {
		errs = append(errs, "Description is required")
	}
	if len(errs) > 0 {
		return apperr.Validation(errs...)
	}
	return nil
}
