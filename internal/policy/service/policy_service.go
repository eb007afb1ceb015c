package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"insurance-claims/backend/internal/apperr"
	"insurance-claims/backend/internal/audit"
	"insurance-claims/backend/internal/authz"
	"insurance-claims/backend/internal/policy/domain"
	policyrepo "insurance-claims/backend/internal/policy/repository"
)

// PolicyRepo is the minimal policy repository needed by the policy service.
type PolicyRepo interface {
	Create(ctx context.Context, p *domain.Policy) error
	GetByID(ctx context.Context, id string) (*domain.Detail, error)
	List(ctx context.Context, filter policyrepo.ListFilter) ([]*domain.Detail, error)
	Update(ctx context.Context, id string, fields policyrepo.UpdateFields, now time.Time) (int64, error)
}

// CreatePolicyInput carries the admin-provided fields for policy creation.
type CreatePolicyInput struct {
	Name        string
	Description string
	Status      string // defaults to draft
	EffectiveAt time.Time
}

// UpdatePolicyInput holds the mutable policy fields; nil pointers are left unchanged.
type UpdatePolicyInput struct {
	Name        *string
	Description *string
	Status      *string
	EffectiveAt *time.Time
}

// PolicyService implements policy management. Mutations and full reads are
// admin only; the active list is open to any authenticated user.
type PolicyService struct {
	policies PolicyRepo
	rules    authz.Evaluator
	auditLog audit.AuditLogger
}

// NewPolicyService returns a PolicyService with the given dependencies.
func NewPolicyService(policies PolicyRepo, rules authz.Evaluator, auditLog audit.AuditLogger) *PolicyService {
	return &PolicyService{policies: policies, rules: rules, auditLog: auditLog}
}

// CreatePolicy validates and persists a new policy. Admin only.
func (s *PolicyService) CreatePolicy(ctx context.Context, in CreatePolicyInput, actor authz.Actor) (*domain.Detail, error) {
	if err := s.requireManage(ctx, actor, "Only administrators can create policies"); err != nil {
		return nil, err
	}
	status := domain.Status(in.Status)
	if in.Status == "" {
		status = domain.StatusDraft
	}
	var errs []string
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "Policy name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		errs = append(errs, "Policy description is required")
	}
	if in.EffectiveAt.IsZero() {
		errs = append(errs, "Effective date is required")
	}
	if !status.Valid() {
		errs = append(errs, "Invalid policy status")
	}
	if len(errs) > 0 {
		return nil, apperr.Validation(errs...)
	}
	now := time.Now().UTC()
	p := &domain.Policy{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		CreatedByID: actor.ID,
		Status:      status,
		EffectiveAt: in.EffectiveAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.policies.Create(ctx, p); err != nil {
		return nil, err
	}
	s.auditLog.LogEvent(ctx, actor.ID, "policy_created", "policy:"+p.ID, string(status))
	return s.policies.GetByID(ctx, p.ID)
}

// GetPolicies lists policies matching the filter. Admin only.
func (s *PolicyService) GetPolicies(ctx context.Context, filter policyrepo.ListFilter, actor authz.Actor) ([]*domain.Detail, error) {
	allowed, err := s.rules.Allowed(ctx, authz.ActionPolicyReadAll, actor, authz.Resource{})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Authorization("Admin access required")
	}
	return s.policies.List(ctx, filter)
}

// GetActivePolicies lists policies with status active. Open to any
// authenticated user (customers pick from it at onboarding).
func (s *PolicyService) GetActivePolicies(ctx context.Context, actor authz.Actor) ([]*domain.Detail, error) {
	allowed, err := s.rules.Allowed(ctx, authz.ActionPolicyReadActive, actor, authz.Resource{})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Authorization("Authentication required. Please log in.")
	}
	return s.policies.List(ctx, policyrepo.ListFilter{Status: domain.StatusActive})
}

// GetPolicyByID returns one policy. Admin only.
func (s *PolicyService) GetPolicyByID(ctx context.Context, id string, actor authz.Actor) (*domain.Detail, error) {
	allowed, err := s.rules.Allowed(ctx, authz.ActionPolicyReadAll, actor, authz.Resource{})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Authorization("Admin access required")
	}
	p, err := s.policies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Policy not found")
	}
	return p, nil
}

// UpdatePolicy applies the given fields. Admin only.
func (s *PolicyService) UpdatePolicy(ctx context.Context, id string, in UpdatePolicyInput, actor authz.Actor) (*domain.Detail, error) {
	if err := s.requireManage(ctx, actor, "Only administrators can update policies"); err != nil {
		return nil, err
	}
	existing, err := s.policies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("Policy not found")
	}
	fields := policyrepo.UpdateFields{
		Name:        in.Name,
		Description: in.Description,
		EffectiveAt: in.EffectiveAt,
	}
	if in.Status != nil {
		status := domain.Status(*in.Status)
		if !status.Valid() {
			return nil, apperr.Validation("Invalid policy status")
		}
		fields.Status = &status
	}
	rows, err := s.policies.Update(ctx, id, fields, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.NotFound("Policy not found")
	}
	s.auditLog.LogEvent(ctx, actor.ID, "policy_updated", "policy:"+id, "")
	return s.policies.GetByID(ctx, id)
}

// DeletePolicy soft-deletes the policy by setting its status to cancelled.
// The row is never removed. Admin only.
func (s *PolicyService) DeletePolicy(ctx context.Context, id string, actor authz.Actor) error {
	if err := s.requireManage(ctx, actor, "Only administrators can delete policies"); err != nil {
		return err
	}
	existing, err := s.policies.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("Policy not found")
	}
	cancelled := domain.StatusCancelled
	rows, err := s.policies.Update(ctx, id, policyrepo.UpdateFields{Status: &cancelled}, time.Now().UTC())
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("Policy not found")
	}
	s.auditLog.LogEvent(ctx, actor.ID, "policy_deleted", "policy:"+id, "")
	return nil
}

func (s *PolicyService) requireManage(ctx context.Context, actor authz.Actor, message string) error {
	allowed, err := s.rules.Allowed(ctx, authz.ActionPolicyManage, actor, authz.Resource{})
	if err != nil {
		return err
	}
	if !allowed {
		return apperr.Authorization(message)
	}
	return nil
}
