package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"insurance-claims/backend/internal/apperr"
	"insurance-claims/backend/internal/audit"
	"insurance-claims/backend/internal/authz"
	"insurance-claims/backend/internal/policy/domain"
	policyrepo "insurance-claims/backend/internal/policy/repository"
	userdomain "insurance-claims/backend/internal/user/domain"
)

// mockPolicyRepo is an in-memory policy repository for tests.
type mockPolicyRepo struct {
	policies map[string]*domain.Policy
}

func newMockPolicyRepo() *mockPolicyRepo {
	return &mockPolicyRepo{policies: make(map[string]*domain.Policy)}
}

func (m *mockPolicyRepo) Create(ctx context.Context, p *domain.Policy) error {
	cp := *p
	m.policies[p.ID] = &cp
	return nil
}

func (m *mockPolicyRepo) GetByID(ctx context.Context, id string) (*domain.Detail, error) {
	p, ok := m.policies[id]
	if !ok {
		return nil, nil
	}
	return &domain.Detail{Policy: *p}, nil
}

func (m *mockPolicyRepo) List(ctx context.Context, filter policyrepo.ListFilter) ([]*domain.Detail, error) {
	var out []*domain.Detail
	for _, p := range m.policies {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, &domain.Detail{Policy: *p})
	}
	return out, nil
}

func (m *mockPolicyRepo) Update(ctx context.Context, id string, fields policyrepo.UpdateFields, now time.Time) (int64, error) {
	p, ok := m.policies[id]
	if !ok {
		return 0, nil
	}
	if fields.Name != nil {
		p.Name = *fields.Name
	}
	if fields.Description != nil {
		p.Description = *fields.Description
	}
	if fields.Status != nil {
		p.Status = *fields.Status
	}
	if fields.EffectiveAt != nil {
		p.EffectiveAt = *fields.EffectiveAt
	}
	p.UpdatedAt = now
	return 1, nil
}

// roleRules allows admins everything; others only the active-policy list.
type roleRules struct{}

func (roleRules) Allowed(ctx context.Context, action authz.Action, actor authz.Actor, resource authz.Resource) (bool, error) {
	if actor.IsAdmin() {
		return true, nil
	}
	return action == authz.ActionPolicyReadActive && actor.ID != "", nil
}

func newTestService() (*PolicyService, *mockPolicyRepo) {
	repo := newMockPolicyRepo()
	svc := NewPolicyService(repo, roleRules{}, audit.NewLogger(nil, nil))
	return svc, repo
}

func admin() authz.Actor {
	return authz.Actor{ID: "adm-1", Role: userdomain.RoleAdmin}
}

func customer() authz.Actor {
	return authz.Actor{ID: "cust-1", Role: userdomain.RoleCustomer}
}

func validInput() CreatePolicyInput {
	return CreatePolicyInput{
		Name:        "Standard Coverage Policy",
		Description: "Covers the usual",
		Status:      "active",
		EffectiveAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreatePolicy(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.CreatePolicy(context.Background(), validInput(), admin())
	if err != nil {
		t.Fatalf("CreatePolicy: %v", err)
	}
	if p.Status != domain.StatusActive {
		t.Errorf("status = %q, want active", p.Status)
	}
	if p.CreatedByID != "adm-1" {
		t.Errorf("created by = %q, want adm-1", p.CreatedByID)
	}
}

func TestCreatePolicy_DefaultsToDraft(t *testing.T) {
	svc, _ := newTestService()
	in := validInput()
	in.Status = ""

	p, err := svc.CreatePolicy(context.Background(), in, admin())
	if err != nil {
		t.Fatalf("CreatePolicy: %v", err)
	}
	if p.Status != domain.StatusDraft {
		t.Errorf("status = %q, want draft", p.Status)
	}
}

func TestCreatePolicy_AggregatesValidationErrors(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.CreatePolicy(context.Background(), CreatePolicyInput{Status: "bogus"}, admin())
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("kind = %v, want validation; err = %v", apperr.KindOf(err), err)
	}
	for _, want := range []string{
		"Policy name is required",
		"Policy description is required",
		"Effective date is required",
		"Invalid policy status",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
	if len(repo.policies) != 0 {
		t.Error("policy persisted despite validation failure")
	}
}

func TestCreatePolicy_AdminOnly(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreatePolicy(context.Background(), validInput(), customer())
	if err == nil || err.Error() != "Only administrators can create policies" {
		t.Errorf("error = %v", err)
	}
	if apperr.KindOf(err) != apperr.KindAuthorization {
		t.Errorf("kind = %v, want authorization", apperr.KindOf(err))
	}
}

func TestUpdatePolicy(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	created, err := svc.CreatePolicy(ctx, validInput(), admin())
	if err != nil {
		t.Fatalf("CreatePolicy: %v", err)
	}

	name := "Renamed"
	got, err := svc.UpdatePolicy(ctx, created.ID, UpdatePolicyInput{Name: &name}, admin())
	if err != nil {
		t.Fatalf("UpdatePolicy: %v", err)
	}
	if got.Name != "Renamed" {
		t.Errorf("name = %q", got.Name)
	}

	bad := "bogus"
	_, err = svc.UpdatePolicy(ctx, created.ID, UpdatePolicyInput{Status: &bad}, admin())
	if err == nil || err.Error() != "Invalid policy status" {
		t.Errorf("invalid status error = %v", err)
	}

	_, err = svc.UpdatePolicy(ctx, "missing", UpdatePolicyInput{Name: &name}, admin())
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("kind = %v, want not-found", apperr.KindOf(err))
	}

	_, err = svc.UpdatePolicy(ctx, created.ID, UpdatePolicyInput{Name: &name}, customer())
	if err == nil || err.Error() != "Only administrators can update policies" {
		t.Errorf("non-admin error = %v", err)
	}
}

func TestDeletePolicy_IsSoftDelete(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	created, err := svc.CreatePolicy(ctx, validInput(), admin())
	if err != nil {
		t.Fatalf("CreatePolicy: %v", err)
	}

	if err := svc.DeletePolicy(ctx, created.ID, admin()); err != nil {
		t.Fatalf("DeletePolicy: %v", err)
	}
	p := repo.policies[created.ID]
	if p == nil {
		t.Fatal("policy row removed; delete must be a status change")
	}
	if p.Status != domain.StatusCancelled {
		t.Errorf("status = %q, want cancelled", p.Status)
	}

	if err := svc.DeletePolicy(ctx, created.ID, customer()); err == nil || err.Error() != "Only administrators can delete policies" {
		t.Errorf("non-admin error = %v", err)
	}
}

func TestGetActivePolicies_OpenToCustomers(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.CreatePolicy(ctx, validInput(), admin()); err != nil {
		t.Fatalf("CreatePolicy: %v", err)
	}
	draft := validInput()
	draft.Name = "Draft policy"
	draft.Status = "draft"
	if _, err := svc.CreatePolicy(ctx, draft, admin()); err != nil {
		t.Fatalf("CreatePolicy: %v", err)
	}

	active, err := svc.GetActivePolicies(ctx, customer())
	if err != nil {
		t.Fatalf("GetActivePolicies: %v", err)
	}
	if len(active) != 1 || active[0].Status != domain.StatusActive {
		t.Errorf("active list = %v, want one active policy", active)
	}

	// The full list stays admin only.
	if _, err := svc.GetPolicies(ctx, policyrepo.ListFilter{}, customer()); apperr.KindOf(err) != apperr.KindAuthorization {
		t.Errorf("full list kind = %v, want authorization", apperr.KindOf(err))
	}
}

func TestGetPolicyByID(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	created, err := svc.CreatePolicy(ctx, validInput(), admin())
	if err != nil {
		t.Fatalf("CreatePolicy: %v", err)
	}

	got, err := svc.GetPolicyByID(ctx, created.ID, admin())
	if err != nil || got.ID != created.ID {
		t.Errorf("got %v, err %v", got, err)
	}

	_, err = svc.GetPolicyByID(ctx, "missing", admin())
	if err == nil || err.Error() != "Policy not found" {
		t.Errorf("missing policy error = %v", err)
	}
}
