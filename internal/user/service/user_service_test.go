package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"insurance-claims/backend/internal/apperr"
	"insurance-claims/backend/internal/audit"
	"insurance-claims/backend/internal/authz"
	"insurance-claims/backend/internal/user/domain"
	userrepo "insurance-claims/backend/internal/user/repository"
)

// mockUserRepo is an in-memory user repository for tests.
type mockUserRepo struct {
	users map[string]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &domain.Profile{User: *u}, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	for _, u := range m.users {
		if u.Email == email {
			return &domain.Profile{User: *u}, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, id string, fields userrepo.UpdateFields, now time.Time) (int64, error) {
	u, ok := m.users[id]
	if !ok {
		return 0, nil
	}
	if fields.FirstName != nil {
		u.FirstName = *fields.FirstName
	}
	if fields.LastName != nil {
		u.LastName = *fields.LastName
	}
	if fields.IsActive != nil {
		u.IsActive = *fields.IsActive
	}
	if fields.PolicyID != nil {
		u.PolicyID = *fields.PolicyID
	}
	u.UpdatedAt = now
	return 1, nil
}

func (m *mockUserRepo) Deactivate(ctx context.Context, id string, now time.Time) (int64, error) {
	u, ok := m.users[id]
	if !ok {
		return 0, nil
	}
	u.IsActive = false
	u.UpdatedAt = now
	return 1, nil
}

func (m *mockUserRepo) List(ctx context.Context, filter userrepo.ListFilter) ([]*domain.Profile, error) {
	var out []*domain.Profile
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, &domain.Profile{User: *u})
	}
	return out, nil
}

func (m *mockUserRepo) ListActiveAgents(ctx context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range m.users {
		if u.Role == domain.RoleAdmin && u.IsActive {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockUserRepo) CountActiveAdmins(ctx context.Context) (int, error) {
	n := 0
	for _, u := range m.users {
		if u.Role == domain.RoleAdmin && u.IsActive {
			n++
		}
	}
	return n, nil
}

// mockSessionRepo records revocations.
type mockSessionRepo struct {
	revokedUsers []string
}

func (m *mockSessionRepo) RevokeAllByUser(ctx context.Context, userID string) error {
	m.revokedUsers = append(m.revokedUsers, userID)
	return nil
}

// adminOnlyRules allows admins everything and denies everyone else.
type adminOnlyRules struct{}

func (adminOnlyRules) Allowed(ctx context.Context, action authz.Action, actor authz.Actor, resource authz.Resource) (bool, error) {
	return actor.IsAdmin(), nil
}

func newTestService() (*UserService, *mockUserRepo, *mockSessionRepo) {
	users := newMockUserRepo()
	users.users["adm-1"] = &domain.User{ID: "adm-1", Email: "admin@example.com", Role: domain.RoleAdmin, IsActive: true}
	sessions := &mockSessionRepo{}
	svc := NewUserService(users, sessions, adminOnlyRules{}, audit.NewLogger(nil, nil),
		"http://localhost:8080", 7*24*time.Hour)
	return svc, users, sessions
}

func admin() authz.Actor {
	return authz.Actor{ID: "adm-1", Role: domain.RoleAdmin}
}

func customer() authz.Actor {
	return authz.Actor{ID: "cust-1", Role: domain.RoleCustomer}
}

func TestCreateUser_InviteFlow(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	inv, err := svc.CreateUser(ctx, CreateUserInput{
		Email:     "jane@example.com",
		Role:      "customer",
		FirstName: "Jane",
		PolicyID:  "pol-1",
	}, admin())
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if inv.User.IsActive {
		t.Error("invited user should start inactive")
	}
	if inv.User.PasswordHash != "" {
		t.Error("invited user should have no credential")
	}
	u := users.users[inv.User.ID]
	if u.InviteToken == "" || len(u.InviteToken) != 64 {
		t.Errorf("invite token = %q, want 64 hex chars", u.InviteToken)
	}
	if u.InviteExpiresAt == nil {
		t.Fatal("invite expiry not set")
	}
	wantExpiry := time.Now().UTC().Add(7 * 24 * time.Hour)
	if d := u.InviteExpiresAt.Sub(wantExpiry); d < -time.Minute || d > time.Minute {
		t.Errorf("invite expiry = %v, want ~7 days out", u.InviteExpiresAt)
	}
	wantURL := "http://localhost:8080/accept-invite?token=" + u.InviteToken
	if inv.InviteURL != wantURL {
		t.Errorf("invite url = %q, want %q", inv.InviteURL, wantURL)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name    string
		in      CreateUserInput
		wantMsg string
	}{
		{"bad email", CreateUserInput{Email: "not-an-email"}, "Valid email is required"},
		{"duplicate email", CreateUserInput{Email: "admin@example.com", Role: "admin"}, "User with this email already exists"},
		{"customer without policy", CreateUserInput{Email: "c@example.com", Role: "customer"}, "Policy is required for customer accounts"},
		{"unknown role", CreateUserInput{Email: "x@example.com", Role: "superuser"}, "role must be customer or admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(ctx, tt.in, admin())
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Fatalf("kind = %v, want validation; err = %v", apperr.KindOf(err), err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestCreateUser_DefaultsToCustomerRole(t *testing.T) {
	svc, _, _ := newTestService()

	inv, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "c@example.com",
		PolicyID: "pol-1",
	}, admin())
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if inv.User.Role != domain.RoleCustomer {
		t.Errorf("role = %q, want customer", inv.User.Role)
	}
}

func TestCreateUser_AdminOnly(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateUser(context.Background(), CreateUserInput{Email: "x@example.com", Role: "admin"}, customer())
	if apperr.KindOf(err) != apperr.KindAuthorization {
		t.Errorf("kind = %v, want authorization", apperr.KindOf(err))
	}
}

func TestDeactivateUser_LastAdminGuard(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	err := svc.DeactivateUser(ctx, "adm-1", admin())
	if apperr.KindOf(err) != apperr.KindInvariant {
		t.Fatalf("kind = %v, want invariant; err = %v", apperr.KindOf(err), err)
	}
	if err.Error() != "Cannot deactivate the last admin user" {
		t.Errorf("message = %q", err.Error())
	}
	if !users.users["adm-1"].IsActive {
		t.Error("last admin was deactivated despite guard")
	}
}

func TestDeactivateUser_NonLastAdmin(t *testing.T) {
	svc, users, sessions := newTestService()
	ctx := context.Background()
	users.users["adm-2"] = &domain.User{ID: "adm-2", Email: "second@example.com", Role: domain.RoleAdmin, IsActive: true}

	if err := svc.DeactivateUser(ctx, "adm-2", admin()); err != nil {
		t.Fatalf("DeactivateUser: %v", err)
	}
	if users.users["adm-2"].IsActive {
		t.Error("user still active")
	}
	if len(sessions.revokedUsers) != 1 || sessions.revokedUsers[0] != "adm-2" {
		t.Errorf("sessions revoked for %v, want [adm-2]", sessions.revokedUsers)
	}
}

func TestDeactivateUser_Customer(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()
	users.users["cust-1"] = &domain.User{ID: "cust-1", Email: "c@example.com", Role: domain.RoleCustomer, IsActive: true}

	if err := svc.DeactivateUser(ctx, "cust-1", admin()); err != nil {
		t.Fatalf("DeactivateUser: %v", err)
	}
	if users.users["cust-1"].IsActive {
		t.Error("customer still active")
	}
}

func TestUpdateUser(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()
	users.users["cust-1"] = &domain.User{ID: "cust-1", Email: "c@example.com", Role: domain.RoleCustomer, IsActive: true}

	first := "Updated"
	got, err := svc.UpdateUser(ctx, "cust-1", UpdateUserInput{FirstName: &first}, admin())
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if got.FirstName != "Updated" {
		t.Errorf("first name = %q, want Updated", got.FirstName)
	}

	_, err = svc.UpdateUser(ctx, "missing", UpdateUserInput{FirstName: &first}, admin())
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("kind = %v, want not-found", apperr.KindOf(err))
	}
}

func TestGetActiveAgents(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()
	users.users["adm-2"] = &domain.User{ID: "adm-2", Email: "a2@example.com", Role: domain.RoleAdmin, IsActive: false}
	users.users["cust-1"] = &domain.User{ID: "cust-1", Email: "c@example.com", Role: domain.RoleCustomer, IsActive: true}

	agents, err := svc.GetActiveAgents(ctx, admin())
	if err != nil {
		t.Fatalf("GetActiveAgents: %v", err)
	}
	if len(agents) != 1 || agents[0].ID != "adm-1" {
		t.Errorf("agents = %v, want only adm-1", agents)
	}
}
