package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"insurance-claims/backend/internal/apperr"
	"insurance-claims/backend/internal/audit"
	"insurance-claims/backend/internal/authz"
	"insurance-claims/backend/internal/security"
	"insurance-claims/backend/internal/user/domain"
	userrepo "insurance-claims/backend/internal/user/repository"
)

// UserRepo is the minimal user repository needed by the user service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, id string, fields userrepo.UpdateFields, now time.Time) (int64, error)
	Deactivate(ctx context.Context, id string, now time.Time) (int64, error)
	List(ctx context.Context, filter userrepo.ListFilter) ([]*domain.Profile, error)
	ListActiveAgents(ctx context.Context) ([]*domain.User, error)
	CountActiveAdmins(ctx context.Context) (int, error)
}

// SessionRepo is the minimal session repository needed by the user service.
type SessionRepo interface {
	RevokeAllByUser(ctx context.Context, userID string) error
}

// CreateUserInput carries the admin-provided fields for invite-based creation.
type CreateUserInput struct {
	Email     string
	Role      string
	FirstName string
	LastName  string
	PolicyID  string
}

// UpdateUserInput holds the mutable user fields; nil pointers are left unchanged.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	IsActive  *bool
	PolicyID  *string
}

// Invite is the outcome of CreateUser: the inactive user plus the shareable
// invite link embedding the token.
type Invite struct {
	User      *domain.Profile
	InviteURL string
}

// UserService implements invite-based user creation and user management.
// All operations are admin only.
type UserService struct {
	users     UserRepo
	sessions  SessionRepo
	rules     authz.Evaluator
	auditLog  audit.AuditLogger
	baseURL   string
	inviteTTL time.Duration
}

// NewUserService returns a UserService with the given dependencies.
func NewUserService(users UserRepo, sessions SessionRepo, rules authz.Evaluator, auditLog audit.AuditLogger, baseURL string, inviteTTL time.Duration) *UserService {
	return &UserService{
		users:     users,
		sessions:  sessions,
		rules:     rules,
		auditLog:  auditLog,
		baseURL:   strings.TrimRight(baseURL, "/"),
		inviteTTL: inviteTTL,
	}
}

// CreateUser creates an inactive user with an invite token and returns the
// invite link. Customers must carry a policy id. The account holds no
// credential until the invite is accepted.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput, actor authz.Actor) (*Invite, error) {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(in.Email)
	if !domain.ValidEmail(email) {
		return nil, apperr.Validation("Valid email is required")
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Validation("User with this email already exists")
	}
	role := domain.Role(in.Role)
	if in.Role == "" {
		role = domain.RoleCustomer
	}
	if !role.Valid() {
		return nil, apperr.Validation("role must be customer or admin")
	}
	if role == domain.RoleCustomer && in.PolicyID == "" {
		return nil, apperr.Validation("Policy is required for customer accounts")
	}
	token, err := security.NewInviteToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	expiresAt := now.Add(s.inviteTTL)
	u := &domain.User{
		ID:              uuid.New().String(),
		Email:           email,
		Role:            role,
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		IsActive:        false,
		PolicyID:        in.PolicyID,
		InviteToken:     token,
		InviteExpiresAt: &expiresAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.auditLog.LogEvent(ctx, actor.ID, "user_invited", "user:"+u.ID, string(role))
	created, err := s.users.GetByID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &Invite{
		User:      created,
		InviteURL: s.baseURL + "/accept-invite?token=" + token,
	}, nil
}

// GetUsers lists users matching the filter. Admin only.
func (s *UserService) GetUsers(ctx context.Context, filter userrepo.ListFilter, actor authz.Actor) ([]*domain.Profile, error) {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	return s.users.List(ctx, filter)
}

// GetUserByID returns the user's profile. Admin only.
func (s *UserService) GetUserByID(ctx context.Context, id string, actor authz.Actor) (*domain.Profile, error) {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("User not found")
	}
	return u, nil
}

// UpdateUser applies the given fields. Role and email are immutable. Admin only.
func (s *UserService) UpdateUser(ctx context.Context, id string, in UpdateUserInput, actor authz.Actor) (*domain.Profile, error) {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	rows, err := s.users.Update(ctx, id, userrepo.UpdateFields{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsActive:  in.IsActive,
		PolicyID:  in.PolicyID,
	}, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.NotFound("User not found")
	}
	return s.users.GetByID(ctx, id)
}

// DeactivateUser flips is_active false and revokes the user's sessions.
// Refused when the target is the last active admin. Admin only.
func (s *UserService) DeactivateUser(ctx context.Context, id string, actor authz.Actor) error {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.NotFound("User not found")
	}
	if u.Role == domain.RoleAdmin && u.IsActive {
		admins, err := s.users.CountActiveAdmins(ctx)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return apperr.Invariant("Cannot deactivate the last admin user")
		}
	}
	rows, err := s.users.Deactivate(ctx, id, time.Now().UTC())
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("User not found")
	}
	if err := s.sessions.RevokeAllByUser(ctx, id); err != nil {
		return err
	}
	s.auditLog.LogEvent(ctx, actor.ID, "user_deactivated", "user:"+id, "")
	return nil
}

// GetActiveAgents lists active admin users. Admin only.
func (s *UserService) GetActiveAgents(ctx context.Context, actor authz.Actor) ([]*domain.User, error) {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	return s.users.ListActiveAgents(ctx)
}

func (s *UserService) requireAdmin(ctx context.Context, actor authz.Actor) error {
	allowed, err := s.rules.Allowed(ctx, authz.ActionUserManage, actor, authz.Resource{})
	if err != nil {
		return err
	}
	if !allowed {
		return apperr.Authorization("Admin access required")
	}
	return nil
}
