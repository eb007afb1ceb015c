package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"insurance-claims/backend/internal/apperr"
	"insurance-claims/backend/internal/audit"
	"insurance-claims/backend/internal/security"
	sessiondomain "insurance-claims/backend/internal/session/domain"
	userdomain "insurance-claims/backend/internal/user/domain"
	userrepo "insurance-claims/backend/internal/user/repository"
)

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.Profile, error)
	GetByInviteToken(ctx context.Context, token string, now time.Time) (*userdomain.Profile, error)
	Activate(ctx context.Context, id, passwordHash string, now time.Time) (int64, error)
	Update(ctx context.Context, id string, fields userrepo.UpdateFields, now time.Time) (int64, error)
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	GetByID(ctx context.Context, id string) (*sessiondomain.Session, error)
	Create(ctx context.Context, s *sessiondomain.Session) error
	Revoke(ctx context.Context, id string) error
	UpdateLastSeen(ctx context.Context, id string, at time.Time) error
}

// LoginResult holds the authenticated profile and the session cookie token.
type LoginResult struct {
	User      *userdomain.Profile
	Token     string
	ExpiresAt time.Time
}

// AuthService implements login, invite acceptance, logout, and per-request
// session validation.
type AuthService struct {
	users    UserRepo
	sessions SessionRepo
	hasher   *security.Hasher
	tokens   *security.TokenProvider
	auditLog audit.AuditLogger
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(users UserRepo, sessions SessionRepo, hasher *security.Hasher, tokens *security.TokenProvider, auditLog audit.AuditLogger) *AuthService {
	return &AuthService{users: users, sessions: sessions, hasher: hasher, tokens: tokens, auditLog: auditLog}
}

// Login authenticates with email/password and creates a session. Unknown
// email and bad password surface the same generic message; inactive accounts
// get a distinct one.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Authorization("Invalid email or password")
	}
	if !user.IsActive {
		return nil, apperr.Authorization("Account is not active. Please check your email for the invitation link.")
	}
	if user.PasswordHash == "" || s.hasher.Compare(user.PasswordHash, []byte(password)) != nil {
		return nil, apperr.Authorization("Invalid email or password")
	}
	sessionID := uuid.New().String()
	token, expiresAt, err := s.tokens.IssueSession(sessionID, user.ID)
	if err != nil {
		return nil, err
	}
	sess := &sessiondomain.Session{
		ID:        sessionID,
		UserID:    user.ID,
		TokenHash: security.HashSessionToken(token),
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	s.auditLog.LogEvent(ctx, user.ID, "login", "session:"+sessionID, "")
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// AcceptInvite redeems an invite token: sets the credential, activates the
// account, clears the token/expiry, and optionally updates name fields.
// Expired or unknown tokens are indistinguishable.
func (s *AuthService) AcceptInvite(ctx context.Context, token, password, firstName, lastName string) (*userdomain.Profile, error) {
	if len(password) < 6 {
		return nil, apperr.Validation("Password must be at least 6 characters")
	}
	now := time.Now().UTC()
	user, err := s.users.GetByInviteToken(ctx, token, now)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Validation("Invalid or expired invitation link")
	}
	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	rows, err := s.users.Activate(ctx, user.ID, hash, now)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.Validation("Invalid or expired invitation link")
	}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName != "" || lastName != "" {
		fields := userrepo.UpdateFields{}
		if firstName != "" {
			fields.FirstName = &firstName
		}
		if lastName != "" {
			fields.LastName = &lastName
		}
		if _, err := s.users.Update(ctx, user.ID, fields, now); err != nil {
			return nil, err
		}
	}
	s.auditLog.LogEvent(ctx, user.ID, "invite_accepted", "user:"+user.ID, "")
	return s.users.GetByID(ctx, user.ID)
}

// Authenticate resolves a session cookie token to a live user profile. Every
// step re-checks server-side state: the session row must exist, match the
// token hash, and be live, and the user must still exist and be active.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*userdomain.Profile, error) {
	sessionID, userID, err := s.tokens.ValidateSession(token)
	if err != nil {
		return nil, nil
	}
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if sess == nil || sess.UserID != userID || !sess.Live(now) {
		return nil, nil
	}
	if !security.SessionTokenHashEqual(token, sess.TokenHash) {
		return nil, nil
	}
	user, err := s.ValidateUser(ctx, userID)
	if err != nil || user == nil {
		return nil, err
	}
	_ = s.sessions.UpdateLastSeen(ctx, sessionID, now)
	return user, nil
}

// ValidateUser re-checks that the user still exists and is active. Returns
// nil without error when not.
func (s *AuthService) ValidateUser(ctx context.Context, userID string) (*userdomain.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, nil
	}
	return user, nil
}

// Logout revokes the session named by the token. Invalid tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	sessionID, userID, err := s.tokens.ValidateSession(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return err
	}
	s.auditLog.LogEvent(ctx, userID, "logout", "session:"+sessionID, "")
	return nil
}
