package domain

import (
	"errors"
	"regexp"
	"time"
)

// Role is the closed set of user roles. Authorization decisions switch on it.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User is the core user entity. Accounts start inactive with an invite token
// and no credential; accepting the invite sets the password hash, activates
// the account, and clears the token. Users are never hard-deleted.
type User struct {
	ID              string
	Email           string
	PasswordHash    string // empty until the invite is accepted
	Role            Role
	FirstName       string
	LastName        string
	IsActive        bool
	PolicyID        string // assigned policy; required for customers before claim submission
	InviteToken     string
	InviteExpiresAt *time.Time // nil once the invite is redeemed
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Profile is a user joined with its assigned policy's display fields.
type Profile struct {
	User
	PolicyName        string
	PolicyDescription string
	PolicyStatus      string
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email has a plausible address shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if !ValidEmail(u.Email) {
		return errors.New("invalid email format")
	}
	if !u.Role.Valid() {
		return errors.New("role must be customer or admin")
	}
	return nil
}
