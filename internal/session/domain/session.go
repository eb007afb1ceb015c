package domain

import "time"

// Session is a server-side login session. The cookie carries a signed token
// naming the session; the row is the source of truth for validity.
type Session struct {
	ID         string
	UserID     string
	TokenHash  string // SHA-256 hash of the signed cookie token
	ExpiresAt  time.Time
	RevokedAt  *time.Time // nil when not revoked
	LastSeenAt *time.Time
	CreatedAt  time.Time
}

// Live reports whether the session is neither revoked nor expired at now.
func (s *Session) Live(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
