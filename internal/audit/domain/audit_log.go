package domain

import "time"

// AuditLog is one append-only audit event (login, invite accepted, policy
// mutation, claim status change). Distinct from claim status history, which
// is part of the claim data model.
type AuditLog struct {
	ID        string
	UserID    string // empty for anonymous events (e.g. failed login)
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
