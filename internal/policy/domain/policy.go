package domain

import (
	"errors"
	"strings"
	"time"
)

// Status is a policy status. Any status may be set to any other via update;
// cancelled is the terminal state reached via delete (soft delete).
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known policy status.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusActive || s == StatusCancelled
}

// Policy is a coverage contract referenced by claims and customers.
// Policies are never removed from storage; delete sets status to cancelled.
type Policy struct {
	ID          string
	Name        string
	Description string
	CreatedByID string
	Status      Status
	EffectiveAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Detail is a policy joined with its creator's display fields.
type Detail struct {
	Policy
	CreatedByEmail     string
	CreatedByFirstName string
	CreatedByLastName  string
}

// Validate validates the policy for creation. Returns an error describing the first validation failure.
func (p *Policy) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("Policy name is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		return errors.New("Policy description is required")
	}
	if p.EffectiveAt.IsZero() {
		return errors.New("Effective date is required")
	}
	if !p.Status.Valid() {
		return errors.New("Invalid policy status")
	}
	return nil
}
