package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is a claim lifecycle status. Transitions between statuses are
// governed by the lifecycle package.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusInReview  Status = "inReview"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known claim status.
func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusInReview, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Cause is the fixed set of claim causes.
type Cause string

const (
	CauseAccident          Cause = "Accident"
	CauseTheft             Cause = "Theft"
	CauseDamage            Cause = "Damage"
	CauseDelayInterruption Cause = "Delay-Interruption"
	CauseOther             Cause = "Other"
)

// Causes lists all valid causes in display order.
func Causes() []Cause {
	return []Cause{CauseAccident, CauseTheft, CauseDamage, CauseDelayInterruption, CauseOther}
}

// Valid reports whether c is a known cause.
func (c Cause) Valid() bool {
	for _, v := range Causes() {
		if c == v {
			return true
		}
	}
	return false
}

// CausesString returns the valid causes joined for validation messages.
func CausesString() string {
	parts := make([]string, 0, len(Causes()))
	for _, c := range Causes() {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, ", ")
}

// Claim is the central claim-processing entity. PolicyID is copied from the
// owner's assigned policy at submission time and never re-derived; the owner
// never changes; claims are never deleted.
type Claim struct {
	ID               string
	OwnerUserID      string
	PolicyID         string
	DateOfOccurrence time.Time
	Location         string
	Cause            Cause
	Description      string
	Status           Status
	AssignedAgentID  string // empty when unassigned; always an admin
	UpdatedByID      string // last user to mutate the claim
	Documents        []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Detail is a claim joined with owner/agent/updater/policy display fields.
type Detail struct {
	Claim
	CustomerEmail      string
	CustomerFirstName  string
	CustomerLastName   string
	AgentEmail         string
	AgentFirstName     string
	AgentLastName      string
	UpdatedByEmail     string
	UpdatedByFirstName string
	UpdatedByLastName  string
	PolicyName         string
	PolicyDescription  string
	PolicyStatus       string
}

// StatusHistory is one append-only audit row for a claim. FromStatus is empty
// for the creation event.
type StatusHistory struct {
	ID              string
	ClaimID         string
	FromStatus      Status
	ToStatus        Status
	ChangedByUserID string
	Note            string
	CreatedAt       time.Time
}

// HistoryEntry is a history row joined with the changing user's display fields.
type HistoryEntry struct {
	StatusHistory
	ChangedByEmail     string
	ChangedByFirstName string
	ChangedByLastName  string
}

// CreationNote is the history note written when a claim is created.
const CreationNote = "Claim created"

// StatusChangeNote returns the history note written for a status change.
func StatusChangeNote(to Status) string {
	return fmt.Sprintf("Status changed to %s", to)
}
