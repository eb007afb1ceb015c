// Package lifecycle implements the claim status state machine: a pure,
// stateless decision function over (current status, requested status).
// Authorization is a separate concern applied by the calling service.
package lifecycle

import (
	"fmt"
	"strings"

	"insurance-claims/backend/internal/claim/domain"
)

// transitions is the fixed transition table. Statuses with an empty allowed
// set are terminal.
var transitions = map[domain.Status][]domain.Status{
	domain.StatusSubmitted: {domain.StatusInReview, domain.StatusCancelled},
	domain.StatusInReview:  {domain.StatusApproved, domain.StatusRejected, domain.StatusCancelled},
	domain.StatusApproved:  {},
	domain.StatusRejected:  {},
	domain.StatusCancelled: {},
}

// CanTransition reports whether to appears in the allowed set for from.
// Unknown from values yield false.
func CanTransition(from, to domain.Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the allowed target statuses for from, in table
// order. Empty for unknown or terminal statuses.
func AllowedTransitions(from domain.Status) []domain.Status {
	allowed := transitions[from]
	out := make([]domain.Status, len(allowed))
	copy(out, allowed)
	return out
}

// IsTerminal reports whether status is known and has no allowed transitions.
func IsTerminal(status domain.Status) bool {
	allowed, ok := transitions[status]
	return ok && len(allowed) == 0
}

// Validation is the outcome of ValidateTransition. Reason is empty when Valid.
type Validation struct {
	Valid  bool
	Reason string
}

// ValidateTransition checks from→to against the table and, when invalid,
// returns the reason surfaced verbatim to the caller.
func ValidateTransition(from, to domain.Status) Validation {
	if CanTransition(from, to) {
		return Validation{Valid: true}
	}
	if _, known := transitions[from]; !known {
		return Validation{Reason: "unknown current status"}
	}
	if IsTerminal(from) {
		return Validation{Reason: "current status is terminal"}
	}
	parts := make([]string, 0, len(transitions[from]))
	for _, allowed := range transitions[from] {
		parts = append(parts, string(allowed))
	}
	return Validation{Reason: fmt.Sprintf("transition not permitted, allowed = {%s}", strings.Join(parts, ", "))}
}
