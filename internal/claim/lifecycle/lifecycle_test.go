package lifecycle

import (
	"testing"

	"insurance-claims/backend/internal/claim/domain"
)

var allStatuses = []domain.Status{
	domain.StatusSubmitted,
	domain.StatusInReview,
	domain.StatusApproved,
	domain.StatusRejected,
	domain.StatusCancelled,
}

func TestCanTransition_FullTable(t *testing.T) {
	allowed := map[domain.Status]map[domain.Status]bool{
		domain.StatusSubmitted: {domain.StatusInReview: true, domain.StatusCancelled: true},
		domain.StatusInReview:  {domain.StatusApproved: true, domain.StatusRejected: true, domain.StatusCancelled: true},
	}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[from][to]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCanTransition_UnknownFrom(t *testing.T) {
	if CanTransition("bogus", domain.StatusInReview) {
		t.Error("unknown from status must not transition")
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range allStatuses {
		want := s != domain.StatusSubmitted && s != domain.StatusInReview
		if got := IsTerminal(s); got != want {
			t.Errorf("IsTerminal(%s) = %v, want %v", s, got, want)
		}
	}
	if IsTerminal("bogus") {
		t.Error("unknown status is not terminal")
	}
}

func TestAllowedTransitions(t *testing.T) {
	got := AllowedTransitions(domain.StatusSubmitted)
	want := []domain.Status{domain.StatusInReview, domain.StatusCancelled}
	if len(got) != len(want) {
		t.Fatalf("AllowedTransitions(submitted) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllowedTransitions(submitted) = %v, want %v", got, want)
		}
	}
	if len(AllowedTransitions(domain.StatusApproved)) != 0 {
		t.Error("approved must have no transitions")
	}
	if len(AllowedTransitions("bogus")) != 0 {
		t.Error("unknown status must have no transitions")
	}
}

func TestValidateTransition_TerminalReason(t *testing.T) {
	for _, to := range allStatuses {
		v := ValidateTransition(domain.StatusApproved, to)
		if v.Valid {
			t.Errorf("approved -> %s must be invalid", to)
		}
		if v.Reason != "current status is terminal" {
			t.Errorf("reason = %q, want terminal reason", v.Reason)
		}
	}
}

func TestValidateTransition_Reasons(t *testing.T) {
	tests := []struct {
		name       string
		from, to   domain.Status
		wantValid  bool
		wantReason string
	}{
		{"valid submitted to inReview", domain.StatusSubmitted, domain.StatusInReview, true, ""},
		{"valid inReview to approved", domain.StatusInReview, domain.StatusApproved, true, ""},
		{"unknown from", "limbo", domain.StatusInReview, false, "unknown current status"},
		{"not permitted", domain.StatusSubmitted, domain.StatusApproved, false,
			"transition not permitted, allowed = {inReview, cancelled}"},
		{"backwards", domain.StatusInReview, domain.StatusSubmitted, false,
			"transition not permitted, allowed = {approved, rejected, cancelled}"},
		{"cancelled is terminal", domain.StatusCancelled, domain.StatusSubmitted, false,
			"current status is terminal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateTransition(tt.from, tt.to)
			if v.Valid != tt.wantValid {
				t.Fatalf("valid = %v, want %v", v.Valid, tt.wantValid)
			}
			if v.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", v.Reason, tt.wantReason)
			}
		})
	}
}
