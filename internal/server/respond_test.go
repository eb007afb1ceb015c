package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"insurance-claims/backend/internal/apperr"
)

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", apperr.Validation("Description is required"), http.StatusBadRequest, "Description is required"},
		{"aggregated validation", apperr.Validation("Location is required", "Description is required"), http.StatusBadRequest, "Location is required; Description is required"},
		{"state transition", apperr.StateTransition("current status is terminal"), http.StatusBadRequest, "current status is terminal"},
		{"invariant", apperr.Invariant("Cannot deactivate the last admin user"), http.StatusBadRequest, "Cannot deactivate the last admin user"},
		{"authorization", apperr.Authorization("Admin access required"), http.StatusForbidden, "Admin access required"},
		{"not found", apperr.NotFound("Claim not found"), http.StatusNotFound, "Claim not found"},
		{"unclassified", errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			respondError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body envelope
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if body.Success {
				t.Error("success should be false")
			}
			if body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
		})
	}
}

func TestRespondList_IncludesCount(t *testing.T) {
	w := httptest.NewRecorder()
	respondList(w, []string{"a", "b", "c"}, 3)

	var body envelope
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if !body.Success {
		t.Error("success should be true")
	}
	if body.Count == nil || *body.Count != 3 {
		t.Errorf("count = %v, want 3", body.Count)
	}
}

func TestRespondList_ZeroCountStillPresent(t *testing.T) {
	w := httptest.NewRecorder()
	respondList(w, []string{}, 0)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if _, ok := raw["count"]; !ok {
		t.Error("count field should be present for empty lists")
	}
}

func TestRespondMessage(t *testing.T) {
	w := httptest.NewRecorder()
	respondMessage(w, "Logged out successfully")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Data["message"] != "Logged out successfully" {
		t.Errorf("message = %q, want logout message", body.Data["message"])
	}
}
