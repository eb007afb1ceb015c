package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	claimdomain "insurance-claims/backend/internal/claim/domain"
	claimservice "insurance-claims/backend/internal/claim/service"
)

type createClaimRequest struct {
	DateOfOccurrence string `json:"dateOfOccurrence"`
	Location         string `json:"location"`
	Cause            string `json:"cause"`
	Description      string `json:"description"`
}

func (s *Server) handleCreateClaim(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	var req createClaimRequest
	var documents []string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(s.maxUploadBytes * (maxDocuments + 1)); err != nil {
			respondErrorStatus(w, http.StatusBadRequest, "File too large. Maximum size is 5 MB.")
			return
		}
		req.DateOfOccurrence = r.FormValue("dateOfOccurrence")
		req.Location = r.FormValue("location")
		req.Cause = r.FormValue("cause")
		req.Description = r.FormValue("description")
		docs, err := s.saveDocuments(r)
		if err != nil {
			respondError(w, err)
			return
		}
		documents = docs
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorStatus(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	in := claimservice.SubmitClaimInput{
		Location:    req.Location,
		Cause:       req.Cause,
		Description: req.Description,
		Documents:   documents,
	}
	if strings.TrimSpace(req.DateOfOccurrence) != "" {
		t, ok := parseDate(req.DateOfOccurrence)
		if !ok {
			respondErrorStatus(w, http.StatusBadRequest, "Invalid date of occurrence")
			return
		}
		in.DateOfOccurrence = t
	}
	claim, err := s.claims.SubmitClaim(r.Context(), in, actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, toClaimDTO(claim))
}

func (s *Server) handleListClaims(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	q := r.URL.Query()
	in := claimservice.ListInput{
		Status:          q.Get("status"),
		AssignedAgentID: q.Get("assignedAgentId"),
		Search:          q.Get("search"),
		SortBy:          q.Get("sortBy"),
		SortOrder:       q.Get("sortOrder"),
	}
	claims, err := s.claims.GetClaims(r.Context(), in, actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, toClaimDTOs(claims), len(claims))
}

func (s *Server) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	claim, err := s.claims.GetClaimByID(r.Context(), chi.URLParam(r, "id"), actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toClaimDTO(claim))
}

func (s *Server) handleGetClaimHistory(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	history, err := s.claims.GetClaimHistory(r.Context(), chi.URLParam(r, "id"), actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toHistoryDTOs(history))
}

func (s *Server) handleGetTransitions(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	transitions, err := s.claims.GetAllowedTransitions(r.Context(), chi.URLParam(r, "id"), actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	out := make([]string, 0, len(transitions))
	for _, t := range transitions {
		out = append(out, string(t))
	}
	respondData(w, http.StatusOK, out)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateClaimStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		respondErrorStatus(w, http.StatusBadRequest, "Status is required")
		return
	}
	claim, err := s.claims.UpdateClaimStatus(r.Context(), chi.URLParam(r, "id"),
		claimdomain.Status(req.Status), actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toClaimDTO(claim))
}

type assignAgentRequest struct {
	AgentID string `json:"agentId"`
}

func (s *Server) handleAssignAgent(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	var req assignAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AgentID == "" {
		respondErrorStatus(w, http.StatusBadRequest, "Agent ID is required")
		return
	}
	claim, err := s.claims.AssignAgent(r.Context(), chi.URLParam(r, "id"), req.AgentID, actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toClaimDTO(claim))
}

type addNoteRequest struct {
	Note string `json:"note"`
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	var req addNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorStatus(w, http.StatusBadRequest, "Note text is required")
		return
	}
	note, err := s.notes.AddNote(r.Context(), chi.URLParam(r, "claimID"), req.Note, actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, toNoteDTO(note))
}

func (s *Server) handleGetNotes(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	notes, err := s.notes.GetNotes(r.Context(), chi.URLParam(r, "claimID"), actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, toNoteDTOs(notes), len(notes))
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
