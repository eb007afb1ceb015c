package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	policydomain "insurance-claims/backend/internal/policy/domain"
	policyrepo "insurance-claims/backend/internal/policy/repository"
	policyservice "insurance-claims/backend/internal/policy/service"
)

type policyRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Status          string `json:"status"`
	EffectiveAtDate string `json:"effectiveAtDate"`
}

func (s *Server) handleCreatePolicy(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	var req policyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorStatus(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in := policyservice.CreatePolicyInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	}
	if strings.TrimSpace(req.EffectiveAtDate) != "" {
		t, ok := parseDate(req.EffectiveAtDate)
		if !ok {
			respondErrorStatus(w, http.StatusBadRequest, "Invalid effective date")
			return
		}
		in.EffectiveAt = t
	}
	policy, err := s.policies.CreatePolicy(r.Context(), in, actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, toPolicyDTO(policy))
}

func (s *Server) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	q := r.URL.Query()
	filter := policyrepo.ListFilter{
		Status:    policydomain.Status(q.Get("status")),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	policies, err := s.policies.GetPolicies(r.Context(), filter, actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, toPolicyDTOs(policies), len(policies))
}

func (s *Server) handleListActivePolicies(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	policies, err := s.policies.GetActivePolicies(r.Context(), actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, toPolicyDTOs(policies), len(policies))
}

func (s *Server) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	policy, err := s.policies.GetPolicyByID(r.Context(), chi.URLParam(r, "id"), actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toPolicyDTO(policy))
}

type updatePolicyRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Status          *string `json:"status"`
	EffectiveAtDate *string `json:"effectiveAtDate"`
}

func (s *Server) handleUpdatePolicy(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	var req updatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorStatus(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in := policyservice.UpdatePolicyInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	}
	if req.EffectiveAtDate != nil && strings.TrimSpace(*req.EffectiveAtDate) != "" {
		t, ok := parseDate(*req.EffectiveAtDate)
		if !ok {
			respondErrorStatus(w, http.StatusBadRequest, "Invalid effective date")
			return
		}
		in.EffectiveAt = &t
	}
	policy, err := s.policies.UpdatePolicy(r.Context(), chi.URLParam(r, "id"), in, actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toPolicyDTO(policy))
}

func (s *Server) handleDeletePolicy(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	if err := s.policies.DeletePolicy(r.Context(), chi.URLParam(r, "id"), actorFrom(user)); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Policy cancelled")
}
