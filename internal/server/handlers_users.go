package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	userdomain "insurance-claims/backend/internal/user/domain"
	userrepo "insurance-claims/backend/internal/user/repository"
	userservice "insurance-claims/backend/internal/user/service"
)

type createUserRequest struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	PolicyID  string `json:"policyId"`
}

type createUserResponse struct {
	User      userDTO `json:"user"`
	InviteURL string  `json:"inviteLink"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorStatus(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	invite, err := s.users.CreateUser(r.Context(), userservice.CreateUserInput{
		Email:     req.Email,
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		PolicyID:  req.PolicyID,
	}, actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, createUserResponse{
		User:      toUserDTO(invite.User),
		InviteURL: invite.InviteURL,
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	q := r.URL.Query()
	filter := userrepo.ListFilter{Role: userdomain.Role(q.Get("role"))}
	if raw := q.Get("isActive"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}
	users, err := s.users.GetUsers(r.Context(), filter, actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, toUserDTOs(users), len(users))
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	agents, err := s.users.GetActiveAgents(r.Context(), actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, toAgentDTOs(agents), len(agents))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	target, err := s.users.GetUserByID(r.Context(), chi.URLParam(r, "id"), actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toUserDTO(target))
}

type updateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	IsActive  *bool   `json:"isActive"`
	PolicyID  *string `json:"policyId"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorStatus(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	updated, err := s.users.UpdateUser(r.Context(), chi.URLParam(r, "id"), userservice.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  req.IsActive,
		PolicyID:  req.PolicyID,
	}, actorFrom(user))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toUserDTO(updated))
}

func (s *Server) handleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())
	if err := s.users.DeactivateUser(r.Context(), chi.URLParam(r, "id"), actorFrom(user)); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "User deactivated")
}
