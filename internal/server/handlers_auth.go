package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"insurance-claims/backend/internal/apperr"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorStatus(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	res, err := s.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// Credential failures are a 401 here, not the generic 403.
		if apperr.KindOf(err) == apperr.KindAuthorization {
			respondErrorStatus(w, http.StatusUnauthorized, err.Error())
			return
		}
		respondError(w, err)
		return
	}
	s.setSessionCookie(w, res.Token, res.ExpiresAt)
	respondData(w, http.StatusOK, toUserDTO(res.User))
}

type acceptInviteRequest struct {
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (s *Server) handleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	var req acceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorStatus(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	user, err := s.authSvc.AcceptInvite(r.Context(), token, req.Password, req.FirstName, req.LastName)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toUserDTO(user))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := s.authSvc.Logout(r.Context(), cookie.Value); err != nil {
			respondErrorStatus(w, http.StatusInternalServerError, "Failed to logout")
			return
		}
	}
	s.clearSessionCookie(w)
	respondMessage(w, "Logged out successfully")
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUser(r.Context())
	if !ok {
		respondErrorStatus(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	respondData(w, http.StatusOK, toUserDTO(user))
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
