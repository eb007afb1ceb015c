// Package server assembles the HTTP transport: routing, session-cookie
// authentication, the JSON response envelope, and multipart document upload.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	authservice "insurance-claims/backend/internal/auth/service"
	claimservice "insurance-claims/backend/internal/claim/service"
	noteservice "insurance-claims/backend/internal/note/service"
	policyservice "insurance-claims/backend/internal/policy/service"
	userdomain "insurance-claims/backend/internal/user/domain"
	userservice "insurance-claims/backend/internal/user/service"
)

// AuthService is the part of the auth service the transport layer uses.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*authservice.LoginResult, error)
	AcceptInvite(ctx context.Context, token, password, firstName, lastName string) (*userdomain.Profile, error)
	Authenticate(ctx context.Context, token string) (*userdomain.Profile, error)
	Logout(ctx context.Context, token string) error
}

// Server holds the wired services and transport configuration.
type Server struct {
	authSvc  AuthService
	claims   *claimservice.ClaimService
	users    *userservice.UserService
	policies *policyservice.PolicyService
	notes    *noteservice.NoteService

	logger         zerolog.Logger
	uploadDir      string
	maxUploadBytes int64
	secureCookies  bool
}

// Options carries transport configuration.
type Options struct {
	Logger         zerolog.Logger
	UploadDir      string
	MaxUploadBytes int64
	SecureCookies  bool
}

// New returns a Server wired with the given services.
func New(
	auth AuthService,
	claims *claimservice.ClaimService,
	users *userservice.UserService,
	policies *policyservice.PolicyService,
	notes *noteservice.NoteService,
	opts Options,
) *Server {
	return &Server{
		authSvc:        auth,
		claims:         claims,
		users:          users,
		policies:       policies,
		notes:          notes,
		logger:         opts.Logger,
		uploadDir:      opts.UploadDir,
		maxUploadBytes: opts.MaxUploadBytes,
		secureCookies:  opts.SecureCookies,
	}
}

// Handler builds the full route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(clientIPContext)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/accept-invite/{token}", s.handleAcceptInvite)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/logout", s.handleLogout)
			r.Get("/me", s.handleMe)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/claims", func(r chi.Router) {
			r.Post("/", s.handleCreateClaim)
			r.Get("/", s.handleListClaims)
			r.Get("/{id}", s.handleGetClaim)
			r.Get("/{id}/history", s.handleGetClaimHistory)
			r.Post("/{claimID}/notes", s.handleAddNote)
			r.Get("/{claimID}/notes", s.handleGetNotes)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Get("/{id}/transitions", s.handleGetTransitions)
				r.Patch("/{id}", s.handleUpdateClaimStatus)
				r.Post("/{id}/assign", s.handleAssignAgent)
			})
		})

		r.Route("/policies", func(r chi.Router) {
			r.Get("/active", s.handleListActivePolicies)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Post("/", s.handleCreatePolicy)
				r.Get("/", s.handleListPolicies)
				r.Get("/{id}", s.handleGetPolicy)
				r.Patch("/{id}", s.handleUpdatePolicy)
				r.Delete("/{id}", s.handleDeletePolicy)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Post("/", s.handleCreateUser)
			r.Get("/", s.handleListUsers)
			r.Get("/agents", s.handleListAgents)
			r.Get("/{id}", s.handleGetUser)
			r.Patch("/{id}", s.handleUpdateUser)
			r.Delete("/{id}", s.handleDeactivateUser)
		})
	})

	return r
}
