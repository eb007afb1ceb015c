package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	userdomain "insurance-claims/backend/internal/user/domain"
)

// sessionCookie names the cookie carrying the signed session token.
const sessionCookie = "session"

// requireAuth rejects requests without a live session and injects the user
// profile into the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || cookie.Value == "" {
			respondErrorStatus(w, http.StatusUnauthorized, "Authentication required. Please log in.")
			return
		}
		user, err := s.authSvc.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			respondError(w, err)
			return
		}
		if user == nil {
			respondErrorStatus(w, http.StatusUnauthorized, "User no longer active. Please log in again.")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// requireAdmin rejects non-admin actors at the routing boundary. The services
// re-validate; this keeps the 403 shape of the admin-only route groups.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok {
			respondErrorStatus(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if user.Role != userdomain.RoleAdmin {
			respondErrorStatus(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger emits one structured line per request.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}

// clientIPContext stashes the request's remote IP in the context so the
// audit logger can record it.
func clientIPContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithClientIP(r.Context(), r.RemoteAddr)))
	})
}
