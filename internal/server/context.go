package server

import (
	"context"

	"insurance-claims/backend/internal/authz"
	userdomain "insurance-claims/backend/internal/user/domain"
)

type contextKey struct{ name string }

var (
	userKey     = contextKey{"user"}
	clientIPKey = contextKey{"client_ip"}
)

// WithUser returns a context carrying the authenticated user's profile.
func WithUser(ctx context.Context, u *userdomain.Profile) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// GetUser returns the authenticated user from context and true if set.
func GetUser(ctx context.Context) (*userdomain.Profile, bool) {
	u, ok := ctx.Value(userKey).(*userdomain.Profile)
	return u, ok
}

// WithClientIP returns a context carrying the request's client IP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIPFromContext returns the client IP set by the transport, or
// "unknown". Shaped to plug into audit.IPExtractor.
func ClientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey).(string); ok && ip != "" {
		return ip
	}
	return "unknown"
}

// actorFrom builds the authorization actor for the authenticated user.
func actorFrom(u *userdomain.Profile) authz.Actor {
	return authz.Actor{ID: u.ID, Role: u.Role}
}
