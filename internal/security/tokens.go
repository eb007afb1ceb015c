package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, expired, or has a bad signature.
	ErrInvalidToken = errors.New("invalid token")
)

// SessionClaims holds the JWT claims carried by the session cookie.
// Subject is the user id; SessionID identifies the server-side session row.
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"session_id"`
}

// TokenProvider issues and validates signed session tokens (HS256). The token
// only names the session; validity is decided against the session row and the
// user's active flag on every request.
type TokenProvider struct {
	secret     []byte
	issuer     string
	sessionTTL time.Duration
}

// NewTokenProvider returns a TokenProvider signing with the given shared secret.
func NewTokenProvider(secret []byte, issuer string, sessionTTL time.Duration) *TokenProvider {
	return &TokenProvider{secret: secret, issuer: issuer, sessionTTL: sessionTTL}
}

// IssueSession issues a signed session token for the given session and user.
// Returns the token string and its expiration time.
func (p *TokenProvider) IssueSession(sessionID, userID string) (token string, expiresAt time.Time, err error) {
	now := time.Now().UTC()
	expiresAt = now.Add(p.sessionTTL)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(p.secret)
	return token, expiresAt, err
}

// ValidateSession parses and validates a session token (signature, exp, iss).
// Returns the session id and user id it names.
func (p *TokenProvider) ValidateSession(tokenString string) (sessionID, userID string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	})
	if err != nil {
		return "", "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return "", "", ErrInvalidToken
	}
	if claims.Issuer != p.issuer {
		return "", "", ErrInvalidToken
	}
	if claims.SessionID == "" || claims.Subject == "" {
		return "", "", ErrInvalidToken
	}
	return claims.SessionID, claims.Subject, nil
}
