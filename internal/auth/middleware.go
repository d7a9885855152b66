package auth

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"docuchat/internal/contextutil"
)

// Middleware resolves the caller's identity from a bearer token. Identity is
// optional: requests without a valid token proceed as anonymous rather than
// being rejected, and each handler decides what anonymous callers may see.
type Middleware struct {
	secret []byte
}

// NewMiddleware creates the identity middleware with the HMAC signing secret.
func NewMiddleware(secret string) *Middleware {
	return &Middleware{secret: []byte(secret)}
}

// Identify attaches the authenticated user ID to the request context when
// the Authorization header carries a valid token. Missing, malformed or
// expired tokens leave the request anonymous.
func (m *Middleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.userIDFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			contextutil.LoggerFromContext(r.Context()).Debug("treating request as anonymous", "reason", err)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(contextutil.WithUserID(r.Context(), userID)))
	})
}

// userIDFromHeader validates the bearer token and extracts the user ID from
// its subject claim.
func (m *Middleware) userIDFromHeader(header string) (int64, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return 0, fmt.Errorf("no bearer token")
	}

	token, err := jwt.Parse(strings.TrimPrefix(header, prefix), func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return 0, fmt.Errorf("token has no subject")
	}
	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("subject %q is not a user ID", subject)
	}
	return userID, nil
}
