package auth

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"docuchat/internal/contextutil"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return token
}

// identitySpy records the user ID the middleware attached, if any.
func identitySpy(got **int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = contextutil.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdentify_ValidToken(t *testing.T) {
	m := NewMiddleware(testSecret)

	token := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	var got *int64
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	m.Identify(identitySpy(&got)).ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || *got != 7 {
		t.Errorf("user ID = %v, want 7", got)
	}
}

func TestIdentify_AnonymousCases(t *testing.T) {
	m := NewMiddleware(testSecret)

	expired := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	wrongSecret := signToken(t, "other-secret", jwt.RegisteredClaims{Subject: "7"})
	noSubject := signToken(t, testSecret, jwt.RegisteredClaims{})
	badSubject := signToken(t, testSecret, jwt.RegisteredClaims{Subject: "not-a-number"})

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not a bearer token", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expired},
		{"wrong signing key", "Bearer " + wrongSecret},
		{"missing subject", "Bearer " + noSubject},
		{"non-numeric subject", "Bearer " + badSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *int64
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			m.Identify(identitySpy(&got)).ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want request to proceed", rec.Code)
			}
			if got != nil {
				t.Errorf("user ID = %d, want anonymous", *got)
			}
		})
	}
}

func TestIdentify_SubjectParsing(t *testing.T) {
	m := NewMiddleware(testSecret)

	for _, id := range []int64{1, 42, 900719} {
		token := signToken(t, testSecret, jwt.RegisteredClaims{Subject: strconv.FormatInt(id, 10)})

		var got *int64
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		m.Identify(identitySpy(&got)).ServeHTTP(httptest.NewRecorder(), req)

		if got == nil || *got != id {
			t.Errorf("user ID = %v, want %d", got, id)
		}
	}
}
