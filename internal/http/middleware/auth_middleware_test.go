package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/restofleet/pos-admin-api/internal/security"
)

func newTestJWTManager(t *testing.T) *security.JWTManager {
	t.Helper()
	return security.NewJWTManager(
		"pos-admin-api",
		"pos-admin-console",
		"0123456789abcdef0123456789abcdef",
		time.Hour,
	)
}

func TestRequireAccessTokenAcceptsValidBearer(t *testing.T) {
	jwtManager := newTestJWTManager(t)
	token, err := jwtManager.SignAccessToken(7, "chef@example.com", "ADMIN")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	var seen *security.Claims
	h := RequireAccessToken(jwtManager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Fatal("expected claims in request context")
		}
		seen = claims
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tables", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if seen == nil || seen.Email != "chef@example.com" || seen.Role != "ADMIN" {
		t.Fatalf("unexpected claims: %+v", seen)
	}
	userID, err := seen.UserID()
	if err != nil || userID != 7 {
		t.Fatalf("expected user id 7, got %d (err %v)", userID, err)
	}
}

func TestRequireAccessTokenRejectsBadRequests(t *testing.T) {
	jwtManager := newTestJWTManager(t)
	other := security.NewJWTManager("pos-admin-api", "pos-admin-console", "ffffffffffffffffffffffffffffffff", time.Hour)
	foreign, err := other.SignAccessToken(7, "chef@example.com", "ADMIN")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc123"},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "wrong secret", header: "Bearer " + foreign},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := RequireAccessToken(jwtManager)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatal("expected middleware to block request")
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tables", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected status 401, got %d", rr.Code)
			}
		})
	}
}
