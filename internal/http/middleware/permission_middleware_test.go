package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/restofleet/pos-admin-api/internal/permissions"
	"github.com/restofleet/pos-admin-api/internal/security"
	"github.com/restofleet/pos-admin-api/internal/service"
	servicegomock "github.com/restofleet/pos-admin-api/internal/service/gomock"
)

func requestWithClaims(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	claims := &security.Claims{Email: "chef@example.com", Role: "STAFF"}
	return req.WithContext(context.WithValue(req.Context(), ClaimsContextKey, claims))
}

func TestRequirePermissionAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	required := permissions.Registry["TABLES"].GetPaginate
	resolver := servicegomock.NewMockPermissionResolver(ctrl)
	resolver.EXPECT().ResolvePermissions(gomock.Any(), gomock.Any()).Return([]permissions.Descriptor{required}, nil)

	called := false
	mw := RequirePermission(resolver, service.NewRBACService(), required)
	rr := httptest.NewRecorder()
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rr, requestWithClaims(http.MethodGet, "/api/v1/tables"))

	if !called || rr.Code != http.StatusOK {
		t.Fatalf("expected request to pass, got status %d called=%v", rr.Code, called)
	}
}

func TestRequirePermissionDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	held := []permissions.Descriptor{permissions.Registry["TABLES"].GetPaginate}
	required := permissions.Registry["TABLES"].Delete
	resolver := servicegomock.NewMockPermissionResolver(ctrl)
	resolver.EXPECT().ResolvePermissions(gomock.Any(), gomock.Any()).Return(held, nil)

	mw := RequirePermission(resolver, service.NewRBACService(), required)
	rr := httptest.NewRecorder()
	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("expected middleware to block request")
	})).ServeHTTP(rr, requestWithClaims(http.MethodDelete, "/api/v1/tables/42"))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rr.Code)
	}
	var body struct {
		StatusCode int               `json:"statusCode"`
		Error      string            `json:"error"`
		Data       map[string]string `json:"data"`
		Details    map[string]string `json:"details"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "FORBIDDEN" || body.Details["required"] != required.Token() {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if body.Data != nil {
		t.Fatalf("data must stay success-only, got %v", body.Data)
	}
}

func TestRequirePermissionWithoutClaims(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := servicegomock.NewMockPermissionResolver(ctrl)
	resolver.EXPECT().ResolvePermissions(gomock.Any(), gomock.Any()).Times(0)

	mw := RequirePermission(resolver, service.NewRBACService(), permissions.Registry["TABLES"].GetPaginate)
	rr := httptest.NewRecorder()
	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("expected middleware to block request")
	})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/tables", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}
}

func TestRequirePermissionResolverError(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := servicegomock.NewMockPermissionResolver(ctrl)
	resolver.EXPECT().ResolvePermissions(gomock.Any(), gomock.Any()).Return(nil, errors.New("resolver unavailable"))

	mw := RequirePermission(resolver, service.NewRBACService(), permissions.Registry["TABLES"].GetPaginate)
	rr := httptest.NewRecorder()
	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("expected middleware to block request")
	})).ServeHTTP(rr, requestWithClaims(http.MethodGet, "/api/v1/tables"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}
