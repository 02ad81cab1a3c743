package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/restofleet/pos-admin-api/internal/domain"
	"github.com/restofleet/pos-admin-api/internal/repository"
	"github.com/restofleet/pos-admin-api/internal/resources"
	"github.com/restofleet/pos-admin-api/internal/service"
)

type rbacFixture struct {
	router http.Handler
	store  *invalidationCountingStore
	db     *gorm.DB
}

func newRBACFixture(t *testing.T) *rbacFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Permission{}, &domain.Role{}, &domain.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := &invalidationCountingStore{ListCacheStore: service.NewInMemoryListCacheStore()}
	rolesRepo := repository.NewResourceRepository[domain.Role](db, "ROLES", "Permissions")
	rolesSvc := service.NewResourceService[domain.Role](rolesRepo, store, resources.RolesConfig, time.Minute, nil)
	rolesHandler := NewResourceHandler(rolesSvc, resources.BindRole, func(e *domain.Role) uint { return e.ID })

	rbacRepo := repository.NewRBACRepository(db)
	resolver := service.NewCachedPermissionResolver(repository.NewUserRepository(db), rbacRepo, time.Minute)
	h := NewRBACHandler(rbacRepo, resolver, rolesSvc)

	r := chi.NewRouter()
	r.Get("/api/v1/roles", rolesHandler.List)
	r.Put("/api/v1/roles/{id}/permissions", h.SetRolePermissions)
	return &rbacFixture{router: r, store: store, db: db}
}

func (f *rbacFixture) seedRBAC(t *testing.T) (domain.Role, []domain.Permission) {
	t.Helper()
	perms := []domain.Permission{
		{Name: "List tables", Method: "GET", APIPath: "/api/v1/tables", Module: "TABLES"},
		{Name: "Delete table", Method: "DELETE", APIPath: "/api/v1/tables/{id}", Module: "TABLES"},
	}
	if err := f.db.Create(&perms).Error; err != nil {
		t.Fatalf("seed permissions: %v", err)
	}
	role := domain.Role{Name: "MANAGER", Active: true}
	if err := f.db.Create(&role).Error; err != nil {
		t.Fatalf("seed role: %v", err)
	}
	return role, perms
}

func (f *rbacFixture) putPermissions(t *testing.T, roleID uint, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/v1/roles/%d/permissions", roleID), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func (f *rbacFixture) listRoles(t *testing.T) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/roles?page=1&size=10", nil)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("list roles: %d: %s", rr.Code, rr.Body.String())
	}
	env := decodeEnvelope(t, rr)
	data := env["data"].(map[string]any)
	result := data["result"].([]any)
	if len(result) != 1 {
		t.Fatalf("expected 1 role, got %d", len(result))
	}
	return result[0].(map[string]any)
}

func TestSetRolePermissionsRefreshesRolesListing(t *testing.T) {
	f := newRBACFixture(t)
	role, perms := f.seedRBAC(t)

	if row := f.listRoles(t); row["permissions"] != nil {
		t.Fatalf("expected empty permission set before replace, got %v", row["permissions"])
	}

	body := fmt.Sprintf(`{"permissionIds":[%d,%d]}`, perms[0].ID, perms[1].ID)
	if rr := f.putPermissions(t, role.ID, body); rr.Code != http.StatusOK {
		t.Fatalf("replace permissions: %d: %s", rr.Code, rr.Body.String())
	}
	if n := f.store.invalidations.Load(); n != 1 {
		t.Fatalf("list cache invalidations = %d, want 1", n)
	}

	row := f.listRoles(t)
	got := row["permissions"].([]any)
	if len(got) != 2 {
		t.Fatalf("cached listing served after replace: %d permissions, want 2", len(got))
	}
}

func TestSetRolePermissionsRejectsUnknownIDs(t *testing.T) {
	f := newRBACFixture(t)
	role, perms := f.seedRBAC(t)

	if rr := f.putPermissions(t, role.ID, fmt.Sprintf(`{"permissionIds":[%d]}`, perms[0].ID)); rr.Code != http.StatusOK {
		t.Fatalf("seed permission set: %d: %s", rr.Code, rr.Body.String())
	}

	rr := f.putPermissions(t, role.ID, fmt.Sprintf(`{"permissionIds":[%d,9999]}`, perms[1].ID))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
	env := decodeEnvelope(t, rr)
	if env["error"] != "BAD_REQUEST" {
		t.Fatalf("unexpected error code: %v", env["error"])
	}

	var reloaded domain.Role
	if err := f.db.Preload("Permissions").First(&reloaded, role.ID).Error; err != nil {
		t.Fatalf("reload role: %v", err)
	}
	if len(reloaded.Permissions) != 1 || reloaded.Permissions[0].ID != perms[0].ID {
		t.Fatalf("permission set changed on rejected replace: %+v", reloaded.Permissions)
	}
}

func TestSetRolePermissionsUnknownRole(t *testing.T) {
	f := newRBACFixture(t)
	f.seedRBAC(t)

	if rr := f.putPermissions(t, 9999, `{"permissionIds":[]}`); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rr.Code, rr.Body.String())
	}
}
