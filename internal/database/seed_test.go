package database

import (
	"fmt"
	"strings"
	"testing"

	"github.com/restofleet/pos-admin-api/internal/domain"
	"github.com/restofleet/pos-admin-api/internal/permissions"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSeedCreatesCatalogRolesAndAdmin(t *testing.T) {
	db := newSeedTestDB(t)

	report, err := Seed(db, "admin@example.com", "argon2id-hash")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if report.CreatedPermissions != len(permissions.All()) {
		t.Fatalf("created %d permissions, want %d", report.CreatedPermissions, len(permissions.All()))
	}
	if report.CreatedRoles != 2 {
		t.Fatalf("created %d roles, want 2", report.CreatedRoles)
	}
	if report.CreatedUsers != 1 {
		t.Fatalf("created %d users, want 1", report.CreatedUsers)
	}
	if report.Noop {
		t.Fatal("first seed must not be a noop")
	}

	var admin domain.Role
	if err := db.Preload("Permissions").Where("name = ?", "ADMIN").First(&admin).Error; err != nil {
		t.Fatalf("load admin role: %v", err)
	}
	if len(admin.Permissions) != len(permissions.All()) {
		t.Fatalf("admin bound to %d permissions, want %d", len(admin.Permissions), len(permissions.All()))
	}

	var staff domain.Role
	if err := db.Preload("Permissions").Where("name = ?", "STAFF").First(&staff).Error; err != nil {
		t.Fatalf("load staff role: %v", err)
	}
	for _, p := range staff.Permissions {
		if p.Method != "GET" {
			t.Fatalf("staff role holds non-read permission %s %s", p.Method, p.APIPath)
		}
	}

	var u domain.User
	if err := db.Where("email = ?", "admin@example.com").First(&u).Error; err != nil {
		t.Fatalf("load bootstrap admin: %v", err)
	}
	if u.RoleID != admin.ID {
		t.Fatalf("bootstrap admin role = %d, want %d", u.RoleID, admin.ID)
	}
	var cred domain.Credential
	if err := db.Where("user_id = ?", u.ID).First(&cred).Error; err != nil {
		t.Fatalf("load bootstrap admin credential: %v", err)
	}
	if cred.PasswordHash != "argon2id-hash" {
		t.Fatalf("unexpected credential hash %q", cred.PasswordHash)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := newSeedTestDB(t)

	if _, err := Seed(db, "admin@example.com", "argon2id-hash"); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	report, err := Seed(db, "admin@example.com", "argon2id-hash")
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if !report.Noop {
		t.Fatalf("second seed should be a noop, got %+v", report)
	}
}

func TestSeedWithoutAdminEmailSkipsBootstrapUser(t *testing.T) {
	db := newSeedTestDB(t)

	report, err := Seed(db, "", "")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if report.CreatedUsers != 0 {
		t.Fatalf("created %d users, want 0", report.CreatedUsers)
	}
	var count int64
	if err := db.Model(&domain.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no users, got %d", count)
	}
}
