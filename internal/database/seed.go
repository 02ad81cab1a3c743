package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/restofleet/pos-admin-api/internal/domain"
	"github.com/restofleet/pos-admin-api/internal/permissions"

	"gorm.io/gorm"
)

type SeedReport struct {
	CreatedPermissions int  `json:"created_permissions"`
	CreatedRoles       int  `json:"created_roles"`
	BoundPermissions   int  `json:"bound_permissions"`
	CreatedUsers       int  `json:"created_users"`
	Noop               bool `json:"noop"`
}

// Seed reconciles the permission catalog, the built-in roles, and the
// bootstrap admin account. Idempotent: reruns on an up-to-date database
// report Noop=true.
func Seed(db *gorm.DB, adminEmail, adminPasswordHash string) (*SeedReport, error) {
	report := &SeedReport{}

	for _, d := range permissions.All() {
		p := domain.Permission{
			Name:    d.Name,
			Method:  d.Method,
			APIPath: d.APIPath,
			Module:  d.Module,
		}
		res := db.Where("method = ? AND api_path = ? AND module = ?", d.Method, d.APIPath, d.Module).
			Attrs(domain.Permission{Name: d.Name}).
			FirstOrCreate(&p)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			report.CreatedPermissions++
		}
	}

	adminRole := domain.Role{Name: "ADMIN", Description: "Full access to every module", Active: true}
	staffRole := domain.Role{Name: "STAFF", Description: "Read-only access to every module", Active: true}
	for _, role := range []*domain.Role{&adminRole, &staffRole} {
		res := db.Where("name = ?", role.Name).FirstOrCreate(role)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			report.CreatedRoles++
		}
	}

	var allPerms []domain.Permission
	if err := db.Find(&allPerms).Error; err != nil {
		return nil, err
	}
	bound, err := replaceRolePermissions(db, &adminRole, allPerms)
	if err != nil {
		return nil, err
	}
	report.BoundPermissions += bound

	var readPerms []domain.Permission
	if err := db.Where("method = ?", "GET").Find(&readPerms).Error; err != nil {
		return nil, err
	}
	bound, err = replaceRolePermissions(db, &staffRole, readPerms)
	if err != nil {
		return nil, err
	}
	report.BoundPermissions += bound

	email := strings.TrimSpace(strings.ToLower(adminEmail))
	if email != "" {
		var u domain.User
		err := db.Where("email = ?", email).First(&u).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if adminPasswordHash == "" {
				return nil, fmt.Errorf("bootstrap admin %s does not exist and no password was provided", email)
			}
			u = domain.User{
				Email:  email,
				Name:   "Administrator",
				Active: true,
				RoleID: adminRole.ID,
			}
			if err := db.Create(&u).Error; err != nil {
				return nil, fmt.Errorf("create bootstrap admin: %w", err)
			}
			if err := db.Create(&domain.Credential{UserID: u.ID, PasswordHash: adminPasswordHash}).Error; err != nil {
				return nil, fmt.Errorf("create bootstrap admin credential: %w", err)
			}
			report.CreatedUsers++
		case err != nil:
			return nil, err
		default:
			if u.RoleID != adminRole.ID {
				if err := db.Model(&u).Update("role_id", adminRole.ID).Error; err != nil {
					return nil, fmt.Errorf("assign bootstrap admin role: %w", err)
				}
				report.BoundPermissions++
			}
		}
	}

	report.Noop = report.CreatedPermissions == 0 && report.CreatedRoles == 0 &&
		report.BoundPermissions == 0 && report.CreatedUsers == 0
	return report, nil
}

func replaceRolePermissions(db *gorm.DB, role *domain.Role, perms []domain.Permission) (int, error) {
	if len(perms) == 0 {
		return 0, nil
	}
	var before domain.Role
	if err := db.Preload("Permissions").Where("id = ?", role.ID).First(&before).Error; err != nil {
		return 0, err
	}
	beforeSet := make(map[uint]struct{}, len(before.Permissions))
	for _, p := range before.Permissions {
		beforeSet[p.ID] = struct{}{}
	}
	if len(beforeSet) == len(perms) {
		same := true
		for _, p := range perms {
			if _, ok := beforeSet[p.ID]; !ok {
				same = false
				break
			}
		}
		if same {
			return 0, nil
		}
	}
	if err := db.Model(role).Association("Permissions").Replace(&perms); err != nil {
		return 0, err
	}
	added := 0
	for _, p := range perms {
		if _, ok := beforeSet[p.ID]; !ok {
			added++
		}
	}
	return added, nil
}
