package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/restofleet/pos-admin-api/internal/domain"
	"github.com/restofleet/pos-admin-api/internal/observability"
)

// ErrUnknownPermission reports a permission ID with no matching row. The
// role's permission set is left as it was.
var ErrUnknownPermission = errors.New("unknown permission id")

type RBACRepository interface {
	PermissionsForRole(ctx context.Context, roleID uint) ([]domain.Permission, error)
	ReplaceRolePermissions(ctx context.Context, roleID uint, permissionIDs []uint) error
}

type GormRBACRepository struct{ db *gorm.DB }

func NewRBACRepository(db *gorm.DB) RBACRepository {
	return &GormRBACRepository{db: db}
}

func (r *GormRBACRepository) PermissionsForRole(ctx context.Context, roleID uint) ([]domain.Permission, error) {
	defer observeRBACOp(ctx, "permissions_for_role", time.Now())
	var role domain.Role
	if err := r.db.WithContext(ctx).Preload("Permissions").First(&role, roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !role.Active {
		return nil, nil
	}
	return role.Permissions, nil
}

func (r *GormRBACRepository) ReplaceRolePermissions(ctx context.Context, roleID uint, permissionIDs []uint) error {
	defer observeRBACOp(ctx, "replace_role_permissions", time.Now())
	var role domain.Role
	if err := r.db.WithContext(ctx).First(&role, roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	var perms []domain.Permission
	if len(permissionIDs) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", permissionIDs).Find(&perms).Error; err != nil {
			return err
		}
		found := make(map[uint]struct{}, len(perms))
		for _, p := range perms {
			found[p.ID] = struct{}{}
		}
		for _, id := range permissionIDs {
			if _, ok := found[id]; !ok {
				return fmt.Errorf("%w: %d", ErrUnknownPermission, id)
			}
		}
	}
	return r.db.WithContext(ctx).Model(&role).Association("Permissions").Replace(&perms)
}

func observeRBACOp(ctx context.Context, op string, start time.Time) {
	observability.RecordRepositoryOperation(ctx, "ROLES", op, time.Since(start))
}
