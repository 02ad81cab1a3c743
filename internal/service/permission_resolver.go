package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/restofleet/pos-admin-api/internal/observability"
	"github.com/restofleet/pos-admin-api/internal/permissions"
	"github.com/restofleet/pos-admin-api/internal/repository"
	"github.com/restofleet/pos-admin-api/internal/security"
)

type PermissionResolver interface {
	ResolvePermissions(ctx context.Context, claims *security.Claims) ([]permissions.Descriptor, error)
	InvalidateAll(ctx context.Context) error
}

type permissionCacheEntry struct {
	descriptors []permissions.Descriptor
	expiresAt   time.Time
}

// CachedPermissionResolver resolves the calling user's permission set from
// their role, with a short per-user TTL cache. Concurrent cold lookups for
// the same user collapse onto one database read.
type CachedPermissionResolver struct {
	users repository.UserRepository
	rbac  repository.RBACRepository
	ttl   time.Duration
	sf    singleflight.Group

	mu    sync.RWMutex
	cache map[uint]permissionCacheEntry
}

func NewCachedPermissionResolver(users repository.UserRepository, rbac repository.RBACRepository, ttl time.Duration) *CachedPermissionResolver {
	return &CachedPermissionResolver{
		users: users,
		rbac:  rbac,
		ttl:   ttl,
		cache: make(map[uint]permissionCacheEntry),
	}
}

func (r *CachedPermissionResolver) ResolvePermissions(ctx context.Context, claims *security.Claims) ([]permissions.Descriptor, error) {
	if claims == nil {
		return nil, fmt.Errorf("missing claims")
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	if ds, ok := r.cached(userID); ok {
		observability.RecordPermissionCacheEvent(ctx, "hit")
		return ds, nil
	}
	observability.RecordPermissionCacheEvent(ctx, "miss")

	sfKey := fmt.Sprintf("perm:user:%d", userID)
	result, err, shared := r.sf.Do(sfKey, func() (any, error) {
		if ds, ok := r.cached(userID); ok {
			return ds, nil
		}
		ds, err := r.load(ctx, userID)
		if err != nil {
			return nil, err
		}
		r.store(userID, ds)
		return ds, nil
	})
	if shared {
		observability.RecordPermissionCacheEvent(ctx, "singleflight_shared")
	}
	if err != nil {
		return nil, err
	}
	ds, ok := result.([]permissions.Descriptor)
	if !ok {
		return nil, fmt.Errorf("invalid permission result type")
	}
	return ds, nil
}

func (r *CachedPermissionResolver) load(ctx context.Context, userID uint) ([]permissions.Descriptor, error) {
	u, err := r.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, nil
	}
	perms, err := r.rbac.PermissionsForRole(ctx, u.RoleID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return NewRBACService().DescriptorsFromPermissions(perms), nil
}

func (r *CachedPermissionResolver) cached(userID uint) ([]permissions.Descriptor, bool) {
	if r.ttl <= 0 {
		return nil, false
	}
	r.mu.RLock()
	entry, ok := r.cache[userID]
	r.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.descriptors, true
}

func (r *CachedPermissionResolver) store(userID uint, ds []permissions.Descriptor) {
	if r.ttl <= 0 {
		return
	}
	r.mu.Lock()
	r.cache[userID] = permissionCacheEntry{descriptors: ds, expiresAt: time.Now().Add(r.ttl)}
	r.mu.Unlock()
}

// InvalidateAll drops every cached permission set. Called after role or
// permission mutations so grants take effect within one request.
func (r *CachedPermissionResolver) InvalidateAll(context.Context) error {
	r.mu.Lock()
	r.cache = make(map[uint]permissionCacheEntry)
	r.mu.Unlock()
	return nil
}
