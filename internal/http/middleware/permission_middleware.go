package middleware

import (
	"net/http"

	"github.com/restofleet/pos-admin-api/internal/http/response"
	"github.com/restofleet/pos-admin-api/internal/observability"
	"github.com/restofleet/pos-admin-api/internal/permissions"
	"github.com/restofleet/pos-admin-api/internal/service"
)

// RequirePermission gates a route behind one descriptor from the registry.
// The actor's held permissions come from the resolver; the check matches the
// descriptor's method, path template and module against the live request.
func RequirePermission(resolver service.PermissionResolver, rbac *service.RBACService, required permissions.Descriptor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				observability.RecordPermissionCheck(r.Context(), required.Module, "unauthenticated")
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
				return
			}
			held, err := resolver.ResolvePermissions(r.Context(), claims)
			if err != nil {
				observability.RecordPermissionCheck(r.Context(), required.Module, "resolve_error")
				response.Error(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to resolve permissions", nil)
				return
			}
			if !rbac.HasPermission(held, required.Method, required.APIPath, required.Module) {
				observability.RecordPermissionCheck(r.Context(), required.Module, "denied")
				response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "you do not have permission to access this endpoint", map[string]string{
					"required": required.Token(),
				})
				return
			}
			observability.RecordPermissionCheck(r.Context(), required.Module, "granted")
			next.ServeHTTP(w, r)
		})
	}
}
