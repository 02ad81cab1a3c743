package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/restofleet/pos-admin-api/internal/domain"
	"github.com/restofleet/pos-admin-api/internal/health"
	"github.com/restofleet/pos-admin-api/internal/http/handler"
	"github.com/restofleet/pos-admin-api/internal/http/middleware"
	"github.com/restofleet/pos-admin-api/internal/http/response"
	"github.com/restofleet/pos-admin-api/internal/permissions"
	"github.com/restofleet/pos-admin-api/internal/security"
	"github.com/restofleet/pos-admin-api/internal/service"
)

// Named limiter funcs keep the two rate limit chains distinct when wiring.
type (
	APIRateLimiterFunc  func(http.Handler) http.Handler
	AuthRateLimiterFunc func(http.Handler) http.Handler
)

type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	RBACHandler    *handler.RBACHandler
	ProductHandler *handler.ProductHandler
	UploadHandler  *handler.UploadHandler

	Restaurants *handler.ResourceHandler[domain.Restaurant]
	Tables      *handler.ResourceHandler[domain.DiningTable]
	Suppliers   *handler.ResourceHandler[domain.Supplier]
	Ingredients *handler.ResourceHandler[domain.Ingredient]
	Products    *handler.ResourceHandler[domain.Product]
	Orders      *handler.ResourceHandler[domain.Order]
	Users       *handler.ResourceHandler[domain.User]
	Roles       *handler.ResourceHandler[domain.Role]
	Permissions *handler.ResourceHandler[domain.Permission]
	Invoices    *handler.ResourceHandler[domain.Invoice]
	Receipts    *handler.ResourceHandler[domain.Receipt]
	Shifts      *handler.ResourceHandler[domain.Shift]
	Reviews     *handler.ResourceHandler[domain.Review]
	Clients     *handler.ResourceHandler[domain.Client]
	Feedback    *handler.ResourceHandler[domain.Feedback]

	JWTManager         *security.JWTManager
	RBACService        *service.RBACService
	PermissionResolver service.PermissionResolver
	CORSOrigins        []string
	AuthRateLimiter    AuthRateLimiterFunc
	APIRateLimiter     APIRateLimiterFunc
	AuthRateLimitRPM   int
	APIRateLimitRPM    int
	Readiness          *health.ProbeRunner
	EnableOTelHTTP     bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(1 << 20))
	if dep.APIRateLimiter != nil {
		r.Use(dep.APIRateLimiter)
	} else {
		r.Use(middleware.NewRateLimiter(dep.APIRateLimitRPM, time.Minute, "api").Middleware())
	}

	authLimiter := dep.AuthRateLimiter
	if authLimiter == nil {
		authLimiter = middleware.NewRateLimiter(dep.AuthRateLimitRPM, time.Minute, "auth").Middleware()
	}

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	auth := middleware.RequireAccessToken(dep.JWTManager)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(authLimiter).Post("/auth/login", dep.AuthHandler.Login)
		r.With(auth).Get("/auth/me", dep.AuthHandler.Me)

		mountResource(r, dep, auth, permissions.Registry["RESTAURANTS"], dep.Restaurants, nil)
		mountResource(r, dep, auth, permissions.Registry["TABLES"], dep.Tables, nil)
		mountResource(r, dep, auth, permissions.Registry["SUPPLIERS"], dep.Suppliers, nil)
		mountResource(r, dep, auth, permissions.Registry["INGREDIENTS"], dep.Ingredients, nil)

		productSet := permissions.Registry["PRODUCTS"]
		mountResource(r, dep, auth, productSet, dep.Products, func(r chi.Router) {
			r.With(requirePerm(dep, productSet.GetPaginate)).Get("/{id}/composition", dep.ProductHandler.GetComposition)
			r.With(requirePerm(dep, productSet.Update)).Put("/{id}/composition", dep.ProductHandler.SetComposition)
		})

		mountResource(r, dep, auth, permissions.Registry["ORDERS"], dep.Orders, nil)

		userSet := permissions.Registry["USERS"]
		mountResource(r, dep, auth, userSet, dep.Users, func(r chi.Router) {
			r.With(requirePerm(dep, userSet.Update)).Put("/{id}/password", dep.UserHandler.SetPassword)
		})

		roleSet := permissions.Registry["ROLES"]
		mountResource(r, dep, auth, roleSet, dep.Roles, func(r chi.Router) {
			r.With(requirePerm(dep, roleSet.Update)).Put("/{id}/permissions", dep.RBACHandler.SetRolePermissions)
		})

		mountResource(r, dep, auth, permissions.Registry["PERMISSIONS"], dep.Permissions, nil)
		mountResource(r, dep, auth, permissions.Registry["INVOICES"], dep.Invoices, nil)
		mountResource(r, dep, auth, permissions.Registry["RECEIPTS"], dep.Receipts, nil)
		mountResource(r, dep, auth, permissions.Registry["SHIFTS"], dep.Shifts, nil)
		mountResource(r, dep, auth, permissions.Registry["REVIEWS"], dep.Reviews, nil)
		mountResource(r, dep, auth, permissions.Registry["CLIENTS"], dep.Clients, nil)
		mountResource(r, dep, auth, permissions.Registry["FEEDBACK"], dep.Feedback, nil)

		// Uploads get their own body limit, above the 5MB per-file cap.
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.With(middleware.BodyLimit(6 << 20)).Post("/files/upload", dep.UploadHandler.Upload)
			r.Delete("/files", dep.UploadHandler.Delete)
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}

func requirePerm(dep Dependencies, d permissions.Descriptor) func(http.Handler) http.Handler {
	return middleware.RequirePermission(dep.PermissionResolver, dep.RBACService, d)
}

// mountResource wires one module's four standard routes under its registry
// base path, each gated by the matching descriptor. Extra routes from the
// callback share the subrouter and its auth requirement.
func mountResource[E any](r chi.Router, dep Dependencies, auth func(http.Handler) http.Handler, set permissions.ModuleSet, h *handler.ResourceHandler[E], extra func(chi.Router)) {
	base := strings.TrimPrefix(set.GetPaginate.APIPath, "/api/v1")
	r.Route(base, func(r chi.Router) {
		r.Use(auth)
		r.Group(func(r chi.Router) {
			r.Use(requirePerm(dep, set.GetPaginate))
			r.Get("/", h.List)
			r.Get("/{id}", h.GetByID)
		})
		r.With(requirePerm(dep, set.Create)).Post("/", h.Create)
		r.With(requirePerm(dep, set.Update)).Put("/{id}", h.Update)
		r.With(requirePerm(dep, set.Delete)).Delete("/{id}", h.Delete)
		if extra != nil {
			extra(r)
		}
	})
}
