package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/restofleet/pos-admin-api/internal/app"
	"github.com/restofleet/pos-admin-api/internal/config"
	"github.com/restofleet/pos-admin-api/internal/database"
	"github.com/restofleet/pos-admin-api/internal/domain"
	"github.com/restofleet/pos-admin-api/internal/health"
	"github.com/restofleet/pos-admin-api/internal/http/handler"
	"github.com/restofleet/pos-admin-api/internal/http/middleware"
	"github.com/restofleet/pos-admin-api/internal/http/router"
	"github.com/restofleet/pos-admin-api/internal/observability"
	"github.com/restofleet/pos-admin-api/internal/repository"
	"github.com/restofleet/pos-admin-api/internal/resources"
	"github.com/restofleet/pos-admin-api/internal/security"
	"github.com/restofleet/pos-admin-api/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideRedisClient,
	provideListCacheStore,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewRBACRepository,
	repository.NewProductRepository,
)

var SecuritySet = wire.NewSet(provideJWTManager)

var ServiceSet = wire.NewSet(
	service.NewRBACService,
	service.NewAuthService,
	providePermissionResolver,
	provideStorageService,
	provideResourceHandlers,
	provideProductService,
)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewUserHandler,
	provideRBACHandler,
	handler.NewProductHandler,
	handler.NewUploadHandler,
	provideAPIRateLimiter,
	provideAuthRateLimiter,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(provideApp)

// MigrationRunner applies migrations and seed data without starting the
// server. Used by the migrate tool.
type MigrationRunner struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewMigrationRunner(cfg *config.Config, db *gorm.DB) *MigrationRunner {
	return &MigrationRunner{cfg: cfg, db: db}
}

func (m *MigrationRunner) Run() (*database.SeedReport, error) {
	if err := database.Migrate(m.db); err != nil {
		return nil, err
	}
	passwordHash := ""
	if m.cfg.BootstrapAdminPassword != "" {
		var err error
		if passwordHash, err = security.HashPassword(m.cfg.BootstrapAdminPassword); err != nil {
			return nil, err
		}
	}
	return database.Seed(m.db, m.cfg.BootstrapAdminEmail, passwordHash)
}

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	return observability.InitLogger(cfg, runtime.LoggerProvider)
}

func provideOpenDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(cfg)
}

func provideRuntimeDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	passwordHash := ""
	if cfg.BootstrapAdminPassword != "" {
		if passwordHash, err = security.HashPassword(cfg.BootstrapAdminPassword); err != nil {
			return nil, err
		}
	}
	if _, err := database.Seed(db, cfg.BootstrapAdminEmail, passwordHash); err != nil {
		return nil, err
	}
	return db, nil
}

func provideRedisClient(cfg *config.Config, logger *slog.Logger) redis.UniversalClient {
	if !cfg.RedisEnabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	observability.InstrumentRedisClient(client, logger)
	return client
}

func provideListCacheStore(cfg *config.Config, redisClient redis.UniversalClient) service.ListCacheStore {
	if cfg.RedisEnabled && redisClient != nil {
		return service.NewRedisListCacheStore(redisClient, cfg.RedisPrefix+":list")
	}
	return service.NewInMemoryListCacheStore()
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessSecret, cfg.JWTAccessTTL)
}

func providePermissionResolver(cfg *config.Config, users repository.UserRepository, rbac repository.RBACRepository) service.PermissionResolver {
	return service.NewCachedPermissionResolver(users, rbac, cfg.PermissionCacheTTL)
}

func provideStorageService(cfg *config.Config) (service.StorageService, error) {
	return service.NewMinIOStorageService(
		cfg.MinIOEndpoint,
		cfg.MinIOAccessKey,
		cfg.MinIOSecretKey,
		cfg.MinIOBucket,
		cfg.StorageBaseURL,
		cfg.MinIOUseSSL,
	)
}

// ResourceHandlers holds the generic handler for every admin module. Built
// as one unit because all modules share the same repository, cache, and
// handler shape.
type ResourceHandlers struct {
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

	// ProductsService and RolesService also feed the recipe and
	// role-permission endpoints, which invalidate the same list caches the
	// generic routes serve from.
	ProductsService *service.ResourceService[domain.Product]
	RolesService    *service.ResourceService[domain.Role]
}

func newResourceHandler[E any](
	db *gorm.DB,
	store service.ListCacheStore,
	ttl time.Duration,
	logger *slog.Logger,
	rcfg service.ResourceConfig,
	bind handler.Binder[E],
	id func(*E) uint,
	preloads ...string,
) (*handler.ResourceHandler[E], *service.ResourceService[E]) {
	repo := repository.NewResourceRepository[E](db, rcfg.Module, preloads...)
	svc := service.NewResourceService[E](repo, store, rcfg, ttl, logger)
	return handler.NewResourceHandler(svc, bind, id), svc
}

func provideResourceHandlers(cfg *config.Config, db *gorm.DB, store service.ListCacheStore, logger *slog.Logger) *ResourceHandlers {
	ttl := cfg.ListCacheTTL
	h := &ResourceHandlers{}

	h.Restaurants, _ = newResourceHandler(db, store, ttl, logger, resources.RestaurantsConfig, resources.BindRestaurant,
		func(e *domain.Restaurant) uint { return e.ID })
	h.Tables, _ = newResourceHandler(db, store, ttl, logger, resources.TablesConfig, resources.BindDiningTable,
		func(e *domain.DiningTable) uint { return e.ID }, "Restaurant")
	h.Suppliers, _ = newResourceHandler(db, store, ttl, logger, resources.SuppliersConfig, resources.BindSupplier,
		func(e *domain.Supplier) uint { return e.ID })
	h.Ingredients, _ = newResourceHandler(db, store, ttl, logger, resources.IngredientsConfig, resources.BindIngredient,
		func(e *domain.Ingredient) uint { return e.ID }, "Supplier")
	h.Products, h.ProductsService = newResourceHandler(db, store, ttl, logger, resources.ProductsConfig, resources.BindProduct,
		func(e *domain.Product) uint { return e.ID }, "Restaurant")
	h.Orders, _ = newResourceHandler(db, store, ttl, logger, resources.OrdersConfig, resources.BindOrder,
		func(e *domain.Order) uint { return e.ID }, "Table", "User", "Items", "Items.Product")
	h.Users, _ = newResourceHandler(db, store, ttl, logger, resources.UsersConfig, resources.BindUser,
		func(e *domain.User) uint { return e.ID }, "Role")
	h.Roles, h.RolesService = newResourceHandler(db, store, ttl, logger, resources.RolesConfig, resources.BindRole,
		func(e *domain.Role) uint { return e.ID }, "Permissions")
	h.Permissions, _ = newResourceHandler(db, store, ttl, logger, resources.PermissionsConfig, resources.BindPermission,
		func(e *domain.Permission) uint { return e.ID })
	h.Invoices, _ = newResourceHandler(db, store, ttl, logger, resources.InvoicesConfig, resources.BindInvoice,
		func(e *domain.Invoice) uint { return e.ID }, "Order")
	h.Receipts, _ = newResourceHandler(db, store, ttl, logger, resources.ReceiptsConfig, resources.BindReceipt,
		func(e *domain.Receipt) uint { return e.ID }, "Invoice")
	h.Shifts, _ = newResourceHandler(db, store, ttl, logger, resources.ShiftsConfig, resources.BindShift,
		func(e *domain.Shift) uint { return e.ID }, "User")
	h.Reviews, _ = newResourceHandler(db, store, ttl, logger, resources.ReviewsConfig, resources.BindReview,
		func(e *domain.Review) uint { return e.ID }, "Client", "Product")
	h.Clients, _ = newResourceHandler(db, store, ttl, logger, resources.ClientsConfig, resources.BindClient,
		func(e *domain.Client) uint { return e.ID })
	h.Feedback, _ = newResourceHandler(db, store, ttl, logger, resources.FeedbackConfig, resources.BindFeedback,
		func(e *domain.Feedback) uint { return e.ID }, "Client")

	return h
}

func provideProductService(handlers *ResourceHandlers, repo repository.ProductRepository) *service.ProductService {
	return service.NewProductService(handlers.ProductsService, repo)
}

func provideRBACHandler(rbacRepo repository.RBACRepository, resolver service.PermissionResolver, handlers *ResourceHandlers) *handler.RBACHandler {
	return handler.NewRBACHandler(rbacRepo, resolver, handlers.RolesService)
}

func provideAPIRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) router.APIRateLimiterFunc {
	if cfg.RedisEnabled && redisClient != nil {
		limiter := middleware.NewRedisFixedWindowLimiter(redisClient, cfg.RedisPrefix+":rl:api")
		return middleware.NewDistributedRateLimiter(limiter, cfg.APIRateLimitPerMin, time.Minute, middleware.FailOpen, "api").Middleware()
	}
	return middleware.NewRateLimiter(cfg.APIRateLimitPerMin, time.Minute, "api").Middleware()
}

func provideAuthRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) router.AuthRateLimiterFunc {
	if cfg.RedisEnabled && redisClient != nil {
		limiter := middleware.NewRedisFixedWindowLimiter(redisClient, cfg.RedisPrefix+":rl:auth")
		return middleware.NewDistributedRateLimiter(limiter, cfg.AuthRateLimitPerMin, time.Minute, middleware.FailClosed, "auth").Middleware()
	}
	return middleware.NewRateLimiter(cfg.AuthRateLimitPerMin, time.Minute, "auth").Middleware()
}

func provideReadinessProbeRunner(cfg *config.Config, db *gorm.DB, redisClient redis.UniversalClient, storage service.StorageService) *health.ProbeRunner {
	checkers := make([]health.Checker, 0, 3)
	if c := health.NewDBChecker(db); c != nil {
		checkers = append(checkers, c)
	}
	if cfg.RedisEnabled {
		if c := health.NewRedisChecker(redisClient); c != nil {
			checkers = append(checkers, c)
		}
	}
	if ms, ok := storage.(*service.MinIOStorageService); ok && ms != nil {
		checkers = append(checkers, health.NewStorageChecker(ms.Healthy))
	}
	return health.NewProbeRunner(cfg.ReadinessProbeTimeout, cfg.ServerStartGracePeriod, checkers...)
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	rbacHandler *handler.RBACHandler,
	productHandler *handler.ProductHandler,
	uploadHandler *handler.UploadHandler,
	handlers *ResourceHandlers,
	jwt *security.JWTManager,
	rbac *service.RBACService,
	resolver service.PermissionResolver,
	apiRateLimiter router.APIRateLimiterFunc,
	authRateLimiter router.AuthRateLimiterFunc,
	readiness *health.ProbeRunner,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		RBACHandler:    rbacHandler,
		ProductHandler: productHandler,
		UploadHandler:  uploadHandler,

		Restaurants: handlers.Restaurants,
		Tables:      handlers.Tables,
		Suppliers:   handlers.Suppliers,
		Ingredients: handlers.Ingredients,
		Products:    handlers.Products,
		Orders:      handlers.Orders,
		Users:       handlers.Users,
		Roles:       handlers.Roles,
		Permissions: handlers.Permissions,
		Invoices:    handlers.Invoices,
		Receipts:    handlers.Receipts,
		Shifts:      handlers.Shifts,
		Reviews:     handlers.Reviews,
		Clients:     handlers.Clients,
		Feedback:    handlers.Feedback,

		JWTManager:         jwt,
		RBACService:        rbac,
		PermissionResolver: resolver,
		CORSOrigins:        cfg.CORSAllowedOrigins,
		AuthRateLimiter:    authRateLimiter,
		APIRateLimiter:     apiRateLimiter,
		AuthRateLimitRPM:   cfg.AuthRateLimitPerMin,
		APIRateLimitRPM:    cfg.APIRateLimitPerMin,
		Readiness:          readiness,
		EnableOTelHTTP:     cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func provideApp(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	db *gorm.DB,
	redisClient redis.UniversalClient,
) *app.App {
	return app.New(cfg, logger, server, runtime, db, redisClient)
}
