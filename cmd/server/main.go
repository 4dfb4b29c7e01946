package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	financeapp "github.com/retailpos/backend/internal/application/finance"
	identityapp "github.com/retailpos/backend/internal/application/identity"
	inventoryapp "github.com/retailpos/backend/internal/application/inventory"
	partnerapp "github.com/retailpos/backend/internal/application/partner"
	procurementapp "github.com/retailpos/backend/internal/application/procurement"
	salesapp "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/auth"
	"github.com/retailpos/backend/internal/infrastructure/cache"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/infrastructure/event"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
	"github.com/retailpos/backend/internal/infrastructure/printing"
	"github.com/retailpos/backend/internal/infrastructure/storage"
	"github.com/retailpos/backend/internal/infrastructure/telemetry"
	"github.com/retailpos/backend/internal/interfaces/http/handler"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
	"github.com/retailpos/backend/internal/interfaces/http/router"
	"github.com/retailpos/backend/internal/interfaces/ws"

	_ "github.com/retailpos/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			RetailPOS Backend API
//	@version		1.0
//	@description	Multi-tenant point-of-sale backend: catalog, branch stock, purchasing and sales.

//	@contact.name	API Support
//	@contact.url	https://github.com/retailpos/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const serviceVersion = "1.0.0"

// tenantStatusGate rejects requests from suspended or deleted tenants
// before they reach any handler.
type tenantStatusGate struct {
	tenants *identityapp.TenantService
}

func (g *tenantStatusGate) CheckTenant(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := g.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if tenant.Status != string(identity.TenantStatusActive) {
		return shared.NewDomainError("TENANT_SUSPENDED", "Tenant is not active")
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting RetailPOS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database, with the GORM logger bridged onto zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	db.DB.Logger = logger.NewGormLogger(log, gormLogLevel)

	ctx := context.Background()

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}()

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Redis backs token revocation, confirmation locks and event
	// idempotency. Without it the server falls back to in-process
	// equivalents, which only suit a single instance.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("Redis unreachable, using in-memory fallbacks", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		} else {
			defer func() {
				_ = redisClient.Close()
			}()
		}
	}

	var revocations auth.RevocationList
	var confirmationLocker procurementapp.ConfirmationLocker
	if redisClient != nil {
		revocations = auth.NewRedisRevocationList(redisClient)
		confirmationLocker = cache.NewRedisConfirmationLocker(redisClient)
	} else {
		revocations = auth.NewMemoryRevocationList()
		confirmationLocker = procurementapp.NewNoOpConfirmationLocker()
	}

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	grnRepo := persistence.NewGormGRNRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryItemRepository(db.DB)
	auditRepo := persistence.NewGormAuditRecordRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRecordRepository(db.DB)
	planFeatureRepo := persistence.NewGormPlanFeatureRepository(db.DB)

	// Transaction scopes
	registrationScope := persistence.NewGormRegistrationTransactionScope(db.DB)
	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)
	confirmationScope := persistence.NewGormConfirmationTransactionScope(db.DB)
	checkoutScope := persistence.NewGormCheckoutTransactionScope(db.DB)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Object storage for expense receipts
	var objectStorage financeapp.ObjectStorageService
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
	} else {
		log.Warn("Object storage not configured, using stub presigner")
		objectStorage = storage.NewStubObjectStorage()
	}

	// PDF rendering for GRN documents and sale receipts
	var documentService *printing.DocumentService
	renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		Headless:   true,
		DisableGPU: true,
		NoSandbox:  true,
		Logger:     log,
	})
	if err != nil {
		log.Warn("PDF renderer unavailable, document endpoints disabled", zap.Error(err))
	} else {
		documentService = printing.NewDocumentService(renderer, log)
	}

	// Application services
	authService := identityapp.NewAuthService(tenantRepo, userRepo, jwtService, revocations)
	tenantService := identityapp.NewTenantService(tenantRepo, userRepo, branchRepo, productRepo, planFeatureRepo, registrationScope)
	userService := identityapp.NewUserService(userRepo, tenantRepo, branchRepo)
	branchService := partnerapp.NewBranchService(branchRepo, tenantRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	productService := catalogapp.NewProductService(productRepo, tenantRepo)
	exportService := catalogapp.NewExportService(productRepo, branchRepo, inventoryRepo, tenantRepo, tenantService)
	inventoryService := inventoryapp.NewInventoryService(inventoryRepo, auditRepo, inventoryScope)
	orderService := procurementapp.NewPurchaseOrderService(orderRepo, supplierRepo, branchRepo, productRepo)
	grnService := procurementapp.NewGRNService(grnRepo, orderRepo)
	confirmationService := procurementapp.NewGRNConfirmationService(grnRepo, branchRepo, inventoryService, confirmationScope, confirmationLocker)
	checkoutService := salesapp.NewCheckoutService(saleRepo, productRepo, checkoutScope)
	expenseService := financeapp.NewExpenseService(expenseRepo, objectStorage)

	// Event bus and subscribers
	eventBus := event.NewInMemoryEventBus(log)

	stockFeed := ws.NewHub(log)
	go stockFeed.Run()
	defer stockFeed.Stop()
	eventBus.Subscribe(stockFeed)

	if cfg.Event.KafkaEnabled {
		serializer := event.NewEventSerializer()
		event.RegisterAllEvents(serializer)
		kafkaSink := event.NewKafkaSink(event.KafkaSinkConfig{
			Brokers: cfg.Event.KafkaBrokers,
			Topic:   cfg.Event.KafkaTopic,
		}, serializer, log)
		defer func() {
			if err := kafkaSink.Close(); err != nil {
				log.Error("Failed to close Kafka sink", zap.Error(err))
			}
		}()

		var sinkHandler shared.EventHandler = kafkaSink
		if redisClient != nil {
			idempotencyStore := cache.NewRedisIdempotencyStoreWithClient(redisClient, "retailpos:events:")
			sinkHandler = event.NewIdempotentHandler(kafkaSink, idempotencyStore, log,
				event.WithIdempotencyMetrics(event.GlobalIdempotencyMetrics))
		}
		eventBus.Subscribe(sinkHandler)
		log.Info("Kafka event sink enabled",
			zap.Strings("brokers", cfg.Event.KafkaBrokers),
			zap.String("topic", cfg.Event.KafkaTopic),
		)
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Failed to stop event bus", zap.Error(err))
		}
	}()

	tenantService.SetEventPublisher(eventBus)
	userService.SetEventPublisher(eventBus)
	branchService.SetEventPublisher(eventBus)
	productService.SetEventPublisher(eventBus)
	inventoryService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	grnService.SetEventPublisher(eventBus)
	confirmationService.SetEventPublisher(eventBus)
	checkoutService.SetEventPublisher(eventBus)
	expenseService.SetEventPublisher(eventBus)

	// Handlers
	healthCheckers := []handler.HealthChecker{
		handler.HealthCheckFunc{CheckName: "postgres", Fn: func(ctx context.Context) error {
			return db.Ping()
		}},
	}
	if redisClient != nil {
		healthCheckers = append(healthCheckers, handler.HealthCheckFunc{CheckName: "redis", Fn: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	}

	authHandler := handler.NewAuthHandler(authService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	userHandler := handler.NewUserHandler(userService)
	branchHandler := handler.NewBranchHandler(branchService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	productHandler := handler.NewProductHandler(productService, exportService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	orderHandler := handler.NewPurchaseOrderHandler(orderService)
	grnHandler := handler.NewGRNHandler(grnService, confirmationService, documentService, grnRepo, tenantRepo, branchRepo)
	saleHandler := handler.NewSaleHandler(checkoutService, documentService, saleRepo, tenantRepo, branchRepo)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	systemHandler := handler.NewSystemHandler(serviceVersion, healthCheckers...)
	stockFeedHandler := ws.NewStockFeedHandler(stockFeed, cfg.HTTP.CORSAllowOrigins, log)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.TracingAttributeInjector())
	}

	metrics := middleware.NewHTTPMetricsCollector(middleware.DefaultHTTPMetricsConfig())
	engine.Use(metrics.Middleware())

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	// Unauthenticated surface: probes, metrics and docs
	engine.GET("/healthz", systemHandler.Liveness)
	engine.GET("/readyz", systemHandler.Readiness)
	engine.GET("/metrics", metrics.Handler())

	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		RevocationList: revocations,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/tenants/register",
		},
		Logger: log,
	})

	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(middleware.SwaggerConfig{
				Enabled:     cfg.Swagger.Enabled,
				RequireAuth: cfg.Swagger.RequireAuth,
				AllowedIPs:  cfg.Swagger.AllowedIPs,
			}, jwtAuth),
			ginSwagger.WrapHandler(swaggerFiles.Handler),
		)
	}

	engine.Use(jwtAuth)
	engine.Use(middleware.TenantMiddlewareWithConfig(middleware.TenantMiddlewareConfig{
		HeaderEnabled: cfg.App.Env != "production",
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/tenants/register",
		},
		Required: true,
		Gate:     &tenantStatusGate{tenants: tenantService},
		Logger:   log,
	}))

	// Route tables
	authGroup := router.NewDomainGroup("auth", "/auth").
		POST("/login", authHandler.Login).
		POST("/refresh", authHandler.RefreshToken).
		POST("/logout", authHandler.Logout).
		GET("/me", authHandler.GetCurrentUser).
		PUT("/password", authHandler.ChangePassword)
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authGroup.Use(middleware.RateLimit(authLimiter))
	}

	tenantsGroup := router.NewDomainGroup("tenants", "/tenants").
		POST("/register", tenantHandler.Register).
		GET("", middleware.RequirePermission(identityapp.PermTenantManage), tenantHandler.List).
		POST("/:id/suspend", middleware.RequirePermission(identityapp.PermTenantManage), tenantHandler.Suspend).
		POST("/:id/activate", middleware.RequirePermission(identityapp.PermTenantManage), tenantHandler.Activate)

	tenantGroup := router.NewDomainGroup("tenant", "/tenant").
		GET("", tenantHandler.Get).
		PUT("", middleware.RequirePermission(identityapp.PermTenantManage), tenantHandler.Update).
		PUT("/plan", middleware.RequirePermission(identityapp.PermTenantManage), tenantHandler.ChangePlan).
		GET("/usage", tenantHandler.GetUsage)

	staffGroup := router.NewDomainGroup("staff", "/staff").
		POST("", middleware.RequirePermission(identityapp.PermStaffManage), userHandler.Create).
		GET("", middleware.RequirePermission(identityapp.PermStaffRead), userHandler.List).
		GET("/:id", middleware.RequirePermission(identityapp.PermStaffRead), userHandler.Get).
		PUT("/:id", middleware.RequirePermission(identityapp.PermStaffManage), userHandler.Update).
		PUT("/:id/role", middleware.RequirePermission(identityapp.PermStaffManage), userHandler.ChangeRole).
		PUT("/:id/branch", middleware.RequirePermission(identityapp.PermStaffManage), userHandler.AssignBranch).
		PUT("/:id/password", middleware.RequirePermission(identityapp.PermStaffManage), userHandler.ResetPassword).
		POST("/:id/activate", middleware.RequirePermission(identityapp.PermStaffManage), userHandler.Activate).
		POST("/:id/deactivate", middleware.RequirePermission(identityapp.PermStaffManage), userHandler.Deactivate).
		DELETE("/:id", middleware.RequirePermission(identityapp.PermStaffManage), userHandler.Delete)

	branchesGroup := router.NewDomainGroup("branches", "/branches").
		POST("", middleware.RequirePermission(identityapp.PermPartnersWrite), branchHandler.Create).
		GET("", middleware.RequirePermission(identityapp.PermPartnersRead), branchHandler.List).
		GET("/:id", middleware.RequirePermission(identityapp.PermPartnersRead), branchHandler.Get).
		PUT("/:id", middleware.RequirePermission(identityapp.PermPartnersWrite), branchHandler.Update).
		POST("/:id/default", middleware.RequirePermission(identityapp.PermPartnersWrite), branchHandler.SetDefault).
		POST("/:id/activate", middleware.RequirePermission(identityapp.PermPartnersWrite), branchHandler.Activate).
		POST("/:id/deactivate", middleware.RequirePermission(identityapp.PermPartnersWrite), branchHandler.Deactivate).
		DELETE("/:id", middleware.RequirePermission(identityapp.PermPartnersWrite), branchHandler.Delete).
		GET("/:id/inventory", middleware.RequirePermission(identityapp.PermInventoryRead), inventoryHandler.ListForBranch).
		GET("/:id/inventory/:productId", middleware.RequirePermission(identityapp.PermInventoryRead), inventoryHandler.GetForBranchAndProduct)

	suppliersGroup := router.NewDomainGroup("suppliers", "/suppliers").
		POST("", middleware.RequirePermission(identityapp.PermPartnersWrite), supplierHandler.Create).
		GET("", middleware.RequirePermission(identityapp.PermPartnersRead), supplierHandler.List).
		GET("/:id", middleware.RequirePermission(identityapp.PermPartnersRead), supplierHandler.Get).
		PUT("/:id", middleware.RequirePermission(identityapp.PermPartnersWrite), supplierHandler.Update).
		POST("/:id/activate", middleware.RequirePermission(identityapp.PermPartnersWrite), supplierHandler.Activate).
		POST("/:id/deactivate", middleware.RequirePermission(identityapp.PermPartnersWrite), supplierHandler.Deactivate).
		DELETE("/:id", middleware.RequirePermission(identityapp.PermPartnersWrite), supplierHandler.Delete)

	productsGroup := router.NewDomainGroup("products", "/products").
		POST("", middleware.RequirePermission(identityapp.PermCatalogWrite), productHandler.Create).
		GET("", middleware.RequirePermission(identityapp.PermCatalogRead), productHandler.List).
		GET("/export", middleware.RequirePermission(identityapp.PermDataExport), productHandler.Export).
		GET("/sku/:sku", middleware.RequirePermission(identityapp.PermCatalogRead), productHandler.GetBySKU).
		GET("/:id", middleware.RequirePermission(identityapp.PermCatalogRead), productHandler.Get).
		PUT("/:id", middleware.RequirePermission(identityapp.PermCatalogWrite), productHandler.Update).
		PUT("/:id/prices", middleware.RequirePermission(identityapp.PermCatalogWrite), productHandler.SetPrices).
		POST("/:id/disable", middleware.RequirePermission(identityapp.PermCatalogWrite), productHandler.Disable).
		POST("/:id/enable", middleware.RequirePermission(identityapp.PermCatalogWrite), productHandler.Enable).
		DELETE("/:id", middleware.RequirePermission(identityapp.PermCatalogWrite), productHandler.Delete)

	inventoryGroup := router.NewDomainGroup("inventory", "/inventory").
		GET("", middleware.RequirePermission(identityapp.PermInventoryRead), inventoryHandler.List).
		POST("/adjustments", middleware.RequirePermission(identityapp.PermInventoryWrite), inventoryHandler.AdjustStock).
		GET("/audit", middleware.RequirePermission(identityapp.PermAuditRead), inventoryHandler.ListAuditRecords).
		GET("/audit/source/:referenceId", middleware.RequirePermission(identityapp.PermAuditRead), inventoryHandler.ListAuditRecordsForSource).
		GET("/audit/:id", middleware.RequirePermission(identityapp.PermAuditRead), inventoryHandler.GetAuditRecord).
		GET("/feed", middleware.RequirePermission(identityapp.PermInventoryRead), stockFeedHandler.Serve).
		GET("/:id", middleware.RequirePermission(identityapp.PermInventoryRead), inventoryHandler.Get)

	ordersGroup := router.NewDomainGroup("purchase-orders", "/purchase-orders").
		POST("", middleware.RequirePermission(identityapp.PermPurchasingEdit), orderHandler.Create).
		GET("", middleware.RequirePermission(identityapp.PermPurchasingRead), orderHandler.List).
		GET("/:id", middleware.RequirePermission(identityapp.PermPurchasingRead), orderHandler.Get).
		PUT("/:id", middleware.RequirePermission(identityapp.PermPurchasingEdit), orderHandler.Update).
		POST("/:id/items", middleware.RequirePermission(identityapp.PermPurchasingEdit), orderHandler.AddItem).
		PUT("/:id/items/:itemId", middleware.RequirePermission(identityapp.PermPurchasingEdit), orderHandler.UpdateItemQuantity).
		DELETE("/:id/items/:itemId", middleware.RequirePermission(identityapp.PermPurchasingEdit), orderHandler.RemoveItem).
		POST("/:id/issue", middleware.RequirePermission(identityapp.PermPurchasingEdit), orderHandler.Issue).
		POST("/:id/close", middleware.RequirePermission(identityapp.PermPurchasingEdit), orderHandler.Close).
		POST("/:id/cancel", middleware.RequirePermission(identityapp.PermPurchasingEdit), orderHandler.Cancel).
		DELETE("/:id", middleware.RequirePermission(identityapp.PermPurchasingEdit), orderHandler.Delete)

	grnsGroup := router.NewDomainGroup("grns", "/grns").
		POST("", middleware.RequirePermission(identityapp.PermPurchasingEdit), grnHandler.Create).
		GET("", middleware.RequirePermission(identityapp.PermPurchasingRead), grnHandler.List).
		GET("/:id", middleware.RequirePermission(identityapp.PermPurchasingRead), grnHandler.Get).
		PUT("/:id", middleware.RequirePermission(identityapp.PermPurchasingEdit), grnHandler.Update).
		POST("/:id/confirm", middleware.RequirePermission(identityapp.PermGRNConfirm), grnHandler.Confirm).
		GET("/:id/document", middleware.RequirePermission(identityapp.PermPurchasingRead), grnHandler.Document).
		DELETE("/:id", middleware.RequirePermission(identityapp.PermPurchasingEdit), grnHandler.Delete)

	salesGroup := router.NewDomainGroup("sales", "/sales").
		POST("/checkout", middleware.RequirePermission(identityapp.PermSalesCheckout), saleHandler.Checkout).
		GET("", middleware.RequirePermission(identityapp.PermSalesRead), saleHandler.List).
		GET("/receipt/:receiptNumber", middleware.RequirePermission(identityapp.PermSalesRead), saleHandler.GetByReceiptNumber).
		GET("/:id", middleware.RequirePermission(identityapp.PermSalesRead), saleHandler.Get).
		POST("/:id/void", middleware.RequirePermission(identityapp.PermSalesCheckout), saleHandler.Void).
		GET("/:id/receipt", middleware.RequirePermission(identityapp.PermSalesRead), saleHandler.Receipt)

	expensesGroup := router.NewDomainGroup("expenses", "/expenses").
		POST("", middleware.RequirePermission(identityapp.PermFinanceWrite), expenseHandler.Create).
		GET("", middleware.RequirePermission(identityapp.PermFinanceRead), expenseHandler.List).
		GET("/pending-approval", middleware.RequirePermission(identityapp.PermFinanceApprove), expenseHandler.ListPendingApproval).
		GET("/:id", middleware.RequirePermission(identityapp.PermFinanceRead), expenseHandler.Get).
		PUT("/:id", middleware.RequirePermission(identityapp.PermFinanceWrite), expenseHandler.Update).
		POST("/:id/submit", middleware.RequirePermission(identityapp.PermFinanceWrite), expenseHandler.Submit).
		POST("/:id/approve", middleware.RequirePermission(identityapp.PermFinanceApprove), expenseHandler.Approve).
		POST("/:id/reject", middleware.RequirePermission(identityapp.PermFinanceApprove), expenseHandler.Reject).
		POST("/:id/cancel", middleware.RequirePermission(identityapp.PermFinanceWrite), expenseHandler.Cancel).
		POST("/:id/pay", middleware.RequirePermission(identityapp.PermFinanceApprove), expenseHandler.Pay).
		POST("/:id/receipt/upload", middleware.RequirePermission(identityapp.PermFinanceWrite), expenseHandler.RequestReceiptUpload).
		GET("/:id/receipt", middleware.RequirePermission(identityapp.PermFinanceRead), expenseHandler.GetReceiptDownload).
		DELETE("/:id", middleware.RequirePermission(identityapp.PermFinanceWrite), expenseHandler.Delete)

	systemGroup := router.NewDomainGroup("system", "/system").
		GET("/info", systemHandler.GetSystemInfo)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(authGroup).
		Register(tenantsGroup).
		Register(tenantGroup).
		Register(staffGroup).
		Register(branchesGroup).
		Register(suppliersGroup).
		Register(productsGroup).
		Register(inventoryGroup).
		Register(ordersGroup).
		Register(grnsGroup).
		Register(salesGroup).
		Register(expensesGroup).
		Register(systemGroup).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
