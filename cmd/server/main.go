package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	catalogapp "github.com/growops/backend/internal/application/catalog"
	cultivationapp "github.com/growops/backend/internal/application/cultivation"
	"github.com/growops/backend/internal/application/ledger"
	"github.com/growops/backend/internal/domain/catalog"
	"github.com/growops/backend/internal/domain/inventory"
	"github.com/growops/backend/internal/domain/shared"
	"github.com/growops/backend/internal/infrastructure/cache"
	"github.com/growops/backend/internal/infrastructure/config"
	"github.com/growops/backend/internal/infrastructure/event"
	"github.com/growops/backend/internal/infrastructure/logger"
	"github.com/growops/backend/internal/infrastructure/metrics"
	"github.com/growops/backend/internal/infrastructure/persistence"
	"github.com/growops/backend/internal/interfaces/http/handler"
	"github.com/growops/backend/internal/interfaces/http/middleware"
	"github.com/growops/backend/internal/interfaces/http/router"
)

//	@title			GrowOps Backend API
//	@version		1.0
//	@description	Inventory movement and cultivation ledger for horticultural production facilities

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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

	log.Info("Starting GrowOps backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	itemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)

	// Product cache in front of catalog reads. Movements resolve a product
	// on every request, so the cached reader also serves the transaction
	// scope used by the movement path.
	cacheConfig := catalog.CacheConfig{
		ProductTTL: cfg.Cache.ProductTTL,
		L1TTL:      cfg.Cache.L1TTL,
	}
	var scopeOpts []persistence.TransactionScopeOption
	var cachedReader *cache.CachedProductReader
	var productCache catalog.ProductCache
	if cfg.Cache.Enabled {
		productCache = cache.NewProductCache(cfg.Redis, cacheConfig, log)
		cachedReader = cache.NewCachedProductReader(productRepo, productCache, cacheConfig, log)
		scopeOpts = append(scopeOpts, persistence.WithProductReader(cachedReader))
	}

	scope := persistence.NewGormTransactionScope(db.DB, scopeOpts...)

	// Initialize application services
	movementService := ledger.NewMovementService(scope, inventory.NewLotNumberGenerator())
	itemService := ledger.NewItemService(itemRepo)
	activityService := ledger.NewActivityService(activityRepo, itemRepo)
	expirationService := ledger.NewLotExpirationService(itemRepo, log)
	stocktakeService := ledger.NewStocktakeService(scope)
	batchService := cultivationapp.NewBatchService(scope, movementService)
	productService := catalogapp.NewProductService(productRepo)
	if cachedReader != nil {
		productService.SetCacheInvalidator(cachedReader)
	}

	// Event bus with an idempotent stock depletion handler
	bus := event.NewInMemoryEventBus(log)
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	bus.Subscribe(event.NewIdempotentHandler(
		ledger.NewStockDepletedHandler(log),
		idempotencyStore,
		log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{
			Enabled: cfg.Idempotency.Enabled,
			TTL:     cfg.Idempotency.TTL,
		}),
	))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	movementService.SetEventPublisher(bus)
	stocktakeService.SetEventPublisher(bus)
	batchService.SetEventPublisher(bus)
	productService.SetEventPublisher(bus)

	// Prometheus metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	movementService.SetMetrics(metrics.NewMovementMetrics(registry))

	// Background sweep marking overdue lots as expired
	if cfg.Expiration.SweepEnabled {
		go runExpirationSweep(ctx, cfg.Expiration.SweepInterval, itemRepo, expirationService, log)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(httpMetrics.Middleware())

	// Health and metrics endpoints live outside API versioning
	engine.GET("/health", healthHandler(db))
	if cfg.Metrics.Enabled {
		engine.GET("/metrics", metrics.Handler(registry))
	}

	// Initialize handlers
	movementHandler := handler.NewMovementHandler(movementService)
	itemHandler := handler.NewItemHandler(itemService, expirationService)
	activityHandler := handler.NewActivityHandler(activityService)
	stocktakeHandler := handler.NewStocktakeHandler(stocktakeService)
	batchHandler := handler.NewBatchHandler(batchService)
	productHandler := handler.NewProductHandler(productService)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Inventory domain
	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.POST("/movements", movementHandler.Record)
	inventoryRoutes.GET("/items", itemHandler.List)
	inventoryRoutes.GET("/items/expiring", itemHandler.ListExpiring)
	inventoryRoutes.POST("/items/expire-overdue", itemHandler.ExpireOverdue)
	inventoryRoutes.GET("/items/:id", itemHandler.GetByID)
	inventoryRoutes.GET("/items/:id/movements", activityHandler.HistoryByItem)
	inventoryRoutes.GET("/activities", activityHandler.List)
	inventoryRoutes.GET("/activities/:id", activityHandler.GetByID)
	inventoryRoutes.GET("/products/:id/summary", itemHandler.StockSummary)
	inventoryRoutes.GET("/products/:id/movements", activityHandler.HistoryByProduct)
	inventoryRoutes.POST("/stocktakes", stocktakeHandler.Reconcile)

	// Cultivation domain
	cultivationRoutes := router.NewDomainGroup("cultivation", "/cultivation")
	cultivationRoutes.POST("/batches", batchHandler.Create)
	cultivationRoutes.GET("/batches", batchHandler.List)
	cultivationRoutes.GET("/batches/:id", batchHandler.GetByID)
	cultivationRoutes.POST("/batches/:id/phase-transitions", batchHandler.TransitionPhase)
	cultivationRoutes.POST("/batches/:id/harvest", batchHandler.Harvest)

	// Catalog domain
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/sku/:sku", productHandler.GetBySKU)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.POST("/products/:id/activate", productHandler.Activate)
	catalogRoutes.POST("/products/:id/deactivate", productHandler.Deactivate)
	catalogRoutes.POST("/products/:id/discontinue", productHandler.Discontinue)

	r.Register(inventoryRoutes).
		Register(cultivationRoutes).
		Register(catalogRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	stop()
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if productCache != nil {
		if err := productCache.Close(); err != nil {
			log.Error("Error closing product cache", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}

// runExpirationSweep periodically expires overdue lots for every tenant
func runExpirationSweep(
	ctx context.Context,
	interval time.Duration,
	itemRepo *persistence.GormInventoryItemRepository,
	svc *ledger.LotExpirationService,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tenants, err := itemRepo.DistinctTenantIDs(ctx)
			if err != nil {
				log.Error("Expiration sweep failed to list tenants", zap.Error(err))
				continue
			}
			for _, tenantID := range tenants {
				stats, err := svc.ExpireLots(ctx, tenantID)
				if err != nil {
					log.Error("Expiration sweep failed",
						zap.String("tenant_id", tenantID.String()),
						zap.Error(err),
					)
					continue
				}
				if stats.Expired > 0 {
					log.Info("Expired overdue lots",
						zap.String("tenant_id", tenantID.String()),
						zap.Int("expired", stats.Expired),
						zap.Int("failed", stats.Failed),
					)
				}
			}
		}
	}
}

// healthHandler reports process and database health
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
