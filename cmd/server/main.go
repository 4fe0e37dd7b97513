package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbilling "github.com/garagehq/gms-backend/internal/application/billing"
	appbooking "github.com/garagehq/gms-backend/internal/application/booking"
	appcatalog "github.com/garagehq/gms-backend/internal/application/catalog"
	appidentity "github.com/garagehq/gms-backend/internal/application/identity"
	appinventory "github.com/garagehq/gms-backend/internal/application/inventory"
	appjobcard "github.com/garagehq/gms-backend/internal/application/jobcard"
	appregistry "github.com/garagehq/gms-backend/internal/application/registry"
	"github.com/garagehq/gms-backend/internal/infrastructure/auth"
	"github.com/garagehq/gms-backend/internal/infrastructure/cache"
	"github.com/garagehq/gms-backend/internal/infrastructure/config"
	"github.com/garagehq/gms-backend/internal/infrastructure/directory"
	"github.com/garagehq/gms-backend/internal/infrastructure/event"
	"github.com/garagehq/gms-backend/internal/infrastructure/logger"
	"github.com/garagehq/gms-backend/internal/infrastructure/notify"
	"github.com/garagehq/gms-backend/internal/infrastructure/persistence"
	"github.com/garagehq/gms-backend/internal/infrastructure/storage"
	"github.com/garagehq/gms-backend/internal/interfaces/http/handler"
	"github.com/garagehq/gms-backend/internal/interfaces/http/middleware"
	"github.com/garagehq/gms-backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting garage management service",
		zap.String("name", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log, gormLogLevel))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	// Repositories
	garageRepo := persistence.NewGormGarageRepository(db.DB)
	staffRepo := persistence.NewGormStaffRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	vehicleRepo := persistence.NewGormVehicleRepository(db.DB)
	vehicleBrandRepo := persistence.NewGormVehicleBrandRepository(db.DB)
	vehicleModelRepo := persistence.NewGormVehicleModelRepository(db.DB)
	partRepo := persistence.NewGormPartRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	serviceItemRepo := persistence.NewGormServiceItemRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	stockInwardRepo := persistence.NewGormStockInwardRepository(db.DB)
	stockOutwardRepo := persistence.NewGormStockOutwardRepository(db.DB)
	jobcardRepo := persistence.NewGormJobcardRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	bookingRepo := persistence.NewGormBookingRepository(db.DB)

	// Transaction scopes
	jobcardTxScope := persistence.NewGormJobcardTransactionScope(db.DB)
	billingTxScope := persistence.NewGormBillingTransactionScope(db.DB)
	inventoryTxScope := persistence.NewGormInventoryTransactionScope(db.DB)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Blob store: S3 when a bucket is configured, in-memory otherwise
	var blobs appregistry.BlobStore
	if cfg.Storage.Bucket != "" {
		s3Store, err := storage.NewS3BlobStore(&cfg.Storage)
		if err != nil {
			log.Fatal("failed to create S3 blob store", zap.Error(err))
		}
		blobs = s3Store
		log.Info("using S3 blob store", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		blobs = storage.NewMemoryBlobStore()
		log.Warn("no storage bucket configured, using in-memory blob store")
	}

	// Subscriber notification gateway
	var notifier appbooking.Notifier
	if cfg.Notify.Enabled {
		gateway, err := notify.NewGatewayNotifier(&cfg.Notify, log)
		if err != nil {
			log.Fatal("failed to create notification gateway", zap.Error(err))
		}
		notifier = gateway
	} else {
		notifier = notify.NewNoopNotifier()
		log.Info("subscriber notifications disabled")
	}

	// Subscriber directory for booking promotion
	var subscriberDir appjobcard.SubscriberDirectory
	if cfg.Directory.BaseURL != "" {
		dirClient, err := directory.NewClient(&cfg.Directory, log)
		if err != nil {
			log.Fatal("failed to create directory client", zap.Error(err))
		}
		subscriberDir = dirClient
	} else {
		subscriberDir = directory.NewStubDirectory()
		log.Warn("no subscriber directory configured, using stub")
	}

	// Idempotency store: Redis with in-memory fallback
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("failed to close idempotency store", zap.Error(err))
		}
	}()

	// Application services
	garageService := appidentity.NewGarageService(garageRepo, log)
	staffService := appidentity.NewStaffService(staffRepo, jwtService, log)
	customerService := appregistry.NewCustomerService(customerRepo, vehicleRepo, log)
	vehicleService := appregistry.NewVehicleService(vehicleRepo, customerRepo, blobs, log)
	vehicleCatalogService := appregistry.NewVehicleCatalogService(vehicleBrandRepo, vehicleModelRepo, log)
	masterService := appcatalog.NewMasterService(serviceItemRepo, categoryRepo, brandRepo, supplierRepo, log)
	partService := appcatalog.NewPartService(partRepo, categoryRepo, brandRepo, log)
	stockService := appinventory.NewStockService(inventoryTxScope, partRepo, stockInwardRepo, stockOutwardRepo, log)
	importService := appinventory.NewImportService(inventoryTxScope, log)
	jobcardService := appjobcard.NewJobcardService(jobcardTxScope, jobcardRepo, blobs, log)
	paymentService := appjobcard.NewPaymentService(jobcardTxScope, paymentRepo, jobcardRepo, log)
	promotionService := appjobcard.NewPromotionService(jobcardTxScope, subscriberDir, log)
	documentService := appbilling.NewDocumentService(billingTxScope, documentRepo, log)
	bookingService := appbooking.NewBookingService(bookingRepo, notifier, log)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(appcatalog.NewLowStockAlertHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("failed to stop event bus", zap.Error(err))
		}
	}()

	partService.SetEventPublisher(eventBus)
	stockService.SetEventPublisher(eventBus)
	jobcardService.SetEventPublisher(eventBus)
	promotionService.SetEventPublisher(eventBus)
	bookingService.SetEventPublisher(eventBus)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(staffService, jwtService)
	garageHandler := handler.NewGarageHandler(garageService)
	staffHandler := handler.NewStaffHandler(staffService)
	customerHandler := handler.NewCustomerHandler(customerService)
	vehicleHandler := handler.NewVehicleHandler(vehicleService)
	vehicleCatalogHandler := handler.NewVehicleCatalogHandler(vehicleCatalogService)
	masterHandler := handler.NewMasterHandler(masterService)
	partHandler := handler.NewPartHandler(partService)
	stockHandler := handler.NewStockHandler(stockService, importService)
	jobcardHandler := handler.NewJobcardHandler(jobcardService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	documentHandler := handler.NewDocumentHandler(documentService)
	bookingHandler := handler.NewBookingHandler(bookingService, promotionService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", healthHandler(db, log))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuth(middleware.JWTConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/garages",
		},
		SkipPathPrefixes: []string{"/api/v1/public"},
		Logger:           log,
	}))
	r.Use(middleware.Idempotency(idempotencyStore, log))
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(60, time.Minute), "/api/v1/public"))
	r.Register(
		authHandler,
		garageHandler,
		staffHandler,
		customerHandler,
		vehicleHandler,
		vehicleCatalogHandler,
		masterHandler,
		partHandler,
		stockHandler,
		jobcardHandler,
		paymentHandler,
		documentHandler,
		bookingHandler,
	)
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
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

func healthHandler(db *persistence.Database, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			log.Error("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
