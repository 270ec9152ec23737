package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	royaltyapp "github.com/inkhouse/backend/internal/application/royalty"
	"github.com/inkhouse/backend/internal/domain/shared/valueobject"
	"github.com/inkhouse/backend/internal/infrastructure/auth"
	"github.com/inkhouse/backend/internal/infrastructure/config"
	"github.com/inkhouse/backend/internal/infrastructure/email"
	"github.com/inkhouse/backend/internal/infrastructure/logger"
	"github.com/inkhouse/backend/internal/infrastructure/persistence"
	"github.com/inkhouse/backend/internal/infrastructure/rendering"
	"github.com/inkhouse/backend/internal/infrastructure/storage"
	"github.com/inkhouse/backend/internal/interfaces/http/handler"
	"github.com/inkhouse/backend/internal/interfaces/http/middleware"
	"github.com/inkhouse/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Inkhouse royalty service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Database
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	// Repositories
	contracts := persistence.NewGormContractRepository(db.DB)
	rateTiers := persistence.NewGormRateTierRepository(db.DB)
	sales := persistence.NewGormSalesRepository(db.DB)
	authors := persistence.NewGormAuthorRepository(db.DB)
	statements := persistence.NewGormStatementRepository(db.DB)

	// Object storage for statement artifacts
	var artifactStore royaltyapp.ObjectStorage
	if cfg.Storage.AccessKey != "" {
		s3Store, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Store.EnsureBucket(ctx); err != nil {
			cancel()
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		cancel()
		artifactStore = s3Store
	} else {
		log.Warn("Object storage credentials missing, using in-memory stub")
		artifactStore = storage.NewStubObjectStorage()
	}

	// Email transport for statement delivery
	var transport royaltyapp.EmailTransport
	if cfg.Email.Enabled {
		smtp, err := email.NewSMTPTransport(&cfg.Email, email.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize email transport", zap.Error(err))
		}
		transport = smtp
	} else {
		log.Warn("Email transport disabled, outbound mail is recorded only")
		transport = email.NewStubTransport()
	}

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)
	gate := auth.NewContextPermissionGate()

	// Application services
	renderer := rendering.NewPDFStatementRenderer()

	deliveryService := royaltyapp.NewDeliveryService(
		statements,
		authors,
		artifactStore,
		transport,
		gate,
		royaltyapp.DeliveryConfig{
			From:        cfg.Email.From,
			MaxAttempts: cfg.Royalty.DeliveryMaxAttempts,
			BaseDelay:   cfg.Royalty.DeliveryBaseDelay,
		},
		royaltyapp.WithDeliveryLogger(log),
	)

	batchService, err := royaltyapp.NewBatchRunService(
		contracts,
		rateTiers,
		sales,
		authors,
		statements,
		artifactStore,
		renderer,
		deliveryService,
		gate,
		royaltyapp.BatchConfig{
			MaxConcurrentWorkers: cfg.Royalty.BatchWorkers,
			StageTimeout:         cfg.Royalty.StageTimeout,
		},
		royaltyapp.WithBatchLogger(log),
		royaltyapp.WithCurrency(valueobject.Currency(cfg.Royalty.Currency)),
	)
	if err != nil {
		log.Fatal("Failed to initialize batch service", zap.Error(err))
	}

	queryService := royaltyapp.NewStatementQueryService(statements, artifactStore, gate, log)

	// HTTP server
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.JWTAuthMiddleware(jwtService))

	engine.GET("/health", healthHandler(db))

	royaltyHandler := handler.NewRoyaltyHandler(
		batchService,
		deliveryService,
		queryService,
		cfg.Storage.PresignExpiration,
		log,
	)
	router.NewRouter(engine).
		Register(royaltyHandler).
		Setup()

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "up"})
	}
}
