package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/hbuk-xyz/hbuk-server/internal/cache"
	"github.com/hbuk-xyz/hbuk-server/internal/commitment"
	"github.com/hbuk-xyz/hbuk-server/internal/config"
	"github.com/hbuk-xyz/hbuk-server/internal/db"
	"github.com/hbuk-xyz/hbuk-server/internal/handlers"
	"github.com/hbuk-xyz/hbuk-server/internal/journal"
	"github.com/hbuk-xyz/hbuk-server/internal/ledger"
	"github.com/hbuk-xyz/hbuk-server/internal/metrics"
	"github.com/hbuk-xyz/hbuk-server/internal/middleware"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalw("Failed to load configuration", "error", err)
	}

	// Witness keyring: rotated-out secrets stay loaded so historical
	// signatures remain verifiable under their recorded kid.
	secrets, err := commitment.ParseSecrets(cfg.SigningSecrets)
	if err != nil {
		logger.Fatalw("Failed to parse signing secrets", "error", err)
	}
	keyring := commitment.NewKeyring(cfg.SigningKid, secrets)
	if len(secrets) == 0 {
		logger.Warnw("No witness signing secrets configured, commits will persist unsigned")
	}

	// Initialize PostgreSQL
	postgresDB, err := db.InitPostgres()
	if err != nil {
		logger.Fatalw("Failed to initialize PostgreSQL", "error", err)
	}
	defer postgresDB.Close()

	store := ledger.NewPostgresStore(postgresDB)

	// Initialize Redis; the anchor cache is optional, so run degraded
	// rather than failing startup.
	var anchorCache journal.AnchorCache
	redisClient, err := db.InitRedis()
	if err != nil {
		logger.Warnw("Redis unavailable, anchors will be recomputed per request", "error", err)
	} else {
		defer redisClient.Close()
		anchorCache = cache.NewRedisAnchorCache(redisClient, logger)
	}

	journalService := journal.NewService(store, keyring, anchorCache, logger)
	counters := metrics.New()

	// Initialize Gin router
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.MaintenanceMiddleware(cfg.Maintenance))

	// Add CORS headers for browser clients
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Metrics-Token")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Initialize handlers
	entryHandler := handlers.NewEntryHandler(journalService, counters, logger)
	anchorHandler := handlers.NewAnchorHandler(journalService, counters, logger)
	metricsHandler := handlers.NewMetricsHandler(counters, cfg.MetricsToken)

	authRequired := middleware.AuthMiddleware([]byte(cfg.JWTSecret))

	// Define routes
	api := router.Group("/api")
	{
		// Authenticated write/read routes
		api.POST("/commit", authRequired, entryHandler.CommitEntry)
		api.GET("/entries", authRequired, entryHandler.ListEntries)
		api.DELETE("/entries/:id", authRequired, entryHandler.TombstoneEntry)
		api.GET("/export", authRequired, entryHandler.ExportEntries)
		api.GET("/anchors/proof/:id", authRequired, anchorHandler.Proof)

		// Public verification surface
		api.GET("/verify/:id/:digest", entryHandler.VerifyEntry)
		api.GET("/anchors/today", anchorHandler.AnchorForToday)
		api.GET("/anchors/:date", anchorHandler.AnchorForDate)
	}

	// Health check endpoints
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "ts": time.Now().UTC()})
	})
	router.GET("/health/db", func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Version endpoint for debugging deployments
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":      true,
			"name":    "hbuk-backend",
			"version": cfg.CommitSHA,
			"ts":      time.Now().UTC(),
		})
	})

	router.GET("/metrics", metricsHandler.Metrics)

	// Seal the previous UTC day's anchor shortly after midnight; closed
	// days are immutable, so the cached root is final.
	scheduler := cron.New(cron.WithLocation(time.UTC))
	_, err = scheduler.AddFunc("5 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := journalService.SealPreviousDay(ctx); err != nil {
			logger.Errorw("Failed to seal previous day anchor", "error", err)
		}
	})
	if err != nil {
		logger.Fatalw("Failed to schedule anchor sealing", "error", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Infow("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infow("Shutting down server")

	// Give a 5 second timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalw("Server forced to shutdown", "error", err)
	}

	logger.Infow("Server exited")
}
