package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/templegit9/contracker-single/internal/config"
	"github.com/templegit9/contracker-single/internal/handlers"
	"github.com/templegit9/contracker-single/internal/platforms"
	"github.com/templegit9/contracker-single/internal/repository"
	"github.com/templegit9/contracker-single/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func Run(ctx context.Context) error {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Setup Logger
	var handler slog.Handler
	if cfg.AppEnv == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 3. Initialize Database
	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// 4. Run Migrations
	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		logger.Info("Running database migrations...")
		if err := repository.RunMigrations(cfg.DatabaseURL, ""); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	} else {
		if err := db.AutoMigrate(&repository.KVRecord{}); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	// 5. Build the KV store, with Redis caching when configured
	var store repository.Store = repository.NewGormStore(db)
	if cfg.RedisURL != "" {
		rdb, err := repository.InitRedis(cfg.RedisURL, cfg.RedisPassword, 0)
		if err != nil {
			logger.Warn("Failed to connect to Redis, running without cache", "error", err)
		} else {
			store = repository.NewCachedStore(store, rdb, 5*time.Minute, logger)
		}
	}

	// 6. Initialize Services
	geoIPService := services.NewGeoIPService(cfg.GeoIPDBPath, logger)
	defer geoIPService.Close()
	auditService := services.NewAuditService(store, logger, geoIPService)
	identityService := services.NewIdentityService(store, logger)
	fetcher := platforms.NewFetcher(logger)
	contentService := services.NewContentService(store, fetcher, logger)
	rateLimiter := services.NewIPRateLimiter(5, 10, logger)

	// 7. Initialize Handler
	h := handlers.NewHandler(cfg, logger, identityService, contentService, auditService)

	// 8. Setup Router
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := h.SetupRouter(rateLimiter)

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Background Context for workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	go auditService.Start(workerCtx)
	rateLimiter.StartCleanup(10 * time.Minute)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	workerCancel()
	// Wait a tiny bit for workers
	time.Sleep(100 * time.Millisecond)

	logger.Info("Server exiting")
	return nil
}
