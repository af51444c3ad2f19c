package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paylater/internal/afterpay"
	"paylater/internal/bootstrap"
	"paylater/internal/cache"
	"paylater/internal/config"
	cronpkg "paylater/internal/cron"
	"paylater/internal/gateway"
	"paylater/internal/models"
	"paylater/internal/repository"
	"paylater/internal/router"
)

func main() {
	// --- Logger ---
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// --- Database ---
	db, err := config.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := bootstrap.MigrateAndSeed(db, cfg); err != nil {
		logger.Fatal("Failed to bootstrap database schema", zap.Error(err))
	}

	// --- Provider configuration cache (Redis with in-memory fallback) ---
	redisClient := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Pass, cfg.Redis.DB)
	if redisClient == nil {
		logger.Warn("Redis unavailable, provider configuration cache runs in-process only")
	}
	configCache := cache.New(redisClient, cfg.Afterpay.CacheTTL, logger)

	// --- Echo ---
	e := echo.New()
	e.HideBanner = true

	// --- Routes ---
	router.Setup(e, db, cfg, configCache, logger)

	// --- Cron scheduler: keep the configuration cache warm ---
	methodRepo := repository.NewPaymentMethodRepository(db)
	scheduler := cronpkg.New(methodRepo, configCache, func(pm *models.PaymentMethod) cache.FetchFunc {
		gw := gateway.New(afterpay.Config{
			MerchantID: pm.MerchantID,
			SecretKey:  pm.SecretKey,
			TestMode:   pm.TestMode,
			UserAgent:  afterpay.NewUserAgentGenerator(pm.MerchantID, cfg.Store.URL).Generate(),
		}, logger)
		return func(ctx context.Context) *afterpay.Configuration {
			return gw.RetrieveConfiguration(ctx)
		}
	}, logger)
	scheduler.Start()

	// --- Start Server ---
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info("Starting paylater server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	// Stop cron
	ctx := scheduler.Stop()
	<-ctx.Done()

	// Stop HTTP server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
