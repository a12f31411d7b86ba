package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"equipment-inventory/config"
	"equipment-inventory/internal/api"
	"equipment-inventory/internal/db"
	"equipment-inventory/internal/logger"
	"equipment-inventory/internal/metrics"
	"equipment-inventory/internal/notification"
	"equipment-inventory/internal/store"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()
	zl.Info("configuration loaded", zap.String("path", configPath))

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database, zl)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}
	appStore := store.NewGormStore(gormDB)

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	deps := api.Deps{
		Store:    appStore,
		Metrics:  appMetrics,
		Gatherer: registry,
		Logger:   zl,
	}

	if cfg.Push.Enabled() {
		webpushOptions := &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize, appStore, webpushOptions, zl.Named("notification"))
		pool.Start(ctx)

		deps.WebPush = webpushOptions
		deps.Notifier = pool
		zl.Info("breakage notifications enabled", zap.Int("workers", cfg.WorkerPool.Size))
	} else {
		zl.Info("VAPID keys not configured, breakage notifications disabled")
	}

	// Initialize router
	router, err := api.NewRouter(cfg.Server, deps)
	if err != nil {
		zl.Fatal("failed to build router", zap.Error(err))
	}
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		zl.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	zl.Info("shutdown signal received, stopping services")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("HTTP server Shutdown", zap.Error(err))
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}

	zl.Info("server gracefully stopped")
}
