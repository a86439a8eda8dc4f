// Package main is the entry point for the inventory API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BINABASS091/fugajiSmart-back/internal/domain/auth"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/consumption"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/item"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/ledger"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/policy"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/reconcile"
	v1 "github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/http/v1"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/storage/postgres"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/storage/postgres/inventory_repo"
	"github.com/BINABASS091/fugajiSmart-back/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting inventory server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	itemRepo := inventory_repo.NewItemRepo(txManager)
	ledgerRepo := inventory_repo.NewLedgerRepo(txManager)
	consumptionRepo := inventory_repo.NewConsumptionRepo(txManager)
	alertRepo := inventory_repo.NewAlertRepo(txManager)
	batchDir := inventory_repo.NewBatchDirectory(txManager)

	// --- Audit ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Domain services ---
	itemService := item.NewService(itemRepo)
	ledgerService := ledger.NewService(ledgerRepo, itemRepo, txManager, auditService)
	consumptionService := consumption.NewService(consumptionRepo, itemRepo, ledgerService, batchDir, txManager)
	policyOptimizer := policy.NewOptimizer(itemRepo)
	reconcileService := reconcile.NewService(alertRepo, itemRepo, consumptionRepo, ledgerRepo, auditService)

	// --- JWT ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	// --- Idempotency ---
	var idempotencyStore *postgres.IdempotencyStore
	if getEnv("IDEMPOTENCY_ENABLED", "true") == "true" {
		ttl := getEnvDuration("IDEMPOTENCY_TTL", v1.DefaultIdempotencyTTL)
		idempotencyStore = postgres.NewIdempotencyStore(txManager, ttl)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:               pool,
		Logger:             log,
		JWTValidator:       jwtService,
		ItemService:        itemService,
		LedgerService:      ledgerService,
		ConsumptionService: consumptionService,
		PolicyOptimizer:    policyOptimizer,
		ReconcileService:   reconcileService,
		IdempotencyStore:   idempotencyStore,
	})

	// --- HTTP server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
