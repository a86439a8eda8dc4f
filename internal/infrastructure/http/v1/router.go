// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/consumption"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/item"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/ledger"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/policy"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/reconcile"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/http/v1/handlers"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/http/v1/middleware"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/storage/postgres"
	"github.com/BINABASS091/fugajiSmart-back/pkg/logger"
)

// RouterConfig holds everything the router needs.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	JWTValidator middleware.JWTValidator

	ItemService        *item.Service
	LedgerService      *ledger.Service
	ConsumptionService *consumption.Service
	PolicyOptimizer    *policy.Optimizer
	ReconcileService   *reconcile.Service

	// IdempotencyStore enables replay protection for mutating requests
	// when non-nil.
	IdempotencyStore *postgres.IdempotencyStore
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters).
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.Auth(cfg.JWTValidator))
	if cfg.IdempotencyStore != nil {
		apiV1.Use(middleware.Idempotency(cfg.IdempotencyStore))
	}

	itemHandler := handlers.NewItemHandler(cfg.ItemService)
	ledgerHandler := handlers.NewLedgerHandler(cfg.LedgerService)
	consumptionHandler := handlers.NewConsumptionHandler(cfg.ConsumptionService)
	policyHandler := handlers.NewPolicyHandler(cfg.PolicyOptimizer)
	reconcileHandler := handlers.NewReconcileHandler(cfg.ReconcileService)

	inventory := apiV1.Group("/inventory")
	{
		items := inventory.Group("/items")
		{
			items.POST("", itemHandler.Create)
			items.GET("", itemHandler.List)
			items.GET("/:id", itemHandler.Get)

			items.POST("/:id/transactions", ledgerHandler.Append)
			items.GET("/:id/transactions", ledgerHandler.List)

			items.POST("/:id/policy/optimize", policyHandler.Optimize)
			items.POST("/:id/alerts/evaluate", reconcileHandler.EvaluateItem)
		}

		batches := inventory.Group("/batches")
		{
			batches.POST("/:batchId/consumption", consumptionHandler.Record)
			batches.GET("/:batchId/consumption", consumptionHandler.List)
			batches.GET("/:batchId/summary", itemHandler.BatchSummary)
		}

		inventory.POST("/reconcile", reconcileHandler.Run)

		alerts := inventory.Group("/alerts")
		{
			alerts.GET("", reconcileHandler.ListAlerts)
			alerts.POST("/evaluate", reconcileHandler.EvaluateFarm)
			alerts.POST("/:id/resolve", reconcileHandler.ResolveAlert)
		}
	}

	return router
}

// DefaultIdempotencyTTL is how long completed idempotency keys replay.
const DefaultIdempotencyTTL = 10 * time.Minute
