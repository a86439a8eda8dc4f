package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/BINABASS091/fugajiSmart-back/internal/core/context"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/batchdir"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/consumption"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/item"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/ledger"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/policy"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/http/v1/handlers"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/http/v1/middleware"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/storage/memory"
)

// env wires the handlers against the in-memory stores, the same way the
// server wires them against Postgres.
type env struct {
	router *gin.Engine

	items    *memory.ItemRepository
	batches  *memory.BatchDirectory
	farmerID id.ID
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e := &env{
		items:    memory.NewItemRepository(),
		batches:  memory.NewBatchDirectory(),
		farmerID: id.New(),
	}

	txm := memory.NewTxManager()
	ledgerRepo := memory.NewLedgerRepository()
	ledgerSvc := ledger.NewService(ledgerRepo, e.items, txm, nil)
	consumptionSvc := consumption.NewService(memory.NewConsumptionRepository(), e.items, ledgerSvc, e.batches, txm)

	itemHandler := handlers.NewItemHandler(item.NewService(e.items))
	consumptionHandler := handlers.NewConsumptionHandler(consumptionSvc)
	policyHandler := handlers.NewPolicyHandler(policy.NewOptimizer(e.items))

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	farmer := e.farmerID.String()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Test-Anonymous") != "" {
			c.Next()
			return
		}
		ctx := appctx.WithFarmer(c.Request.Context(), &appctx.FarmerContext{
			FarmerID: farmer,
			UserID:   farmer,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	api := r.Group("/api/v1")
	api.POST("/inventory/items", itemHandler.Create)
	api.GET("/inventory/items/:id", itemHandler.Get)
	api.POST("/inventory/items/:id/policy/optimize", policyHandler.Optimize)
	api.GET("/inventory/batches/:batchId/summary", itemHandler.BatchSummary)
	api.POST("/inventory/batches/:batchId/consumption", consumptionHandler.Record)

	e.router = r
	return e
}

func (e *env) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func (e *env) seedItem(t *testing.T, mutate func(*item.StockItem)) *item.StockItem {
	t.Helper()
	it := item.New(e.farmerID, "Broiler Starter Feed", item.CategoryFeed, "kg")
	it.Quantity = types.MustDecimal("100")
	it.CostPerUnit = types.MustDecimal("2")
	if mutate != nil {
		mutate(it)
	}
	require.NoError(t, e.items.Create(context.Background(), it))
	return it
}

func TestItemEndpoints_CreateAndGet(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/v1/inventory/items", gin.H{
		"name":     "Layer Mash",
		"category": "FEED",
		"unit":     "kg",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created item.StockItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Layer Mash", created.Name)
	assert.Equal(t, e.farmerID, created.FarmerID)

	rec = e.do(t, http.MethodGet, "/api/v1/inventory/items/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestItemEndpoints_ErrorCodes(t *testing.T) {
	e := newEnv(t)
	foreign := item.New(id.New(), "Grower Mash", item.CategoryFeed, "kg")
	require.NoError(t, e.items.Create(context.Background(), foreign))

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{
			"create without name",
			http.MethodPost, "/api/v1/inventory/items",
			gin.H{"category": "FEED", "unit": "kg"},
			http.StatusBadRequest, "VALIDATION_ERROR",
		},
		{
			"create with invalid category",
			http.MethodPost, "/api/v1/inventory/items",
			gin.H{"name": "Mystery", "category": "NOT_A_CATEGORY", "unit": "kg"},
			http.StatusBadRequest, "VALIDATION_ERROR",
		},
		{
			"malformed item id",
			http.MethodGet, "/api/v1/inventory/items/not-a-uuid", nil,
			http.StatusBadRequest, "VALIDATION_ERROR",
		},
		{
			"unknown item",
			http.MethodGet, "/api/v1/inventory/items/" + id.New().String(), nil,
			http.StatusNotFound, "NOT_FOUND",
		},
		{
			"foreign item reads as missing",
			http.MethodGet, "/api/v1/inventory/items/" + foreign.ID.String(), nil,
			http.StatusNotFound, "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCode, decodeError(t, rec))
		})
	}
}

func TestItemEndpoints_MissingFarmerContext(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/api/v1/inventory/items/"+id.New().String(), nil,
		"X-Test-Anonymous", "1")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec))
}

func TestBatchSummaryEndpoint(t *testing.T) {
	e := newEnv(t)
	batchID := id.New()
	yesterday := time.Now().UTC().AddDate(0, 0, -1)

	e.seedItem(t, func(it *item.StockItem) {
		it.BatchID = &batchID
		market := types.MustDecimal("3")
		it.MarketPricePerUnit = &market
	})
	e.seedItem(t, func(it *item.StockItem) {
		it.Name = "Antibiotic"
		it.Category = item.CategoryMedicine
		it.BatchID = &batchID
		it.Quantity = types.MustDecimal("5")
		it.CostPerUnit = types.MustDecimal("10")
	})
	e.seedItem(t, func(it *item.StockItem) {
		it.Name = "Disinfectant"
		it.Category = item.CategorySanitation
		it.BatchID = &batchID
		it.Quantity = types.MustDecimal("20")
		it.CostPerUnit = types.MustDecimal("1")
		it.ExpiryDate = &yesterday
	})
	// A different batch stays out of the summary.
	e.seedItem(t, func(it *item.StockItem) {
		other := id.New()
		it.BatchID = &other
	})

	rec := e.do(t, http.MethodGet, "/api/v1/inventory/batches/"+batchID.String()+"/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var summary struct {
		TotalItems       int            `json:"totalItems"`
		TotalCost        string         `json:"totalCost"`
		TotalMarketValue string         `json:"totalMarketValue"`
		StatusCounts     map[string]int `json:"statusCounts"`
		CategoryCounts   map[string]int `json:"categoryCounts"`
		NeedsReorder     int            `json:"needsReorder"`
		Expired          int            `json:"expired"`
		NearExpiry       int            `json:"nearExpiry"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))

	assert.Equal(t, 3, summary.TotalItems)
	// 100×2 + 5×10 + 20×1.
	assert.True(t, types.MustDecimal(summary.TotalCost).Equal(types.MustDecimal("270")))
	// Market price only on the feed: 100×3 + 50 + 20 fallback to cost.
	assert.True(t, types.MustDecimal(summary.TotalMarketValue).Equal(types.MustDecimal("370")))

	assert.Equal(t, 1, summary.StatusCounts[string(item.StatusAdequate)])
	assert.Equal(t, 1, summary.StatusCounts[string(item.StatusReorderRequired)])
	assert.Equal(t, 1, summary.StatusCounts[string(item.StatusExpired)])
	assert.Equal(t, 1, summary.CategoryCounts[string(item.CategoryFeed)])
	assert.Equal(t, 1, summary.CategoryCounts[string(item.CategoryMedicine)])
	assert.Equal(t, 1, summary.NeedsReorder, "the 5 kg of antibiotic sits below its reorder level")
	assert.Equal(t, 1, summary.Expired)
	assert.Equal(t, 0, summary.NearExpiry)
}

func TestRecordConsumptionEndpoint(t *testing.T) {
	e := newEnv(t)
	it := e.seedItem(t, nil)

	batch := &batchdir.BatchInfo{
		ID:       id.New(),
		FarmID:   id.New(),
		FarmerID: e.farmerID,
		Breed:    "Ross 308",
		Quantity: 500,
	}
	e.batches.Put(batch)

	path := "/api/v1/inventory/batches/" + batch.ID.String() + "/consumption"

	rec := e.do(t, http.MethodPost, path, gin.H{
		"itemId":        it.ID.String(),
		"quantityUsed":  "30",
		"depleteLedger": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var record consumption.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	require.NotNil(t, record.UnitCost)
	assert.True(t, record.UnitCost.Equal(types.MustDecimal("2")))
	require.NotNil(t, record.TotalCost)
	assert.True(t, record.TotalCost.Equal(types.MustDecimal("60")))

	// Over-consumption maps to the stock shortage code.
	rec = e.do(t, http.MethodPost, path, gin.H{
		"itemId":        it.ID.String(),
		"quantityUsed":  "500",
		"depleteLedger": true,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeError(t, rec))

	// Unknown batch maps to not found.
	rec = e.do(t, http.MethodPost, "/api/v1/inventory/batches/"+id.New().String()+"/consumption", gin.H{
		"itemId":       it.ID.String(),
		"quantityUsed": "1",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec))
}

func TestOptimizePolicyEndpoint(t *testing.T) {
	e := newEnv(t)
	it := e.seedItem(t, nil)
	path := "/api/v1/inventory/items/" + it.ID.String() + "/policy/optimize"

	rec := e.do(t, http.MethodPost, path, gin.H{
		"demandMean":      50,
		"demandStdDev":    10,
		"leadTimeDays":    3,
		"orderingCost":    50,
		"holdingCostRate": 0.25,
		"serviceLevelPct": 95,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result policy.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.InDelta(t, 178.5, result.ReorderPoint, 0.1)
	assert.Greater(t, result.OrderQuantity, 0.0, "EOQ uses the item's own unit cost")

	// A target of 100% is rejected as invalid parameters.
	rec = e.do(t, http.MethodPost, path, gin.H{
		"demandMean":      50,
		"leadTimeDays":    3,
		"orderingCost":    50,
		"holdingCostRate": 0.25,
		"serviceLevelPct": 100,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INVALID_PARAMETERS", decodeError(t, rec))
}
