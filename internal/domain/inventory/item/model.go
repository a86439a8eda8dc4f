// Package item provides the stock item registry: the catalog of tracked
// inventory units (feed, medicine, equipment, eggs) and their derived
// stock-health metrics. Quantity is owned by the transaction ledger and is
// never mutated through this package's public surface.
package item

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
)

// Category classifies a stock item. Closed enumeration.
type Category string

const (
	CategoryLiveBirds   Category = "LIVE_BIRDS"
	CategoryFeed        Category = "FEED"
	CategoryMedicine    Category = "MEDICINE"
	CategorySupplements Category = "SUPPLEMENTS"
	CategoryEggs        Category = "EGGS"
	CategoryEquipment   Category = "EQUIPMENT"
	CategorySanitation  Category = "SANITATION"
	CategoryUtilities   Category = "UTILITIES"
	CategoryStorage     Category = "STORAGE"
	CategoryTransport   Category = "TRANSPORT"
	CategoryLabor       Category = "LABOR"
	CategorySales       Category = "SALES"
	CategoryEmergency   Category = "EMERGENCY"
	CategoryWater       Category = "WATER"
	CategoryHatchery    Category = "HATCHERY"
	CategoryWaste       Category = "WASTE"
	CategoryMachinery   Category = "MACHINERY"
	CategoryOffice      Category = "OFFICE"
	CategoryFinancial   Category = "FINANCIAL"
)

// Subcategory refines a category. Closed enumeration (representative set).
type Subcategory string

const (
	SubcategoryDayOldChicks     Subcategory = "DAY_OLD_CHICKS"
	SubcategoryBroilers         Subcategory = "BROILERS"
	SubcategoryLayers           Subcategory = "LAYERS"
	SubcategoryCompleteFeeds    Subcategory = "COMPLETE_FEEDS"
	SubcategoryChickStarterMash Subcategory = "CHICK_STARTER_MASH"
	SubcategoryGrowerMash       Subcategory = "GROWER_MASH"
	SubcategoryLayerMash        Subcategory = "LAYER_MASH"
	SubcategoryFinisherFeed     Subcategory = "FINISHER_FEED"
	SubcategoryPremix           Subcategory = "PREMIX"
	SubcategoryVaccines         Subcategory = "VACCINES"
	SubcategoryDrugsTreatments  Subcategory = "DRUGS_TREATMENTS"
	SubcategoryDisinfectants    Subcategory = "DISINFECTANTS"
	SubcategoryEggTypes         Subcategory = "EGG_TYPES"
	SubcategoryEggPackaging     Subcategory = "EGG_PACKAGING"
	SubcategoryHouseEquipment   Subcategory = "POULTRY_HOUSE_EQUIPMENT"
	SubcategoryIoTDevices       Subcategory = "IOT_DEVICES"
	SubcategoryBiosecurity      Subcategory = "BIOSECURITY"
	SubcategoryBedding          Subcategory = "BEDDING"
	SubcategoryFuel             Subcategory = "FUEL"
	SubcategoryPackaging        Subcategory = "PACKAGING"
)

// QualityGrade of an item, used as a valuation multiplier.
type QualityGrade string

const (
	QualityPremium  QualityGrade = "PREMIUM"
	QualityStandard QualityGrade = "STANDARD"
	QualityEconomy  QualityGrade = "ECONOMY"
)

// Status is the derived stock-health state, evaluated in priority order:
// Expired > NearExpiry > ReorderRequired > LowStock > Adequate.
type Status string

const (
	StatusExpired         Status = "EXPIRED"
	StatusNearExpiry      Status = "NEAR_EXPIRY"
	StatusReorderRequired Status = "REORDER_REQUIRED"
	StatusLowStock        Status = "LOW_STOCK"
	StatusAdequate        Status = "ADEQUATE"
)

// DefaultNearExpiryThresholdDays is the warning window before expiry.
const DefaultNearExpiryThresholdDays = 30

// StockItem is a tracked inventory unit (SKU-equivalent).
//
// Quantity is system-mutated only: the ledger applies transactions under
// optimistic versioning (Version column), business code never sets it.
type StockItem struct {
	ID       id.ID  `db:"id" json:"id"`
	FarmerID id.ID  `db:"farmer_id" json:"farmerId"`
	FarmID   *id.ID `db:"farm_id" json:"farmId,omitempty"`
	BatchID  *id.ID `db:"batch_id" json:"batchId,omitempty"`

	Name        string       `db:"name" json:"name"`
	Category    Category     `db:"category" json:"category"`
	Subcategory *Subcategory `db:"subcategory" json:"subcategory,omitempty"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`
	Unit     string         `db:"unit" json:"unit"`

	CostPerUnit        types.Money  `db:"cost_per_unit" json:"costPerUnit"`
	MarketPricePerUnit *types.Money `db:"market_price_per_unit" json:"marketPricePerUnit,omitempty"`
	QualityGrade       QualityGrade `db:"quality_grade" json:"qualityGrade"`

	// Shelf life
	ManufactureDate *time.Time `db:"manufacture_date" json:"manufactureDate,omitempty"`
	ShelfLifeDays   *int       `db:"shelf_life_days" json:"shelfLifeDays,omitempty"`
	ExpiryDate      *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`

	// (s,S) policy parameters; nil until the optimizer has run.
	ReorderPoint       *types.Quantity `db:"reorder_point" json:"reorderPoint,omitempty"`
	OrderUpToLevel     *types.Quantity `db:"order_up_to_level" json:"orderUpToLevel,omitempty"`
	SafetyStock        *types.Quantity `db:"safety_stock" json:"safetyStock,omitempty"`
	LeadTimeDays       int             `db:"lead_time_days" json:"leadTimeDays"`
	ServiceLevelTarget *types.Money    `db:"service_level_target" json:"serviceLevelTarget,omitempty"`

	// Legacy threshold used until a reorder point is computed.
	ReorderLevel types.Quantity `db:"reorder_level" json:"reorderLevel"`

	// Expected usage per day; drives high-consumption alerting when set.
	DailyConsumptionRate *types.Quantity `db:"daily_consumption_rate" json:"dailyConsumptionRate,omitempty"`

	Supplier    *string `db:"supplier" json:"supplier,omitempty"`
	Location    *string `db:"location" json:"location,omitempty"`
	BatchNumber *string `db:"batch_number" json:"batchNumber,omitempty"`
	Notes       *string `db:"notes" json:"notes,omitempty"`

	// Version for optimistic locking on quantity and policy updates.
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a StockItem with required fields and defaults matching a
// freshly registered unit: zero quantity, standard grade, legacy reorder
// level of 10, two-day lead time.
func New(farmerID id.ID, name string, category Category, unit string) *StockItem {
	now := time.Now().UTC()
	return &StockItem{
		ID:           id.New(),
		FarmerID:     farmerID,
		Name:         name,
		Category:     category,
		Unit:         unit,
		Quantity:     decimal.Zero,
		CostPerUnit:  decimal.Zero,
		QualityGrade: QualityStandard,
		ReorderLevel: decimal.NewFromInt(10),
		LeadTimeDays: 2,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate checks invariants that hold without database access.
func (s *StockItem) Validate(ctx context.Context) error {
	if s.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if !isValidCategory(s.Category) {
		return apperror.NewValidation("invalid category").
			WithDetail("field", "category").
			WithDetail("value", string(s.Category))
	}
	if s.Unit == "" {
		return apperror.NewValidation("unit is required").WithDetail("field", "unit")
	}
	if s.Quantity.IsNegative() {
		return apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "quantity")
	}
	if s.CostPerUnit.IsNegative() {
		return apperror.NewValidation("cost per unit cannot be negative").
			WithDetail("field", "costPerUnit")
	}
	if !isValidQualityGrade(s.QualityGrade) {
		return apperror.NewValidation("invalid quality grade").
			WithDetail("field", "qualityGrade").
			WithDetail("value", string(s.QualityGrade))
	}
	if id.IsNil(s.FarmerID) {
		return apperror.NewValidation("farmer is required").WithDetail("field", "farmerId")
	}
	return nil
}

// Touch updates the UpdatedAt timestamp and increments version.
func (s *StockItem) Touch() {
	s.UpdatedAt = time.Now().UTC()
	s.Version++
}

// --- Derived shelf-life queries ---

// DaysToExpiry returns whole days until the expiry date, negative when past.
// Returns (0, false) when no expiry date is set.
func (s *StockItem) DaysToExpiry(now time.Time) (int, bool) {
	if s.ExpiryDate == nil {
		return 0, false
	}
	today := now.UTC().Truncate(24 * time.Hour)
	expiry := s.ExpiryDate.UTC().Truncate(24 * time.Hour)
	return int(expiry.Sub(today).Hours() / 24), true
}

// IsNearExpiry reports whether expiry falls within thresholdDays from now.
func (s *StockItem) IsNearExpiry(now time.Time, thresholdDays int) bool {
	days, ok := s.DaysToExpiry(now)
	return ok && days <= thresholdDays
}

// IsExpired reports whether the expiry date has passed.
func (s *StockItem) IsExpired(now time.Time) bool {
	days, ok := s.DaysToExpiry(now)
	return ok && days < 0
}

// ShelfLifeRemainingPct returns the percentage of shelf life remaining,
// clamped at 0. Returns (0, false) when manufacture date or shelf life is
// not tracked.
func (s *StockItem) ShelfLifeRemainingPct(now time.Time) (float64, bool) {
	if s.ManufactureDate == nil || s.ShelfLifeDays == nil || *s.ShelfLifeDays <= 0 {
		return 0, false
	}
	total := float64(*s.ShelfLifeDays)
	passed := now.UTC().Sub(s.ManufactureDate.UTC()).Hours() / 24
	remaining := (total - passed) / total * 100
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// --- Derived reorder queries ---

// ShouldReorder reports whether quantity has fallen to the reorder point,
// falling back to the legacy reorder level when no (s,S) policy is set.
func (s *StockItem) ShouldReorder() bool {
	if s.ReorderPoint != nil {
		return s.Quantity.LessThanOrEqual(*s.ReorderPoint)
	}
	return s.Quantity.LessThanOrEqual(s.ReorderLevel)
}

// SuggestedOrderQuantity returns the order-up-to gap (S − quantity).
// Returns (zero, false) when no policy has been computed.
func (s *StockItem) SuggestedOrderQuantity() (types.Quantity, bool) {
	if s.OrderUpToLevel == nil {
		return decimal.Zero, false
	}
	return s.OrderUpToLevel.Sub(s.Quantity), true
}

// EvaluateStatus derives the stock-health status in priority order.
func (s *StockItem) EvaluateStatus(now time.Time) Status {
	switch {
	case s.IsExpired(now):
		return StatusExpired
	case s.IsNearExpiry(now, DefaultNearExpiryThresholdDays):
		return StatusNearExpiry
	case s.ShouldReorder():
		return StatusReorderRequired
	case s.Quantity.LessThanOrEqual(s.ReorderLevel):
		return StatusLowStock
	default:
		return StatusAdequate
	}
}

// --- Derived valuation queries ---

// TotalCost returns quantity × cost per unit.
func (s *StockItem) TotalCost() types.Money {
	return s.Quantity.Mul(s.CostPerUnit)
}

// MarketValue returns quantity × market price, falling back to TotalCost
// when no market price is tracked.
func (s *StockItem) MarketValue() types.Money {
	if s.MarketPricePerUnit == nil {
		return s.TotalCost()
	}
	return s.Quantity.Mul(*s.MarketPricePerUnit)
}

// QualityFactor returns the valuation multiplier for the quality grade.
func (s *StockItem) QualityFactor() float64 {
	switch s.QualityGrade {
	case QualityPremium:
		return 1.1
	case QualityEconomy:
		return 0.9
	default:
		return 1.0
	}
}

// --- Validation helpers ---

func isValidCategory(c Category) bool {
	switch c {
	case CategoryLiveBirds, CategoryFeed, CategoryMedicine, CategorySupplements,
		CategoryEggs, CategoryEquipment, CategorySanitation, CategoryUtilities,
		CategoryStorage, CategoryTransport, CategoryLabor, CategorySales,
		CategoryEmergency, CategoryWater, CategoryHatchery, CategoryWaste,
		CategoryMachinery, CategoryOffice, CategoryFinancial:
		return true
	}
	return false
}

func isValidQualityGrade(g QualityGrade) bool {
	switch g {
	case QualityPremium, QualityStandard, QualityEconomy:
		return true
	}
	return false
}
