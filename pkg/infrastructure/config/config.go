// Package config loads simulation scenarios from YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/restock/pkg/domain/entities"
)

// Environment variables that override scenario values
const (
	EnvDays   = "RESTOCK_DAYS"
	EnvSeed   = "RESTOCK_SEED"
	EnvDBPath = "RESTOCK_DB_PATH"
)

// Strategy kinds
const (
	KindEOQ       = "eoq"
	KindHeuristic = "heuristic"
	KindLP        = "lp"
)

// Storage drivers
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Scenario holds everything needed for a comparison run
type Scenario struct {
	Run        RunConfig        `yaml:"run"`
	CatalogDir string           `yaml:"catalog_dir"` // suppliers.csv and items.csv; overrides inline catalog
	Suppliers  []SupplierConfig `yaml:"suppliers"`
	Items      []ItemConfig     `yaml:"items"`
	Strategies []StrategyConfig `yaml:"strategies"`
	Storage    StorageConfig    `yaml:"storage"`
}

// RunConfig holds simulation horizon and randomness settings
type RunConfig struct {
	Days      int   `yaml:"days"`
	Seed      int64 `yaml:"seed"`
	StartDay  int   `yaml:"start_day"`
	DemandMin int   `yaml:"demand_min"`
	DemandMax int   `yaml:"demand_max"`
}

// SupplierConfig describes one supplier
type SupplierConfig struct {
	Name              string  `yaml:"name"`
	MinOrder          int64   `yaml:"min_order"`
	MaxSupplyPerOrder int64   `yaml:"max_supply_per_order"`
	LeadTimeMin       int     `yaml:"lead_time_min"`
	LeadTimeMax       int     `yaml:"lead_time_max"`
	FillRate          float64 `yaml:"fill_rate"`
}

// ItemConfig describes one stocked item
type ItemConfig struct {
	SKU          string  `yaml:"sku"`
	Name         string  `yaml:"name"`
	InitialStock int64   `yaml:"initial_stock"`
	AnnualDemand float64 `yaml:"annual_demand"`
	UnitCost     float64 `yaml:"unit_cost"`
	HoldingCost  float64 `yaml:"holding_cost"`
	OrderCost    float64 `yaml:"order_cost"`
	MaxCapacity  int64   `yaml:"max_capacity"`
	Supplier     string  `yaml:"supplier"`
}

// StrategyConfig selects and parameterizes one restocking strategy. Unset LP
// fields fall back to the LP defaults; an explicit zero is kept.
type StrategyConfig struct {
	Name            string   `yaml:"name"`
	Kind            string   `yaml:"kind"`
	SafetyFactor    float64  `yaml:"safety_factor"`
	Weeks           int      `yaml:"weeks"`
	ShortagePenalty *float64 `yaml:"shortage_penalty"`
	PlanningDays    *int     `yaml:"planning_days"`
	Budget          *float64 `yaml:"budget"`
}

// StorageConfig selects where run results are kept
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// Default returns the built-in four item, two supplier scenario
func Default() *Scenario {
	return &Scenario{
		Run: RunConfig{
			Days:      90,
			Seed:      42,
			StartDay:  1,
			DemandMin: 5,
			DemandMax: 15,
		},
		Suppliers: []SupplierConfig{
			{Name: "FastSup", MinOrder: 10, MaxSupplyPerOrder: 500, LeadTimeMin: 1, LeadTimeMax: 3, FillRate: 0.98},
			{Name: "SlowSup", MinOrder: 20, MaxSupplyPerOrder: 300, LeadTimeMin: 4, LeadTimeMax: 7, FillRate: 0.9},
		},
		Items: []ItemConfig{
			{SKU: "S1", Name: "Soap", InitialStock: 150, AnnualDemand: 1200, UnitCost: 10, HoldingCost: 1.5, OrderCost: 20, MaxCapacity: 1000, Supplier: "FastSup"},
			{SKU: "S2", Name: "Shampoo", InitialStock: 120, AnnualDemand: 1500, UnitCost: 25, HoldingCost: 3.0, OrderCost: 40, MaxCapacity: 800, Supplier: "FastSup"},
			{SKU: "B1", Name: "Biscuits", InitialStock: 200, AnnualDemand: 2000, UnitCost: 5, HoldingCost: 0.8, OrderCost: 15, MaxCapacity: 1500, Supplier: "SlowSup"},
			{SKU: "T1", Name: "Toothpaste", InitialStock: 100, AnnualDemand: 1000, UnitCost: 12, HoldingCost: 1.8, OrderCost: 30, MaxCapacity: 700, Supplier: "FastSup"},
		},
		Strategies: []StrategyConfig{
			{Name: "EOQ", Kind: KindEOQ},
			{Name: "LP", Kind: KindLP, ShortagePenalty: ptr(150.0), PlanningDays: ptr(30)},
			{Name: "Heuristic", Kind: KindHeuristic, SafetyFactor: 0.3, Weeks: 2},
		},
		Storage: StorageConfig{Driver: DriverMemory},
	}
}

// Load reads a scenario from a YAML file. Keys absent from the file keep
// their Default values; a suppliers, items or strategies list in the file
// replaces the default list entirely.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if not provided
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverMemory
	}
	if cfg.Storage.Driver == DriverSQLite && cfg.Storage.Path == "" {
		cfg.Storage.Path = "restock.db"
	}

	return cfg, nil
}

// ApplyEnv overrides days, seed and database path from non-empty
// environment variables. A database path switches storage to sqlite.
func (s *Scenario) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvDays); ok && v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvDays, v, err)
		}
		s.Run.Days = days
	}
	if v, ok := os.LookupEnv(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSeed, v, err)
		}
		s.Run.Seed = seed
	}
	if v, ok := os.LookupEnv(EnvDBPath); ok && v != "" {
		s.Storage.Driver = DriverSQLite
		s.Storage.Path = v
	}
	return nil
}

// Validate checks run, strategy and storage settings. Supplier and item
// values are validated when the catalog is built.
func (s *Scenario) Validate() error {
	if s.Run.Days < 0 {
		return fmt.Errorf("run days cannot be negative, got %d", s.Run.Days)
	}
	if s.Run.DemandMin < 0 || s.Run.DemandMin > s.Run.DemandMax {
		return fmt.Errorf("invalid demand range [%d, %d]", s.Run.DemandMin, s.Run.DemandMax)
	}

	if len(s.Strategies) == 0 {
		return fmt.Errorf("at least one strategy is required")
	}
	names := make(map[string]bool, len(s.Strategies))
	for _, st := range s.Strategies {
		if st.Name == "" {
			return fmt.Errorf("strategy name cannot be empty")
		}
		if names[st.Name] {
			return fmt.Errorf("duplicate strategy name %s", st.Name)
		}
		names[st.Name] = true

		switch st.Kind {
		case KindEOQ, KindHeuristic, KindLP:
		default:
			return fmt.Errorf("strategy %s: unknown kind %q (expected eoq, heuristic or lp)", st.Name, st.Kind)
		}
	}

	switch s.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if s.Storage.Path == "" {
			return fmt.Errorf("sqlite storage requires a path")
		}
	default:
		return fmt.Errorf("unknown storage driver %q (expected memory or sqlite)", s.Storage.Driver)
	}

	return nil
}

// Catalog converts the inline supplier and item lists into a domain catalog
func (s *Scenario) Catalog() (*entities.Catalog, error) {
	catalog := &entities.Catalog{}

	for _, sc := range s.Suppliers {
		supplier, err := entities.NewSupplier(
			sc.Name,
			entities.Quantity(sc.MinOrder),
			entities.Quantity(sc.MaxSupplyPerOrder),
			sc.LeadTimeMin,
			sc.LeadTimeMax,
			sc.FillRate,
		)
		if err != nil {
			return nil, fmt.Errorf("supplier %s: %w", sc.Name, err)
		}
		catalog.Suppliers = append(catalog.Suppliers, supplier)
	}

	for _, ic := range s.Items {
		if _, err := catalog.Supplier(ic.Supplier); err != nil {
			return nil, fmt.Errorf("item %s: %w", ic.SKU, err)
		}
		catalog.Items = append(catalog.Items, entities.ItemSpec{
			SKU:          entities.SKU(ic.SKU),
			Name:         ic.Name,
			InitialStock: entities.Quantity(ic.InitialStock),
			AnnualDemand: ic.AnnualDemand,
			UnitCost:     decimal.NewFromFloat(ic.UnitCost),
			HoldingCost:  decimal.NewFromFloat(ic.HoldingCost),
			OrderCost:    decimal.NewFromFloat(ic.OrderCost),
			MaxCapacity:  entities.Quantity(ic.MaxCapacity),
			SupplierName: ic.Supplier,
		})
	}

	return catalog, nil
}

func ptr[T any](v T) *T {
	return &v
}
