package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/restock/pkg/application/services/orchestration"
	"github.com/vsinha/restock/pkg/domain/entities"
	"github.com/vsinha/restock/pkg/domain/repositories"
	"github.com/vsinha/restock/pkg/infrastructure/config"
	"github.com/vsinha/restock/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/restock/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/restock/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/restock/pkg/infrastructure/solver"
	"github.com/vsinha/restock/pkg/interfaces/cli/output"
)

// Config holds configuration for the compare command. Negative Days and a
// nil Seed keep the scenario values.
type Config struct {
	ConfigFile string
	CatalogDir string
	Days       int
	Seed       *int64
	DBPath     string
	OutputDir  string
	Format     string
	Verbose    bool
	Help       bool
	Writer     io.Writer
}

// CompareCommand runs every configured strategy over the same scenario
type CompareCommand struct {
	config Config
	log    *zap.Logger
}

// NewCompareCommand creates a new compare command with the given configuration
func NewCompareCommand(config Config, log *zap.Logger) *CompareCommand {
	if log == nil {
		log = zap.NewNop()
	}
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	return &CompareCommand{config: config, log: log}
}

// Execute runs the compare command
func (c *CompareCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	scenario, err := c.loadScenario()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	catalog, err := c.loadCatalog(scenario)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if c.config.Verbose {
		c.printHeader(scenario, catalog)
	}

	runRepo, closeRepo, err := OpenRunRepository(scenario.Storage)
	if err != nil {
		return fmt.Errorf("failed to open run storage: %w", err)
	}
	defer closeRepo()

	strategies, err := BuildStrategies(scenario.Strategies, solver.NewSimplex())
	if err != nil {
		return fmt.Errorf("failed to build strategies: %w", err)
	}

	settings := orchestration.RunSettings{
		Days:      scenario.Run.Days,
		Seed:      scenario.Run.Seed,
		StartDay:  entities.Day(scenario.Run.StartDay),
		DemandMin: scenario.Run.DemandMin,
		DemandMax: scenario.Run.DemandMax,
	}

	orchestrator := orchestration.NewComparisonOrchestrator(catalog, runRepo, c.log)

	if c.config.Verbose {
		fmt.Fprintln(c.config.Writer, "🔄 Running simulations...")
	}

	startTime := time.Now()
	comparison, err := orchestrator.Compare(ctx, strategies, settings)
	elapsed := time.Since(startTime)
	if err != nil {
		c.log.Error("comparison failed", zap.Error(err))
		return fmt.Errorf("error running comparison: %w", err)
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Elapsed:   elapsed,
		Writer:    c.config.Writer,
	}
	if err := output.Generate(comparison, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	return nil
}

// loadScenario reads the YAML file or the built-in default, then applies
// environment and flag overrides
func (c *CompareCommand) loadScenario() (*config.Scenario, error) {
	scenario := config.Default()
	if c.config.ConfigFile != "" {
		loaded, err := config.Load(c.config.ConfigFile)
		if err != nil {
			return nil, err
		}
		scenario = loaded
	}

	if err := scenario.ApplyEnv(); err != nil {
		return nil, err
	}

	if c.config.Days >= 0 {
		scenario.Run.Days = c.config.Days
	}
	if c.config.Seed != nil {
		scenario.Run.Seed = *c.config.Seed
	}
	if c.config.DBPath != "" {
		scenario.Storage = config.StorageConfig{Driver: config.DriverSQLite, Path: c.config.DBPath}
	}
	if c.config.CatalogDir != "" {
		scenario.CatalogDir = c.config.CatalogDir
	}
	if c.config.Format == "" {
		c.config.Format = "text"
	}

	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return scenario, nil
}

func (c *CompareCommand) loadCatalog(scenario *config.Scenario) (*entities.Catalog, error) {
	if scenario.CatalogDir != "" {
		return csv.NewLoader().LoadCatalog(scenario.CatalogDir)
	}
	return scenario.Catalog()
}

// OpenRunRepository opens the configured run storage. The returned close
// function is always safe to call.
func OpenRunRepository(storage config.StorageConfig) (repositories.RunRepository, func(), error) {
	switch storage.Driver {
	case config.DriverSQLite:
		repo, err := sqlite.Open(storage.Path)
		if err != nil {
			return nil, func() {}, err
		}
		return repo, func() { repo.Close() }, nil
	case config.DriverMemory, "":
		return memory.NewRunRepository(0), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown storage driver %q", storage.Driver)
	}
}

// printHeader prints the command header information
func (c *CompareCommand) printHeader(scenario *config.Scenario, catalog *entities.Catalog) {
	w := c.config.Writer
	fmt.Fprintf(w, "🚀 Restock Simulator\n")
	if c.config.ConfigFile != "" {
		fmt.Fprintf(w, "Scenario: %s\n", c.config.ConfigFile)
	} else {
		fmt.Fprintf(w, "Scenario: built-in default\n")
	}
	if scenario.CatalogDir != "" {
		fmt.Fprintf(w, "Catalog: %s\n", scenario.CatalogDir)
	}
	fmt.Fprintf(w, "Items: %d  Suppliers: %d  Strategies: %d\n",
		len(catalog.Items), len(catalog.Suppliers), len(scenario.Strategies))
	fmt.Fprintf(w, "Days: %d  Seed: %d  Demand: [%d, %d]\n",
		scenario.Run.Days, scenario.Run.Seed, scenario.Run.DemandMin, scenario.Run.DemandMax)
	fmt.Fprintf(w, "Storage: %s\n", scenario.Storage.Driver)
	fmt.Fprintf(w, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(w, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(w)
}

// showHelp displays the help message
func (c *CompareCommand) showHelp() {
	fmt.Fprintf(c.config.Writer, `Restock Simulator - compare inventory replenishment strategies

USAGE:
    restocksim [options]                   # Built-in four item scenario
    restocksim -config scenario.yaml       # YAML scenario
    restocksim -catalog <dir>              # suppliers.csv and items.csv
    restocksim runs [-db <file>] [-id <uuid>]
    restocksim generate -output <dir> [-items n] [-suppliers n]

OPTIONS:
    -config <file>      YAML scenario file
    -catalog <dir>      Directory with suppliers.csv and items.csv
    -days <n>           Days to simulate (default: scenario value, 90)
    -seed <n>           Random seed (default: scenario value, 42)
    -db <file>          Persist runs to this SQLite database
    -output <dir>       Output directory for results (optional)
    -format <fmt>       Output format: text, json, csv, svg (default: text)
    -verbose            Enable verbose output
    -help               Show this help message

ENVIRONMENT:
    RESTOCK_ENV=development   Console debug logging
    RESTOCK_DAYS, RESTOCK_SEED, RESTOCK_DB_PATH override the scenario

CSV FILE FORMATS:

suppliers.csv:
    name,min_order,max_supply_per_order,lead_time_min,lead_time_max,fill_rate
    FastSup,10,500,1,3,0.98

items.csv:
    sku,name,initial_stock,annual_demand,unit_cost,holding_cost,order_cost,max_capacity,supplier
    S1,Soap,150,1200,10,1.5,20,1000,FastSup

EXAMPLES:
    # Compare EOQ, LP and Heuristic on the default scenario
    restocksim -verbose

    # One simulated year, results as CSV for plotting
    restocksim -days 365 -format csv -output results/

    # Keep run history in SQLite
    restocksim -db runs.db && restocksim runs -db runs.db
`)
}
