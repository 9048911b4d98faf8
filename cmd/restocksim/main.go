package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vsinha/restock/pkg/infrastructure/logger"
	"github.com/vsinha/restock/pkg/interfaces/cli/commands"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := logger.Init(os.Getenv("RESTOCK_ENV") == "development"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "runs":
			err = runRuns(ctx, os.Args[2:])
		case "generate":
			err = runGenerate(ctx, os.Args[2:])
		default:
			err = runCompare(ctx, os.Args[1:])
		}
	} else {
		err = runCompare(ctx, nil)
	}

	if err != nil {
		logger.L().Error("command failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func runCompare(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("restocksim", flag.ExitOnError)
	var (
		configFile = fs.String("config", "", "Path to YAML scenario file (optional)")
		catalogDir = fs.String("catalog", "", "Directory containing suppliers.csv and items.csv")
		days       = fs.Int("days", -1, "Days to simulate (default: scenario value)")
		seed       = fs.Int64("seed", 0, "Random seed (default: scenario value)")
		dbPath     = fs.String("db", "", "SQLite database for run history (optional)")
		outputDir  = fs.String("output", "", "Output directory for results (optional)")
		format     = fs.String("format", "text", "Output format: text, json, csv, svg")
		verbose    = fs.Bool("verbose", false, "Enable verbose output")
		help       = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	config := commands.Config{
		ConfigFile: *configFile,
		CatalogDir: *catalogDir,
		Days:       *days,
		DBPath:     *dbPath,
		OutputDir:  *outputDir,
		Format:     *format,
		Verbose:    *verbose,
		Help:       *help,
	}
	// -seed 0 is a valid seed, so only override when the flag was given
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			config.Seed = seed
		}
	})

	return commands.NewCompareCommand(config, logger.L()).Execute(ctx)
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	var (
		dbPath = fs.String("db", os.Getenv("RESTOCK_DB_PATH"), "SQLite database with stored runs")
		runID  = fs.String("id", "", "Run ID to show")
		limit  = fs.Int("limit", 20, "Maximum runs to list")
		help   = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	return commands.NewRunsCommand(commands.RunsConfig{
		DBPath: *dbPath,
		RunID:  *runID,
		Limit:  *limit,
		Help:   *help,
	}, nil).Execute(ctx)
}

func runGenerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var (
		items     = fs.Int("items", 20, "Number of items to generate")
		suppliers = fs.Int("suppliers", 3, "Number of suppliers to generate")
		outputDir = fs.String("output", "", "Output directory for generated files")
		seed      = fs.Int64("seed", 0, "Random seed (default: time based)")
		verbose   = fs.Bool("verbose", false, "Enable verbose output")
		help      = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	return commands.NewGenerateCommand(commands.GenerateConfig{
		Items:     *items,
		Suppliers: *suppliers,
		OutputDir: *outputDir,
		Seed:      *seed,
		Verbose:   *verbose,
		Help:      *help,
	}).Execute(ctx)
}
