package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/vsinha/restock/pkg/application/dto"
	"github.com/vsinha/restock/pkg/domain/repositories"
	"github.com/vsinha/restock/pkg/infrastructure/config"
	"github.com/vsinha/restock/pkg/interfaces/cli/output"
)

// RunsConfig holds configuration for browsing persisted runs
type RunsConfig struct {
	DBPath string
	RunID  string
	Limit  int
	Help   bool
	Writer io.Writer
}

// RunsCommand lists stored runs or prints one run in full
type RunsCommand struct {
	config RunsConfig
	repo   repositories.RunRepository
}

// NewRunsCommand creates a runs command. repo may be nil, in which case the
// SQLite database at DBPath is opened on Execute.
func NewRunsCommand(config RunsConfig, repo repositories.RunRepository) *RunsCommand {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	return &RunsCommand{config: config, repo: repo}
}

// Execute runs the runs command
func (c *RunsCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.printHelp()
		return nil
	}

	repo := c.repo
	if repo == nil {
		if c.config.DBPath == "" {
			return fmt.Errorf("runs requires -db <file>")
		}
		opened, closeRepo, err := OpenRunRepository(config.StorageConfig{Driver: config.DriverSQLite, Path: c.config.DBPath})
		if err != nil {
			return fmt.Errorf("failed to open run storage: %w", err)
		}
		defer closeRepo()
		repo = opened
	}

	if c.config.RunID != "" {
		return c.showRun(ctx, repo)
	}
	return c.listRuns(ctx, repo)
}

func (c *RunsCommand) listRuns(ctx context.Context, repo repositories.RunRepository) error {
	runs, err := repo.ListRuns(ctx, c.config.Limit)
	if err != nil {
		return err
	}

	w := c.config.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs stored")
		return nil
	}

	fmt.Fprintf(w, "%-36s %-12s %8s %6s %10s %14s %-14s\n",
		"Run ID", "Strategy", "Seed", "Days", "Service", "Total Cost", "Created")
	fmt.Fprintf(w, "%-36s %-12s %8s %6s %10s %14s %-14s\n",
		"------------------------------------", "------------", "--------", "------", "----------", "--------------", "--------------")
	for _, run := range runs {
		fmt.Fprintf(w, "%-36s %-12s %8d %6d %9.2f%% %14s %-14s\n",
			run.ID,
			run.Strategy,
			run.Seed,
			run.Days,
			run.ServiceLevel*100,
			humanize.FormatFloat("#,###.##", run.TotalCost.InexactFloat64()),
			humanize.Time(run.CreatedAt))
	}
	return nil
}

func (c *RunsCommand) showRun(ctx context.Context, repo repositories.RunRepository) error {
	id, err := uuid.Parse(c.config.RunID)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", c.config.RunID, err)
	}

	run, err := repo.GetRun(ctx, id)
	if err != nil {
		return err
	}

	output.WriteText(c.config.Writer, &dto.Comparison{Seed: run.Seed, Days: run.Days, Runs: []*dto.RunResult{run}})
	return nil
}

func (c *RunsCommand) printHelp() {
	fmt.Fprintf(c.config.Writer, `restocksim runs - browse stored simulation runs

USAGE:
    restocksim runs -db <file> [-limit n]    # List runs, newest first
    restocksim runs -db <file> -id <uuid>    # Show one run

OPTIONS:
    -db <file>      SQLite database written by restocksim -db
    -id <uuid>      Run to show
    -limit <n>      Maximum runs to list (default: 20)
    -help           Show this help message
`)
}
