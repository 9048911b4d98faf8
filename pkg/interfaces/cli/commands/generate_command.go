package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	catalogcsv "github.com/vsinha/restock/pkg/infrastructure/repositories/csv"
)

// GenerateConfig holds configuration for catalog generation
type GenerateConfig struct {
	Items     int    // Number of items to generate
	Suppliers int    // Number of suppliers to generate
	OutputDir string // Output directory for generated files
	Seed      int64  // Random seed for reproducible generation
	Help      bool   // Show help
	Verbose   bool   // Verbose output
	Writer    io.Writer
}

// GenerateCommand writes a random suppliers.csv and items.csv pair
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if config.Writer == nil {
		config.Writer = os.Stdout
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

var productNames = []string{
	"Soap", "Shampoo", "Biscuits", "Toothpaste", "Detergent", "Coffee", "Tea", "Rice",
	"Pasta", "Olive Oil", "Sugar", "Flour", "Cereal", "Juice", "Tissues", "Batteries",
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}

	if cmd.config.Items <= 0 || cmd.config.Suppliers <= 0 {
		return fmt.Errorf("items and suppliers must be positive, got %d and %d", cmd.config.Items, cmd.config.Suppliers)
	}
	if cmd.config.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.config.Writer, "🔧 Generating catalog with %d items and %d suppliers\n",
			cmd.config.Items, cmd.config.Suppliers)
		fmt.Fprintf(cmd.config.Writer, "📁 Output directory: %s\n", cmd.config.OutputDir)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	suppliers := cmd.generateSupplierNames()
	if err := cmd.writeCSV(catalogcsv.SuppliersFile, cmd.supplierRows(suppliers)); err != nil {
		return fmt.Errorf("failed to generate suppliers: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := cmd.writeCSV(catalogcsv.ItemsFile, cmd.itemRows(suppliers)); err != nil {
		return fmt.Errorf("failed to generate items: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.config.Writer, "✅ Catalog generated successfully in %s\n", cmd.config.OutputDir)
	}

	return nil
}

func (cmd *GenerateCommand) generateSupplierNames() []string {
	names := make([]string, cmd.config.Suppliers)
	for i := range names {
		names[i] = fmt.Sprintf("SUP%02d", i+1)
	}
	return names
}

// supplierRows alternates fast, reliable vendors with slower, cheaper ones.
// Every supplier ships at least 300 per order, above the 30 day demand of any
// generated item, so an unbudgeted LP plan stays feasible.
func (cmd *GenerateCommand) supplierRows(names []string) [][]string {
	rows := [][]string{{"name", "min_order", "max_supply_per_order", "lead_time_min", "lead_time_max", "fill_rate"}}
	for i, name := range names {
		leadMin := 1 + cmd.rand.Intn(2)
		spread := 1 + cmd.rand.Intn(2)
		fill := 0.95 + 0.05*cmd.rand.Float64()
		if i%2 == 1 {
			leadMin += 3
			spread += 2
			fill = 0.85 + 0.1*cmd.rand.Float64()
		}

		rows = append(rows, []string{
			name,
			strconv.Itoa(5 * (1 + cmd.rand.Intn(5))),
			strconv.Itoa(100 * (3 + cmd.rand.Intn(4))),
			strconv.Itoa(leadMin),
			strconv.Itoa(leadMin + spread),
			strconv.FormatFloat(fill, 'f', 2, 64),
		})
	}
	return rows
}

func (cmd *GenerateCommand) itemRows(suppliers []string) [][]string {
	rows := [][]string{{"sku", "name", "initial_stock", "annual_demand", "unit_cost", "holding_cost", "order_cost", "max_capacity", "supplier"}}
	for i := 0; i < cmd.config.Items; i++ {
		name := productNames[i%len(productNames)]
		if i >= len(productNames) {
			name = fmt.Sprintf("%s %d", name, i/len(productNames)+1)
		}

		unitCost := decimal.NewFromFloat(2 + 28*cmd.rand.Float64()).Round(2)
		// holding cost is 10-20% of unit cost per year
		holdingCost := unitCost.Mul(decimal.NewFromFloat(0.1 + 0.1*cmd.rand.Float64())).Round(2)
		orderCost := decimal.NewFromInt(int64(10 + cmd.rand.Intn(41)))
		capacity := 500 + 100*cmd.rand.Intn(16)
		initial := capacity / (5 + cmd.rand.Intn(6))

		rows = append(rows, []string{
			fmt.Sprintf("G%03d", i+1),
			name,
			strconv.Itoa(initial),
			strconv.Itoa(500 + 100*cmd.rand.Intn(26)),
			unitCost.StringFixed(2),
			holdingCost.StringFixed(2),
			orderCost.String(),
			strconv.Itoa(capacity),
			suppliers[cmd.rand.Intn(len(suppliers))],
		})
	}
	return rows
}

func (cmd *GenerateCommand) writeCSV(name string, rows [][]string) error {
	filePath := filepath.Join(cmd.config.OutputDir, name)
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return err
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.config.Writer, "📦 Wrote %s (%d rows)\n", filePath, len(rows)-1)
	}
	return nil
}

// printHelp shows usage information
func (cmd *GenerateCommand) printHelp() {
	fmt.Fprintln(cmd.config.Writer, `Restock Catalog Generator

USAGE:
    restocksim generate [OPTIONS]

OPTIONS:
    -items <N>          Number of items to generate (default: 20)
    -suppliers <N>      Number of suppliers to generate (default: 3)
    -output <DIR>       Output directory for generated files (required)
    -seed <N>           Random seed for reproducible generation (optional)
    -verbose            Enable verbose output
    -help               Show this help message

EXAMPLES:
    # Generate a catalog and compare strategies on it
    restocksim generate -items 50 -suppliers 4 -output ./catalog -seed 7
    restocksim -catalog ./catalog -days 180`)
}
