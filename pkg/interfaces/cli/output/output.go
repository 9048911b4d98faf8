package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vsinha/restock/pkg/application/dto"
)

// Output file names
const (
	SummaryCSVFile = "summary.csv"
	HistoryCSVFile = "history.csv"
	JSONFile       = "comparison.json"
	TextFile       = "comparison.txt"
	ChartFile      = "stock_history.svg"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	Elapsed   time.Duration
	// Writer receives console output; nil means os.Stdout
	Writer io.Writer
}

func (c Config) out() io.Writer {
	if c.Writer == nil {
		return os.Stdout
	}
	return c.Writer
}

// Generate creates output in the specified format
func Generate(result *dto.Comparison, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(result, config)
	case "json":
		return generateJSONOutput(result, config)
	case "csv":
		return generateCSVOutput(result, config)
	case "svg":
		return generateSVGOutput(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// WriteText renders the per-strategy summary tables
func WriteText(w io.Writer, result *dto.Comparison) {
	fmt.Fprintf(w, "📊 Restocking Strategy Comparison (seed %d, %d days)\n", result.Seed, result.Days)
	fmt.Fprintf(w, "=====================================================\n")

	for _, run := range result.Runs {
		fmt.Fprintf(w, "\n===== %s Strategy Results =====\n", run.Strategy)
		fmt.Fprintf(w, "%-6s %-12s %10s %14s %14s %10s\n",
			"SKU", "Name", "Stock", "Total Ordered", "Cost", "Lost")
		fmt.Fprintf(w, "%-6s %-12s %10s %14s %14s %10s\n",
			"------", "------------", "----------", "--------------", "--------------", "----------")

		for _, item := range run.Items {
			fmt.Fprintf(w, "%-6s %-12s %10s %14s %14s %10s\n",
				item.SKU,
				item.Name,
				humanize.Comma(int64(item.Stock)),
				humanize.Comma(int64(item.TotalOrdered)),
				formatMoney(item.TotalCost.InexactFloat64()),
				humanize.Comma(int64(item.LostSales)))
		}

		fmt.Fprintf(w, "Service level: %.2f%%\n", run.ServiceLevel*100)
		fmt.Fprintf(w, "Total cost: %s  Lost sales: %s  Orders: %d placed, %d rejected\n",
			formatMoney(run.TotalCost.InexactFloat64()),
			humanize.Comma(int64(run.LostSales)),
			run.Orders.Placed,
			run.Orders.Rejected)
		fmt.Fprintf(w, "Run ID: %s\n", run.ID)
	}

	if best := result.Best(); best != nil {
		fmt.Fprintf(w, "\n🏆 Best service level: %s (%.2f%%)\n", best.Strategy, best.ServiceLevel*100)
	}
}

func formatMoney(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// generateTextOutput creates human-readable text output
func generateTextOutput(result *dto.Comparison, config Config) error {
	WriteText(config.out(), result)
	if config.Elapsed > 0 {
		fmt.Fprintf(config.out(), "Simulation time: %v\n", config.Elapsed)
	}

	// Save to file if output directory specified
	if config.OutputDir != "" {
		if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		filename := filepath.Join(config.OutputDir, TextFile)
		file, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create text file: %w", err)
		}
		defer file.Close()

		WriteText(file, result)
		if config.Verbose {
			fmt.Fprintf(config.out(), "💾 Results saved to: %s\n", filename)
		}
	}

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(result *dto.Comparison, config Config) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.out(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, JSONFile)
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	if config.Verbose {
		fmt.Fprintf(config.out(), "💾 JSON results saved to: %s\n", filename)
	}

	return nil
}

// generateCSVOutput writes summary.csv and history.csv
func generateCSVOutput(result *dto.Comparison, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	summaryFile := filepath.Join(config.OutputDir, SummaryCSVFile)
	if err := writeCSVFile(summaryFile, func(w *csv.Writer) error { return WriteSummaryCSV(w, result) }); err != nil {
		return fmt.Errorf("failed to write summary CSV: %w", err)
	}

	historyFile := filepath.Join(config.OutputDir, HistoryCSVFile)
	if err := writeCSVFile(historyFile, func(w *csv.Writer) error { return WriteHistoryCSV(w, result) }); err != nil {
		return fmt.Errorf("failed to write history CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "💾 CSV results saved to:\n")
		fmt.Fprintf(config.out(), "  Summary: %s\n", summaryFile)
		fmt.Fprintf(config.out(), "  History: %s\n", historyFile)
	}

	return nil
}

// generateSVGOutput writes the stock history chart
func generateSVGOutput(result *dto.Comparison, config Config) error {
	svg := NewStockChart(result).GenerateSVG(result)

	if config.OutputDir == "" {
		fmt.Fprintln(config.out(), svg)
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, ChartFile)
	if err := os.WriteFile(filename, []byte(svg), 0644); err != nil {
		return fmt.Errorf("failed to write SVG file: %w", err)
	}
	if config.Verbose {
		fmt.Fprintf(config.out(), "💾 Chart saved to: %s\n", filename)
	}

	return nil
}

func writeCSVFile(filename string, write func(*csv.Writer) error) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := write(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteSummaryCSV writes one row per strategy and item
func WriteSummaryCSV(w *csv.Writer, result *dto.Comparison) error {
	header := []string{"run_id", "strategy", "sku", "name", "stock", "total_ordered", "total_cost", "lost_sales", "service_level"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, run := range result.Runs {
		level := strconv.FormatFloat(run.ServiceLevel, 'f', 6, 64)
		for _, item := range run.Items {
			err := w.Write([]string{
				run.ID.String(),
				run.Strategy,
				string(item.SKU),
				item.Name,
				strconv.FormatInt(int64(item.Stock), 10),
				strconv.FormatInt(int64(item.TotalOrdered), 10),
				item.TotalCost.StringFixed(2),
				strconv.FormatInt(int64(item.LostSales), 10),
				level,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteHistoryCSV writes one row per strategy, item and simulated day
func WriteHistoryCSV(w *csv.Writer, result *dto.Comparison) error {
	header := []string{"strategy", "sku", "day", "stock", "demand", "reorder", "cumulative_cost"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, run := range result.Runs {
		for _, item := range run.Items {
			h := item.History
			for d := 0; d < h.Len(); d++ {
				err := w.Write([]string{
					run.Strategy,
					string(item.SKU),
					strconv.Itoa(int(run.StartDay) + d),
					strconv.FormatInt(int64(h.Stock[d]), 10),
					strconv.FormatInt(int64(h.Demand[d]), 10),
					strconv.FormatInt(int64(h.Reorder[d]), 10),
					h.Cost[d].StringFixed(2),
				})
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}
