package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/restock/pkg/domain/entities"
)

// File names expected in a catalog directory
const (
	SuppliersFile = "suppliers.csv"
	ItemsFile     = "items.csv"
)

var (
	supplierHeader = []string{"name", "min_order", "max_supply_per_order", "lead_time_min", "lead_time_max", "fill_rate"}
	itemHeader     = []string{"sku", "name", "initial_stock", "annual_demand", "unit_cost", "holding_cost", "order_cost", "max_capacity", "supplier"}
)

// Loader handles loading catalog data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadCatalog loads suppliers.csv and items.csv from dir and checks that
// every item names a known supplier
func (l *Loader) LoadCatalog(dir string) (*entities.Catalog, error) {
	suppliers, err := l.LoadSuppliers(filepath.Join(dir, SuppliersFile))
	if err != nil {
		return nil, err
	}
	items, err := l.LoadItems(filepath.Join(dir, ItemsFile))
	if err != nil {
		return nil, err
	}

	catalog := &entities.Catalog{Suppliers: suppliers, Items: items}
	for _, spec := range items {
		if _, err := catalog.Supplier(spec.SupplierName); err != nil {
			return nil, fmt.Errorf("item %s: %w", spec.SKU, err)
		}
	}
	return catalog, nil
}

// LoadSuppliers loads suppliers from a CSV file
func (l *Loader) LoadSuppliers(filename string) ([]*entities.Supplier, error) {
	records, err := readRecords(filename, "suppliers", supplierHeader)
	if err != nil {
		return nil, err
	}

	var suppliers []*entities.Supplier
	seen := make(map[string]bool, len(records))
	for i, record := range records {
		supplier, err := parseSupplier(record)
		if err != nil {
			return nil, fmt.Errorf("suppliers CSV row %d: %w", i+2, err)
		}
		if seen[supplier.Name] {
			return nil, fmt.Errorf("suppliers CSV row %d: duplicate supplier %s", i+2, supplier.Name)
		}
		seen[supplier.Name] = true
		suppliers = append(suppliers, supplier)
	}

	return suppliers, nil
}

// LoadItems loads item definitions from a CSV file. Row order is kept as the
// registration order.
func (l *Loader) LoadItems(filename string) ([]entities.ItemSpec, error) {
	records, err := readRecords(filename, "items", itemHeader)
	if err != nil {
		return nil, err
	}

	var items []entities.ItemSpec
	for i, record := range records {
		item, err := parseItem(record)
		if err != nil {
			return nil, fmt.Errorf("items CSV row %d: %w", i+2, err)
		}
		items = append(items, item)
	}

	return items, nil
}

// readRecords opens filename, validates the header and returns the data rows
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

// Helper functions for parsing CSV records

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseSupplier(record []string) (*entities.Supplier, error) {
	name := strings.TrimSpace(record[0])

	minOrder, err := parseQuantity("min_order", record[1])
	if err != nil {
		return nil, err
	}

	maxSupply, err := parseQuantity("max_supply_per_order", record[2])
	if err != nil {
		return nil, err
	}

	leadMin, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid lead_time_min: %s", record[3])
	}

	leadMax, err := strconv.Atoi(strings.TrimSpace(record[4]))
	if err != nil {
		return nil, fmt.Errorf("invalid lead_time_max: %s", record[4])
	}

	fillRate, err := strconv.ParseFloat(strings.TrimSpace(record[5]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid fill_rate: %s", record[5])
	}

	return entities.NewSupplier(name, minOrder, maxSupply, leadMin, leadMax, fillRate)
}

func parseItem(record []string) (entities.ItemSpec, error) {
	sku := entities.SKU(strings.TrimSpace(record[0]))
	if sku == "" {
		return entities.ItemSpec{}, fmt.Errorf("sku cannot be empty")
	}

	initialStock, err := parseQuantity("initial_stock", record[2])
	if err != nil {
		return entities.ItemSpec{}, err
	}

	annualDemand, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return entities.ItemSpec{}, fmt.Errorf("invalid annual_demand: %s", record[3])
	}

	costs := make([]decimal.Decimal, 3)
	for k, column := range []string{"unit_cost", "holding_cost", "order_cost"} {
		costs[k], err = decimal.NewFromString(strings.TrimSpace(record[4+k]))
		if err != nil {
			return entities.ItemSpec{}, fmt.Errorf("invalid %s: %s", column, record[4+k])
		}
	}

	maxCapacity, err := parseQuantity("max_capacity", record[7])
	if err != nil {
		return entities.ItemSpec{}, err
	}

	return entities.ItemSpec{
		SKU:          sku,
		Name:         record[1],
		InitialStock: initialStock,
		AnnualDemand: annualDemand,
		UnitCost:     costs[0],
		HoldingCost:  costs[1],
		OrderCost:    costs[2],
		MaxCapacity:  maxCapacity,
		SupplierName: strings.TrimSpace(record[8]),
	}, nil
}

func parseQuantity(column, value string) (entities.Quantity, error) {
	q, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, value)
	}
	return entities.Quantity(q), nil
}
