package simulation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/restock/pkg/application/services/restock"
	"github.com/vsinha/restock/pkg/domain/entities"
)

// scriptedStrategy returns fixed plans per day and optionally fails on one day
type scriptedStrategy struct {
	plans   map[entities.Day]restock.Plan
	failDay entities.Day
	err     error
	calls   []entities.Day
}

func (s *scriptedStrategy) Name() string { return "Scripted" }

func (s *scriptedStrategy) Plan(view restock.WarehouseView, day entities.Day) (restock.Plan, error) {
	s.calls = append(s.calls, day)
	if s.err != nil && day == s.failDay {
		return nil, s.err
	}
	return s.plans[day], nil
}

func mustSupplier(t *testing.T, name string, minOrder, maxSupply entities.Quantity, low, high int, fill float64) *entities.Supplier {
	t.Helper()
	s, err := entities.NewSupplier(name, minOrder, maxSupply, low, high, fill)
	if err != nil {
		t.Fatalf("Expected valid supplier: %v", err)
	}
	return s
}

func mustItem(t *testing.T, sku entities.SKU, stock entities.Quantity, annual float64, unit, holding, order int64, capacity entities.Quantity, supplier *entities.Supplier) *entities.InventoryItem {
	t.Helper()
	item, err := entities.NewInventoryItem(
		sku, string(sku), stock, annual,
		decimal.NewFromInt(unit), decimal.NewFromInt(holding), decimal.NewFromInt(order),
		capacity, supplier,
	)
	if err != nil {
		t.Fatalf("Expected valid item: %v", err)
	}
	return item
}

// buildSmallWarehouse registers the two-item catalog used across engine tests
func buildSmallWarehouse(t *testing.T, strategy restock.Strategy, seed int64, opts ...Option) *Warehouse {
	t.Helper()
	w, err := NewWarehouse(strategy, entities.NewRandomSource(seed), opts...)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	supplier := mustSupplier(t, "TestSup", 5, 200, 1, 2, 1.0)
	for _, item := range []*entities.InventoryItem{
		mustItem(t, "X1", 50, 365, 10, 1, 10, 500, supplier),
		mustItem(t, "X2", 30, 365, 5, 1, 8, 300, supplier),
	} {
		if err := w.RegisterItem(item); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	return w
}
