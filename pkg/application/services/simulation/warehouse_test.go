package simulation

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/restock/pkg/application/services/restock"
	"github.com/vsinha/restock/pkg/domain/entities"
	"github.com/vsinha/restock/pkg/domain/services/optimization"
	"github.com/vsinha/restock/pkg/infrastructure/events"
	"github.com/vsinha/restock/pkg/infrastructure/solver"
)

func allStrategies(t *testing.T) []restock.Strategy {
	t.Helper()
	heuristic, err := restock.NewHeuristicStrategy(0.2, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	lp, err := restock.NewLPStrategy(solver.NewSimplex(), restock.LPConfig{ShortagePenalty: 200, PlanningDays: 14})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return []restock.Strategy{restock.NewEOQStrategy(), heuristic, lp}
}

func TestNewWarehouse_Validation(t *testing.T) {
	if _, err := NewWarehouse(nil, entities.NewRandomSource(1)); !errors.Is(err, ErrNilStrategy) {
		t.Errorf("Expected ErrNilStrategy, got %v", err)
	}
	if _, err := NewWarehouse(restock.NewEOQStrategy(), nil); !errors.Is(err, ErrNilRandomSource) {
		t.Errorf("Expected ErrNilRandomSource, got %v", err)
	}
	if _, err := NewWarehouse(restock.NewEOQStrategy(), entities.NewRandomSource(1), WithDemandRange(10, 5)); !errors.Is(err, ErrInvalidDemandRange) {
		t.Errorf("Expected ErrInvalidDemandRange, got %v", err)
	}
}

func TestWarehouse_StockStaysWithinBounds(t *testing.T) {
	for _, strategy := range allStrategies(t) {
		t.Run(strategy.Name(), func(t *testing.T) {
			w := buildSmallWarehouse(t, strategy, 1)
			if err := w.Simulate(context.Background(), 60); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			for _, item := range w.Items() {
				history := item.History()
				if history.Len() != 60 {
					t.Errorf("Expected 60 history entries for %s, got %d", item.SKU, history.Len())
				}
				for day, stock := range history.Stock {
					if stock < 0 || stock > item.MaxCapacity {
						t.Fatalf("Stock %d for %s on day offset %d outside [0, %d]", stock, item.SKU, day, item.MaxCapacity)
					}
				}
			}
		})
	}
}

func TestWarehouse_ReproducibleWithSameSeed(t *testing.T) {
	for _, strategy := range allStrategies(t) {
		t.Run(strategy.Name(), func(t *testing.T) {
			first := buildSmallWarehouse(t, strategy, 42)
			second := buildSmallWarehouse(t, strategy, 42)
			if err := first.Simulate(context.Background(), 45); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if err := second.Simulate(context.Background(), 45); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			for i, item := range first.Items() {
				a := item.History().Stock
				b := second.Items()[i].History().Stock
				for d := range a {
					if a[d] != b[d] {
						t.Fatalf("Stock histories for %s diverge on day offset %d: %d vs %d", item.SKU, d, a[d], b[d])
					}
				}
			}
		})
	}
}

func TestWarehouse_TotalsMatchAcceptedOrders(t *testing.T) {
	for _, strategy := range allStrategies(t) {
		t.Run(strategy.Name(), func(t *testing.T) {
			journal := events.NewInMemoryEventStore()
			w := buildSmallWarehouse(t, strategy, 3, WithEventStore(journal))
			if err := w.Simulate(context.Background(), 60); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			for _, item := range w.Items() {
				stream, _ := journal.ReadEvents(string(item.SKU), 0)
				var ordered entities.Quantity
				cost := decimal.Zero
				for _, e := range stream {
					placed, ok := e.Data().(events.OrderPlaced)
					if !ok {
						continue
					}
					ordered += placed.Accepted
					cost = cost.Add(item.OrderCost).Add(item.UnitCost.Mul(decimal.NewFromInt(int64(placed.Accepted))))
				}

				if item.TotalOrdered() != ordered {
					t.Errorf("Expected total ordered %d for %s, got %d", ordered, item.SKU, item.TotalOrdered())
				}
				if !item.TotalCost().Equal(cost) {
					t.Errorf("Expected total cost %s for %s, got %s", cost, item.SKU, item.TotalCost())
				}
			}
		})
	}
}

func TestWarehouse_ServiceLevel(t *testing.T) {
	w := buildSmallWarehouse(t, restock.NewEOQStrategy(), 1)
	if w.ServiceLevel() != 1.0 {
		t.Errorf("Expected service level 1.0 before any demand, got %g", w.ServiceLevel())
	}
	if err := w.Simulate(context.Background(), 30); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	level := w.ServiceLevel()
	if level < 0 || level > 1 {
		t.Errorf("Expected service level in [0, 1], got %g", level)
	}

	idle := buildSmallWarehouse(t, restock.NewEOQStrategy(), 1, WithDemandRange(0, 0))
	if err := idle.Simulate(context.Background(), 10); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if idle.ServiceLevel() != 1.0 {
		t.Errorf("Expected service level 1.0 with zero demand, got %g", idle.ServiceLevel())
	}
}

func TestWarehouse_ArrivalsAndCapacityOverflow(t *testing.T) {
	supplier := mustSupplier(t, "Exact", 0, 1000, 2, 2, 1.0)
	item := mustItem(t, "A", 90, 365, 10, 1, 5, 100, supplier)
	strategy := &scriptedStrategy{plans: map[entities.Day]restock.Plan{1: {"A": 50}}}
	journal := events.NewInMemoryEventStore()

	w, _ := NewWarehouse(strategy, entities.NewRandomSource(1), WithDemandRange(0, 0), WithEventStore(journal))
	_ = w.RegisterItem(item)

	if err := w.Simulate(context.Background(), 4); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	history := item.History()
	expected := []entities.Quantity{90, 90, 100, 100}
	for d, want := range expected {
		if history.Stock[d] != want {
			t.Errorf("Expected stock %d on day offset %d, got %d", want, d, history.Stock[d])
		}
	}
	if history.Reorder[0] != 50 || history.Reorder[1] != 0 {
		t.Errorf("Expected reorder history to start [50 0], got %v", history.Reorder)
	}

	// Overflow is dropped without credit; the order is still paid for in full
	if item.TotalOrdered() != 50 || !item.TotalCost().Equal(decimal.NewFromInt(505)) {
		t.Errorf("Expected 50 ordered at cost 505, got %d at %s", item.TotalOrdered(), item.TotalCost())
	}
	if len(w.Incoming("A")) != 0 {
		t.Error("Expected the arrival to be consumed")
	}

	stream, _ := journal.ReadEvents("A", 0)
	var received *events.ArrivalReceived
	for _, e := range stream {
		if r, ok := e.Data().(events.ArrivalReceived); ok {
			received = &r
			if e.Day() != 3 {
				t.Errorf("Expected arrival on day 3, got %d", e.Day())
			}
		}
	}
	if received == nil || received.Accepted != 10 || received.Dropped != 40 {
		t.Errorf("Expected 10 accepted and 40 dropped, got %+v", received)
	}
}

func TestWarehouse_RejectedOrdersLeaveNoTrace(t *testing.T) {
	supplier := mustSupplier(t, "MOQ", 100, 1000, 1, 1, 1.0)
	item := mustItem(t, "A", 50, 365, 10, 1, 5, 500, supplier)
	strategy := &scriptedStrategy{plans: map[entities.Day]restock.Plan{1: {"A": 40}, 2: {"A": 0}}}
	journal := events.NewInMemoryEventStore()

	w, _ := NewWarehouse(strategy, entities.NewRandomSource(1), WithDemandRange(0, 0), WithEventStore(journal))
	_ = w.RegisterItem(item)

	if err := w.Simulate(context.Background(), 3); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if item.TotalOrdered() != 0 || !item.TotalCost().IsZero() {
		t.Errorf("Expected no cost for rejected order, got %d at %s", item.TotalOrdered(), item.TotalCost())
	}
	if len(w.Incoming("A")) != 0 {
		t.Error("Expected no pending arrival for rejected order")
	}
	if item.History().Reorder[0] != 40 {
		t.Errorf("Expected requested quantity to be recorded, got %d", item.History().Reorder[0])
	}

	stream, _ := journal.ReadEvents("A", 0)
	if len(stream) != 1 || stream[0].Type() != events.OrderRejectedEvent {
		t.Errorf("Expected a single rejection event, got %v", stream)
	}
}

func TestWarehouse_PlanFailureStopsRun(t *testing.T) {
	strategy := &scriptedStrategy{failDay: 3, err: optimization.ErrInfeasible}
	w := buildSmallWarehouse(t, strategy, 1)

	err := w.Simulate(context.Background(), 10)

	var planErr *PlanError
	if !errors.As(err, &planErr) {
		t.Fatalf("Expected *PlanError, got %v", err)
	}
	if planErr.Day != 3 || planErr.Strategy != "Scripted" {
		t.Errorf("Expected failure on day 3 from Scripted, got %+v", planErr)
	}
	if !errors.Is(err, optimization.ErrInfeasible) {
		t.Errorf("Expected ErrInfeasible in chain, got %v", err)
	}
	if w.State() != Failed {
		t.Errorf("Expected Failed state, got %s", w.State())
	}
	if w.Day() != 2 {
		t.Errorf("Expected last completed day 2, got %d", w.Day())
	}
	for _, item := range w.Items() {
		if item.History().Len() != 2 {
			t.Errorf("Expected 2 recorded days for %s, got %d", item.SKU, item.History().Len())
		}
	}
}

func TestWarehouse_LPInfeasibleMidRun(t *testing.T) {
	// 10/day over 30 days needs 300 units, the budget buys at most 20 a day
	budget := decimal.NewFromInt(200)
	lp, err := restock.NewLPStrategy(solver.NewSimplex(), restock.LPConfig{ShortagePenalty: 100, PlanningDays: 30, Budget: &budget})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	w, err := NewWarehouse(lp, entities.NewRandomSource(1), WithDemandRange(25, 25))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	supplier := mustSupplier(t, "BudgetSup", 5, 500, 1, 1, 1.0)
	if err := w.RegisterItem(mustItem(t, "LP1", 350, 3650, 10, 1, 10, 1000, supplier)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	err = w.Simulate(context.Background(), 10)

	// stock 325 and 300 cover the horizon on days 1 and 2; day 3 needs 25
	var planErr *PlanError
	if !errors.As(err, &planErr) {
		t.Fatalf("Expected *PlanError, got %v", err)
	}
	if planErr.Day != 3 || planErr.Strategy != "LP" {
		t.Errorf("Expected LP failure on day 3, got %+v", planErr)
	}
	if !errors.Is(err, optimization.ErrInfeasible) {
		t.Errorf("Expected ErrInfeasible in chain, got %v", err)
	}
	if w.State() != Failed || w.Day() != 2 {
		t.Errorf("Expected Failed after day 2, got %s at %d", w.State(), w.Day())
	}
	item, _ := w.Item("LP1")
	if item.TotalOrdered() != 0 || item.History().Len() != 2 {
		t.Errorf("Expected no orders and 2 recorded days, got %d ordered, %d days", item.TotalOrdered(), item.History().Len())
	}
}

func TestWarehouse_NegativePlanRejected(t *testing.T) {
	strategy := &scriptedStrategy{plans: map[entities.Day]restock.Plan{1: {"X1": -5}}}
	w := buildSmallWarehouse(t, strategy, 1)

	err := w.Simulate(context.Background(), 2)
	if !errors.Is(err, ErrNegativePlan) {
		t.Errorf("Expected ErrNegativePlan, got %v", err)
	}
}

func TestWarehouse_Lifecycle(t *testing.T) {
	strategy := &scriptedStrategy{}
	w := buildSmallWarehouse(t, strategy, 1, WithStartDay(10))

	if w.State() != Uninitialized {
		t.Errorf("Expected Uninitialized, got %s", w.State())
	}

	if err := w.RegisterItem(nil); !errors.Is(err, entities.ErrInvalidItem) {
		t.Errorf("Expected ErrInvalidItem for nil item, got %v", err)
	}

	supplier := mustSupplier(t, "Dup", 0, 10, 1, 1, 1)
	if err := w.RegisterItem(mustItem(t, "X1", 1, 1, 1, 1, 1, 10, supplier)); !errors.Is(err, entities.ErrDuplicateSKU) {
		t.Errorf("Expected ErrDuplicateSKU, got %v", err)
	}

	if err := w.Simulate(context.Background(), -1); !errors.Is(err, ErrInvalidDays) {
		t.Errorf("Expected ErrInvalidDays, got %v", err)
	}

	if err := w.Simulate(context.Background(), 5); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if w.State() != Completed || w.Day() != 14 {
		t.Errorf("Expected Completed at day 14, got %s at %d", w.State(), w.Day())
	}
	if len(strategy.calls) != 5 || strategy.calls[0] != 10 {
		t.Errorf("Expected one plan call per day starting at 10, got %v", strategy.calls)
	}

	if err := w.RegisterItem(mustItem(t, "NEW", 1, 1, 1, 1, 1, 10, supplier)); !errors.Is(err, ErrWarehouseRunning) {
		t.Errorf("Expected ErrWarehouseRunning, got %v", err)
	}
	if err := w.Simulate(context.Background(), 5); !errors.Is(err, ErrSimulationCompleted) {
		t.Errorf("Expected ErrSimulationCompleted, got %v", err)
	}
}

func TestWarehouse_CancelledContext(t *testing.T) {
	w := buildSmallWarehouse(t, restock.NewEOQStrategy(), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := w.Simulate(ctx, 5); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestWarehouse_SummaryRows(t *testing.T) {
	w := buildSmallWarehouse(t, restock.NewEOQStrategy(), 1)
	if err := w.Simulate(context.Background(), 20); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	rows := w.Summary()
	if len(rows) != 2 || rows[0].SKU != "X1" || rows[1].SKU != "X2" {
		t.Fatalf("Expected rows in registration order, got %v", rows)
	}
	for _, row := range rows {
		item, _ := w.Item(row.SKU)
		if row.Stock != item.Stock() || row.LostSales != item.LostSales() || row.TotalOrdered != item.TotalOrdered() {
			t.Errorf("Summary row %+v does not match item state", row)
		}
	}
}

// Single item, stock 50, seed 1, 14 days: every policy reorders on the days
// its own threshold is crossed.
func TestWarehouse_EndToEndFourteenDays(t *testing.T) {
	newSingle := func(strategy restock.Strategy) *Warehouse {
		w, _ := NewWarehouse(strategy, entities.NewRandomSource(1))
		supplier := mustSupplier(t, "TestSup", 5, 200, 1, 2, 1.0)
		_ = w.RegisterItem(mustItem(t, "X1", 50, 365, 10, 1, 10, 500, supplier))
		if err := w.Simulate(context.Background(), 14); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		return w
	}

	t.Run("EOQ", func(t *testing.T) {
		w := newSingle(restock.NewEOQStrategy())
		h := w.Items()[0].History()
		reorderPoint := restock.ReorderPoint(1, 1.5)
		for d := range h.Stock {
			if h.Stock[d] < 0 {
				t.Fatalf("Negative stock on day offset %d", d)
			}
			if (h.Stock[d] <= reorderPoint) != (h.Reorder[d] > 0) {
				t.Errorf("Day offset %d: stock %d vs reorder point %d, planned %d", d, h.Stock[d], reorderPoint, h.Reorder[d])
			}
		}
	})

	t.Run("Heuristic", func(t *testing.T) {
		heuristic, _ := restock.NewHeuristicStrategy(0.3, 2)
		w := newSingle(heuristic)
		h := w.Items()[0].History()
		threshold := heuristic.Threshold(1)
		for d := range h.Stock {
			if h.Stock[d] < 0 {
				t.Fatalf("Negative stock on day offset %d", d)
			}
			if (h.Stock[d] < threshold) != (h.Reorder[d] > 0) {
				t.Errorf("Day offset %d: stock %d vs threshold %d, planned %d", d, h.Stock[d], threshold, h.Reorder[d])
			}
		}
	})

	t.Run("LP", func(t *testing.T) {
		lp, _ := restock.NewLPStrategy(solver.NewSimplex(), restock.LPConfig{ShortagePenalty: 200, PlanningDays: 14})
		w := newSingle(lp)
		h := w.Items()[0].History()
		var planned entities.Quantity
		for d := range h.Stock {
			if h.Stock[d] < 0 {
				t.Fatalf("Negative stock on day offset %d", d)
			}
			planned += h.Reorder[d]
		}
		// Demand of 5 to 15 a day exhausts 50 units well inside 14 days
		if planned == 0 {
			t.Error("Expected the LP strategy to plan orders")
		}
		if w.ServiceLevel() <= 0.1 {
			t.Errorf("Expected service level above 0.1, got %g", w.ServiceLevel())
		}
	})
}

func BenchmarkWarehouse_SimulateYear(b *testing.B) {
	fast, _ := entities.NewSupplier("FastSup", 10, 500, 1, 3, 0.98)
	slow, _ := entities.NewSupplier("SlowSup", 20, 300, 4, 7, 0.9)
	catalog := &entities.Catalog{
		Suppliers: []*entities.Supplier{fast, slow},
		Items: []entities.ItemSpec{
			{SKU: "S1", Name: "Soap", InitialStock: 150, AnnualDemand: 1200, UnitCost: decimal.NewFromInt(10), HoldingCost: decimal.NewFromFloat(1.5), OrderCost: decimal.NewFromInt(20), MaxCapacity: 1000, SupplierName: "FastSup"},
			{SKU: "B1", Name: "Biscuits", InitialStock: 200, AnnualDemand: 2000, UnitCost: decimal.NewFromInt(5), HoldingCost: decimal.NewFromFloat(0.8), OrderCost: decimal.NewFromInt(15), MaxCapacity: 1500, SupplierName: "SlowSup"},
		},
	}
	heuristic, _ := restock.NewHeuristicStrategy(0.3, 2)

	for i := 0; i < b.N; i++ {
		items, _ := catalog.Build()
		w, _ := NewWarehouse(heuristic, entities.NewRandomSource(42))
		for _, item := range items {
			_ = w.RegisterItem(item)
		}
		if err := w.Simulate(context.Background(), 365); err != nil {
			b.Fatal(err)
		}
	}
}
