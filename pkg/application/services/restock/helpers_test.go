package restock

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/restock/pkg/domain/entities"
	"github.com/vsinha/restock/pkg/domain/services/optimization"
)

type arrival struct {
	sku entities.SKU
	day entities.Day
	qty entities.Quantity
}

// fakeView serves fixed item states and pending arrivals
type fakeView struct {
	items    []entities.ItemState
	arrivals []arrival
}

func (v *fakeView) ItemStates() []entities.ItemState {
	return v.items
}

func (v *fakeView) IncomingWithin(sku entities.SKU, from, to entities.Day) entities.Quantity {
	var total entities.Quantity
	for _, a := range v.arrivals {
		if a.sku == sku && a.day >= from && a.day <= to {
			total += a.qty
		}
	}
	return total
}

// fakeSolver returns canned values or an error and records the problem
type fakeSolver struct {
	values []float64
	err    error
	last   *optimization.Problem
}

func (s *fakeSolver) Solve(p *optimization.Problem) (*optimization.Solution, error) {
	s.last = p
	if s.err != nil {
		return nil, s.err
	}
	values := make([]float64, len(p.Variables))
	copy(values, s.values)
	return &optimization.Solution{Values: values}, nil
}

func testSupplier(minOrder, maxSupply entities.Quantity, low, high int) entities.Supplier {
	return entities.Supplier{
		Name:              "TestSup",
		MinOrder:          minOrder,
		MaxSupplyPerOrder: maxSupply,
		LeadTimeMin:       low,
		LeadTimeMax:       high,
		FillRate:          1.0,
	}
}

func testState(sku entities.SKU, stock entities.Quantity, dailyDemand float64, capacity entities.Quantity, supplier entities.Supplier) entities.ItemState {
	return entities.ItemState{
		SKU:          sku,
		Name:         string(sku),
		Stock:        stock,
		AnnualDemand: dailyDemand * entities.DaysPerYear,
		DailyDemand:  dailyDemand,
		UnitCost:     decimal.NewFromInt(10),
		HoldingCost:  decimal.NewFromInt(1),
		OrderCost:    decimal.NewFromInt(10),
		MaxCapacity:  capacity,
		Supplier:     supplier,
	}
}
