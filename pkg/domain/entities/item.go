package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SKU represents a unique stock keeping unit identifier
type SKU string

// Quantity represents an integer quantity of discrete units
type Quantity int64

// Day is a simulated day number
type Day int

// DaysPerYear converts annual demand into daily demand
const DaysPerYear = 365.0

// History holds one entry per simulated day, indexed by day offset from the start of the run
type History struct {
	Stock   []Quantity        `json:"stock"`
	Demand  []Quantity        `json:"demand"`
	Reorder []Quantity        `json:"reorder"`
	Cost    []decimal.Decimal `json:"cost"`
}

// Len returns the number of recorded days
func (h History) Len() int {
	return len(h.Stock)
}

// InventoryItem represents a stocked SKU with its cost parameters and running counters
type InventoryItem struct {
	SKU          SKU
	Name         string
	AnnualDemand float64
	DailyDemand  float64
	UnitCost     decimal.Decimal
	HoldingCost  decimal.Decimal
	OrderCost    decimal.Decimal
	MaxCapacity  Quantity
	Supplier     *Supplier

	stock        Quantity
	totalOrdered Quantity
	totalCost    decimal.Decimal
	lostSales    Quantity
	history      History
}

// NewInventoryItem creates a validated InventoryItem
func NewInventoryItem(
	sku SKU,
	name string,
	initialStock Quantity,
	annualDemand float64,
	unitCost, holdingCost, orderCost decimal.Decimal,
	maxCapacity Quantity,
	supplier *Supplier,
) (*InventoryItem, error) {
	if string(sku) == "" {
		return nil, fmt.Errorf("%w: sku cannot be empty", ErrInvalidItem)
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: item %s has no supplier", ErrInvalidItem, sku)
	}
	if maxCapacity < 0 {
		return nil, fmt.Errorf("%w: max capacity cannot be negative, got %d", ErrInvalidItem, maxCapacity)
	}
	if initialStock < 0 || initialStock > maxCapacity {
		return nil, fmt.Errorf("%w: initial stock %d outside [0, %d]", ErrInvalidItem, initialStock, maxCapacity)
	}
	if annualDemand < 0 {
		return nil, fmt.Errorf("%w: annual demand cannot be negative, got %g", ErrInvalidItem, annualDemand)
	}
	if unitCost.IsNegative() || holdingCost.IsNegative() || orderCost.IsNegative() {
		return nil, fmt.Errorf("%w: costs cannot be negative for item %s", ErrInvalidItem, sku)
	}

	return &InventoryItem{
		SKU:          sku,
		Name:         name,
		AnnualDemand: annualDemand,
		DailyDemand:  annualDemand / DaysPerYear,
		UnitCost:     unitCost,
		HoldingCost:  holdingCost,
		OrderCost:    orderCost,
		MaxCapacity:  maxCapacity,
		Supplier:     supplier,
		stock:        initialStock,
		totalCost:    decimal.Zero,
	}, nil
}

// Stock returns the current on-hand quantity
func (i *InventoryItem) Stock() Quantity { return i.stock }

// TotalOrdered returns the cumulative accepted order quantity
func (i *InventoryItem) TotalOrdered() Quantity { return i.totalOrdered }

// TotalCost returns the cumulative ordering and purchase cost
func (i *InventoryItem) TotalCost() decimal.Decimal { return i.totalCost }

// LostSales returns the cumulative unmet demand
func (i *InventoryItem) LostSales() Quantity { return i.lostSales }

// Sell removes up to qty units from stock. The shortfall is counted as lost sales.
func (i *InventoryItem) Sell(qty Quantity) (sold, lost Quantity, err error) {
	if qty < 0 {
		return 0, 0, fmt.Errorf("%w: cannot sell %d units of %s", ErrInvalidQuantity, qty, i.SKU)
	}
	sold = min(i.stock, qty)
	i.stock -= sold
	lost = qty - sold
	i.lostSales += lost
	return sold, lost, nil
}

// Receive adds qty units to stock up to MaxCapacity and returns the accepted amount.
// Units beyond capacity are dropped.
func (i *InventoryItem) Receive(qty Quantity) (Quantity, error) {
	if qty < 0 {
		return 0, fmt.Errorf("%w: cannot receive %d units of %s", ErrInvalidQuantity, qty, i.SKU)
	}
	accepted := min(qty, max(0, i.MaxCapacity-i.stock))
	i.stock += accepted
	return accepted, nil
}

// AddCostForOrder charges the fixed order cost plus qty*UnitCost for an accepted order
func (i *InventoryItem) AddCostForOrder(qty Quantity) {
	if qty <= 0 {
		return
	}
	i.totalCost = i.totalCost.Add(i.OrderCost).Add(i.UnitCost.Mul(decimal.NewFromInt(int64(qty))))
	i.totalOrdered += qty
}

// RecordDay appends the end-of-day snapshot. Call once per day after all stock changes.
func (i *InventoryItem) RecordDay(demand, requested Quantity) {
	i.history.Stock = append(i.history.Stock, i.stock)
	i.history.Demand = append(i.history.Demand, demand)
	i.history.Reorder = append(i.history.Reorder, requested)
	i.history.Cost = append(i.history.Cost, i.totalCost)
}

// History returns a copy of the recorded daily history
func (i *InventoryItem) History() History {
	return History{
		Stock:   append([]Quantity(nil), i.history.Stock...),
		Demand:  append([]Quantity(nil), i.history.Demand...),
		Reorder: append([]Quantity(nil), i.history.Reorder...),
		Cost:    append([]decimal.Decimal(nil), i.history.Cost...),
	}
}

// TotalDemand sums the recorded daily demand
func (i *InventoryItem) TotalDemand() Quantity {
	var total Quantity
	for _, d := range i.history.Demand {
		total += d
	}
	return total
}

// State returns a read-only view of the item for planning
func (i *InventoryItem) State() ItemState {
	return ItemState{
		SKU:          i.SKU,
		Name:         i.Name,
		Stock:        i.stock,
		AnnualDemand: i.AnnualDemand,
		DailyDemand:  i.DailyDemand,
		UnitCost:     i.UnitCost,
		HoldingCost:  i.HoldingCost,
		OrderCost:    i.OrderCost,
		MaxCapacity:  i.MaxCapacity,
		Supplier:     *i.Supplier,
	}
}

// ItemState is a value snapshot of an InventoryItem handed to restocking strategies
type ItemState struct {
	SKU          SKU
	Name         string
	Stock        Quantity
	AnnualDemand float64
	DailyDemand  float64
	UnitCost     decimal.Decimal
	HoldingCost  decimal.Decimal
	OrderCost    decimal.Decimal
	MaxCapacity  Quantity
	Supplier     Supplier
}

// Headroom returns the free capacity above current stock
func (s ItemState) Headroom() Quantity {
	return max(0, s.MaxCapacity-s.Stock)
}

// ItemSummary is the per-item row handed to reporting
type ItemSummary struct {
	SKU          SKU             `json:"sku"`
	Name         string          `json:"name"`
	Stock        Quantity        `json:"stock"`
	TotalOrdered Quantity        `json:"total_ordered"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	LostSales    Quantity        `json:"lost_sales"`
}

// Summary returns the reporting row for this item
func (i *InventoryItem) Summary() ItemSummary {
	return ItemSummary{
		SKU:          i.SKU,
		Name:         i.Name,
		Stock:        i.stock,
		TotalOrdered: i.totalOrdered,
		TotalCost:    i.totalCost,
		LostSales:    i.lostSales,
	}
}
