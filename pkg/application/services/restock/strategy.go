// Package restock holds the replenishment policies that turn warehouse state
// into a daily order plan. Policies read state through WarehouseView and never
// mutate it; the warehouse places the orders afterwards.
package restock

import (
	"errors"
	"math"

	"github.com/vsinha/restock/pkg/domain/entities"
)

var (
	ErrSolverUnavailable = errors.New("lp solver unavailable")
	ErrInvalidParameter  = errors.New("invalid strategy parameter")
)

// Plan maps a SKU to a requested order quantity (always >= 0)
type Plan map[entities.SKU]entities.Quantity

// Total sums all planned quantities
func (p Plan) Total() entities.Quantity {
	var total entities.Quantity
	for _, q := range p {
		total += q
	}
	return total
}

// WarehouseView is the read-only warehouse state a strategy plans against
type WarehouseView interface {
	// ItemStates returns item snapshots in registration order
	ItemStates() []entities.ItemState
	// IncomingWithin sums pending arrivals for sku due in [from, to]
	IncomingWithin(sku entities.SKU, from, to entities.Day) entities.Quantity
}

// Strategy computes a day's order plan
type Strategy interface {
	Name() string
	Plan(view WarehouseView, day entities.Day) (Plan, error)
}

// roundQuantity rounds half to even and clamps at zero
func roundQuantity(v float64) entities.Quantity {
	q := entities.Quantity(math.RoundToEven(v))
	if q < 0 {
		return 0
	}
	return q
}
