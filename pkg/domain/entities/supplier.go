package entities

import (
	"fmt"
	"math"
)

// Supplier models stochastic fulfillment for one vendor. It holds no cumulative
// state and may be shared by several items.
type Supplier struct {
	Name              string
	MinOrder          Quantity
	MaxSupplyPerOrder Quantity
	LeadTimeMin       int
	LeadTimeMax       int
	FillRate          float64
}

// NewSupplier creates a validated Supplier
func NewSupplier(name string, minOrder, maxSupplyPerOrder Quantity, leadTimeMin, leadTimeMax int, fillRate float64) (*Supplier, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidSupplier)
	}
	if minOrder < 0 {
		return nil, fmt.Errorf("%w: minimum order cannot be negative, got %d", ErrInvalidSupplier, minOrder)
	}
	if maxSupplyPerOrder < 0 {
		return nil, fmt.Errorf("%w: max supply per order cannot be negative, got %d", ErrInvalidSupplier, maxSupplyPerOrder)
	}
	if leadTimeMin < 0 || leadTimeMin > leadTimeMax {
		return nil, fmt.Errorf("%w: invalid lead time range [%d, %d]", ErrInvalidSupplier, leadTimeMin, leadTimeMax)
	}
	if math.IsNaN(fillRate) || fillRate < 0 || fillRate > 1 {
		return nil, fmt.Errorf("%w: fill rate must be in [0, 1], got %g", ErrInvalidSupplier, fillRate)
	}

	return &Supplier{
		Name:              name,
		MinOrder:          minOrder,
		MaxSupplyPerOrder: maxSupplyPerOrder,
		LeadTimeMin:       leadTimeMin,
		LeadTimeMax:       leadTimeMax,
		FillRate:          fillRate,
	}, nil
}

// PlaceOrder returns the accepted quantity and arrival day for a request.
// ok is false when the request is non-positive or below MinOrder; no lead time
// is drawn in that case.
func (s Supplier) PlaceOrder(sku SKU, requested Quantity, day Day, rng RandomSource) (accepted Quantity, arrival Day, ok bool) {
	if requested <= 0 || requested < s.MinOrder {
		return 0, 0, false
	}

	capped := min(requested, s.MaxSupplyPerOrder)
	accepted = Quantity(math.RoundToEven(float64(capped) * s.FillRate))

	leadTime := UniformInt(rng, s.LeadTimeMin, s.LeadTimeMax)
	return accepted, day + Day(leadTime), true
}

// ExpectedLeadTimeMean returns the midpoint of the lead time range
func (s Supplier) ExpectedLeadTimeMean() float64 {
	return float64(s.LeadTimeMin+s.LeadTimeMax) / 2.0
}
