package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ItemSpec describes an item before it is bound to a warehouse run
type ItemSpec struct {
	SKU          SKU
	Name         string
	InitialStock Quantity
	AnnualDemand float64
	UnitCost     decimal.Decimal
	HoldingCost  decimal.Decimal
	OrderCost    decimal.Decimal
	MaxCapacity  Quantity
	SupplierName string
}

// Catalog is the set of suppliers and item definitions for a scenario.
// Items keep their declared order, which is the registration order of a run.
type Catalog struct {
	Suppliers []*Supplier
	Items     []ItemSpec
}

// Supplier looks up a supplier by name
func (c *Catalog) Supplier(name string) (*Supplier, error) {
	for _, s := range c.Suppliers {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSupplier, name)
}

// Build creates fresh InventoryItems for one run. Each call returns independent
// item state; suppliers are shared since they are immutable.
func (c *Catalog) Build() ([]*InventoryItem, error) {
	seen := make(map[SKU]bool, len(c.Items))
	items := make([]*InventoryItem, 0, len(c.Items))

	for _, spec := range c.Items {
		if seen[spec.SKU] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSKU, spec.SKU)
		}
		seen[spec.SKU] = true

		supplier, err := c.Supplier(spec.SupplierName)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", spec.SKU, err)
		}

		item, err := NewInventoryItem(
			spec.SKU,
			spec.Name,
			spec.InitialStock,
			spec.AnnualDemand,
			spec.UnitCost,
			spec.HoldingCost,
			spec.OrderCost,
			spec.MaxCapacity,
			supplier,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}
