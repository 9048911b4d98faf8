package testing

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/restock/pkg/domain/entities"
)

// mustCreateSupplier is a helper for tests - panics on validation error
func mustCreateSupplier(
	name string,
	minOrder, maxSupply entities.Quantity,
	leadMin, leadMax int,
	fillRate float64,
) *entities.Supplier {
	supplier, err := entities.NewSupplier(name, minOrder, maxSupply, leadMin, leadMax, fillRate)
	if err != nil {
		panic(err)
	}
	return supplier
}

func itemSpec(
	sku, name string,
	stock entities.Quantity,
	annualDemand float64,
	unitCost, holdingCost, orderCost string,
	capacity entities.Quantity,
	supplier string,
) entities.ItemSpec {
	return entities.ItemSpec{
		SKU:          entities.SKU(sku),
		Name:         name,
		InitialStock: stock,
		AnnualDemand: annualDemand,
		UnitCost:     decimal.RequireFromString(unitCost),
		HoldingCost:  decimal.RequireFromString(holdingCost),
		OrderCost:    decimal.RequireFromString(orderCost),
		MaxCapacity:  capacity,
		SupplierName: supplier,
	}
}

// BuildGroceryCatalog builds the four-item grocery scenario with one fast and
// one slow supplier
func BuildGroceryCatalog() *entities.Catalog {
	return &entities.Catalog{
		Suppliers: []*entities.Supplier{
			mustCreateSupplier("FastSup", 10, 500, 1, 3, 0.98),
			mustCreateSupplier("SlowSup", 20, 300, 4, 7, 0.9),
		},
		Items: []entities.ItemSpec{
			itemSpec("S1", "Soap", 150, 1200, "10", "1.5", "20", 1000, "FastSup"),
			itemSpec("S2", "Shampoo", 120, 1500, "25", "3.0", "40", 800, "FastSup"),
			itemSpec("B1", "Biscuits", 200, 2000, "5", "0.8", "15", 1500, "SlowSup"),
			itemSpec("T1", "Toothpaste", 100, 1000, "12", "1.8", "30", 700, "FastSup"),
		},
	}
}

// BuildSimpleCatalog builds a two-item catalog, one item per supplier
func BuildSimpleCatalog() *entities.Catalog {
	return &entities.Catalog{
		Suppliers: []*entities.Supplier{
			mustCreateSupplier("FastSup", 10, 500, 1, 3, 0.98),
			mustCreateSupplier("SlowSup", 20, 300, 4, 7, 0.9),
		},
		Items: []entities.ItemSpec{
			itemSpec("S1", "Soap", 150, 1200, "10", "1.5", "20", 1000, "FastSup"),
			itemSpec("B1", "Biscuits", 200, 2000, "5", "0.8", "15", 1500, "SlowSup"),
		},
	}
}
