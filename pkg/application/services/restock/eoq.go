package restock

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/vsinha/restock/pkg/domain/entities"
)

// EOQStrategy orders the economic order quantity whenever stock falls to the
// reorder point implied by the supplier's mean lead time.
type EOQStrategy struct{}

// NewEOQStrategy creates an EOQ strategy
func NewEOQStrategy() *EOQStrategy {
	return &EOQStrategy{}
}

// Verify interface compliance
var _ Strategy = (*EOQStrategy)(nil)

// Name returns the strategy label
func (s *EOQStrategy) Name() string { return "EOQ" }

// Plan orders Q for every item at or below its reorder point. Items with a
// non-positive demand, order cost or holding cost are skipped.
func (s *EOQStrategy) Plan(view WarehouseView, day entities.Day) (Plan, error) {
	plan := make(Plan)
	for _, item := range view.ItemStates() {
		if item.AnnualDemand <= 0 || !item.OrderCost.IsPositive() || !item.HoldingCost.IsPositive() {
			continue
		}
		q := EconomicOrderQuantity(item.AnnualDemand, item.OrderCost, item.HoldingCost)
		r := ReorderPoint(item.DailyDemand, item.Supplier.ExpectedLeadTimeMean())
		if item.Stock <= r {
			plan[item.SKU] = q
		}
	}
	return plan, nil
}

// EconomicOrderQuantity returns round(sqrt(2DS/H))
func EconomicOrderQuantity(annualDemand float64, orderCost, holdingCost decimal.Decimal) entities.Quantity {
	s := orderCost.InexactFloat64()
	h := holdingCost.InexactFloat64()
	if annualDemand <= 0 || s <= 0 || h <= 0 {
		return 0
	}
	return roundQuantity(math.Sqrt(2 * annualDemand * s / h))
}

// ReorderPoint returns ceil(dailyDemand * meanLeadTime)
func ReorderPoint(dailyDemand, meanLeadTime float64) entities.Quantity {
	return entities.Quantity(math.Ceil(dailyDemand * meanLeadTime))
}
