package restock

import (
	"fmt"
	"math"

	"github.com/vsinha/restock/pkg/domain/entities"
)

// HeuristicStrategy refills a fixed number of weeks of demand whenever stock
// drops below one day of demand plus a safety buffer.
type HeuristicStrategy struct {
	SafetyFactor float64
	Weeks        int
}

// NewHeuristicStrategy creates a heuristic strategy
func NewHeuristicStrategy(safetyFactor float64, weeks int) (*HeuristicStrategy, error) {
	if safetyFactor < 0 || math.IsNaN(safetyFactor) {
		return nil, fmt.Errorf("%w: safety factor cannot be negative, got %g", ErrInvalidParameter, safetyFactor)
	}
	if weeks < 0 {
		return nil, fmt.Errorf("%w: weeks cannot be negative, got %d", ErrInvalidParameter, weeks)
	}
	return &HeuristicStrategy{SafetyFactor: safetyFactor, Weeks: weeks}, nil
}

// Verify interface compliance
var _ Strategy = (*HeuristicStrategy)(nil)

// Name returns the strategy label
func (s *HeuristicStrategy) Name() string { return "Heuristic" }

// Plan orders round(daily*7*weeks) for every item below its threshold
func (s *HeuristicStrategy) Plan(view WarehouseView, day entities.Day) (Plan, error) {
	plan := make(Plan)
	for _, item := range view.ItemStates() {
		if item.Stock < s.Threshold(item.DailyDemand) {
			plan[item.SKU] = s.RefillQuantity(item.DailyDemand)
		}
	}
	return plan, nil
}

// SafetyStock returns ceil(dailyDemand * SafetyFactor)
func (s *HeuristicStrategy) SafetyStock(dailyDemand float64) entities.Quantity {
	return entities.Quantity(math.Ceil(dailyDemand * s.SafetyFactor))
}

// Threshold is floor(dailyDemand) plus the safety stock
func (s *HeuristicStrategy) Threshold(dailyDemand float64) entities.Quantity {
	return entities.Quantity(math.Floor(dailyDemand)) + s.SafetyStock(dailyDemand)
}

// RefillQuantity covers Weeks weeks of demand
func (s *HeuristicStrategy) RefillQuantity(dailyDemand float64) entities.Quantity {
	return roundQuantity(dailyDemand * 7 * float64(s.Weeks))
}
