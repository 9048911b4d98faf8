package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/restock/pkg/domain/entities"
)

// RunResult contains the complete output of one strategy run
type RunResult struct {
	ID           uuid.UUID         `json:"id"`
	Strategy     string            `json:"strategy"`
	Seed         int64             `json:"seed"`
	StartDay     entities.Day      `json:"start_day"`
	Days         int               `json:"days"`
	ServiceLevel float64           `json:"service_level"`
	TotalCost    decimal.Decimal   `json:"total_cost"`
	LostSales    entities.Quantity `json:"lost_sales"`
	Orders       OrderCounts       `json:"orders"`
	Items        []ItemResult      `json:"items"`
	CreatedAt    time.Time         `json:"created_at"`
}

// OrderCounts tallies journal events for a run
type OrderCounts struct {
	Placed   int `json:"placed"`
	Rejected int `json:"rejected"`
	Arrived  int `json:"arrived"`
}

// ItemResult pairs an item's final counters with its daily history
type ItemResult struct {
	entities.ItemSummary
	History entities.History `json:"history"`
}

// Comparison groups the runs of several strategies over the same scenario
type Comparison struct {
	Seed int64        `json:"seed"`
	Days int          `json:"days"`
	Runs []*RunResult `json:"runs"`
}

// Best returns the run with the highest service level, breaking ties on the
// lower total cost. Returns nil for an empty comparison.
func (c *Comparison) Best() *RunResult {
	var best *RunResult
	for _, run := range c.Runs {
		if best == nil ||
			run.ServiceLevel > best.ServiceLevel ||
			(run.ServiceLevel == best.ServiceLevel && run.TotalCost.LessThan(best.TotalCost)) {
			best = run
		}
	}
	return best
}
