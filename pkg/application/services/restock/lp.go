package restock

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/restock/pkg/domain/entities"
	"github.com/vsinha/restock/pkg/domain/services/optimization"
)

// LPConfig holds the LP strategy parameters
type LPConfig struct {
	// ShortagePenalty is the cost per unit of unmet horizon demand
	ShortagePenalty float64
	// PlanningDays is the demand horizon covered by each plan
	PlanningDays int
	// Budget caps total purchase cost per plan; nil means no cap
	Budget *decimal.Decimal
}

// DefaultLPConfig returns a 100 penalty over a 30 day horizon with no budget
func DefaultLPConfig() LPConfig {
	return LPConfig{ShortagePenalty: 100, PlanningDays: 30}
}

// LPStrategy solves one linear program per day over all SKUs:
//
//	min  Σ unit·Q + (holding/2)·Q + penalty·S
//	s.t. stock + Q + incoming − S >= daily·horizon
//	     Q <= min(supplier max, capacity − stock)
//	     Σ unit·Q <= budget            (optional)
type LPStrategy struct {
	solver optimization.Solver
	config LPConfig
}

// NewLPStrategy creates an LP strategy. A nil solver is a fatal configuration error.
func NewLPStrategy(solver optimization.Solver, config LPConfig) (*LPStrategy, error) {
	if solver == nil {
		return nil, ErrSolverUnavailable
	}
	if config.ShortagePenalty < 0 {
		return nil, fmt.Errorf("%w: shortage penalty cannot be negative, got %g", ErrInvalidParameter, config.ShortagePenalty)
	}
	if config.PlanningDays < 0 {
		return nil, fmt.Errorf("%w: planning days cannot be negative, got %d", ErrInvalidParameter, config.PlanningDays)
	}
	return &LPStrategy{solver: solver, config: config}, nil
}

// Verify interface compliance
var _ Strategy = (*LPStrategy)(nil)

// Name returns the strategy label
func (s *LPStrategy) Name() string { return "LP" }

// Config returns the strategy parameters
func (s *LPStrategy) Config() LPConfig { return s.config }

// Plan solves the day's program. Solver failures are returned, never
// converted into an empty plan.
func (s *LPStrategy) Plan(view WarehouseView, day entities.Day) (Plan, error) {
	items := view.ItemStates()
	if len(items) == 0 {
		return Plan{}, nil
	}

	problem := s.BuildProblem(view, items, day)

	solution, err := s.solver.Solve(problem)
	if err != nil {
		return nil, fmt.Errorf("lp plan for day %d: %w", day, err)
	}

	plan := make(Plan, len(items))
	for k, item := range items {
		q := roundQuantity(solution.Value(k))
		if q > 0 && q < item.Supplier.MinOrder {
			q = item.Supplier.MinOrder
		}
		plan[item.SKU] = q
	}
	return plan, nil
}

// BuildProblem lays out Q for each item in columns [0, n) and S in [n, 2n)
func (s *LPStrategy) BuildProblem(view WarehouseView, items []entities.ItemState, day entities.Day) *optimization.Problem {
	n := len(items)
	variables := make([]string, 0, 2*n)
	for _, item := range items {
		variables = append(variables, fmt.Sprintf("Q_%s", item.SKU))
	}
	for _, item := range items {
		variables = append(variables, fmt.Sprintf("S_%s", item.SKU))
	}

	problem := optimization.NewProblem("restock_with_shortage", variables)
	horizonEnd := day + entities.Day(s.config.PlanningDays)
	budgetRow := make(map[int]float64, n)

	for k, item := range items {
		q, short := k, n+k
		unit := item.UnitCost.InexactFloat64()
		holding := item.HoldingCost.InexactFloat64()

		problem.Objective[q] = unit + holding/2.0
		problem.Objective[short] = s.config.ShortagePenalty

		demand := item.DailyDemand * float64(s.config.PlanningDays)
		incoming := view.IncomingWithin(item.SKU, day, horizonEnd)
		// stock + Q + incoming - S >= demand
		problem.AddGreaterEqual(
			fmt.Sprintf("cover_%s", item.SKU),
			map[int]float64{q: 1, short: -1},
			demand-float64(item.Stock)-float64(incoming),
		)

		upper := min(item.Supplier.MaxSupplyPerOrder, item.Headroom())
		problem.AddLessEqual(fmt.Sprintf("cap_%s", item.SKU), map[int]float64{q: 1}, float64(upper))

		budgetRow[q] = unit
	}

	if s.config.Budget != nil {
		problem.AddLessEqual("budget", budgetRow, s.config.Budget.InexactFloat64())
	}

	return problem
}
