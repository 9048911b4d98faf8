package commands

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/restock/pkg/application/services/orchestration"
	"github.com/vsinha/restock/pkg/application/services/restock"
	"github.com/vsinha/restock/pkg/domain/services/optimization"
	"github.com/vsinha/restock/pkg/infrastructure/config"
)

// BuildStrategies turns strategy settings into labelled strategies in the
// configured order. solver backs every LP entry.
func BuildStrategies(configs []config.StrategyConfig, solver optimization.Solver) ([]orchestration.NamedStrategy, error) {
	strategies := make([]orchestration.NamedStrategy, 0, len(configs))

	for _, sc := range configs {
		var (
			strategy restock.Strategy
			err      error
		)

		switch sc.Kind {
		case config.KindEOQ:
			strategy = restock.NewEOQStrategy()
		case config.KindHeuristic:
			strategy, err = restock.NewHeuristicStrategy(sc.SafetyFactor, sc.Weeks)
		case config.KindLP:
			lpConfig := restock.DefaultLPConfig()
			if sc.ShortagePenalty != nil {
				lpConfig.ShortagePenalty = *sc.ShortagePenalty
			}
			if sc.PlanningDays != nil {
				lpConfig.PlanningDays = *sc.PlanningDays
			}
			if sc.Budget != nil {
				budget := decimal.NewFromFloat(*sc.Budget)
				lpConfig.Budget = &budget
			}
			strategy, err = restock.NewLPStrategy(solver, lpConfig)
		default:
			return nil, fmt.Errorf("strategy %s: unknown kind %q", sc.Name, sc.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", sc.Name, err)
		}

		strategies = append(strategies, orchestration.NamedStrategy{Label: sc.Name, Strategy: strategy})
	}

	return strategies, nil
}
