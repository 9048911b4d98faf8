package simulation

import (
	"errors"
	"fmt"

	"github.com/vsinha/restock/pkg/domain/entities"
)

var (
	ErrNilStrategy         = errors.New("warehouse requires a restock strategy")
	ErrNilRandomSource     = errors.New("warehouse requires a random source")
	ErrInvalidDemandRange  = errors.New("invalid demand range")
	ErrInvalidDays         = errors.New("days must be non-negative")
	ErrWarehouseRunning    = errors.New("warehouse simulation already started")
	ErrSimulationCompleted = errors.New("warehouse simulation already completed")
	ErrNegativePlan        = errors.New("strategy planned a negative quantity")
)

// PlanError reports a strategy failure on a specific planning day
type PlanError struct {
	Day      entities.Day
	Strategy string
	Err      error
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("strategy %s failed on day %d: %v", e.Strategy, e.Day, e.Err)
}

func (e *PlanError) Unwrap() error {
	return e.Err
}
