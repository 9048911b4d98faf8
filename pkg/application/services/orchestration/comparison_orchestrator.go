// Package orchestration runs several restocking strategies against the same
// scenario and collects comparable results.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/restock/pkg/application/dto"
	"github.com/vsinha/restock/pkg/application/services/restock"
	"github.com/vsinha/restock/pkg/application/services/simulation"
	"github.com/vsinha/restock/pkg/domain/entities"
	"github.com/vsinha/restock/pkg/domain/repositories"
	"github.com/vsinha/restock/pkg/infrastructure/events"
)

// ErrJournalMismatch reports item counters that disagree with the journal
var ErrJournalMismatch = errors.New("journal does not match item counters")

// RunSettings holds the parameters shared by every run in a comparison
type RunSettings struct {
	Days      int
	Seed      int64
	StartDay  entities.Day
	DemandMin int
	DemandMax int
}

// DefaultRunSettings returns 90 days from day 1, seed 42, demand [5, 15]
func DefaultRunSettings() RunSettings {
	return RunSettings{
		Days:      90,
		Seed:      42,
		StartDay:  simulation.DefaultStartDay,
		DemandMin: simulation.DefaultDemandMin,
		DemandMax: simulation.DefaultDemandMax,
	}
}

// NamedStrategy labels a strategy for reporting; several entries may share a
// strategy kind with different parameters
type NamedStrategy struct {
	Label    string
	Strategy restock.Strategy
}

// ComparisonOrchestrator builds one isolated warehouse per strategy from a
// shared catalog and persists each completed run
type ComparisonOrchestrator struct {
	catalog *entities.Catalog
	runRepo repositories.RunRepository
	log     *zap.Logger
	now     func() time.Time
}

// NewComparisonOrchestrator creates an orchestrator. runRepo may be nil to
// skip persistence; log may be nil.
func NewComparisonOrchestrator(
	catalog *entities.Catalog,
	runRepo repositories.RunRepository,
	log *zap.Logger,
) *ComparisonOrchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &ComparisonOrchestrator{
		catalog: catalog,
		runRepo: runRepo,
		log:     log,
		now:     time.Now,
	}
}

// Compare runs every strategy in order. Each run gets fresh items and its own
// random source seeded with settings.Seed, so runs never share state and the
// first strategy failure aborts the comparison.
func (o *ComparisonOrchestrator) Compare(
	ctx context.Context,
	strategies []NamedStrategy,
	settings RunSettings,
) (*dto.Comparison, error) {
	if len(strategies) == 0 {
		return nil, fmt.Errorf("no strategies provided for comparison")
	}

	comparison := &dto.Comparison{Seed: settings.Seed, Days: settings.Days}
	for _, named := range strategies {
		run, err := o.RunStrategy(ctx, named, settings)
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", named.Label, err)
		}
		comparison.Runs = append(comparison.Runs, run)
	}

	return comparison, nil
}

// RunStrategy simulates a single strategy and returns its result
func (o *ComparisonOrchestrator) RunStrategy(
	ctx context.Context,
	named NamedStrategy,
	settings RunSettings,
) (*dto.RunResult, error) {
	if named.Label == "" && named.Strategy != nil {
		named.Label = named.Strategy.Name()
	}

	items, err := o.catalog.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}

	journal := events.NewInMemoryEventStore()
	counter := &orderCounter{}
	if err := journal.Subscribe(counter.eventTypes(), counter); err != nil {
		return nil, err
	}

	warehouse, err := simulation.NewWarehouse(
		named.Strategy,
		entities.NewRandomSource(settings.Seed),
		simulation.WithLogger(o.log.With(zap.String("run", named.Label))),
		simulation.WithEventStore(journal),
		simulation.WithDemandRange(settings.DemandMin, settings.DemandMax),
		simulation.WithStartDay(settings.StartDay),
	)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := warehouse.RegisterItem(item); err != nil {
			return nil, err
		}
	}

	if err := warehouse.Simulate(ctx, settings.Days); err != nil {
		return nil, err
	}
	if err := auditJournal(journal, warehouse.Items()); err != nil {
		return nil, fmt.Errorf("run %s: %w", named.Label, err)
	}

	run := buildRunResult(warehouse, named.Label, settings)
	run.ID = uuid.New()
	run.CreatedAt = o.now()
	run.Orders = counter.counts

	if o.runRepo != nil {
		if err := o.runRepo.SaveRun(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to save run %s: %w", run.ID, err)
		}
	}

	o.log.Info("run finished",
		zap.String("strategy", named.Label),
		zap.String("run_id", run.ID.String()),
		zap.Float64("service_level", run.ServiceLevel),
		zap.String("total_cost", run.TotalCost.StringFixed(2)),
	)

	return run, nil
}

func buildRunResult(w *simulation.Warehouse, label string, settings RunSettings) *dto.RunResult {
	run := &dto.RunResult{
		Strategy:     label,
		Seed:         settings.Seed,
		StartDay:     settings.StartDay,
		Days:         settings.Days,
		ServiceLevel: w.ServiceLevel(),
		TotalCost:    decimal.Zero,
	}

	for _, item := range w.Items() {
		summary := item.Summary()
		run.TotalCost = run.TotalCost.Add(summary.TotalCost)
		run.LostSales += summary.LostSales
		run.Items = append(run.Items, dto.ItemResult{
			ItemSummary: summary,
			History:     item.History(),
		})
	}

	return run
}

// auditJournal replays each item's order.placed events and checks them
// against the item's total ordered quantity and total cost
func auditJournal(journal events.EventStore, items []*entities.InventoryItem) error {
	for _, item := range items {
		stream, err := journal.ReadEvents(string(item.SKU), 0)
		if err != nil {
			return err
		}

		var ordered entities.Quantity
		cost := decimal.Zero
		for _, event := range stream {
			placed, ok := event.Data().(events.OrderPlaced)
			if !ok {
				continue
			}
			ordered += placed.Accepted
			cost = cost.Add(item.OrderCost).Add(item.UnitCost.Mul(decimal.NewFromInt(int64(placed.Accepted))))
		}

		if ordered != item.TotalOrdered() || !cost.Equal(item.TotalCost()) {
			return fmt.Errorf("%w: %s journal ordered %d for %s, item ordered %d for %s",
				ErrJournalMismatch, item.SKU, ordered, cost.StringFixed(2), item.TotalOrdered(), item.TotalCost().StringFixed(2))
		}
	}
	return nil
}

// orderCounter tallies journal events as they are appended
type orderCounter struct {
	counts dto.OrderCounts
}

func (c *orderCounter) eventTypes() []string {
	return []string{events.OrderPlacedEvent, events.OrderRejectedEvent, events.ArrivalReceivedEvent}
}

func (c *orderCounter) CanHandle(eventType string) bool {
	switch eventType {
	case events.OrderPlacedEvent, events.OrderRejectedEvent, events.ArrivalReceivedEvent:
		return true
	}
	return false
}

func (c *orderCounter) Handle(event events.Event) error {
	switch event.Type() {
	case events.OrderPlacedEvent:
		c.counts.Placed++
	case events.OrderRejectedEvent:
		c.counts.Rejected++
	case events.ArrivalReceivedEvent:
		c.counts.Arrived++
	}
	return nil
}
