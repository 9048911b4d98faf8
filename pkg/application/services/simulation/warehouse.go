// Package simulation runs the day-stepped warehouse replenishment loop.
package simulation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/restock/pkg/application/services/restock"
	"github.com/vsinha/restock/pkg/domain/entities"
	"github.com/vsinha/restock/pkg/infrastructure/events"
)

// Default demand draw range and first simulated day
const (
	DefaultDemandMin = 5
	DefaultDemandMax = 15
	DefaultStartDay  = entities.Day(1)
)

// State is the warehouse lifecycle stage
type State int

const (
	Uninitialized State = iota
	Running
	Completed
	Failed
)

// String method for State enum
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Running:
		return "Running"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Warehouse owns the items, the pending arrivals and the active strategy for one run
type Warehouse struct {
	strategy restock.Strategy
	rng      entities.RandomSource
	log      *zap.Logger
	journal  events.EventStore

	items    []*entities.InventoryItem
	index    map[entities.SKU]*entities.InventoryItem
	incoming *arrivalIndex

	demandMin int
	demandMax int
	startDay  entities.Day
	day       entities.Day
	state     State
}

// Option configures a Warehouse
type Option func(*Warehouse)

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(w *Warehouse) {
		if log != nil {
			w.log = log
		}
	}
}

// WithEventStore records order, arrival and lost-sale events
func WithEventStore(store events.EventStore) Option {
	return func(w *Warehouse) {
		w.journal = store
	}
}

// WithDemandRange sets the inclusive daily demand draw range
func WithDemandRange(low, high int) Option {
	return func(w *Warehouse) {
		w.demandMin = low
		w.demandMax = high
	}
}

// WithStartDay sets the first simulated day
func WithStartDay(day entities.Day) Option {
	return func(w *Warehouse) {
		w.startDay = day
	}
}

// NewWarehouse creates an empty warehouse. rng must not be shared with another
// warehouse if both runs are to stay reproducible.
func NewWarehouse(strategy restock.Strategy, rng entities.RandomSource, opts ...Option) (*Warehouse, error) {
	if strategy == nil {
		return nil, ErrNilStrategy
	}
	if rng == nil {
		return nil, ErrNilRandomSource
	}

	w := &Warehouse{
		strategy:  strategy,
		rng:       rng,
		log:       zap.NewNop(),
		index:     make(map[entities.SKU]*entities.InventoryItem),
		incoming:  newArrivalIndex(),
		demandMin: DefaultDemandMin,
		demandMax: DefaultDemandMax,
		startDay:  DefaultStartDay,
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.demandMin < 0 || w.demandMin > w.demandMax {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidDemandRange, w.demandMin, w.demandMax)
	}
	return w, nil
}

// RegisterItem adds an item. Registration order fixes the per-day draw order.
func (w *Warehouse) RegisterItem(item *entities.InventoryItem) error {
	if item == nil {
		return fmt.Errorf("%w: nil item", entities.ErrInvalidItem)
	}
	if w.state != Uninitialized {
		return fmt.Errorf("register %s: %w", item.SKU, ErrWarehouseRunning)
	}
	if _, exists := w.index[item.SKU]; exists {
		return fmt.Errorf("%w: %s", entities.ErrDuplicateSKU, item.SKU)
	}
	w.items = append(w.items, item)
	w.index[item.SKU] = item
	return nil
}

// Simulate advances the warehouse through days consecutive days. It may be
// called once; a strategy failure stops the run and is returned as *PlanError.
func (w *Warehouse) Simulate(ctx context.Context, days int) error {
	switch w.state {
	case Running:
		return ErrWarehouseRunning
	case Completed, Failed:
		return ErrSimulationCompleted
	}
	if days < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDays, days)
	}

	w.state = Running
	w.log.Info("simulation started",
		zap.String("strategy", w.strategy.Name()),
		zap.Int("items", len(w.items)),
		zap.Int("days", days),
		zap.Int("start_day", int(w.startDay)),
	)

	end := w.startDay + entities.Day(days)
	for day := w.startDay; day < end; day++ {
		if err := ctx.Err(); err != nil {
			w.state = Failed
			return err
		}
		if err := w.step(day); err != nil {
			w.state = Failed
			return err
		}
		w.day = day
	}

	w.state = Completed
	w.log.Info("simulation completed",
		zap.String("strategy", w.strategy.Name()),
		zap.Float64("service_level", w.ServiceLevel()),
	)
	return nil
}

// step runs one day: arrivals, demand, planning, ordering, recording
func (w *Warehouse) step(day entities.Day) error {
	if err := w.receiveArrivals(day); err != nil {
		return err
	}

	demands := make(map[entities.SKU]entities.Quantity, len(w.items))
	for _, item := range w.items {
		demand := entities.Quantity(entities.UniformInt(w.rng, w.demandMin, w.demandMax))
		_, lost, err := item.Sell(demand)
		if err != nil {
			return err
		}
		demands[item.SKU] = demand

		if lost > 0 {
			err := w.emit(events.NewSalesLostEvent(day, events.SalesLost{SKU: item.SKU, Demand: demand, Lost: lost}))
			if err != nil {
				return err
			}
		}
	}

	plan, err := w.strategy.Plan(w, day)
	if err != nil {
		return &PlanError{Day: day, Strategy: w.strategy.Name(), Err: err}
	}
	for sku, qty := range plan {
		if qty < 0 {
			return &PlanError{Day: day, Strategy: w.strategy.Name(), Err: fmt.Errorf("%w: %s=%d", ErrNegativePlan, sku, qty)}
		}
		if _, known := w.index[sku]; !known {
			w.log.Warn("plan references unknown sku", zap.String("sku", string(sku)), zap.Int("day", int(day)))
		}
	}

	if err := w.placeOrders(plan, day); err != nil {
		return err
	}

	for _, item := range w.items {
		item.RecordDay(demands[item.SKU], plan[item.SKU])
	}
	return nil
}

func (w *Warehouse) receiveArrivals(day entities.Day) error {
	for _, item := range w.items {
		for _, arrival := range w.incoming.release(item.SKU, day) {
			accepted, err := item.Receive(arrival.Quantity)
			if err != nil {
				return err
			}
			dropped := arrival.Quantity - accepted
			if dropped > 0 {
				w.log.Debug("receipt exceeded capacity",
					zap.String("sku", string(item.SKU)),
					zap.Int64("dropped", int64(dropped)),
					zap.Int("day", int(day)),
				)
			}
			err = w.emit(events.NewArrivalReceivedEvent(day, events.ArrivalReceived{
				SKU:      item.SKU,
				Shipped:  arrival.Quantity,
				Accepted: accepted,
				Dropped:  dropped,
			}))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// placeOrders walks items in registration order so lead time draws follow a
// fixed sequence regardless of map iteration order.
func (w *Warehouse) placeOrders(plan restock.Plan, day entities.Day) error {
	for _, item := range w.items {
		requested := plan[item.SKU]
		if requested <= 0 {
			continue
		}

		accepted, arrival, ok := item.Supplier.PlaceOrder(item.SKU, requested, day, w.rng)
		if !ok {
			w.log.Debug("order rejected",
				zap.String("sku", string(item.SKU)),
				zap.String("supplier", item.Supplier.Name),
				zap.Int64("requested", int64(requested)),
				zap.Int64("min_order", int64(item.Supplier.MinOrder)),
				zap.Int("day", int(day)),
			)
			err := w.emit(events.NewOrderRejectedEvent(day, events.OrderRejected{
				SKU:       item.SKU,
				Supplier:  item.Supplier.Name,
				Requested: requested,
				MinOrder:  item.Supplier.MinOrder,
			}))
			if err != nil {
				return err
			}
			continue
		}
		if accepted <= 0 {
			continue
		}

		w.incoming.enqueue(item.SKU, PendingArrival{Day: arrival, Quantity: accepted})
		item.AddCostForOrder(accepted)

		err := w.emit(events.NewOrderPlacedEvent(day, events.OrderPlaced{
			SKU:        item.SKU,
			Supplier:   item.Supplier.Name,
			Requested:  requested,
			Accepted:   accepted,
			ArrivalDay: arrival,
		}))
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *Warehouse) emit(event events.Event) error {
	if w.journal == nil {
		return nil
	}
	if err := w.journal.AppendEvent(event.StreamID(), event); err != nil {
		return fmt.Errorf("journal %s: %w", event.Type(), err)
	}
	return nil
}

// Verify interface compliance
var _ restock.WarehouseView = (*Warehouse)(nil)

// ItemStates returns item snapshots in registration order
func (w *Warehouse) ItemStates() []entities.ItemState {
	states := make([]entities.ItemState, len(w.items))
	for i, item := range w.items {
		states[i] = item.State()
	}
	return states
}

// IncomingWithin sums pending arrivals for sku due in [from, to]
func (w *Warehouse) IncomingWithin(sku entities.SKU, from, to entities.Day) entities.Quantity {
	return w.incoming.within(sku, from, to)
}

// Incoming returns a copy of the pending arrival queue for sku
func (w *Warehouse) Incoming(sku entities.SKU) []PendingArrival {
	return w.incoming.pending(sku)
}

// Items returns the registered items in registration order
func (w *Warehouse) Items() []*entities.InventoryItem {
	return append([]*entities.InventoryItem(nil), w.items...)
}

// Item looks up a registered item
func (w *Warehouse) Item(sku entities.SKU) (*entities.InventoryItem, bool) {
	item, ok := w.index[sku]
	return item, ok
}

// Strategy returns the configured strategy
func (w *Warehouse) Strategy() restock.Strategy { return w.strategy }

// State returns the lifecycle stage
func (w *Warehouse) State() State { return w.state }

// Day returns the last fully simulated day, or zero before the first day
func (w *Warehouse) Day() entities.Day { return w.day }

// Summary returns one reporting row per item in registration order
func (w *Warehouse) Summary() []entities.ItemSummary {
	rows := make([]entities.ItemSummary, len(w.items))
	for i, item := range w.items {
		rows[i] = item.Summary()
	}
	return rows
}

// ServiceLevel returns 1 - lost/demand over all items and days, or 1.0 when
// no demand has been recorded.
func (w *Warehouse) ServiceLevel() float64 {
	var lost, demand entities.Quantity
	for _, item := range w.items {
		lost += item.LostSales()
		demand += item.TotalDemand()
	}
	if demand <= 0 {
		return 1.0
	}
	return 1.0 - float64(lost)/float64(demand)
}
