package simulation

import "github.com/vsinha/restock/pkg/domain/entities"

// PendingArrival is an accepted order in transit
type PendingArrival struct {
	Day      entities.Day      `json:"day"`
	Quantity entities.Quantity `json:"quantity"`
}

// arrivalIndex keeps a FIFO queue of pending arrivals per SKU
type arrivalIndex struct {
	queues map[entities.SKU][]PendingArrival
}

func newArrivalIndex() *arrivalIndex {
	return &arrivalIndex{queues: make(map[entities.SKU][]PendingArrival)}
}

func (a *arrivalIndex) enqueue(sku entities.SKU, arrival PendingArrival) {
	a.queues[sku] = append(a.queues[sku], arrival)
}

// release removes and returns every arrival due on or before day, in queue order
func (a *arrivalIndex) release(sku entities.SKU, day entities.Day) []PendingArrival {
	queue := a.queues[sku]
	if len(queue) == 0 {
		return nil
	}

	var due []PendingArrival
	remaining := queue[:0]
	for _, arrival := range queue {
		if arrival.Day <= day {
			due = append(due, arrival)
		} else {
			remaining = append(remaining, arrival)
		}
	}

	if len(remaining) == 0 {
		delete(a.queues, sku)
	} else {
		a.queues[sku] = remaining
	}
	return due
}

// within sums quantities arriving in [from, to]
func (a *arrivalIndex) within(sku entities.SKU, from, to entities.Day) entities.Quantity {
	var total entities.Quantity
	for _, arrival := range a.queues[sku] {
		if arrival.Day >= from && arrival.Day <= to {
			total += arrival.Quantity
		}
	}
	return total
}

func (a *arrivalIndex) pending(sku entities.SKU) []PendingArrival {
	return append([]PendingArrival(nil), a.queues[sku]...)
}
