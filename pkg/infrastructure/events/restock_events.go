package events

import (
	"github.com/vsinha/restock/pkg/domain/entities"
)

const (
	OrderPlacedEvent     = "order.placed"
	OrderRejectedEvent   = "order.rejected"
	ArrivalReceivedEvent = "arrival.received"
	SalesLostEvent       = "sales.lost"
)

type OrderPlaced struct {
	SKU        entities.SKU      `json:"sku"`
	Supplier   string            `json:"supplier"`
	Requested  entities.Quantity `json:"requested"`
	Accepted   entities.Quantity `json:"accepted"`
	ArrivalDay entities.Day      `json:"arrival_day"`
}

type OrderRejected struct {
	SKU       entities.SKU      `json:"sku"`
	Supplier  string            `json:"supplier"`
	Requested entities.Quantity `json:"requested"`
	MinOrder  entities.Quantity `json:"min_order"`
}

type ArrivalReceived struct {
	SKU      entities.SKU      `json:"sku"`
	Shipped  entities.Quantity `json:"shipped"`
	Accepted entities.Quantity `json:"accepted"`
	Dropped  entities.Quantity `json:"dropped"`
}

type SalesLost struct {
	SKU    entities.SKU      `json:"sku"`
	Demand entities.Quantity `json:"demand"`
	Lost   entities.Quantity `json:"lost"`
}

func NewOrderPlacedEvent(day entities.Day, data OrderPlaced) Event {
	return NewEvent(OrderPlacedEvent, string(data.SKU), day, data)
}

func NewOrderRejectedEvent(day entities.Day, data OrderRejected) Event {
	return NewEvent(OrderRejectedEvent, string(data.SKU), day, data)
}

func NewArrivalReceivedEvent(day entities.Day, data ArrivalReceived) Event {
	return NewEvent(ArrivalReceivedEvent, string(data.SKU), day, data)
}

func NewSalesLostEvent(day entities.Day, data SalesLost) Event {
	return NewEvent(SalesLostEvent, string(data.SKU), day, data)
}
