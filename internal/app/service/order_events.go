package service

import (
	"context"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/events"
	"github.com/noirparfum/noir-backend/pkg/logger"
)

// OrderEvents publishes order lifecycle events to Kafka and the admin feed.
// A nil *OrderEvents emits nothing.
type OrderEvents struct {
	publisher   events.Publisher
	broadcaster Broadcaster
}

// NewOrderEvents accepts nil for either side
func NewOrderEvents(publisher events.Publisher, broadcaster Broadcaster) *OrderEvents {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderEvents{publisher: publisher, broadcaster: broadcaster}
}

func (e *OrderEvents) emit(ctx context.Context, eventType string, order *model.Order, previous model.OrderStatus) {
	if e == nil {
		return
	}
	itemCount := 0
	for _, item := range order.OrderItems {
		itemCount += item.Quantity
	}
	payload := events.OrderEvent{
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		CustomerName:   order.CustomerName,
		CustomerEmail:  order.CustomerEmail,
		Status:         string(order.Status),
		PreviousStatus: string(previous),
		Total:          order.Total,
		ItemCount:      itemCount,
		TrackingNumber: order.TrackingNumber,
	}

	if err := e.publisher.Publish(ctx, order.OrderNumber, eventType, payload); err != nil {
		logger.Error("Failed to publish order event", err, map[string]interface{}{
			"order_id": order.ID,
			"type":     eventType,
		})
	}
	if e.broadcaster != nil {
		e.broadcaster.Broadcast(eventType, payload)
	}
}

// shipmentUpdated emits order.status_changed when the status moved, and
// order.shipped when only the tracking details of a shipped order changed.
func (e *OrderEvents) shipmentUpdated(ctx context.Context, order *model.Order, previous model.OrderStatus, trackingChanged bool) {
	switch {
	case order.Status != previous:
		e.emit(ctx, events.TypeOrderStatusChanged, order, previous)
	case trackingChanged && order.Status == model.OrderStatusShipped:
		e.emit(ctx, events.TypeOrderShipped, order, previous)
	}
}
