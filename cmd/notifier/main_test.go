package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubOrders struct {
	orders map[uint]*model.Order
}

func (s *stubOrders) FindByID(id uint) (*model.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

type recordingNotifier struct {
	placed []uint
}

func (r *recordingNotifier) OrderPlaced(ctx context.Context, order *model.Order) {
	r.placed = append(r.placed, order.ID)
}

func encode(t *testing.T, payload events.OrderEvent) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return raw
}

func TestEventHandler(t *testing.T) {
	orders := &stubOrders{orders: map[uint]*model.Order{
		7: {ID: 7, OrderNumber: "ORD-000007"},
	}}

	t.Run("order placed sends confirmation", func(t *testing.T) {
		notifier := &recordingNotifier{}
		h := &eventHandler{orders: orders, notifier: notifier}

		err := h.Handle(context.Background(),
			events.Envelope{ID: "e1", Type: events.TypeOrderPlaced},
			encode(t, events.OrderEvent{OrderID: 7, OrderNumber: "ORD-000007"}))

		require.NoError(t, err)
		assert.Equal(t, []uint{7}, notifier.placed)
	})

	t.Run("unknown order is an error", func(t *testing.T) {
		notifier := &recordingNotifier{}
		h := &eventHandler{orders: orders, notifier: notifier}

		err := h.Handle(context.Background(),
			events.Envelope{ID: "e2", Type: events.TypeOrderPlaced},
			encode(t, events.OrderEvent{OrderID: 99}))

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.Empty(t, notifier.placed)
	})

	t.Run("status events do not notify", func(t *testing.T) {
		notifier := &recordingNotifier{}
		h := &eventHandler{orders: orders, notifier: notifier}

		err := h.Handle(context.Background(),
			events.Envelope{ID: "e3", Type: events.TypeOrderShipped},
			encode(t, events.OrderEvent{OrderID: 7, Status: "shipped"}))

		require.NoError(t, err)
		assert.Empty(t, notifier.placed)
	})

	t.Run("malformed payload", func(t *testing.T) {
		h := &eventHandler{orders: orders, notifier: &recordingNotifier{}}

		err := h.Handle(context.Background(),
			events.Envelope{ID: "e4", Type: events.TypeOrderPlaced},
			json.RawMessage(`"not an object"`))

		assert.Error(t, err)
	})
}
