package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types published on the order topic and pushed to the admin feed
const (
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
	TypeOrderShipped       = "order.shipped"
	TypeContactCreated     = "contact.created"
	TypeQuestionCreated    = "question.created"
)

// Envelope is the wire format of every event
type Envelope struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// OrderEvent is the payload of the order.* events
type OrderEvent struct {
	OrderID        uint            `json:"order_id"`
	OrderNumber    string          `json:"order_number"`
	CustomerName   string          `json:"customer_name"`
	CustomerEmail  string          `json:"customer_email"`
	Status         string          `json:"status"`
	PreviousStatus string          `json:"previous_status,omitempty"`
	Total          decimal.Decimal `json:"total"`
	ItemCount      int             `json:"item_count"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
}
