package events

import (
	"context"
	"encoding/json"

	"github.com/noirparfum/noir-backend/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Handler processes one decoded envelope; the raw payload is kept for typed decoding
type Handler func(ctx context.Context, envelope Envelope, raw json.RawMessage) error

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: reader}
}

// Consume blocks until ctx is cancelled. Handler errors are logged and the message is committed.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("Failed to read event", err)
			continue
		}

		envelope, raw, err := Decode(msg.Value)
		if err != nil {
			logger.Warn("Skipping malformed event", map[string]interface{}{
				"offset": msg.Offset,
				"error":  err.Error(),
			})
			continue
		}

		if err := handler(ctx, envelope, raw); err != nil {
			logger.Error("Failed to handle event", err, map[string]interface{}{
				"event_id":   envelope.ID,
				"event_type": envelope.Type,
			})
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// Decode splits a message value into its envelope and the raw data field
func Decode(value []byte) (Envelope, json.RawMessage, error) {
	var wire struct {
		Envelope
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(value, &wire); err != nil {
		return Envelope{}, nil, err
	}
	envelope := wire.Envelope
	envelope.Data = nil
	return envelope, wire.Data, nil
}
