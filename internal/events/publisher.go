package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type Publisher interface {
	Publish(ctx context.Context, key, eventType string, data interface{}) error
	Close() error
}

// NewEnvelope stamps an event with an id and the current time
func NewEnvelope(eventType string, data interface{}) Envelope {
	return Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// KafkaPublisher writes JSON envelopes to a single topic keyed by aggregate
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key, eventType string, data interface{}) error {
	envelope := NewEnvelope(eventType, data)
	value, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  envelope.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}); err != nil {
		logger.Error("Failed to publish event", err, map[string]interface{}{
			"event_type": eventType,
			"key":        key,
		})
		return err
	}

	logger.Debug("Event published", map[string]interface{}{
		"event_id":   envelope.ID,
		"event_type": eventType,
		"key":        key,
	})
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher is used when no brokers are configured
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, key, eventType string, data interface{}) error {
	logger.Debug("Event publishing disabled", map[string]interface{}{
		"event_type": eventType,
		"key":        key,
	})
	return nil
}

func (NopPublisher) Close() error { return nil }
