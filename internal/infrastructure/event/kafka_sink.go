package event

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/shared"
)

// KafkaSink forwards domain events to a Kafka topic for downstream
// consumers (reporting, data warehouse). It subscribes to every event
// type and writes one JSON message per event, keyed by tenant so all
// events of a tenant land on the same partition in order.
type KafkaSink struct {
	writer     *kafka.Writer
	serializer *EventSerializer
	logger     *zap.Logger
}

// KafkaSinkConfig holds the Kafka connection settings for the sink
type KafkaSinkConfig struct {
	Brokers []string
	Topic   string
}

// NewKafkaSink creates a sink writing to the configured topic
func NewKafkaSink(cfg KafkaSinkConfig, serializer *EventSerializer, logger *zap.Logger) *KafkaSink {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: 10 * time.Second,
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaSink{
		writer:     writer,
		serializer: serializer,
		logger:     logger,
	}
}

// Handle serializes the event and writes it to the topic
func (s *KafkaSink) Handle(ctx context.Context, event shared.DomainEvent) error {
	payload, err := s.serializer.Serialize(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event %s: %w", event.EventType(), err)
	}

	msg := kafka.Message{
		Key:   []byte(event.TenantID().String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType())},
			{Key: "event_id", Value: []byte(event.EventID().String())},
			{Key: "aggregate_type", Value: []byte(event.AggregateType())},
		},
	}

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		s.logger.Error("failed to write event to kafka",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to write event to kafka: %w", err)
	}
	return nil
}

// EventTypes returns an empty slice: the sink receives all events
func (s *KafkaSink) EventTypes() []string {
	return nil
}

// Close flushes and closes the underlying writer
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

// Ensure KafkaSink implements EventHandler
var _ shared.EventHandler = (*KafkaSink)(nil)
