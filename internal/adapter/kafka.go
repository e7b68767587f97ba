package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/nugget/eventbridge/internal/config"
	"github.com/nugget/eventbridge/internal/event"
)

// kafkaWriter is the subset of *kafka.Writer this adapter calls,
// narrowed for testability without spinning up a broker.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka delivers events by producing one message per event to a
// configured topic, keyed by the event ID.
type Kafka struct {
	writer     kafkaWriter
	maxRetries int
}

// NewKafka builds a Kafka adapter backed by a *kafka.Writer using the
// TCP transport and a least-bytes balancer across the topic's
// partitions.
func NewKafka(cfg config.KafkaConfig) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
		maxRetries: cfg.MaxRetries,
	}
}

// Name implements ChannelAdapter.
func (k *Kafka) Name() string { return "kafka" }

// Send implements ChannelAdapter.
func (k *Kafka) Send(ctx context.Context, ev *event.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: marshal event: %w", err)
	}

	return Retry(ctx, RetryConfig{MaxRetries: k.maxRetries}, func(ctx context.Context) error {
		return k.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(ev.ID.String()),
			Value: payload,
		})
	})
}

// Close releases the underlying producer's connections.
func (k *Kafka) Close() error {
	return k.writer.Close()
}
