// Package kafka publishes message events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oggyb/session-messaging/internal/event"
	"github.com/segmentio/kafka-go"
)

// headerEventType carries event.TypeMessageCreated on every record.
const headerEventType = "event-type"

// writer is the part of *kafka.Writer the publisher uses.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Stats() kafka.WriterStats
	Close() error
}

// Publisher writes MessageCreatedEvent records to a single topic. Records
// are keyed by receiver id, so one receiver's events stay ordered within
// a partition.
type Publisher struct {
	w     writer
	topic string
}

// NewPublisher creates a Kafka writer for topic on the given brokers.
func NewPublisher(brokers []string, topic string, writeTimeout time.Duration) *Publisher {
	return &Publisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			WriteTimeout:           writeTimeout,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

// Publish encodes evt as JSON and writes it synchronously.
func (p *Publisher) Publish(ctx context.Context, evt event.MessageCreatedEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.ReceiverID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(event.TypeMessageCreated)},
		},
	})
	if err != nil {
		return fmt.Errorf("write to topic %s: %w", p.topic, err)
	}
	return nil
}

// Stats returns writer statistics accumulated since the previous call.
func (p *Publisher) Stats() kafka.WriterStats {
	return p.w.Stats()
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error { return p.w.Close() }

var _ event.Publisher = (*Publisher)(nil)
