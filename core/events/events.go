package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event types.
const (
	TypeRunStarted      = "run.started"
	TypeRunFinished     = "run.finished"
	TypeProductCreated  = "product.create"
	TypeProductUpdated  = "product.update"
	TypeDuplicateDelete = "product.delete_duplicate"
	TypeOrphanDelete    = "product.delete_orphan"
)

// Event is one message on the sync topic.
type Event struct {
	Type     string    `json:"type"`
	RunID    string    `json:"run_id"`
	Key      string    `json:"key,omitempty"`
	TargetID string    `json:"target_id,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	Time     time.Time `json:"time"`
	Summary  any       `json:"summary,omitempty"`
}

// Writer is the subset of kafka.Writer the publisher uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher emits sync events.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// KafkaPublisher writes events as JSON messages keyed by SKU (or run id).
type KafkaPublisher struct {
	writer Writer
}

// NewKafkaPublisher wraps a writer.
func NewKafkaPublisher(writer Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Publish writes all events in one call.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to encode %s event: %w", e.Type, err)
		}
		key := e.Key
		if key == "" {
			key = e.RunID
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(key),
			Value: value,
			Time:  e.Time,
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish %d events: %w", len(msgs), err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, ...Event) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }

// New creates a Kafka publisher, or a NopPublisher when no brokers are set.
func New(cfg Config) Publisher {
	var brokers []string
	for _, b := range strings.Split(cfg.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return NopPublisher{}
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return NewKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           timeout,
		AllowAutoTopicCreation: true,
	})
}
