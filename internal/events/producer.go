package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Event types emitted on visualization lifecycle transitions. Downstream
// consumers (gallery refresh, notifications) subscribe to these.
const (
	TypeSaved       = "visualization.saved"
	TypeVideoReady  = "visualization.video_ready"
	TypeVideoFailed = "visualization.video_failed"
)

// Event is the wire payload published per transition.
type Event struct {
	Type        string    `json:"type"`
	RecordID    string    `json:"record_id"`
	OwnerID     string    `json:"owner_id"`
	VideoStatus string    `json:"video_status,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Producer publishes lifecycle events to Kafka, keyed by record id so one
// record's events stay ordered within a partition.
type Producer struct {
	writer *kafkago.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafkago.Writer{
			Addr:     kafkago.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafkago.LeastBytes{},
		},
	}
}

func (p *Producer) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.RecordID),
		Value: value,
	}); err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
