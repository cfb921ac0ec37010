// Package events publishes workout change notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/workoutapi/internal/models"
	"github.com/segmentio/kafka-go"
)

// Event types.
const (
	WorkoutCreated = "workout.created"
	WorkoutUpdated = "workout.updated"
	WorkoutDeleted = "workout.deleted"
)

// WorkoutEvent describes a committed workout mutation. Workout is nil for deletes.
type WorkoutEvent struct {
	Type      string          `json:"type"`
	WorkoutID string          `json:"workoutId"`
	Workout   *models.Workout `json:"workout,omitempty"`
}

// Publisher delivers workout events. Failures are reported but never undo the
// mutation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, ev WorkoutEvent) error
	Close() error
}

// NoopPublisher discards events.
type NoopPublisher struct{}

// Publish performs no action.
func (NoopPublisher) Publish(context.Context, WorkoutEvent) error { return nil }

// Close performs no action.
func (NoopPublisher) Close() error { return nil }

// messageWriter is the subset of *kafka.Writer used by KafkaPublisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic keyed by workout ID, so all
// events for one workout land on the same partition.
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

// NewKafkaPublisher creates a publisher writing to topic on brokers. The
// writer runs in async mode: Publish only enqueues, and delivery failures are
// logged from the writer's completion callback.
func NewKafkaPublisher(brokers []string, topic string, log *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
			Async:        true,
			Completion:   completionLogger(log),
		},
		timeout: 5 * time.Second,
	}
}

func completionLogger(log *slog.Logger) func([]kafka.Message, error) {
	return func(msgs []kafka.Message, err error) {
		if err != nil {
			log.Warn("delivering workout events", "count", len(msgs), "error", err)
		}
	}
}

// Publish encodes ev as JSON and hands it to the writer.
func (p *KafkaPublisher) Publish(ctx context.Context, ev WorkoutEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.WorkoutID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(ev.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("writing %s event: %w", ev.Type, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
