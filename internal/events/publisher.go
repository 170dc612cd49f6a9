// Package events delivers announcement events (zone changes, targets hit,
// achievements, personal bests) to downstream consumers such as a voice
// coach.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/meltforce/pulsefit/internal/engine"
	"github.com/meltforce/pulsefit/internal/observability"
)

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, events ...engine.Event) error
	Close() error
}

// MessageWriter is the part of *kafka.Writer used by KafkaPublisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON to one Kafka topic, keyed by user so
// a user's events stay ordered within a partition.
type KafkaPublisher struct {
	mu     sync.Mutex
	writer MessageWriter
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	}, topic, logger)
}

// NewKafkaPublisherWithWriter wraps an existing writer.
func NewKafkaPublisherWithWriter(w MessageWriter, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic, logger: logger}
}

// Publish writes all events in one batch.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...engine.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		body, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("encoding %s event: %w", ev.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:     []byte(ev.UserID.String()),
			Value:   body,
			Headers: []kafka.Header{{Key: "event_type", Value: []byte(ev.Type)}},
		})
	}

	p.mu.Lock()
	err := p.writer.WriteMessages(ctx, msgs...)
	p.mu.Unlock()

	for _, ev := range events {
		observability.RecordEventPublished(string(ev.Type), err)
	}
	if err != nil {
		return fmt.Errorf("writing %d events to %s: %w", len(msgs), p.topic, err)
	}
	p.logger.Debug("events published", "topic", p.topic, "count", len(msgs))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writer.Close()
}

// LogPublisher writes events to a structured logger. It is used when no
// broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs each event at info level.
func (p *LogPublisher) Publish(ctx context.Context, events ...engine.Event) error {
	for _, ev := range events {
		attrs := []any{"type", ev.Type, "user_id", ev.UserID}
		switch ev.Type {
		case engine.EventZoneChanged:
			if ev.ToZone != nil {
				attrs = append(attrs, "zone", *ev.ToZone, "zone_name", ev.ZoneName)
			}
		case engine.EventTargetHit:
			attrs = append(attrs, "points", ev.Points, "target", ev.Target)
		case engine.EventAchievementUnlocked:
			attrs = append(attrs, "achievement", ev.AchievementID)
		case engine.EventPersonalBest:
			attrs = append(attrs, "metric", ev.Metric, "value", ev.Value)
		}
		p.logger.InfoContext(ctx, "event", attrs...)
		observability.RecordEventPublished(string(ev.Type), nil)
	}
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error { return nil }
