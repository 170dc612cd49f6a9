package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/meltforce/pulsefit/internal/engine"
)

type stubWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (s *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msgs...)
	return nil
}

func (s *stubWriter) Close() error {
	s.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func sampleEvents(user uuid.UUID) []engine.Event {
	at := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	return []engine.Event{
		{Type: engine.EventTargetHit, UserID: user, OccurredAt: at, Points: 15, Target: 12},
		{Type: engine.EventAchievementUnlocked, UserID: user, OccurredAt: at, AchievementID: "first_workout"},
	}
}

func TestKafkaPublisherWritesKeyedMessages(t *testing.T) {
	w := &stubWriter{}
	p := NewKafkaPublisherWithWriter(w, "pulsefit.events", discardLogger())
	user := uuid.New()

	require.NoError(t, p.Publish(context.Background(), sampleEvents(user)...))
	require.Len(t, w.messages, 2)

	for _, m := range w.messages {
		require.Equal(t, user.String(), string(m.Key))
		require.Len(t, m.Headers, 1)
		require.Equal(t, "event_type", m.Headers[0].Key)
	}

	var decoded engine.Event
	require.NoError(t, json.Unmarshal(w.messages[1].Value, &decoded))
	require.Equal(t, engine.EventAchievementUnlocked, decoded.Type)
	require.Equal(t, "first_workout", decoded.AchievementID)
	require.Equal(t, "achievement_unlocked", string(w.messages[1].Headers[0].Value))

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}

func TestKafkaPublisherEmptyAndError(t *testing.T) {
	w := &stubWriter{err: errors.New("leader not available")}
	p := NewKafkaPublisherWithWriter(w, "pulsefit.events", discardLogger())

	require.NoError(t, p.Publish(context.Background()))

	err := p.Publish(context.Background(), sampleEvents(uuid.New())...)
	require.Error(t, err)
	require.Contains(t, err.Error(), "leader not available")
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, p.Publish(context.Background(), sampleEvents(uuid.New())...))
	out := buf.String()
	require.Equal(t, 2, strings.Count(out, "msg=event"))
	require.Contains(t, out, "achievement=first_workout")
	require.Contains(t, out, "target=12")
	require.NoError(t, p.Close())
}
