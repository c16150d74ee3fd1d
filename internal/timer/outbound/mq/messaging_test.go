package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/gomodoro/internal/pkg/instrument"
	"github.com/shandysiswandi/gomodoro/internal/pkg/messaging"
	"github.com/shandysiswandi/gomodoro/internal/shared/event"
	"github.com/shandysiswandi/gomodoro/internal/timer/entity"
	"github.com/shandysiswandi/gomodoro/internal/timer/usecase"
)

type capturePublisher struct {
	topic string
	msg   messaging.Message
	err   error
}

func (c *capturePublisher) Publish(_ context.Context, topic string, msg messaging.Message) error {
	c.topic = topic
	c.msg = msg
	return c.err
}

func TestPublishTimerCompleted(t *testing.T) {
	// Arrange
	pub := &capturePublisher{}
	m := NewMessaging(pub, instrument.NewNoop())
	ctx := instrument.SetCorrelationID(context.Background(), "cid-1")
	at := time.Date(2025, 8, 27, 12, 25, 0, 0, time.UTC)

	// Act
	err := m.PublishTimerCompleted(ctx, usecase.TimerCompletedEvent{
		ID:              "evt-1",
		SessionType:     entity.SessionWork,
		DurationSeconds: 1500,
		PomodoroCount:   2,
		CompletedAt:     at,
	})

	// Assert
	if err != nil {
		t.Fatalf("PublishTimerCompleted() = %v", err)
	}
	if pub.topic != event.TimerCompletedDestination {
		t.Fatalf("topic = %q", pub.topic)
	}
	if pub.msg.Headers[keyOfCorrelationID] != "cid-1" || string(pub.msg.Key) != "evt-1" {
		t.Fatalf("message = %+v", pub.msg)
	}

	var body event.TimerCompletedMessage
	if err := json.Unmarshal(pub.msg.Body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.ID != "evt-1" || body.SessionType != "work" || body.DurationSeconds != 1500 || body.PomodoroCount != 2 || !body.CompletedAt.Equal(at) {
		t.Fatalf("body = %+v", body)
	}
}

func TestPublishTimerCompletedError(t *testing.T) {
	pub := &capturePublisher{err: messaging.ErrClosed}
	m := NewMessaging(pub, instrument.NewNoop())

	err := m.PublishTimerCompleted(context.Background(), usecase.TimerCompletedEvent{ID: "evt-1"})

	if !errors.Is(err, messaging.ErrClosed) {
		t.Fatalf("PublishTimerCompleted() = %v, want ErrClosed", err)
	}
}
