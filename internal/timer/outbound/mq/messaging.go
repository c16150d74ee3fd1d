package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/gomodoro/internal/pkg/instrument"
	"github.com/shandysiswandi/gomodoro/internal/pkg/messaging"
	"github.com/shandysiswandi/gomodoro/internal/shared/event"
	"github.com/shandysiswandi/gomodoro/internal/timer/usecase"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishTimerCompleted(ctx context.Context, msg usecase.TimerCompletedEvent) error {
	ctx, span := m.ins.Tracer("timer.outbound.mq").Start(ctx, "PublishTimerCompleted")
	defer span.End()

	body, err := json.Marshal(event.TimerCompletedMessage{
		ID:              msg.ID,
		SessionType:     msg.SessionType.String(),
		DurationSeconds: msg.DurationSeconds,
		PomodoroCount:   msg.PomodoroCount,
		CompletedAt:     msg.CompletedAt,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := m.client.Publish(ctx, event.TimerCompletedDestination, messaging.Message{
		Key:     []byte(msg.ID),
		Body:    body,
		Headers: map[string]string{keyOfCorrelationID: instrument.GetCorrelationID(ctx)},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
