package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/gomodoro/internal/history/entity"
	"github.com/shandysiswandi/gomodoro/internal/history/usecase"
	"github.com/shandysiswandi/gomodoro/internal/pkg/goerror"
	"github.com/shandysiswandi/gomodoro/internal/pkg/instrument"
	"github.com/shandysiswandi/gomodoro/internal/pkg/messaging"
	"github.com/shandysiswandi/gomodoro/internal/pkg/uid"
	"github.com/shandysiswandi/gomodoro/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers map[string]string) context.Context {
	if cID := headers[keyOfCorrelationID]; cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) TimerCompletedHistory(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers)

	ctx, span := h.ins.Tracer("history.inbound.mq").Start(ctx, "TimerCompletedHistory")
	defer span.End()

	slog.InfoContext(ctx, "consume: timer completed history", "msg_body", string(msg.Body))

	var payload event.TimerCompletedMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of timer completed history", "msg_body", string(msg.Body), "error", err)
		return nil
	}

	// producers that predate the work/break cycle only sent work sessions
	if payload.SessionType == "" {
		payload.SessionType = entity.SessionWork
	}

	if err := h.uc.ConsumeTimerCompleted(ctx, usecase.ConsumeTimerCompletedInput{
		EventID:         payload.ID,
		SessionType:     payload.SessionType,
		DurationSeconds: payload.DurationSeconds,
		PomodoroCount:   payload.PomodoroCount,
		CompletedAt:     payload.CompletedAt,
	}); err != nil {
		if gerr, ok := goerror.As(err); ok && gerr.Code() == goerror.CodeInvalidInput {
			slog.ErrorContext(ctx, "drop invalid timer completed message", "msg_body", string(msg.Body), "error", err)
			return nil
		}
		slog.ErrorContext(ctx, "failed to consume timer completed", "msg_body", string(msg.Body), "error", err)
		return err
	}

	return nil
}
