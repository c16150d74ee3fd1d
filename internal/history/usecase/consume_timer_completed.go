package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gomodoro/internal/history/entity"
	"github.com/shandysiswandi/gomodoro/internal/pkg/goerror"
	"github.com/shandysiswandi/gomodoro/internal/pkg/idempotency"
)

type ConsumeTimerCompletedInput struct {
	EventID         string    `validate:"required"`
	SessionType     string    `validate:"oneof=work short_break long_break"`
	DurationSeconds int64     `validate:"gte=0"`
	PomodoroCount   int       `validate:"gte=0"`
	CompletedAt     time.Time `validate:"required"`
}

// ConsumeTimerCompleted records a completed countdown. Redelivered events are
// recorded once.
func (s *Usecase) ConsumeTimerCompleted(ctx context.Context, in ConsumeTimerCompletedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeTimerCompleted")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	err := s.idempotency.Exec(ctx, "history:timer_completed:"+in.EventID, func(ctx context.Context) error {
		created, err := s.repoDB.CreateEntry(ctx, entity.CreateEntry{
			ID:              s.uid.Generate(),
			EventID:         in.EventID,
			SessionType:     in.SessionType,
			DurationSeconds: in.DurationSeconds,
			PomodoroCount:   in.PomodoroCount,
			CompletedAt:     in.CompletedAt,
		})
		if err != nil {
			return err
		}
		if !created {
			slog.InfoContext(ctx, "timer completion already recorded", "event_id", in.EventID)
		}
		return nil
	})
	if errors.Is(err, idempotency.ErrAlreadyCompleted) {
		slog.InfoContext(ctx, "skip duplicate timer completion", "event_id", in.EventID)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to record timer completion", "event_id", in.EventID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
