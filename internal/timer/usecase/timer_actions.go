package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gomodoro/internal/pkg/goerror"
	"github.com/shandysiswandi/gomodoro/internal/timer/entity"
)

type ResetInput struct {
	// Duration replaces the configured length when set. Negative values are
	// treated as zero.
	Duration *int64
}

type SetRemainingInput struct {
	Seconds int64
}

func (s *Usecase) Start(ctx context.Context) (entity.Snapshot, error) {
	ctx, span := s.startSpan(ctx, "Start")
	defer span.End()

	snap, completed := s.timer.Start(s.clock.Now())
	s.afterChange(ctx, "start", snap, completed)

	return snap, nil
}

func (s *Usecase) Pause(ctx context.Context) (entity.Snapshot, error) {
	ctx, span := s.startSpan(ctx, "Pause")
	defer span.End()

	snap := s.timer.Pause(s.clock.Now())
	s.afterChange(ctx, "pause", snap, false)

	return snap, nil
}

func (s *Usecase) Reset(ctx context.Context, in ResetInput) (entity.Snapshot, error) {
	ctx, span := s.startSpan(ctx, "Reset")
	defer span.End()

	if in.Duration != nil && *in.Duration < 0 {
		zero := int64(0)
		in.Duration = &zero
	}

	snap := s.timer.Reset(in.Duration)
	s.afterChange(ctx, "reset", snap, false)

	return snap, nil
}

// SetRemaining overwrites the remaining time. It exists for diagnostics and
// is only routed when debug endpoints are enabled.
func (s *Usecase) SetRemaining(ctx context.Context, in SetRemainingInput) (entity.Snapshot, error) {
	ctx, span := s.startSpan(ctx, "SetRemaining")
	defer span.End()

	snap, completed := s.timer.SetRemaining(s.clock.Now(), max(in.Seconds, 0))
	s.afterChange(ctx, "set_remaining", snap, completed)

	return snap, nil
}

// GetState returns the current snapshot. It is also where a running timer
// whose time is up gets marked completed.
func (s *Usecase) GetState(ctx context.Context) (entity.Snapshot, error) {
	snap, completed := s.timer.State(s.clock.Now())
	if completed {
		ctx, span := s.startSpan(ctx, "GetState")
		defer span.End()

		s.afterChange(ctx, "state", snap, true)
	}

	return snap, nil
}

// Restore loads the last checkpoint into the timer. A missing checkpoint
// leaves the timer as constructed.
func (s *Usecase) Restore(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "Restore")
	defer span.End()

	cp, err := s.repoCache.GetCheckpoint(ctx)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get timer checkpoint", "error", err)
		return goerror.NewServer(err)
	}

	s.timer.Restore(*cp)

	s.cycleMu.Lock()
	s.cycle = cp.Cycle.Normalize()
	s.cycleMu.Unlock()

	// A countdown that ran out while the process was down completes now.
	snap, completed := s.timer.State(s.clock.Now())
	if completed {
		s.afterChange(ctx, "restore", snap, true)
	}

	slog.InfoContext(ctx, "timer restored from checkpoint", "status", snap.Status.String(), "remaining", snap.Remaining)

	return nil
}
