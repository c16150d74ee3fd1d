package usecase

import (
	"context"

	"github.com/shandysiswandi/gomodoro/internal/timer/entity"
)

// SessionState is the cycle position together with the timer it drives.
type SessionState struct {
	entity.Cycle
	Timer entity.Snapshot
}

func (s *Usecase) GetSession(ctx context.Context) (SessionState, error) {
	snap, err := s.GetState(ctx)
	if err != nil {
		return SessionState{}, err
	}

	return SessionState{Cycle: s.currentCycle(), Timer: snap}, nil
}

// NextSession loads the length of the next session into the timer, stopped.
// After a completion the cycle already points at the next session; otherwise
// the current session is skipped without being counted.
func (s *Usecase) NextSession(ctx context.Context) (SessionState, error) {
	ctx, span := s.startSpan(ctx, "NextSession")
	defer span.End()

	settings, err := s.currentSettings(ctx)
	if err != nil {
		return SessionState{}, err
	}

	snap, completed := s.timer.State(s.clock.Now())
	if completed {
		s.afterChange(ctx, "next_session", snap, true)
	}

	s.cycleMu.Lock()
	if snap.Status != entity.StatusCompleted {
		s.cycle = s.cycle.Skip()
	}
	cycle := s.cycle
	s.cycleMu.Unlock()

	seconds := settings.SessionSeconds(cycle.Session)
	snap = s.timer.Reset(&seconds)
	s.afterChange(ctx, "next_session", snap, false)

	return SessionState{Cycle: cycle, Timer: snap}, nil
}
