package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/shandysiswandi/gomodoro/internal/timer/entity"
)

// StreamEvent is a timer update pushed to SSE and WebSocket clients.
type StreamEvent struct {
	entity.Snapshot
	Display string    `json:"display"`
	At      time.Time `json:"at"`
}

type subscriber struct {
	ch     chan StreamEvent
	closed atomic.Bool
}

// StreamTimer registers a stream of timer updates and closes it when ctx is
// done. The current state is delivered first.
func (s *Usecase) StreamTimer(ctx context.Context) <-chan StreamEvent {
	sub := &subscriber{ch: make(chan StreamEvent, 10)}

	snap, _ := s.GetState(ctx)
	sub.ch <- s.buildStreamEvent(snap)

	s.streamMu.Lock()
	s.streams[sub] = struct{}{}
	s.streamMu.Unlock()

	go func() {
		<-ctx.Done()
		s.streamMu.Lock()
		delete(s.streams, sub)
		sub.closed.Store(true)
		s.streamMu.Unlock()
		close(sub.ch)
	}()

	return sub.ch
}

// StreamState returns the current state in the shape pushed to streams.
func (s *Usecase) StreamState(ctx context.Context) (StreamEvent, error) {
	snap, err := s.GetState(ctx)
	if err != nil {
		return StreamEvent{}, err
	}

	return s.buildStreamEvent(snap), nil
}

func (s *Usecase) broadcast(snap entity.Snapshot) {
	evt := s.buildStreamEvent(snap)

	s.streamMu.RLock()
	defer s.streamMu.RUnlock()

	for sub := range s.streams {
		if sub.closed.Load() {
			continue
		}

		select {
		case sub.ch <- evt:
		default:
		}
	}
}

func (s *Usecase) buildStreamEvent(snap entity.Snapshot) StreamEvent {
	return StreamEvent{
		Snapshot: snap,
		Display:  entity.FormatClock(snap.Remaining),
		At:       s.clock.Now(),
	}
}
