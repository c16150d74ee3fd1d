package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestManagerCollectsErrors(t *testing.T) {
	m := NewManager(4)
	errBoom := errors.New("boom")

	var ran atomic.Int32
	for i := range 3 {
		ok := m.Go(context.Background(), func(context.Context) error {
			ran.Add(1)
			if i == 1 {
				return errBoom
			}
			return nil
		})
		if !ok {
			t.Fatalf("task %d not scheduled", i)
		}
	}

	err := m.Wait()
	if !errors.Is(err, errBoom) {
		t.Errorf("Wait() = %v, want errBoom", err)
	}
	if ran.Load() != 3 {
		t.Errorf("ran = %d, want 3", ran.Load())
	}
}

func TestManagerRecoversPanic(t *testing.T) {
	m := NewManager(1)
	m.Go(context.Background(), func(context.Context) error { panic("kaboom") })

	if err := m.Wait(); !errors.Is(err, ErrPanic) {
		t.Errorf("Wait() = %v, want ErrPanic", err)
	}
}

func TestManagerLimitAndClose(t *testing.T) {
	m := NewManager(1)
	release := make(chan struct{})
	started := make(chan struct{})

	m.Go(context.Background(), func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started

	if m.Go(context.Background(), func(context.Context) error { return nil }) {
		t.Error("second task scheduled beyond limit")
	}

	close(release)
	if err := m.Wait(); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	if m.Go(context.Background(), func(context.Context) error { return nil }) {
		t.Error("task scheduled after Wait")
	}
}

func TestManagerCanceledContext(t *testing.T) {
	m := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	m.Go(ctx, func(context.Context) error {
		ran.Store(true)
		return nil
	})
	_ = m.Wait()

	if ran.Load() {
		t.Error("task ran with canceled context")
	}
}
