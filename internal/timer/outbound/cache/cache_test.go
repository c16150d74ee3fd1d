package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shandysiswandi/gomodoro/internal/pkg/containertest"
	"github.com/shandysiswandi/gomodoro/internal/pkg/goerror"
	"github.com/shandysiswandi/gomodoro/internal/pkg/instrument"
	"github.com/shandysiswandi/gomodoro/internal/timer/entity"
)

func TestCacheCheckpoint(t *testing.T) {
	// Arrange
	ctx := context.Background()
	c := NewCache(containertest.Redis(t), instrument.NewNoop())
	want := entity.Checkpoint{
		Duration:  90 * time.Second,
		Remaining: 42*time.Second + 250*time.Millisecond,
		Status:    entity.StatusRunning,
		StartedAt: time.Date(2025, 8, 27, 12, 0, 0, 0, time.UTC),
	}

	// Act
	_, missErr := c.GetCheckpoint(ctx)
	saveErr := c.SaveCheckpoint(ctx, want)
	got, getErr := c.GetCheckpoint(ctx)

	// Assert
	if !errors.Is(missErr, goerror.ErrNotFound) {
		t.Fatalf("GetCheckpoint() on empty cache = %v, want ErrNotFound", missErr)
	}
	if saveErr != nil || getErr != nil {
		t.Fatalf("save = %v, get = %v", saveErr, getErr)
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Fatalf("StartedAt = %v, want %v", got.StartedAt, want.StartedAt)
	}
	got.StartedAt = want.StartedAt
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Fatalf("checkpoint mismatch (-want +got):\n%s", diff)
	}
}

func TestCacheSettings(t *testing.T) {
	ctx := context.Background()
	c := NewCache(containertest.Redis(t), instrument.NewNoop())
	want := entity.Settings{
		WorkMinutes:            50,
		ShortBreakMinutes:      10,
		LongBreakMinutes:       30,
		SessionsUntilLongBreak: 3,
		AutoStartBreaks:        true,
		SoundNotifications:     true,
	}

	if _, err := c.GetSettings(ctx); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("GetSettings() on empty cache = %v, want ErrNotFound", err)
	}
	if err := c.SaveSettings(ctx, want); err != nil {
		t.Fatalf("SaveSettings() = %v", err)
	}

	got, err := c.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings() = %v", err)
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}
