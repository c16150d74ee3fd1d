package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shandysiswandi/gomodoro/internal/history/entity"
	"github.com/shandysiswandi/gomodoro/internal/pkg/containertest"
	"github.com/shandysiswandi/gomodoro/internal/pkg/instrument"
	"github.com/shandysiswandi/gomodoro/internal/pkg/sqlc"
)

func TestDB(t *testing.T) {
	ctx := context.Background()
	s := NewDB(containertest.Postgres(t, sqlc.Schema), instrument.NewNoop())
	day := time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC)

	entries := []entity.CreateEntry{
		{ID: 1, EventID: "evt-1", SessionType: entity.SessionWork, DurationSeconds: 1500, PomodoroCount: 1, CompletedAt: day.Add(-2 * time.Hour)},
		{ID: 2, EventID: "evt-2", SessionType: entity.SessionShortBreak, DurationSeconds: 300, PomodoroCount: 1, CompletedAt: day.Add(9 * time.Hour)},
		{ID: 3, EventID: "evt-3", SessionType: entity.SessionWork, DurationSeconds: 1500, PomodoroCount: 2, CompletedAt: day.Add(10 * time.Hour)},
	}

	t.Run("CreateEntry", func(t *testing.T) {
		for _, e := range entries {
			created, err := s.CreateEntry(ctx, e)
			if err != nil || !created {
				t.Fatalf("CreateEntry(%s) = %v, %v", e.EventID, created, err)
			}
		}

		// Arrange
		dup := entries[0]
		dup.ID = 99

		// Act
		created, err := s.CreateEntry(ctx, dup)

		// Assert
		if err != nil || created {
			t.Fatalf("duplicate CreateEntry = %v, %v; want false, nil", created, err)
		}
	})

	t.Run("ListEntries", func(t *testing.T) {
		got, err := s.ListEntries(ctx, 2)
		if err != nil {
			t.Fatalf("ListEntries() = %v", err)
		}

		ids := make([]int64, 0, len(got))
		for _, e := range got {
			ids = append(ids, e.ID)
		}
		if diff := cmp.Diff([]int64{3, 2}, ids); diff != "" {
			t.Fatalf("ids mismatch (-want +got):\n%s", diff)
		}
		if !got[0].CompletedAt.Equal(entries[2].CompletedAt) || got[0].EventID != "evt-3" {
			t.Fatalf("first = %+v", got[0])
		}
		if got[0].SessionType != entity.SessionWork || got[0].PomodoroCount != 2 || got[1].SessionType != entity.SessionShortBreak {
			t.Fatalf("session columns = %+v", got)
		}
	})

	t.Run("GetTotals", func(t *testing.T) {
		got, err := s.GetTotals(ctx, day)
		if err != nil {
			t.Fatalf("GetTotals() = %v", err)
		}

		want := entity.Totals{
			TotalSessions:  3,
			TotalSeconds:   3300,
			TotalPomodoros: 2,
			WorkSeconds:    3000,
			BreakSeconds:   300,
			TodaySessions:  2,
			TodaySeconds:   1800,
			TodayPomodoros: 1,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("totals mismatch (-want +got):\n%s", diff)
		}
	})
}
