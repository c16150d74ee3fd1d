package inbound

import (
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/gomodoro/internal/history/entity"
)

type HistoryEntryResponse struct {
	// ID is a snowflake, sent as a string to survive JavaScript numbers.
	ID              string    `json:"id"`
	EventID         string    `json:"event_id"`
	SessionType     string    `json:"session_type"`
	DurationSeconds int64     `json:"duration_seconds"`
	PomodoroCount   int       `json:"pomodoro_count"`
	CompletedAt     time.Time `json:"completed_at"`
}

type ListHistoryResponse struct {
	Entries []HistoryEntryResponse `json:"entries"`
}

func newListHistoryResponse(entries []entity.Entry) ListHistoryResponse {
	return ListHistoryResponse{
		Entries: lo.Map(entries, func(e entity.Entry, _ int) HistoryEntryResponse {
			return HistoryEntryResponse{
				ID:              strconv.FormatInt(e.ID, 10),
				EventID:         e.EventID,
				SessionType:     e.SessionType,
				DurationSeconds: e.DurationSeconds,
				PomodoroCount:   e.PomodoroCount,
				CompletedAt:     e.CompletedAt,
			}
		}),
	}
}

type StatsResponse struct {
	TotalSessions  int64 `json:"total_sessions"`
	TotalSeconds   int64 `json:"total_seconds"`
	TotalPomodoros int64 `json:"total_pomodoros"`
	TotalWorkTime  int64 `json:"total_work_time"`
	TotalBreakTime int64 `json:"total_break_time"`
	TodaySessions  int64 `json:"today_sessions"`
	TodaySeconds   int64 `json:"today_seconds"`
	TodayPomodoros int64 `json:"today_pomodoros"`
	AverageSeconds int64 `json:"average_seconds"`
}

func newStatsResponse(s entity.Stats) StatsResponse {
	return StatsResponse{
		TotalSessions:  s.TotalSessions,
		TotalSeconds:   s.TotalSeconds,
		TotalPomodoros: s.TotalPomodoros,
		TotalWorkTime:  s.WorkSeconds,
		TotalBreakTime: s.BreakSeconds,
		TodaySessions:  s.TodaySessions,
		TodaySeconds:   s.TodaySeconds,
		TodayPomodoros: s.TodayPomodoros,
		AverageSeconds: s.AverageSeconds,
	}
}

type ExportResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Rows      int       `json:"rows"`
	ExpiresAt time.Time `json:"expires_at"`
}
