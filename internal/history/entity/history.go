package entity

import "time"

// Session types as recorded in the history. Anything that is not work is a
// break.
const (
	SessionWork       = "work"
	SessionShortBreak = "short_break"
	SessionLongBreak  = "long_break"
)

// Entry is one completed countdown.
type Entry struct {
	ID              int64
	EventID         string
	SessionType     string
	DurationSeconds int64
	PomodoroCount   int
	CompletedAt     time.Time
}

// CreateEntry is the data needed to record a completed countdown.
type CreateEntry struct {
	ID              int64
	EventID         string
	SessionType     string
	DurationSeconds int64
	PomodoroCount   int
	CompletedAt     time.Time
}

// Totals are aggregate counts over the whole history and since a cut-off.
// Pomodoros count completed work sessions only.
type Totals struct {
	TotalSessions  int64
	TotalSeconds   int64
	TotalPomodoros int64
	WorkSeconds    int64
	BreakSeconds   int64
	TodaySessions  int64
	TodaySeconds   int64
	TodayPomodoros int64
}

// Stats summarizes the history.
type Stats struct {
	Totals
	AverageSeconds int64
}

// Export describes an uploaded history export.
type Export struct {
	Key       string
	URL       string
	Rows      int
	ExpiresAt time.Time
}
