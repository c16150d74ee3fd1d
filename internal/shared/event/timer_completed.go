package event

import "time"

const TimerCompletedDestination string = "timer_completed"
const TimerCompletedConsumerHistory string = "timer_completed_history"

// TimerCompletedMessage is the body of a TimerCompletedDestination message.
// SessionType is one of work, short_break or long_break; PomodoroCount is the
// number of work sessions completed including this one.
type TimerCompletedMessage struct {
	ID              string    `json:"id"`
	SessionType     string    `json:"session_type"`
	DurationSeconds int64     `json:"duration_seconds"`
	PomodoroCount   int       `json:"pomodoro_count"`
	CompletedAt     time.Time `json:"completed_at"`
}
