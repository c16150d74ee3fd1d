package sqlc

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type TimerHistory struct {
	ID              int64
	EventID         string
	SessionType     string
	DurationSeconds int64
	PomodoroCount   int32
	CompletedAt     pgtype.Timestamptz
	CreatedAt       pgtype.Timestamptz
}
