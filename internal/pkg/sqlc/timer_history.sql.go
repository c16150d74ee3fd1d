package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertTimerHistory = `-- name: InsertTimerHistory :execrows
INSERT INTO timer_history (id, event_id, session_type, duration_seconds, pomodoro_count, completed_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (event_id) DO NOTHING
`

type InsertTimerHistoryParams struct {
	ID              int64
	EventID         string
	SessionType     string
	DurationSeconds int64
	PomodoroCount   int32
	CompletedAt     pgtype.Timestamptz
}

func (q *Queries) InsertTimerHistory(ctx context.Context, arg InsertTimerHistoryParams) (int64, error) {
	result, err := q.db.Exec(ctx, insertTimerHistory,
		arg.ID,
		arg.EventID,
		arg.SessionType,
		arg.DurationSeconds,
		arg.PomodoroCount,
		arg.CompletedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listTimerHistory = `-- name: ListTimerHistory :many
SELECT id, event_id, session_type, duration_seconds, pomodoro_count, completed_at, created_at
FROM timer_history
ORDER BY completed_at DESC, id DESC
LIMIT $1
`

func (q *Queries) ListTimerHistory(ctx context.Context, limit int32) ([]TimerHistory, error) {
	rows, err := q.db.Query(ctx, listTimerHistory, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TimerHistory
	for rows.Next() {
		var i TimerHistory
		if err := rows.Scan(
			&i.ID,
			&i.EventID,
			&i.SessionType,
			&i.DurationSeconds,
			&i.PomodoroCount,
			&i.CompletedAt,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getTimerHistoryStats = `-- name: GetTimerHistoryStats :one
SELECT
    COUNT(*)::BIGINT                                                                     AS total_sessions,
    COALESCE(SUM(duration_seconds), 0)::BIGINT                                           AS total_seconds,
    COUNT(*) FILTER (WHERE session_type = 'work')::BIGINT                                AS total_pomodoros,
    COALESCE(SUM(duration_seconds) FILTER (WHERE session_type = 'work'), 0)::BIGINT      AS work_seconds,
    COALESCE(SUM(duration_seconds) FILTER (WHERE session_type <> 'work'), 0)::BIGINT     AS break_seconds,
    COUNT(*) FILTER (WHERE completed_at >= $1)::BIGINT                                   AS today_sessions,
    COALESCE(SUM(duration_seconds) FILTER (WHERE completed_at >= $1), 0)::BIGINT         AS today_seconds,
    COUNT(*) FILTER (WHERE completed_at >= $1 AND session_type = 'work')::BIGINT         AS today_pomodoros
FROM timer_history
`

type GetTimerHistoryStatsRow struct {
	TotalSessions  int64
	TotalSeconds   int64
	TotalPomodoros int64
	WorkSeconds    int64
	BreakSeconds   int64
	TodaySessions  int64
	TodaySeconds   int64
	TodayPomodoros int64
}

func (q *Queries) GetTimerHistoryStats(ctx context.Context, since pgtype.Timestamptz) (GetTimerHistoryStatsRow, error) {
	row := q.db.QueryRow(ctx, getTimerHistoryStats, since)
	var i GetTimerHistoryStatsRow
	err := row.Scan(
		&i.TotalSessions,
		&i.TotalSeconds,
		&i.TotalPomodoros,
		&i.WorkSeconds,
		&i.BreakSeconds,
		&i.TodaySessions,
		&i.TodaySeconds,
		&i.TodayPomodoros,
	)
	return i, err
}
