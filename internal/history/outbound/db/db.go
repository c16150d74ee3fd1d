package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gomodoro/internal/history/entity"
	"github.com/shandysiswandi/gomodoro/internal/pkg/goerror"
	"github.com/shandysiswandi/gomodoro/internal/pkg/instrument"
	"github.com/shandysiswandi/gomodoro/internal/pkg/sqlc"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DB struct {
	query *sqlc.Queries
	ins   instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{
		query: sqlc.New(conn),
		ins:   ins,
	}
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("history.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// CreateEntry inserts an entry and reports whether a row was written. An
// entry whose event was already recorded is skipped.
func (s *DB) CreateEntry(ctx context.Context, in entity.CreateEntry) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "CreateEntry")
	defer func() { s.endSpan(span, err) }()

	n, err := s.query.InsertTimerHistory(ctx, sqlc.InsertTimerHistoryParams{
		ID:              in.ID,
		EventID:         in.EventID,
		SessionType:     in.SessionType,
		DurationSeconds: in.DurationSeconds,
		PomodoroCount:   int32(in.PomodoroCount),
		CompletedAt:     pgtype.Timestamptz{Time: in.CompletedAt, Valid: true},
	})
	if err != nil {
		return false, s.mapError(err)
	}

	return n > 0, nil
}

func (s *DB) ListEntries(ctx context.Context, limit int32) (_ []entity.Entry, err error) {
	ctx, span := s.startSpan(ctx, "ListEntries")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.query.ListTimerHistory(ctx, limit)
	if err != nil {
		return nil, s.mapError(err)
	}

	items := make([]entity.Entry, 0, len(rows))
	for _, row := range rows {
		items = append(items, entity.Entry{
			ID:              row.ID,
			EventID:         row.EventID,
			SessionType:     row.SessionType,
			DurationSeconds: row.DurationSeconds,
			PomodoroCount:   int(row.PomodoroCount),
			CompletedAt:     row.CompletedAt.Time,
		})
	}

	return items, nil
}

func (s *DB) GetTotals(ctx context.Context, since time.Time) (_ entity.Totals, err error) {
	ctx, span := s.startSpan(ctx, "GetTotals")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetTimerHistoryStats(ctx, pgtype.Timestamptz{Time: since, Valid: true})
	if err != nil {
		return entity.Totals{}, s.mapError(err)
	}

	return entity.Totals{
		TotalSessions:  row.TotalSessions,
		TotalSeconds:   row.TotalSeconds,
		TotalPomodoros: row.TotalPomodoros,
		WorkSeconds:    row.WorkSeconds,
		BreakSeconds:   row.BreakSeconds,
		TodaySessions:  row.TodaySessions,
		TodaySeconds:   row.TodaySeconds,
		TodayPomodoros: row.TodayPomodoros,
	}, nil
}
