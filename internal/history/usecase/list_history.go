package usecase

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/gomodoro/internal/history/entity"
	"github.com/shandysiswandi/gomodoro/internal/pkg/goerror"
)

// MaxEntries caps every history read.
const MaxEntries int32 = 100

type ListHistoryInput struct {
	// Limit defaults to MaxEntries when not positive and is capped at it.
	Limit int32
}

func (s *Usecase) ListHistory(ctx context.Context, in ListHistoryInput) ([]entity.Entry, error) {
	ctx, span := s.startSpan(ctx, "ListHistory")
	defer span.End()

	limit := MaxEntries
	if in.Limit > 0 {
		limit = lo.Clamp(in.Limit, 1, MaxEntries)
	}

	entries, err := s.repoDB.ListEntries(ctx, limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list history entries", "limit", limit, "error", err)
		return nil, goerror.NewServer(err)
	}

	return entries, nil
}

func (s *Usecase) GetStats(ctx context.Context) (entity.Stats, error) {
	ctx, span := s.startSpan(ctx, "GetStats")
	defer span.End()

	since := s.startOfDay(s.clock.Now())
	totals, err := s.repoDB.GetTotals(ctx, since)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get history totals", "since", since, "error", err)
		return entity.Stats{}, goerror.NewServer(err)
	}

	stats := entity.Stats{Totals: totals}
	if totals.TotalSessions > 0 {
		stats.AverageSeconds = totals.TotalSeconds / totals.TotalSessions
	}

	return stats, nil
}
