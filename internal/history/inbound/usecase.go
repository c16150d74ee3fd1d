package inbound

import (
	"context"

	"github.com/shandysiswandi/gomodoro/internal/history/entity"
	"github.com/shandysiswandi/gomodoro/internal/history/usecase"
)

type uc interface {
	ConsumeTimerCompleted(ctx context.Context, in usecase.ConsumeTimerCompletedInput) error
	ListHistory(ctx context.Context, in usecase.ListHistoryInput) ([]entity.Entry, error)
	GetStats(ctx context.Context) (entity.Stats, error)
	ExportHistory(ctx context.Context) (entity.Export, error)
}
