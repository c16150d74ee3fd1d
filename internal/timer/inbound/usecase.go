package inbound

import (
	"context"

	"github.com/shandysiswandi/gomodoro/internal/timer/entity"
	"github.com/shandysiswandi/gomodoro/internal/timer/usecase"
)

type ucStream interface {
	StreamTimer(ctx context.Context) <-chan usecase.StreamEvent
	StreamState(ctx context.Context) (usecase.StreamEvent, error)
}

type uc interface {
	ucStream

	Start(ctx context.Context) (entity.Snapshot, error)
	Pause(ctx context.Context) (entity.Snapshot, error)
	Reset(ctx context.Context, in usecase.ResetInput) (entity.Snapshot, error)
	SetRemaining(ctx context.Context, in usecase.SetRemainingInput) (entity.Snapshot, error)
	GetState(ctx context.Context) (entity.Snapshot, error)
	GetSession(ctx context.Context) (usecase.SessionState, error)
	NextSession(ctx context.Context) (usecase.SessionState, error)
	GetSettings(ctx context.Context) (entity.Settings, error)
	UpdateSettings(ctx context.Context, in usecase.UpdateSettingsInput) (entity.Settings, error)
}
