package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gomodoro/internal/history/entity"
	"github.com/shandysiswandi/gomodoro/internal/pkg/clock"
	"github.com/shandysiswandi/gomodoro/internal/pkg/config"
	"github.com/shandysiswandi/gomodoro/internal/pkg/idempotency"
	"github.com/shandysiswandi/gomodoro/internal/pkg/instrument"
	"github.com/shandysiswandi/gomodoro/internal/pkg/storage"
	"github.com/shandysiswandi/gomodoro/internal/pkg/uid"
	"github.com/shandysiswandi/gomodoro/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreateEntry(ctx context.Context, in entity.CreateEntry) (bool, error)
	ListEntries(ctx context.Context, limit int32) ([]entity.Entry, error)
	GetTotals(ctx context.Context, since time.Time) (entity.Totals, error)
}

type Usecase struct {
	repoDB      repoDB
	idempotency idempotency.Idempotency
	storage     storage.Storage
	cfg         config.Config
	uid         uid.NumberID
	clock       clock.Clocker
	validator   validator.Validator
	ins         instrument.Instrumentation
	location    *time.Location
}

type Dependency struct {
	RepoDB      repoDB
	Idempotency idempotency.Idempotency
	// Storage is optional; exports are unavailable without it.
	Storage    storage.Storage
	Config     config.Config
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	loc, err := time.LoadLocation(dep.Config.GetString("history.timezone"))
	if err != nil {
		slog.Warn("invalid history timezone, falling back to UTC", "timezone", dep.Config.GetString("history.timezone"), "error", err)
		loc = time.UTC
	}

	return &Usecase{
		repoDB:      dep.RepoDB,
		idempotency: dep.Idempotency,
		storage:     dep.Storage,
		cfg:         dep.Config,
		uid:         dep.UID,
		clock:       dep.Clock,
		validator:   dep.Validator,
		ins:         dep.Instrument,
		location:    loc,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("history.usecase").Start(ctx, name)
}

// startOfDay returns local midnight of the day containing t.
func (s *Usecase) startOfDay(t time.Time) time.Time {
	y, m, d := t.In(s.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.location)
}
