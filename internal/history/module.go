package history

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gomodoro/internal/history/inbound"
	"github.com/shandysiswandi/gomodoro/internal/history/outbound/db"
	"github.com/shandysiswandi/gomodoro/internal/history/usecase"
	"github.com/shandysiswandi/gomodoro/internal/pkg/clock"
	"github.com/shandysiswandi/gomodoro/internal/pkg/config"
	"github.com/shandysiswandi/gomodoro/internal/pkg/goroutine"
	"github.com/shandysiswandi/gomodoro/internal/pkg/idempotency"
	"github.com/shandysiswandi/gomodoro/internal/pkg/instrument"
	"github.com/shandysiswandi/gomodoro/internal/pkg/messaging"
	"github.com/shandysiswandi/gomodoro/internal/pkg/router"
	"github.com/shandysiswandi/gomodoro/internal/pkg/storage"
	"github.com/shandysiswandi/gomodoro/internal/pkg/uid"
	"github.com/shandysiswandi/gomodoro/internal/pkg/validator"
)

type Dependency struct {
	Ctx         context.Context            `validate:"required"`
	DBConn      *pgxpool.Pool              `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	// Storage is nil when exports are disabled.
	Storage storage.Storage
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:      db.NewDB(dep.DBConn, dep.Instrument),
		Idempotency: dep.Idempotency,
		Storage:     dep.Storage,
		Config:      dep.Config,
		UID:         dep.UID,
		Clock:       dep.Clock,
		Validator:   dep.Validator,
		Instrument:  dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)

	return nil
}
