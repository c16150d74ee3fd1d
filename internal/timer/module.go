package timer

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gomodoro/internal/pkg/clock"
	"github.com/shandysiswandi/gomodoro/internal/pkg/config"
	"github.com/shandysiswandi/gomodoro/internal/pkg/instrument"
	"github.com/shandysiswandi/gomodoro/internal/pkg/messaging"
	"github.com/shandysiswandi/gomodoro/internal/pkg/router"
	"github.com/shandysiswandi/gomodoro/internal/pkg/uid"
	"github.com/shandysiswandi/gomodoro/internal/pkg/validator"
	"github.com/shandysiswandi/gomodoro/internal/timer/entity"
	"github.com/shandysiswandi/gomodoro/internal/timer/inbound"
	"github.com/shandysiswandi/gomodoro/internal/timer/outbound/cache"
	"github.com/shandysiswandi/gomodoro/internal/timer/outbound/mq"
	"github.com/shandysiswandi/gomodoro/internal/timer/usecase"
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	CacheConn  redis.UniversalClient      `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	duration := entity.DefaultDuration
	if v := dep.Config.GetInt64("timer.default_duration_seconds"); v > 0 {
		duration = v
	}

	uc := usecase.New(usecase.Dependency{
		Timer:         entity.NewTimer(duration),
		RepoCache:     cache.NewCache(dep.CacheConn, dep.Instrument),
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument),
		Config:        dep.Config,
		UUID:          dep.UUID,
		Clock:         dep.Clock,
		Validator:     dep.Validator,
		Instrument:    dep.Instrument,
	})

	if err := uc.Restore(dep.Ctx); err != nil {
		return err
	}

	inbound.RegisterHTTPEndpoint(dep.Router, dep.Config, uc)

	return nil
}
