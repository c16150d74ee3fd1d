package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/gomodoro/internal/history"
	"github.com/shandysiswandi/gomodoro/internal/timer"
)

func (a *App) initModules() {
	if err := timer.New(timer.Dependency{
		Ctx:        a.ctx,
		CacheConn:  a.cacheConn,
		Messaging:  a.messaging,
		Router:     a.router,
		Config:     a.config,
		Instrument: a.ins,
		UUID:       a.uuid,
		Clock:      a.clock,
		Validator:  a.validator,
	}); err != nil {
		slog.Error("failed to init module timer", "error", err)
		os.Exit(1)
	}

	if a.config.GetBool("modules.history.enabled") {
		if err := history.New(history.Dependency{
			Ctx:         a.ctx,
			DBConn:      a.dbConn,
			Idempotency: a.idemp,
			Messaging:   a.messaging,
			Goroutine:   a.goroutine,
			Router:      a.router,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			UUID:        a.uuid,
			Clock:       a.clock,
			Validator:   a.validator,
			Storage:     a.storage,
		}); err != nil {
			slog.Error("failed to init module history", "error", err)
			os.Exit(1)
		}
	}
}
