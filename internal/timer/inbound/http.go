package inbound

import (
	"net/http"

	"github.com/shandysiswandi/gomodoro/internal/pkg/config"
	"github.com/shandysiswandi/gomodoro/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, cfg config.Config, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/timer/start", end.Start)
	r.POST("/api/v1/timer/pause", end.Pause)
	r.POST("/api/v1/timer/reset", end.Reset)
	r.GET("/api/v1/timer/state", end.GetState)

	r.GET("/api/v1/timer/session", end.GetSession)
	r.POST("/api/v1/timer/session/next", end.NextSession)

	r.GET("/api/v1/timer/settings", end.GetSettings)
	r.PUT("/api/v1/timer/settings", end.UpdateSettings)

	r.GETRaw("/api/v1/timer/stream", http.HandlerFunc(end.StreamTimer))
	r.GETRaw("/api/v1/timer/ws", http.HandlerFunc(end.WebSocketTimer))

	if cfg.GetBool("modules.timer.debug_endpoints") {
		r.POST("/api/v1/timer/set-remaining", end.SetRemaining)
	}
}
