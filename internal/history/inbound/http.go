package inbound

import "github.com/shandysiswandi/gomodoro/internal/pkg/router"

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/history", end.ListHistory)
	r.GET("/api/v1/history/stats", end.GetStats)
	r.POST("/api/v1/history/export", end.ExportHistory)
}
