package inbound

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shandysiswandi/gomodoro/internal/timer/entity"
	"github.com/shandysiswandi/gomodoro/internal/timer/usecase"
)

const (
	heartbeatPeriod = 25 * time.Second
	pollPeriod      = time.Second
)

// StreamTimer streams timer updates to the client using SSE.
// @Summary Stream timer
// @Description Streams timer state using Server-Sent Events (SSE). A frame is sent on every change and once per second while running.
// @Tags Timer
// @Produce text/event-stream
// @Success 200 {string} string "SSE stream"
// @Failure 500 {string} string "streaming unsupported"
// @Router /api/v1/timer/stream [get]
func (h *HTTPEndpoint) StreamTimer(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ctx := r.Context()

	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		slog.ErrorContext(ctx, "failed to send response connected", "error", err)
		return
	}
	flusher.Flush()

	send := func(evt usecase.StreamEvent) bool {
		payload, err := json.Marshal(evt)
		if err != nil {
			slog.ErrorContext(ctx, "failed to marshal data", "error", err)
			return true
		}
		if _, err := fmt.Fprintf(w, "event: timer\ndata: %s\n\n", payload); err != nil {
			slog.ErrorContext(ctx, "failed to send response data", "error", err)
			return false
		}
		flusher.Flush()
		return true
	}

	ping := func() bool {
		if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	h.pump(ctx, heartbeatPeriod, send, ping)
}

// pump forwards stream events and, while the timer runs, a per-second poll
// so clients see the countdown and the completion without asking. It returns
// when ctx is done or a write fails.
func (h *HTTPEndpoint) pump(ctx context.Context, keepalive time.Duration, send func(usecase.StreamEvent) bool, ping func() bool) {
	stream := h.uc.StreamTimer(ctx)

	heartbeat := time.NewTicker(keepalive)
	defer heartbeat.Stop()

	poll := time.NewTicker(pollPeriod)
	defer poll.Stop()

	var last usecase.StreamEvent
	for {
		select {
		case <-ctx.Done():
			return

		// keepalive ping, so proxies won't drop idle connections.
		case <-heartbeat.C:
			if !ping() {
				return
			}

		case <-poll.C:
			if last.Status != entity.StatusRunning {
				continue
			}
			// Completion is broadcast through the stream by the use case.
			evt, err := h.uc.StreamState(ctx)
			if err != nil || evt.Snapshot == last.Snapshot || evt.Status == entity.StatusCompleted {
				continue
			}
			last = evt
			if !send(last) {
				return
			}

		case evt, ok := <-stream:
			if !ok {
				return
			}
			last = evt
			if !send(evt) {
				return
			}
		}
	}
}
