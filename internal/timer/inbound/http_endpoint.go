package inbound

import (
	"log/slog"

	"github.com/shandysiswandi/gomodoro/internal/pkg/goerror"
	"github.com/shandysiswandi/gomodoro/internal/pkg/router"
	"github.com/shandysiswandi/gomodoro/internal/timer/entity"
	"github.com/shandysiswandi/gomodoro/internal/timer/usecase"
)

type HTTPEndpoint struct {
	uc uc
}

// Start starts or resumes the timer.
// @Summary Start timer
// @Description Starts a stopped timer or resumes a paused one. No-op when running or completed.
// @Tags Timer
// @Produce json
// @Success 200 {object} router.successResponse{data=TimerResponse} "Timer state"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/timer/start [post]
func (h *HTTPEndpoint) Start(r *router.Request) (any, error) {
	snap, err := h.uc.Start(r.Context())
	if err != nil {
		return nil, err
	}

	return newTimerResponse(snap), nil
}

// Pause pauses a running timer.
// @Summary Pause timer
// @Description Freezes the remaining time of a running timer.
// @Tags Timer
// @Produce json
// @Success 200 {object} router.successResponse{data=TimerResponse} "Timer state"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/timer/pause [post]
func (h *HTTPEndpoint) Pause(r *router.Request) (any, error) {
	snap, err := h.uc.Pause(r.Context())
	if err != nil {
		return nil, err
	}

	return newTimerResponse(snap), nil
}

// Reset stops the timer and refills it.
// @Summary Reset timer
// @Description Stops the timer and sets remaining to the duration. An optional duration replaces the current one.
// @Tags Timer
// @Accept json
// @Produce json
// @Param request body ResetRequest false "Optional new duration in seconds"
// @Success 200 {object} router.successResponse{data=TimerResponse} "Timer state"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/timer/reset [post]
func (h *HTTPEndpoint) Reset(r *router.Request) (any, error) {
	var req ResetRequest
	if err := r.DecodeBodyLenient(&req); err != nil {
		// an unreadable body is a reset without a new duration
		slog.DebugContext(r.Context(), "ignore invalid reset body", "error", err)
		req = ResetRequest{}
	}

	var in usecase.ResetInput
	if req.Duration != nil {
		d, _ := entity.ParseSeconds(req.Duration)
		in.Duration = &d
	}

	snap, err := h.uc.Reset(r.Context(), in)
	if err != nil {
		return nil, err
	}

	return newTimerResponse(snap), nil
}

// GetState returns the current timer state.
// @Summary Get timer state
// @Description Returns duration, remaining seconds and status. A running timer whose time is up becomes completed.
// @Tags Timer
// @Produce json
// @Success 200 {object} router.successResponse{data=TimerResponse} "Timer state"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/timer/state [get]
func (h *HTTPEndpoint) GetState(r *router.Request) (any, error) {
	snap, err := h.uc.GetState(r.Context())
	if err != nil {
		return nil, err
	}

	return newTimerResponse(snap), nil
}

// GetSession returns the position in the work/break cycle.
// @Summary Get session
// @Description Returns the current session type, the completed pomodoro count and the timer state.
// @Tags Timer
// @Produce json
// @Success 200 {object} router.successResponse{data=SessionResponse} "Session state"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/timer/session [get]
func (h *HTTPEndpoint) GetSession(r *router.Request) (any, error) {
	st, err := h.uc.GetSession(r.Context())
	if err != nil {
		return nil, err
	}

	return newSessionResponse(st), nil
}

// NextSession moves the timer to the next session of the cycle.
// @Summary Next session
// @Description Loads the next session length into a stopped timer. A session that has not completed is skipped without counting.
// @Tags Timer
// @Produce json
// @Success 200 {object} router.successResponse{data=SessionResponse} "Session state"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/timer/session/next [post]
func (h *HTTPEndpoint) NextSession(r *router.Request) (any, error) {
	st, err := h.uc.NextSession(r.Context())
	if err != nil {
		return nil, err
	}

	return newSessionResponse(st), nil
}

// SetRemaining overwrites the remaining seconds.
// @Summary Set remaining time (debug)
// @Description Overwrites the remaining seconds without changing the status. Only routed when debug endpoints are enabled.
// @Tags Timer
// @Accept json
// @Produce json
// @Param request body SetRemainingRequest true "Remaining seconds"
// @Success 200 {object} router.successResponse{data=TimerResponse} "Timer state"
// @Failure 400 {object} router.errorResponse "seconds is required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/timer/set-remaining [post]
func (h *HTTPEndpoint) SetRemaining(r *router.Request) (any, error) {
	var req SetRemainingRequest
	if err := r.DecodeBodyOptional(&req); err != nil {
		return nil, err
	}
	if req.Seconds == nil {
		return nil, goerror.NewInvalidFormat("seconds is required")
	}

	seconds, _ := entity.ParseSeconds(req.Seconds)
	snap, err := h.uc.SetRemaining(r.Context(), usecase.SetRemainingInput{Seconds: seconds})
	if err != nil {
		return nil, err
	}

	return newTimerResponse(snap), nil
}

// GetSettings returns the cycle settings.
// @Summary Get timer settings
// @Description Returns work and break lengths in minutes plus behavior flags.
// @Tags Timer
// @Produce json
// @Success 200 {object} router.successResponse{data=SettingsResponse} "Settings"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/timer/settings [get]
func (h *HTTPEndpoint) GetSettings(r *router.Request) (any, error) {
	settings, err := h.uc.GetSettings(r.Context())
	if err != nil {
		return nil, err
	}

	return newSettingsResponse(settings), nil
}

// UpdateSettings updates the cycle settings.
// @Summary Update timer settings
// @Description Updates the provided fields. Omitted fields keep their value. The running timer is not affected.
// @Tags Timer
// @Accept json
// @Produce json
// @Param request body UpdateSettingsRequest true "Settings payload"
// @Success 200 {object} router.successResponse{data=SettingsResponse} "Settings"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/timer/settings [put]
func (h *HTTPEndpoint) UpdateSettings(r *router.Request) (any, error) {
	var req UpdateSettingsRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	settings, err := h.uc.UpdateSettings(r.Context(), usecase.UpdateSettingsInput{
		WorkMinutes:            req.WorkDuration,
		ShortBreakMinutes:      req.ShortBreakDuration,
		LongBreakMinutes:       req.LongBreakDuration,
		SessionsUntilLongBreak: req.SessionsUntilLongBreak,
		AutoStartBreaks:        req.AutoStartBreaks,
		AutoStartWork:          req.AutoStartWork,
		SoundNotifications:     req.SoundNotifications,
	})
	if err != nil {
		return nil, err
	}

	return newSettingsResponse(settings), nil
}
