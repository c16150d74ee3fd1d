package inbound

import (
	"github.com/shandysiswandi/gomodoro/internal/timer/entity"
	"github.com/shandysiswandi/gomodoro/internal/timer/usecase"
)

type ResetRequest struct {
	// Duration accepts a number or numeric string; anything else resets to 0.
	Duration any `json:"duration"`
}

type SetRemainingRequest struct {
	Seconds any `json:"seconds"`
}

type TimerResponse struct {
	Duration  int64  `json:"duration"`
	Remaining int64  `json:"remaining"`
	Status    string `json:"status"`
}

func newTimerResponse(s entity.Snapshot) TimerResponse {
	return TimerResponse{
		Duration:  s.Duration,
		Remaining: s.Remaining,
		Status:    s.Status.String(),
	}
}

type SessionResponse struct {
	SessionType string        `json:"session_type"`
	Pomodoros   int           `json:"pomodoros"`
	Timer       TimerResponse `json:"timer"`
}

func newSessionResponse(st usecase.SessionState) SessionResponse {
	return SessionResponse{
		SessionType: st.Session.String(),
		Pomodoros:   st.Pomodoros,
		Timer:       newTimerResponse(st.Timer),
	}
}

type UpdateSettingsRequest struct {
	WorkDuration           *int  `json:"workDuration"`
	ShortBreakDuration     *int  `json:"shortBreakDuration"`
	LongBreakDuration      *int  `json:"longBreakDuration"`
	SessionsUntilLongBreak *int  `json:"sessionsUntilLongBreak"`
	AutoStartBreaks        *bool `json:"autoStartBreaks"`
	AutoStartWork          *bool `json:"autoStartWork"`
	SoundNotifications     *bool `json:"soundNotifications"`
}

type SettingsResponse struct {
	WorkDuration           int  `json:"workDuration"`
	ShortBreakDuration     int  `json:"shortBreakDuration"`
	LongBreakDuration      int  `json:"longBreakDuration"`
	SessionsUntilLongBreak int  `json:"sessionsUntilLongBreak"`
	AutoStartBreaks        bool `json:"autoStartBreaks"`
	AutoStartWork          bool `json:"autoStartWork"`
	SoundNotifications     bool `json:"soundNotifications"`
}

func newSettingsResponse(s entity.Settings) SettingsResponse {
	return SettingsResponse{
		WorkDuration:           s.WorkMinutes,
		ShortBreakDuration:     s.ShortBreakMinutes,
		LongBreakDuration:      s.LongBreakMinutes,
		SessionsUntilLongBreak: s.SessionsUntilLongBreak,
		AutoStartBreaks:        s.AutoStartBreaks,
		AutoStartWork:          s.AutoStartWork,
		SoundNotifications:     s.SoundNotifications,
	}
}

// wsCommand is a client frame on the WebSocket stream.
type wsCommand struct {
	Action   string `json:"action"`
	Duration any    `json:"duration"`
}

// wsFrame is a server frame on the WebSocket stream.
type wsFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}
