package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gomodoro/internal/pkg/goerror"
	"github.com/shandysiswandi/gomodoro/internal/timer/entity"
)

// UpdateSettingsInput carries a partial update; nil fields keep their
// current value.
type UpdateSettingsInput struct {
	WorkMinutes            *int  `json:"workDuration" validate:"omitempty,min=1,max=60"`
	ShortBreakMinutes      *int  `json:"shortBreakDuration" validate:"omitempty,min=1,max=30"`
	LongBreakMinutes       *int  `json:"longBreakDuration" validate:"omitempty,min=1,max=60"`
	SessionsUntilLongBreak *int  `json:"sessionsUntilLongBreak" validate:"omitempty,min=1,max=12"`
	AutoStartBreaks        *bool `json:"autoStartBreaks"`
	AutoStartWork          *bool `json:"autoStartWork"`
	SoundNotifications     *bool `json:"soundNotifications"`
}

func (s *Usecase) GetSettings(ctx context.Context) (entity.Settings, error) {
	ctx, span := s.startSpan(ctx, "GetSettings")
	defer span.End()

	return s.currentSettings(ctx)
}

func (s *Usecase) UpdateSettings(ctx context.Context, in UpdateSettingsInput) (entity.Settings, error) {
	ctx, span := s.startSpan(ctx, "UpdateSettings")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return entity.Settings{}, goerror.NewInvalidInput(err)
	}

	settings, err := s.currentSettings(ctx)
	if err != nil {
		return entity.Settings{}, err
	}

	assign(&settings.WorkMinutes, in.WorkMinutes)
	assign(&settings.ShortBreakMinutes, in.ShortBreakMinutes)
	assign(&settings.LongBreakMinutes, in.LongBreakMinutes)
	assign(&settings.SessionsUntilLongBreak, in.SessionsUntilLongBreak)
	assign(&settings.AutoStartBreaks, in.AutoStartBreaks)
	assign(&settings.AutoStartWork, in.AutoStartWork)
	assign(&settings.SoundNotifications, in.SoundNotifications)

	if err := s.repoCache.SaveSettings(ctx, settings); err != nil {
		slog.ErrorContext(ctx, "failed to repo save timer settings", "error", err)
		return entity.Settings{}, goerror.NewServer(err)
	}

	return settings, nil
}

func (s *Usecase) currentSettings(ctx context.Context) (entity.Settings, error) {
	stored, err := s.repoCache.GetSettings(ctx)
	if errors.Is(err, goerror.ErrNotFound) {
		return s.defaultSettings(), nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get timer settings", "error", err)
		return entity.Settings{}, goerror.NewServer(err)
	}

	return *stored, nil
}

func (s *Usecase) defaultSettings() entity.Settings {
	return entity.Settings{
		WorkMinutes:            s.cfg.GetInt("timer.settings.work_minutes"),
		ShortBreakMinutes:      s.cfg.GetInt("timer.settings.short_break_minutes"),
		LongBreakMinutes:       s.cfg.GetInt("timer.settings.long_break_minutes"),
		SessionsUntilLongBreak: s.cfg.GetInt("timer.settings.sessions_until_long_break"),
		AutoStartBreaks:        s.cfg.GetBool("timer.settings.auto_start_breaks"),
		AutoStartWork:          s.cfg.GetBool("timer.settings.auto_start_work"),
		SoundNotifications:     s.cfg.GetBool("timer.settings.sound_notifications"),
	}
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
