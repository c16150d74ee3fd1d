package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shandysiswandi/gomodoro/internal/pkg/clock"
	"github.com/shandysiswandi/gomodoro/internal/pkg/config"
	"github.com/shandysiswandi/gomodoro/internal/pkg/instrument"
	"github.com/shandysiswandi/gomodoro/internal/pkg/uid"
	"github.com/shandysiswandi/gomodoro/internal/pkg/validator"
	"github.com/shandysiswandi/gomodoro/internal/timer/entity"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type repoCache interface {
	GetCheckpoint(ctx context.Context) (*entity.Checkpoint, error)
	SaveCheckpoint(ctx context.Context, cp entity.Checkpoint) error
	GetSettings(ctx context.Context) (*entity.Settings, error)
	SaveSettings(ctx context.Context, s entity.Settings) error
}

type repoMessaging interface {
	PublishTimerCompleted(ctx context.Context, evt TimerCompletedEvent) error
}

// TimerCompletedEvent is published once per completed countdown.
// PomodoroCount is the number of work sessions completed including this one.
type TimerCompletedEvent struct {
	ID              string
	SessionType     entity.SessionType
	DurationSeconds int64
	PomodoroCount   int
	CompletedAt     time.Time
}

const defaultPublishTimeout = 2 * time.Second

type Usecase struct {
	timer         *entity.Timer
	repoCache     repoCache
	repoMessaging repoMessaging
	cfg           config.Config
	uuid          uid.StringID
	clock         clock.Clocker
	validator     validator.Validator
	ins           instrument.Instrumentation
	completions   metric.Int64Counter
	streamMu      sync.RWMutex
	streams       map[*subscriber]struct{}
	cycleMu       sync.Mutex
	cycle         entity.Cycle
}

type Dependency struct {
	Timer         *entity.Timer
	RepoCache     repoCache
	RepoMessaging repoMessaging
	Config        config.Config
	UUID          uid.StringID
	Clock         clock.Clocker
	Validator     validator.Validator
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	completions, err := dep.Instrument.Meter("timer.usecase").Int64Counter(
		"timer.completions",
		metric.WithDescription("Number of countdowns that reached zero."),
		metric.WithUnit("{countdown}"),
	)
	if err != nil {
		slog.Warn("failed to create timer completion counter", "error", err)
	}

	return &Usecase{
		timer:         dep.Timer,
		repoCache:     dep.RepoCache,
		repoMessaging: dep.RepoMessaging,
		cfg:           dep.Config,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		validator:     dep.Validator,
		ins:           dep.Instrument,
		completions:   completions,
		streams:       make(map[*subscriber]struct{}),
		cycle:         entity.NewCycle(),
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("timer.usecase").Start(ctx, name)
}

// afterChange runs the side effects of a state change. Failures are logged
// and never surface to the caller, whose request already succeeded.
func (s *Usecase) afterChange(ctx context.Context, op string, snap entity.Snapshot, completed bool) {
	var next *entity.Snapshot
	if completed {
		next = s.finishSession(ctx, op, snap)
	}

	s.saveCheckpoint(ctx, op)

	s.broadcast(snap)
	if next != nil {
		s.broadcast(*next)
	}
}

func (s *Usecase) saveCheckpoint(ctx context.Context, op string) {
	cp := s.timer.Checkpoint()
	cp.Cycle = s.currentCycle()

	if err := s.repoCache.SaveCheckpoint(ctx, cp); err != nil {
		slog.ErrorContext(ctx, "failed to repo save timer checkpoint", "op", op, "error", err)
	}
}

// finishSession records a completed countdown and moves the cycle on. When
// the next session starts on its own, the snapshot of the started timer is
// returned.
func (s *Usecase) finishSession(ctx context.Context, op string, snap entity.Snapshot) *entity.Snapshot {
	if s.completions != nil {
		s.completions.Add(ctx, 1)
	}

	settings, err := s.currentSettings(ctx)
	if err != nil {
		settings = s.defaultSettings()
	}

	s.cycleMu.Lock()
	finished := s.cycle
	s.cycle = finished.Complete(settings.SessionsUntilLongBreak)
	next := s.cycle
	s.cycleMu.Unlock()

	evt := TimerCompletedEvent{
		ID:              s.uuid.Generate(),
		SessionType:     finished.Session,
		DurationSeconds: snap.Duration,
		PomodoroCount:   next.Pomodoros,
		CompletedAt:     s.clock.Now(),
	}
	slog.InfoContext(ctx, "timer completed", "op", op, "event_id", evt.ID, "session_type", evt.SessionType.String(),
		"duration_seconds", evt.DurationSeconds, "pomodoro_count", evt.PomodoroCount, "next_session", next.Session.String())

	s.publishCompleted(ctx, evt)

	if !settings.AutoStarts(next.Session) {
		return nil
	}

	started, ok := s.timer.Rollover(s.clock.Now(), settings.SessionSeconds(next.Session))
	if !ok {
		return nil
	}

	return &started
}

// publishCompleted hands evt to the broker without letting a slow or stuck
// broker hold the caller's request.
func (s *Usecase) publishCompleted(ctx context.Context, evt TimerCompletedEvent) {
	timeout := s.cfg.GetSecond("timer.publish_timeout_seconds")
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := s.repoMessaging.PublishTimerCompleted(ctx, evt); err != nil {
		slog.ErrorContext(ctx, "failed to repo publish timer completed", "event_id", evt.ID, "error", err)
	}
}

func (s *Usecase) currentCycle() entity.Cycle {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	return s.cycle
}
