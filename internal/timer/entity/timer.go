package entity

import (
	"math"
	"sync"
	"time"
)

const (
	// DefaultDuration is used when no duration is configured.
	DefaultDuration int64 = 25 * 60

	maxSeconds = math.MaxInt64 / int64(time.Second)
)

// Snapshot is the externally visible state of a timer. Remaining is floored to
// whole seconds.
type Snapshot struct {
	Duration  int64  `json:"duration"`
	Remaining int64  `json:"remaining"`
	Status    Status `json:"status"`
}

// Checkpoint is the raw state of a timer, used to survive restarts. Cycle is
// filled in by the owner of the timer; the timer itself ignores it.
type Checkpoint struct {
	Duration  time.Duration `msgpack:"duration"`
	Remaining time.Duration `msgpack:"remaining"`
	Status    Status        `msgpack:"status"`
	StartedAt time.Time     `msgpack:"started_at"`
	Cycle     Cycle         `msgpack:"cycle"`
}

// Timer is a countdown that derives its remaining time from the instant it
// was last started. Completion is detected lazily whenever the timer is
// observed; there is no background ticker.
//
// Every method is a single critical section and returns the snapshot taken
// under the same lock. Methods that observe a running timer also return a flag
// that is true only for the call that moved the timer into StatusCompleted.
type Timer struct {
	mu        sync.Mutex
	duration  time.Duration
	remaining time.Duration
	status    Status
	startedAt time.Time
}

// NewTimer returns a stopped timer of the given length. Negative lengths are
// treated as zero.
func NewTimer(seconds int64) *Timer {
	d := toDuration(seconds)
	return &Timer{
		duration:  d,
		remaining: d,
		status:    StatusStopped,
	}
}

// Start begins or resumes the countdown. It is a no-op when the timer is
// already running or completed.
func (t *Timer) Start(now time.Time) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status == StatusStopped || t.status == StatusPaused {
		t.status = StatusRunning
		t.startedAt = now
	}

	return t.observe(now)
}

// Pause freezes the countdown at its current value. The timer stays paused
// even when no time is left; completion is only detected by a running
// observation.
func (t *Timer) Pause(now time.Time) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != StatusRunning {
		return t.snapshot(t.remaining)
	}

	t.remaining = t.effective(now)
	t.startedAt = time.Time{}
	t.status = StatusPaused

	return t.snapshot(t.remaining)
}

// Reset stops the timer and refills it. A non-nil seconds replaces the
// duration; negative values are treated as zero.
func (t *Timer) Reset(seconds *int64) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	if seconds != nil {
		t.duration = toDuration(*seconds)
	}
	t.remaining = t.duration
	t.status = StatusStopped
	t.startedAt = time.Time{}

	return t.snapshot(t.remaining)
}

// Rollover loads a new length into a completed timer and starts it at now.
// It reports false and changes nothing when the timer is not completed.
func (t *Timer) Rollover(now time.Time, seconds int64) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != StatusCompleted {
		return t.snapshot(t.remaining), false
	}

	t.duration = toDuration(seconds)
	t.remaining = t.duration
	t.status = StatusRunning
	t.startedAt = now

	return t.snapshot(t.remaining), true
}

// SetRemaining overwrites the remaining time, clamped to [0, duration],
// without changing the status. A running timer restarts its count from now.
// A completed timer ignores the call.
func (t *Timer) SetRemaining(now time.Time, seconds int64) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status == StatusCompleted {
		return t.snapshot(0), false
	}

	t.remaining = min(toDuration(seconds), t.duration)
	if t.status == StatusRunning {
		t.startedAt = now
	}

	return t.observe(now)
}

// State returns the current snapshot. A running timer whose time is up moves
// to StatusCompleted on this call.
func (t *Timer) State(now time.Time) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.observe(now)
}

// Checkpoint exports the raw timer state.
func (t *Timer) Checkpoint() Checkpoint {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Checkpoint{
		Duration:  t.duration,
		Remaining: t.remaining,
		Status:    t.status,
		StartedAt: t.startedAt,
	}
}

// Restore replaces the timer state with cp. Values that would break the
// timer invariants are repaired rather than rejected.
func (t *Timer) Restore(cp Checkpoint) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.duration = max(cp.Duration.Truncate(time.Second), 0)
	t.remaining = min(max(cp.Remaining, 0), t.duration)
	t.status = cp.Status
	t.startedAt = cp.StartedAt

	switch {
	case !t.status.IsValid():
		t.status = StatusStopped
		t.remaining = t.duration
		t.startedAt = time.Time{}
	case t.status == StatusRunning && t.startedAt.IsZero():
		t.status = StatusPaused
	case t.status == StatusCompleted:
		t.remaining = 0
		t.startedAt = time.Time{}
	case t.status != StatusRunning:
		t.startedAt = time.Time{}
	}
}

// observe must be called with mu held.
func (t *Timer) observe(now time.Time) (Snapshot, bool) {
	if t.status != StatusRunning {
		return t.snapshot(t.remaining), false
	}

	left := t.effective(now)
	if left < time.Second {
		t.complete()
		return t.snapshot(0), true
	}

	return t.snapshot(left), false
}

func (t *Timer) effective(now time.Time) time.Duration {
	elapsed := max(now.Sub(t.startedAt), 0)
	return max(t.remaining-elapsed, 0)
}

func (t *Timer) complete() {
	t.status = StatusCompleted
	t.remaining = 0
	t.startedAt = time.Time{}
}

func (t *Timer) snapshot(remaining time.Duration) Snapshot {
	return Snapshot{
		Duration:  int64(t.duration / time.Second),
		Remaining: int64(remaining / time.Second),
		Status:    t.status,
	}
}

func toDuration(seconds int64) time.Duration {
	if seconds <= 0 {
		return 0
	}
	seconds = min(seconds, maxSeconds)
	return time.Duration(seconds) * time.Second
}
