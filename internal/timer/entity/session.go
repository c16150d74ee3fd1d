package entity

// SessionType names the kind of interval in a work/break cycle.
type SessionType string

const (
	SessionWork       SessionType = "work"
	SessionShortBreak SessionType = "short_break"
	SessionLongBreak  SessionType = "long_break"
)

func (t SessionType) String() string {
	return string(t)
}

// IsValid reports whether t is one of the known session types.
func (t SessionType) IsValid() bool {
	switch t {
	case SessionWork, SessionShortBreak, SessionLongBreak:
		return true
	default:
		return false
	}
}

// IsBreak reports whether t is a short or long break.
func (t SessionType) IsBreak() bool {
	return t == SessionShortBreak || t == SessionLongBreak
}

// Cycle is the position in the work/break rotation: the session the timer is
// counting down and the number of work sessions completed so far.
type Cycle struct {
	Session   SessionType `msgpack:"session" json:"session_type"`
	Pomodoros int         `msgpack:"pomodoros" json:"pomodoros"`
}

// NewCycle returns a cycle at the first work session.
func NewCycle() Cycle {
	return Cycle{Session: SessionWork}
}

// Normalize repairs a cycle loaded from storage.
func (c Cycle) Normalize() Cycle {
	if !c.Session.IsValid() {
		c.Session = SessionWork
	}
	c.Pomodoros = max(c.Pomodoros, 0)
	return c
}

// Complete returns the cycle after the current session ran to zero. A
// finished work session counts a pomodoro and is followed by a long break on
// every longBreakEvery-th pomodoro and a short break otherwise. A finished
// break is followed by work.
func (c Cycle) Complete(longBreakEvery int) Cycle {
	c = c.Normalize()
	if c.Session.IsBreak() {
		return Cycle{Session: SessionWork, Pomodoros: c.Pomodoros}
	}

	c.Pomodoros++
	if longBreakEvery > 0 && c.Pomodoros%longBreakEvery == 0 {
		c.Session = SessionLongBreak
	} else {
		c.Session = SessionShortBreak
	}
	return c
}

// Skip returns the cycle after abandoning the current session. Nothing is
// counted.
func (c Cycle) Skip() Cycle {
	c = c.Normalize()
	if c.Session.IsBreak() {
		c.Session = SessionWork
	} else {
		c.Session = SessionShortBreak
	}
	return c
}
