package entity

// Settings are the user preferences for a work/break cycle. Durations are in
// minutes.
type Settings struct {
	WorkMinutes            int  `msgpack:"work_minutes"`
	ShortBreakMinutes      int  `msgpack:"short_break_minutes"`
	LongBreakMinutes       int  `msgpack:"long_break_minutes"`
	SessionsUntilLongBreak int  `msgpack:"sessions_until_long_break"`
	AutoStartBreaks        bool `msgpack:"auto_start_breaks"`
	AutoStartWork          bool `msgpack:"auto_start_work"`
	SoundNotifications     bool `msgpack:"sound_notifications"`
}


// SessionSeconds is the configured length of a session of type t.
func (s Settings) SessionSeconds(t SessionType) int64 {
	switch t {
	case SessionShortBreak:
		return int64(s.ShortBreakMinutes) * 60
	case SessionLongBreak:
		return int64(s.LongBreakMinutes) * 60
	default:
		return int64(s.WorkMinutes) * 60
	}
}

// AutoStarts reports whether a session of type t begins on its own when the
// previous one completes.
func (s Settings) AutoStarts(t SessionType) bool {
	if t.IsBreak() {
		return s.AutoStartBreaks
	}
	return s.AutoStartWork
}
