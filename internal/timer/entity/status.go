package entity

// Status is the lifecycle state of a timer.
type Status string

const (
	StatusStopped   Status = "stopped"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusStopped, StatusRunning, StatusPaused, StatusCompleted:
		return true
	default:
		return false
	}
}
