package config

import (
	"io"
	"time"
)

// TimeConfig defines helpers for retrieving time-based configuration values.
type TimeConfig interface {
	// GetSecond retrieves the value associated with key as a number of seconds.
	// Missing or non-numeric values yield zero.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the value associated with key as a number of minutes.
	// Missing or non-numeric values yield zero.
	GetMinute(key string) time.Duration
}

// NumberConfig defines helpers for retrieving numeric configuration values.
type NumberConfig interface {
	// GetInt retrieves the value associated with key as an int.
	GetInt(key string) int

	// GetInt32 retrieves the value associated with key as an int32.
	GetInt32(key string) int32

	// GetInt64 retrieves the value associated with key as an int64.
	GetInt64(key string) int64

	// GetFloat64 retrieves the value associated with key as a float64.
	GetFloat64(key string) float64
}

// Config defines a set of methods for retrieving configuration values of various types.
// Implementations handle retrieval and type conversion and fall back to the
// zero value when a key is absent.
type Config interface {
	io.Closer
	TimeConfig
	NumberConfig

	// GetBool retrieves the value associated with key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value associated with key as a string.
	GetString(key string) string

	// GetArray retrieves the value associated with key as a slice of strings.
	// The value is stored as <element1>,<element2>,... and blank elements are dropped.
	GetArray(key string) []string
}
