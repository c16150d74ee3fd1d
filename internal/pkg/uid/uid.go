// Package uid generates identifiers for events, rows and request correlation.
package uid

// StringID generates opaque string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates sortable numeric identifiers.
type NumberID interface {
	Generate() int64
}
