package goerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "server", err: NewServer(errors.New("boom")), want: http.StatusInternalServerError},
		{name: "invalid format", err: NewInvalidFormat("seconds is required"), want: http.StatusBadRequest},
		{name: "invalid input", err: NewInvalidInput(nil, "workDuration", "too large"), want: http.StatusUnprocessableEntity},
		{name: "odd kv", err: NewInvalidInput(nil, "workDuration"), want: http.StatusBadRequest},
		{name: "not found", err: NewBusiness("missing", CodeNotFound), want: http.StatusNotFound},
		{name: "unavailable", err: NewUnavailable("storage disabled"), want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ge, ok := As(tt.err)
			if !ok {
				t.Fatalf("As(%v) = false", tt.err)
			}
			if got := ge.StatusCode(); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAsWrapped(t *testing.T) {
	base := NewInvalidFormat("seconds is required")
	wrapped := fmt.Errorf("handler: %w", base)

	ge, ok := As(wrapped)
	if !ok {
		t.Fatal("As on wrapped error = false")
	}
	if ge.Msg() != "seconds is required" {
		t.Errorf("Msg() = %q", ge.Msg())
	}
	if _, ok := As(errors.New("plain")); ok {
		t.Error("As on plain error = true")
	}
}

func TestNewInvalidInputFields(t *testing.T) {
	ge, _ := As(NewInvalidInput(nil, "a", "x", "b", "y"))
	if diff := cmp.Diff(map[string]string{"a": "x", "b": "y"}, ge.Fields()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if ge.Type() != TypeValidation || ge.Code() != CodeInvalidInput {
		t.Errorf("type/code = %s/%s", ge.Type(), ge.Code())
	}
}

func TestNewServerUnwrap(t *testing.T) {
	cause := errors.New("redis down")
	err := NewServer(cause)
	if !errors.Is(err, cause) {
		t.Error("NewServer should wrap cause")
	}
	if err.Error() != "redis down" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(NewUnavailable("x"), ErrUnavailable) {
		t.Error("NewUnavailable should wrap ErrUnavailable")
	}
}
