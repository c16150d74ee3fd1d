package validator

import (
	"errors"
	"testing"
)

type sample struct {
	WorkDuration int  `json:"workDuration" validate:"min=1,max=60"`
	Sessions     int  `json:"sessionsUntilLongBreak" validate:"min=1,max=12"`
	Sound        bool `json:"soundNotifications"`
}

func TestV10ValidatorValidate(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator: %v", err)
	}

	if err := v.Validate(sample{WorkDuration: 25, Sessions: 4}); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	err = v.Validate(sample{WorkDuration: 61, Sessions: 0})
	var verr V10ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %T %v, want V10ValidationError", err, err)
	}
	if _, ok := verr.Values()["workDuration"]; !ok {
		t.Errorf("missing workDuration in %v", verr)
	}
	if msg := verr.Values()["sessionsUntilLongBreak"]; msg == "" {
		t.Errorf("missing sessionsUntilLongBreak in %v", verr)
	}
	if len(verr) != 2 {
		t.Errorf("len = %d, want 2 (%v)", len(verr), verr)
	}
}

func TestV10ValidatorNonStruct(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator: %v", err)
	}

	err = v.Validate("not a struct")
	var verr V10ValidationError
	if err == nil || errors.As(err, &verr) {
		t.Fatalf("Validate(string) = %v, want non-validation error", err)
	}
}
