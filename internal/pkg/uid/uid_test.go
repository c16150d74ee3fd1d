package uid

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerate(t *testing.T) {
	gen := NewUUID()
	a, b := gen.Generate(), gen.Generate()
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}

	id, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("parse %q: %v", a, err)
	}
	if id.Version() != 7 {
		t.Errorf("version = %d, want 7", id.Version())
	}
}

func TestSnowflakeGenerate(t *testing.T) {
	gen, err := NewSnowflake(1)
	if err != nil {
		t.Fatalf("NewSnowflake: %v", err)
	}

	prev := gen.Generate()
	for range 100 {
		next := gen.Generate()
		if next <= prev {
			t.Fatalf("ids not increasing: %d after %d", next, prev)
		}
		prev = next
	}
}

func TestSnowflakeInvalidNode(t *testing.T) {
	if _, err := NewSnowflake(4096); err == nil {
		t.Fatal("expected error for node out of range")
	}
}
