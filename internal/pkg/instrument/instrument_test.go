package instrument

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Run("Disabled", func(t *testing.T) {
		ins, err := New(context.Background(), &Config{ServiceName: "gomodoro"})
		if err != nil {
			t.Fatalf("New() = %v", err)
		}
		if _, ok := ins.(noopInstrumentation); !ok {
			t.Fatalf("New() = %T, want noop", ins)
		}
	})

	t.Run("EnabledBuildsExporters", func(t *testing.T) {
		// OTLP gRPC exporters dial lazily, so no collector is needed here.
		ins, err := New(context.Background(), &Config{
			Enabled:          true,
			ServiceName:      "gomodoro",
			OTLPEndpoint:     "127.0.0.1:4317",
			TraceSampleRatio: 1,
			MetricsInterval:  time.Hour,
		})
		if err != nil {
			t.Fatalf("New() = %v", err)
		}

		_, span := ins.Tracer("test").Start(context.Background(), "op")
		span.End()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = ins.Shutdown(ctx)
	})
}
