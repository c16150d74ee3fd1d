package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/shandysiswandi/gomodoro/internal/pkg/stacktrace"
)

// dispatch runs handler, turning a panic into an error and logging failures.
func dispatch(ctx context.Context, driver string, handler Handler, msg Message) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}
		stack := debug.Stack()
		if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
			slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", paths)
		} else {
			slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", string(stack))
		}
		err = fmt.Errorf("messaging: panic in %s handler: %v", driver, rvr)
	}()

	if err = handler(ctx, msg); err != nil {
		slog.WarnContext(ctx, "messaging handler failed", "driver", driver, "topic", msg.Topic, "error", err)
	}
	return err
}

// retryDispatch runs dispatch up to attempts times, pausing between failures,
// for brokers that cannot take a message back. The last error is returned
// once the message is given up on.
func retryDispatch(ctx context.Context, driver string, handler Handler, msg Message, attempts int, pause time.Duration) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = dispatch(ctx, driver, handler, msg); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(pause):
		}
	}

	slog.ErrorContext(ctx, "drop message after failed deliveries", "driver", driver, "topic", msg.Topic, "attempts", attempts, "error", err)
	return err
}
