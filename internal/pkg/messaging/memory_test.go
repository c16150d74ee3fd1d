package messaging

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func startConsumer(t *testing.T, m *Memory, topic string, h Handler, opts ...ConsumeOption) context.CancelFunc {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Consume(ctx, topic, h, opts...)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// wait for registration
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		n := len(m.subs[topic])
		m.mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	return cancel
}

func TestMemoryPublishConsume(t *testing.T) {
	m := NewMemory()
	got := make(chan Message, 1)
	startConsumer(t, m, "timer.completed", func(_ context.Context, msg Message) error {
		got <- msg
		return nil
	})

	err := m.Publish(context.Background(), "timer.completed", Message{Body: []byte(`{"id":"1"}`)})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case msg := <-got:
		if string(msg.Body) != `{"id":"1"}` || msg.Topic != "timer.completed" {
			t.Errorf("msg = %+v", msg)
		}
		if msg.Timestamp.IsZero() {
			t.Error("timestamp not set")
		}
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
}

func TestMemoryGroupDeliversOnce(t *testing.T) {
	m := NewMemory()
	var count atomic.Int32
	var wg sync.WaitGroup
	wg.Add(4)
	h := func(context.Context, Message) error {
		count.Add(1)
		wg.Done()
		return nil
	}
	startConsumer(t, m, "t", h, WithGroup("history"))
	startConsumer(t, m, "t", h, WithGroup("history"))

	for range 4 {
		if err := m.Publish(context.Background(), "t", Message{}); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	wg.Wait()

	if count.Load() != 4 {
		t.Errorf("count = %d, want 4", count.Load())
	}
}

func TestMemoryRetriesFailedHandler(t *testing.T) {
	m := NewMemory()
	var attempts atomic.Int32
	done := make(chan struct{})
	startConsumer(t, m, "t", func(context.Context, Message) error {
		if attempts.Add(1) == 1 {
			return errors.New("transient")
		}
		close(done)
		return nil
	})

	if err := m.Publish(context.Background(), "t", Message{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("message not redelivered")
	}
}

func TestMemoryPublishFailsFastWhenConsumerIsStuck(t *testing.T) {
	// Arrange
	m := NewMemory()
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	startConsumer(t, m, "t", func(context.Context, Message) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return errors.New("still failing")
	})
	t.Cleanup(func() { close(release) })

	if err := m.Publish(context.Background(), "t", Message{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	<-started
	for i := range memoryBuffer {
		if err := m.Publish(context.Background(), "t", Message{}); err != nil {
			t.Fatalf("Publish #%d: %v", i, err)
		}
	}

	// Act
	done := make(chan error, 1)
	go func() { done <- m.Publish(context.Background(), "t", Message{}) }()

	// Assert
	select {
	case err := <-done:
		if !errors.Is(err, ErrBufferFull) {
			t.Fatalf("Publish on full buffer = %v, want ErrBufferFull", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full buffer")
	}
}

func TestMemoryValidationAndClose(t *testing.T) {
	m := NewMemory()
	if err := m.Publish(context.Background(), "", Message{}); !errors.Is(err, ErrTopicRequired) {
		t.Errorf("Publish empty topic = %v", err)
	}
	if err := m.Consume(context.Background(), "t", nil); !errors.Is(err, ErrHandlerRequired) {
		t.Errorf("Consume nil handler = %v", err)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := m.Publish(context.Background(), "t", Message{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Publish after close = %v", err)
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	err := dispatch(context.Background(), DriverMemory, func(context.Context, Message) error {
		panic("boom")
	}, Message{})
	if err == nil {
		t.Fatal("expected error from panicking handler")
	}
}

func TestRetryDispatch(t *testing.T) {
	t.Run("StopsOnSuccess", func(t *testing.T) {
		var calls int
		err := retryDispatch(context.Background(), DriverNATS, func(context.Context, Message) error {
			calls++
			if calls < 2 {
				return errors.New("transient")
			}
			return nil
		}, Message{}, 3, time.Millisecond)

		if err != nil || calls != 2 {
			t.Fatalf("err = %v, calls = %d; want nil after 2", err, calls)
		}
	})

	t.Run("GivesUpAfterAttempts", func(t *testing.T) {
		var calls int
		err := retryDispatch(context.Background(), DriverNATS, func(context.Context, Message) error {
			calls++
			return errors.New("db down")
		}, Message{}, 3, time.Millisecond)

		if err == nil || calls != 3 {
			t.Fatalf("err = %v, calls = %d; want error after 3", err, calls)
		}
	})

	t.Run("StopsWhenCancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var calls int
		err := retryDispatch(ctx, DriverNATS, func(context.Context, Message) error {
			calls++
			cancel()
			return errors.New("db down")
		}, Message{}, 5, time.Hour)

		if err == nil || calls != 1 {
			t.Fatalf("err = %v, calls = %d; want error after 1", err, calls)
		}
	})
}

func TestNewFromDriver(t *testing.T) {
	m, err := NewFromDriver("", FactoryOptions{})
	if err != nil {
		t.Fatalf("NewFromDriver: %v", err)
	}
	if _, ok := m.(*Memory); !ok {
		t.Errorf("default driver = %T, want *Memory", m)
	}

	if _, err := NewFromDriver("rabbit", FactoryOptions{}); !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("unknown driver err = %v", err)
	}
	if _, err := NewFromDriver(DriverKafka, FactoryOptions{}); !errors.Is(err, ErrKafkaBrokersRequired) {
		t.Errorf("kafka without brokers err = %v", err)
	}
	if _, err := NewFromDriver(DriverNATS, FactoryOptions{}); !errors.Is(err, ErrNATSURLRequired) {
		t.Errorf("nats without url err = %v", err)
	}
}
