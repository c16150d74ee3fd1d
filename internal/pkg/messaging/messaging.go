package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrTopicRequired is returned when Publish or Consume get an empty topic.
	ErrTopicRequired = errors.New("messaging: topic is required")
	// ErrHandlerRequired is returned when Consume gets a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
	// ErrClosed is returned after Close.
	ErrClosed = io.ErrClosedPipe
	// ErrBufferFull is returned by the in-memory broker when a consumer has
	// fallen too far behind to take another message.
	ErrBufferFull = errors.New("messaging: consumer buffer is full")
)

// Messaging is a broker-agnostic client that can publish and consume messages.
type Messaging interface {
	io.Closer
	Publisher
	Consumer
}

// Publisher publishes messages to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg Message) error
}

// Consumer consumes messages from a topic. Consume blocks until ctx is done
// or the subscription fails.
type Consumer interface {
	Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message. A non-nil error asks the broker to
// redeliver when it can.
type Handler func(ctx context.Context, msg Message) error

// Message is a broker-agnostic message.
type Message struct {
	Topic string
	// Key is used by Kafka for partitioning and ignored elsewhere.
	Key  []byte
	Body []byte
	// Headers are dropped by NSQ, which has no header support.
	Headers   map[string]string
	Timestamp time.Time
}

type consumeOptions struct {
	group       string
	concurrency int
}

// ConsumeOption configures a Consume call.
type ConsumeOption func(*consumeOptions)

// WithGroup names the load-balancing group: a Kafka consumer group, an NSQ
// channel or a NATS queue group. Consumers sharing a group split the stream.
func WithGroup(group string) ConsumeOption {
	return func(o *consumeOptions) { o.group = group }
}

// WithConcurrency sets how many handlers may run in parallel. Kafka ignores
// it to preserve per-partition ordering.
func WithConcurrency(n int) ConsumeOption {
	return func(o *consumeOptions) { o.concurrency = n }
}

func newConsumeOptions(opts ...ConsumeOption) consumeOptions {
	co := consumeOptions{group: "gomodoro", concurrency: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&co)
		}
	}
	if co.concurrency < 1 {
		co.concurrency = 1
	}
	return co
}

func validateConsume(topic string, handler Handler) error {
	if topic == "" {
		return ErrTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	return nil
}
