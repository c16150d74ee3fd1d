package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// ErrNATSURLRequired is returned when the NATS server URL is missing.
var ErrNATSURLRequired = errors.New("messaging: nats url is required")

const (
	natsAttempts   = 3
	natsRetryPause = time.Second
)

// NATSConfig configures the NATS implementation.
type NATSConfig struct {
	URL     string
	Options []nats.Option
}

// NATS is a messaging implementation backed by core NATS. Core NATS delivers
// at most once and has no negative acknowledgement, so a handler error is
// retried in process a few times and the message is then dropped. A process
// exit during the retries loses the message too.
type NATS struct {
	conn *nats.Conn

	mu     sync.Mutex
	subs   []*nats.Subscription
	closed bool
}

// NewNATS connects to the configured server.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

// Close drains subscriptions and the connection.
func (n *NATS) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	subs := n.subs
	n.subs = nil
	n.mu.Unlock()

	var errs []error
	for _, sub := range subs {
		errs = append(errs, sub.Drain())
	}
	errs = append(errs, n.conn.Drain())

	return errors.Join(errs...)
}

// Publish sends msg to the subject named topic.
func (n *NATS) Publish(ctx context.Context, topic string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}

	nmsg := nats.NewMsg(topic)
	nmsg.Data = msg.Body
	for k, v := range msg.Headers {
		nmsg.Header.Set(k, v)
	}

	if err := n.conn.PublishMsg(nmsg); err != nil {
		return fmt.Errorf("messaging: nats publish: %w", err)
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("messaging: nats flush: %w", err)
	}

	return nil
}

// Consume subscribes to topic in the configured queue group.
func (n *NATS) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)

	msgCh := make(chan *nats.Msg, co.concurrency)
	sub, err := n.conn.QueueSubscribe(topic, co.group, func(m *nats.Msg) {
		select {
		case msgCh <- m:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("messaging: nats subscribe: %w", err)
	}

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return errors.Join(ErrClosed, sub.Unsubscribe())
	}
	n.subs = append(n.subs, sub)
	n.mu.Unlock()

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case m := <-msgCh:
					//nolint:errcheck // logged by retryDispatch
					_ = retryDispatch(ctx, DriverNATS, handler, natsToMessage(m), natsAttempts, natsRetryPause)
				}
			}
		})
	}

	<-ctx.Done()
	err = sub.Unsubscribe()
	wg.Wait()

	if errors.Is(err, nats.ErrConnectionClosed) || errors.Is(err, nats.ErrBadSubscription) {
		err = nil
	}
	return errors.Join(ctx.Err(), err)
}

func natsToMessage(m *nats.Msg) Message {
	msg := Message{Topic: m.Subject, Body: m.Data, Timestamp: time.Now()}
	if len(m.Header) > 0 {
		msg.Headers = make(map[string]string, len(m.Header))
		for k := range m.Header {
			msg.Headers[k] = m.Header.Get(k)
		}
	}
	return msg
}
