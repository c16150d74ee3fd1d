package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"
)

// ErrKafkaBrokersRequired is returned when no Kafka brokers are configured.
var ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")

// KafkaConfig configures the Kafka implementation.
type KafkaConfig struct {
	Brokers []string
}

// Kafka is a messaging implementation backed by kafka-go. Offsets are
// committed only after the handler succeeds.
type Kafka struct {
	brokers []string

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	readers map[*kafka.Reader]struct{}
	closed  bool
}

// NewKafka constructs a Kafka client. Connections are opened lazily.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	return &Kafka{
		brokers: append([]string(nil), cfg.Brokers...),
		writers: make(map[string]*kafka.Writer),
		readers: make(map[*kafka.Reader]struct{}),
	}, nil
}

// Close shuts down all readers and writers.
func (k *Kafka) Close() error {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	writers, readers := k.writers, k.readers
	k.writers, k.readers = nil, nil
	k.mu.Unlock()

	var errs []error
	for r := range readers {
		errs = append(errs, r.Close())
	}
	for _, w := range writers {
		errs = append(errs, w.Close())
	}
	return errors.Join(errs...)
}

func (k *Kafka) writer(topic string) (*kafka.Writer, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil, ErrClosed
	}
	if w, ok := k.writers[topic]; ok {
		return w, nil
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(k.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	k.writers[topic] = w
	return w, nil
}

// Publish writes msg to topic, partitioned by msg.Key.
func (k *Kafka) Publish(ctx context.Context, topic string, msg Message) error {
	if topic == "" {
		return ErrTopicRequired
	}
	w, err := k.writer(topic)
	if err != nil {
		return err
	}

	kmsg := kafka.Message{Key: msg.Key, Value: msg.Body, Time: msg.Timestamp}
	for key, v := range msg.Headers {
		kmsg.Headers = append(kmsg.Headers, kafka.Header{Key: key, Value: []byte(v)})
	}

	if err := w.WriteMessages(ctx, kmsg); err != nil {
		return fmt.Errorf("messaging: kafka publish: %w", err)
	}
	return nil
}

// Consume reads topic as a member of the consume group. A failed handler
// leaves its offset uncommitted; the message is redelivered after a rebalance
// or restart.
func (k *Kafka) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: k.brokers,
		GroupID: co.group,
		Topic:   topic,
	})

	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return errors.Join(ErrClosed, reader.Close())
	}
	k.readers[reader] = struct{}{}
	k.mu.Unlock()

	defer func() {
		k.mu.Lock()
		_, owned := k.readers[reader]
		delete(k.readers, reader)
		k.mu.Unlock()
		if owned {
			//nolint:errcheck // shutting down
			_ = reader.Close()
		}
	}()

	for {
		km, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("messaging: kafka fetch: %w", err)
		}

		msg := Message{Topic: km.Topic, Key: km.Key, Body: km.Value, Timestamp: km.Time}
		if len(km.Headers) > 0 {
			msg.Headers = make(map[string]string, len(km.Headers))
			for _, h := range km.Headers {
				msg.Headers[h.Key] = string(h.Value)
			}
		}

		if dispatch(ctx, DriverKafka, handler, msg) != nil {
			continue
		}
		if err := reader.CommitMessages(ctx, km); err != nil && ctx.Err() == nil {
			return fmt.Errorf("messaging: kafka commit: %w", err)
		}
	}
}
