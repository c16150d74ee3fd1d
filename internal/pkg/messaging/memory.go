package messaging

import (
	"context"
	"sync"
	"time"
)

const memoryBuffer = 64

type memorySub struct {
	group string
	ch    chan Message
	done  chan struct{}
}

// Memory is an in-process broker for single-instance deployments and tests.
// Within a group each message goes to one consumer, chosen round-robin.
// A failed handler gets the message again after a short pause.
type Memory struct {
	mu     sync.Mutex
	subs   map[string][]*memorySub
	next   map[string]int
	closed bool
}

// NewMemory returns an empty in-process broker.
func NewMemory() *Memory {
	return &Memory{subs: make(map[string][]*memorySub), next: make(map[string]int)}
}

// Publish delivers msg to one subscriber per group on topic. It never waits
// for a slow consumer: a full subscriber buffer fails with ErrBufferFull, and
// groups earlier in the fan-out keep their copy.
func (m *Memory) Publish(ctx context.Context, topic string, msg Message) error {
	if topic == "" {
		return ErrTopicRequired
	}
	msg.Topic = topic
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	targets, err := m.pick(topic)
	if err != nil {
		return err
	}

	for _, sub := range targets {
		select {
		case sub.ch <- msg:
		case <-sub.done:
		case <-ctx.Done():
			return ctx.Err()
		default:
			return ErrBufferFull
		}
	}
	return nil
}

func (m *Memory) pick(topic string) ([]*memorySub, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	byGroup := make(map[string][]*memorySub)
	var order []string
	for _, sub := range m.subs[topic] {
		if _, seen := byGroup[sub.group]; !seen {
			order = append(order, sub.group)
		}
		byGroup[sub.group] = append(byGroup[sub.group], sub)
	}

	targets := make([]*memorySub, 0, len(order))
	for _, group := range order {
		members := byGroup[group]
		key := topic + "\x00" + group
		targets = append(targets, members[m.next[key]%len(members)])
		m.next[key]++
	}
	return targets, nil
}

// Consume registers handler on topic until ctx is done.
func (m *Memory) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)
	sub := &memorySub{group: co.group, ch: make(chan Message, memoryBuffer), done: make(chan struct{})}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.subs[topic] = append(m.subs[topic], sub)
	m.mu.Unlock()

	defer m.remove(topic, sub)

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-sub.done:
					return
				case msg := <-sub.ch:
					m.deliver(ctx, sub, handler, msg)
				}
			}
		})
	}
	wg.Wait()

	return ctx.Err()
}

func (m *Memory) deliver(ctx context.Context, sub *memorySub, handler Handler, msg Message) {
	for dispatch(ctx, DriverMemory, handler, msg) != nil {
		select {
		case <-ctx.Done():
			return
		case <-sub.done:
			return
		case <-time.After(time.Second):
		}
	}
}

func (m *Memory) remove(topic string, target *memorySub) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs := m.subs[topic]
	for i, sub := range subs {
		if sub == target {
			m.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
}

// Close stops every consumer.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	for _, subs := range m.subs {
		for _, sub := range subs {
			close(sub.done)
		}
	}
	m.subs = nil
	return nil
}
