// Package idempotency guards at-least-once handlers with a Redis state key,
// so a redelivered message runs its side effect once.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrAlreadyInProgress = errors.New("operation already in progress")
	ErrAlreadyCompleted  = errors.New("operation already completed")
	ErrInvalidState      = errors.New("invalid state")
)

// State is the value stored under an idempotency key.
type State string

const (
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

var stateErrors = map[State]error{
	StateInProgress: ErrAlreadyInProgress,
	StateCompleted:  ErrAlreadyCompleted,
}

// Idempotency runs fn at most once per key within the state TTL.
type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = 24 * time.Hour
	keyPrefix           = "gomodoro:idempotency:"
)

// Option customizes a single Exec call.
type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

// WithLockDuration bounds how long an in-progress key blocks other callers.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) { o.lockDuration = d }
}

// WithStateTTL sets how long a completed state is remembered.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) { o.stateTTL = d }
}

// StateTracker implements Idempotency on top of Redis SETNX.
type StateTracker struct {
	client redis.UniversalClient
}

// New returns a StateTracker using client.
func New(client redis.UniversalClient) *StateTracker {
	return &StateTracker{client: client}
}

// Acquire claims key for the caller. It returns StateNone when the claim
// succeeded, or the state already recorded for the key.
func (s *StateTracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	fk := keyPrefix + key

	for range 2 {
		acquired, err := s.client.SetNX(ctx, fk, string(StateInProgress), lockDuration).Result()
		if err != nil {
			return "", err
		}
		if acquired {
			return StateNone, nil
		}

		current, err := s.client.Get(ctx, fk).Result()
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			continue
		}
		if err != nil {
			return "", err
		}

		state := State(current)
		if _, known := stateErrors[state]; !known {
			return "", ErrInvalidState
		}
		return state, nil
	}

	return "", ErrInvalidState
}

// Exec acquires key, runs fn and records completion. A key that is already
// in progress or completed yields the matching sentinel error. When fn fails
// the key is released so a redelivery can retry.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := &execOptions{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, opt := range opts {
		opt(o)
	}
	if o.lockDuration <= 0 {
		o.lockDuration = defaultLockDuration
	}
	if o.stateTTL <= 0 {
		o.stateTTL = defaultStateTTL
	}

	state, err := s.Acquire(ctx, key, o.lockDuration)
	if err != nil {
		return err
	}
	if errState, taken := stateErrors[state]; taken {
		return errState
	}

	if err := fn(ctx); err != nil {
		return errors.Join(err, s.client.Del(ctx, keyPrefix+key).Err())
	}

	return s.client.Set(ctx, keyPrefix+key, string(StateCompleted), o.stateTTL).Err()
}
