package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gomodoro/internal/pkg/goerror"
	"github.com/shandysiswandi/gomodoro/internal/pkg/instrument"
	"github.com/shandysiswandi/gomodoro/internal/timer/entity"
	"github.com/vmihailenco/msgpack/v5"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	keyCheckpoint = "gomodoro:timer:checkpoint"
	keySettings   = "gomodoro:timer:settings"
)

// Cache keeps the timer checkpoint and settings in Redis, msgpack encoded.
// Keys never expire: the timer must survive any length of downtime.
type Cache struct {
	client redis.UniversalClient
	ins    instrument.Instrumentation
}

func NewCache(client redis.UniversalClient, ins instrument.Instrumentation) *Cache {
	return &Cache{client: client, ins: ins}
}

func (c *Cache) mapError(err error) error {
	if errors.Is(err, redis.Nil) {
		return goerror.ErrNotFound
	}
	return err
}

func (c *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("timer.outbound.cache").Start(ctx, name)
}

func (c *Cache) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (c *Cache) GetCheckpoint(ctx context.Context) (_ *entity.Checkpoint, err error) {
	ctx, span := c.startSpan(ctx, "GetCheckpoint")
	defer func() { c.endSpan(span, err) }()

	var cp entity.Checkpoint
	if err = c.get(ctx, keyCheckpoint, &cp); err != nil {
		return nil, err
	}

	return &cp, nil
}

func (c *Cache) SaveCheckpoint(ctx context.Context, cp entity.Checkpoint) (err error) {
	ctx, span := c.startSpan(ctx, "SaveCheckpoint")
	defer func() { c.endSpan(span, err) }()

	err = c.set(ctx, keyCheckpoint, cp)
	return err
}

func (c *Cache) GetSettings(ctx context.Context) (_ *entity.Settings, err error) {
	ctx, span := c.startSpan(ctx, "GetSettings")
	defer func() { c.endSpan(span, err) }()

	var s entity.Settings
	if err = c.get(ctx, keySettings, &s); err != nil {
		return nil, err
	}

	return &s, nil
}

func (c *Cache) SaveSettings(ctx context.Context, s entity.Settings) (err error) {
	ctx, span := c.startSpan(ctx, "SaveSettings")
	defer func() { c.endSpan(span, err) }()

	err = c.set(ctx, keySettings, s)
	return err
}

func (c *Cache) get(ctx context.Context, key string, dst any) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return c.mapError(err)
	}

	return msgpack.Unmarshal(raw, dst)
}

func (c *Cache) set(ctx context.Context, key string, v any) error {
	raw, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, raw, 0).Err()
}
