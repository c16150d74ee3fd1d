// Package containertest starts throwaway Redis and Postgres containers for
// outbound integration tests. Tests are skipped under -short or when no
// container provider is reachable.
package containertest

import (
	"context"
	"fmt"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

const (
	redisImage    = "redis:7-alpine"
	postgresImage = "postgres:17-alpine"
)

func skipUnlessAvailable(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// Redis starts a Redis container and returns a connected client.
func Redis(t *testing.T) *redis.Client {
	t.Helper()
	skipUnlessAvailable(t)

	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, redisImage)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := ctr.MappedPort(ctx, nat.Port("6379/tcp"))
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping redis: %v", err)
	}

	return client
}

// Postgres starts a Postgres container, applies schema and returns a pool.
func Postgres(t *testing.T, schema string) *pgxpool.Pool {
	t.Helper()
	skipUnlessAvailable(t)

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase("gomodoro"),
		tcpostgres.WithUsername("gomodoro"),
		tcpostgres.WithPassword("gomodoro"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres dsn: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	if schema != "" {
		if _, err := pool.Exec(ctx, schema); err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}

	return pool
}
