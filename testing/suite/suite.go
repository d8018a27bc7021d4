// Package suite starts throwaway services for integration tests.
package suite

import (
	"context"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	containerTTL = 120 // seconds
	startTimeout = 2 * time.Minute
)

// Suite carries the services a store test runs against.
type Suite struct {
	*testing.T

	Redis *redis.Client
}

// New starts an empty Redis for the test. The test is skipped in short mode
// or when Docker is not reachable.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping Redis container in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	t.Cleanup(cancel)

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not connect to docker: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker is not running: %v", err)
	}
	pool.MaxWait = startTimeout

	return ctx, &Suite{
		T:     t,
		Redis: startRedis(ctx, t, pool),
	}
}

// startRedis runs redis:alpine, waits until it answers and flushes it.
// The container is purged when the test ends.
func startRedis(ctx context.Context, t *testing.T, pool *dockertest.Pool) *redis.Client {
	t.Helper()

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis: %v", err)
	}
	_ = resource.Expire(containerTTL)

	purge := func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not purge redis: %v", err)
		}
	}

	var client *redis.Client
	err = pool.Retry(func() error {
		if client != nil {
			_ = client.Close()
		}
		client = redis.NewClient(&redis.Options{Addr: resource.GetHostPort("6379/tcp")})
		return client.Ping(ctx).Err()
	})
	if err != nil {
		purge()
		t.Fatalf("could not connect to redis: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
		purge()
	})

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush redis: %v", err)
	}
	return client
}
