// Package demo shows how to wire a shared RedisCache into a Client so
// that a failed poll falls back to the last known-good feature set
// instead of going dark.
package demo

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	growthbook "github.com/growthbook/growthbook-golang"
)

func newRedisBackedClient(ctx context.Context, clientKey string) (*growthbook.Client, error) {
	cache, err := growthbook.NewRedisCache("gb:", &redis.Options{Addr: "localhost:6379"}, slog.Default())
	if err != nil {
		return nil, err
	}

	return growthbook.NewClient(ctx,
		growthbook.WithClientKey(clientKey),
		growthbook.WithCache(cache),
		growthbook.WithCacheTTL(5*time.Minute),
		growthbook.WithPollDataSource(time.Minute),
	)
}
