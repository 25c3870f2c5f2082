package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Guard claims keys with SET NX so that one caller wins per key.
type Guard struct{ Redis *redis.Client }

// Claim returns true if the key was not set before.
func (g Guard) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return g.Redis.SetNX(ctx, key, "1", ttl).Result()
}

// Release gives a claimed key back, e.g. after the guarded work failed.
func (g Guard) Release(ctx context.Context, key string) error {
	return g.Redis.Del(ctx, key).Err()
}
