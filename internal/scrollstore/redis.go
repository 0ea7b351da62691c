package scrollstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisPrefix namespaces sidenav keys in a shared Redis.
const redisPrefix = "sidenav:scroll:"

// Redis shares offsets between several service replicas.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// NewRedisFromURL connects using a redis:// URL.
func NewRedisFromURL(rawURL string, ttl time.Duration) (*Redis, error) {
	if rawURL == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return NewRedis(redis.NewClient(opts), ttl), nil
}

func (r *Redis) Take(ctx context.Context, key string) (Offset, bool, error) {
	s, err := r.client.GetDel(ctx, redisPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("taking scroll offset: %w", err)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// A value another writer left behind; treat it as absent.
		return 0, false, nil
	}
	return Offset(v), true, nil
}

func (r *Redis) Put(ctx context.Context, key string, v Offset) error {
	val := strconv.FormatFloat(float64(v), 'f', -1, 64)
	if err := r.client.Set(ctx, redisPrefix+key, val, r.ttl).Err(); err != nil {
		return fmt.Errorf("saving scroll offset: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
