package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yourname/blackholeescape/internal"
)

// ErrMiss is returned by Get when nothing is cached for the login.
var ErrMiss = errors.New("cache: miss")

// StatusCache keeps computed escape reports so repeated dashboard loads do not
// hit the rate-limited intra API.
type StatusCache interface {
	Get(ctx context.Context, login string) (*internal.EscapeReport, error)
	Set(ctx context.Context, login string, report *internal.EscapeReport) error
}

const keyPrefix = "blackholeescape:escape:"

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return NewRedisCacheFromClient(redis.NewClient(opts), ttl), nil
}

func NewRedisCacheFromClient(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, login string) (*internal.EscapeReport, error) {
	data, err := c.rdb.Get(ctx, keyPrefix+login).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached report: %w", err)
	}

	var report internal.EscapeReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return &report, nil
}

func (c *RedisCache) Set(ctx context.Context, login string, report *internal.EscapeReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+login, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

// Noop never stores anything; used when no Redis is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (*internal.EscapeReport, error) { return nil, ErrMiss }

func (Noop) Set(context.Context, string, *internal.EscapeReport) error { return nil }
