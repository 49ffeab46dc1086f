package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/code-with-shadow/adhunik-art/pkg/config"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace  = "adhunik"
	capturePrefix = "capture"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Client wraps the redis connection helpers needed by the platform.
type Client struct {
	store cmdable
	raw   *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// CaptureGuard claims payment capture references so a double-submitted
// gateway order id cannot produce two orders.
type CaptureGuard interface {
	Claim(ctx context.Context, orderRef string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, orderRef string) error
}

// New bootstraps a Redis client with pooling/timeouts and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "redis connection established")
	}
	return &Client{store: raw, raw: raw}, nil
}

// Ping verifies the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	return c.store.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

func captureKey(orderRef string) string {
	return fmt.Sprintf("%s:%s:%s", keyNamespace, capturePrefix, orderRef)
}

// Claim marks a capture reference as in-flight. Returns false when the
// reference was already claimed.
func (c *Client) Claim(ctx context.Context, orderRef string, ttl time.Duration) (bool, error) {
	return c.store.SetNX(ctx, captureKey(orderRef), time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

// Release frees a claimed capture reference so the buyer can retry after a
// rejected capture.
func (c *Client) Release(ctx context.Context, orderRef string) error {
	return c.store.Del(ctx, captureKey(orderRef)).Err()
}
