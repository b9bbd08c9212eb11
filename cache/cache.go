package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ByLCY/sheetpress/layout"
)

const keyPrefix = "sheetpress:layout:"

// NewRedisClient creates and validates a Redis client connection.
func NewRedisClient(ctx context.Context, url string, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Msg("Redis connected")
	return rdb, nil
}

// LayoutCache stores computed layout results keyed by a digest of their inputs.
// Cache failures are logged and treated as misses; they never fail a request.
type LayoutCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

func New(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *LayoutCache {
	return &LayoutCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With().Str("component", "layout_cache").Logger(),
	}
}

// Key derives a stable cache key from any JSON-encodable inputs.
func Key(parts ...any) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		if err := enc.Encode(p); err != nil {
			return "", fmt.Errorf("encode cache key: %w", err)
		}
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

// Get returns the cached result for key, if any.
func (c *LayoutCache) Get(ctx context.Context, key string) (*layout.Result, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("layout cache read failed")
		}
		return nil, false
	}
	var res layout.Result
	if err := json.Unmarshal(data, &res); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("layout cache entry corrupt")
		return nil, false
	}
	return &res, true
}

// Set stores res under key with the configured TTL.
func (c *LayoutCache) Set(ctx context.Context, key string, res *layout.Result) {
	if c == nil || c.rdb == nil || res == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		c.log.Warn().Err(err).Msg("layout cache encode failed")
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("layout cache write failed")
	}
}
