package rediscache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/greenur/plantbasics/internal/platform/logger"
	"github.com/greenur/plantbasics/internal/utils"
)

const DefaultCacheTTL = 24 * time.Hour

// ResponseCache keeps raw knowledge graph responses in redis. Failures
// degrade to cache misses so a flaky cache never fails a lookup.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	Close() error
}

type responseCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewResponseCache connects to REDIS_ADDR. It returns nil, nil when REDIS_ADDR
// is unset so callers can treat the cache as optional.
func NewResponseCache(ctx context.Context, log *logger.Logger) (ResponseCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DB:          utils.GetEnvAsInt("REDIS_DB", 0, log),
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	ttl := utils.GetEnvAsDuration("REDIS_CACHE_TTL_SECONDS", DefaultCacheTTL, time.Second, log)
	log.Info("redis response cache connected", "redis_addr", addr, "ttl", ttl.String())
	return NewResponseCacheFromClient(rdb, ttl, log), nil
}

func NewResponseCacheFromClient(rdb *goredis.Client, ttl time.Duration, log *logger.Logger) ResponseCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &responseCache{
		log: log.With("service", "RedisResponseCache"),
		rdb: rdb,
		ttl: ttl,
	}
}

func (c *responseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return val, true
}

func (c *responseCache) Set(ctx context.Context, key string, val []byte) {
	if c == nil || c.rdb == nil || len(val) == 0 {
		return
	}
	if err := c.rdb.Set(ctx, key, val, c.ttl).Err(); err != nil {
		c.log.Warn("cache set failed", "key", key, "error", err)
	}
}

func (c *responseCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
