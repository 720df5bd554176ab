package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"poolcare_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

var redisCtx = context.Background()

const (
	cacheAttempts   = 3
	cacheBaseDelay  = 100 * time.Millisecond
	cacheMaxDelay   = 2 * time.Second
	scanBatchLength = 100
)

// CacheService wraps Redis for session state, role lookups, rate limiting and
// the public catalog listings.
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config, client *redis.Client) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: client,
	}
}

// NewRedisClient builds a pooled Redis client from the cache config
func NewRedisClient(cfg *structs.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:            cfg.Address,
		Username:        cfg.Username,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
	})
}

func (cs *CacheService) Close() error {
	return cs.client.Close()
}

// cacheRetryable is true for transport failures. A missing key or a
// WRONGTYPE reply will not change on retry.
func cacheRetryable(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.ErrPoolTimeout) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// withRetry runs op up to cacheAttempts times with jittered exponential backoff.
func (cs *CacheService) withRetry(op func() error) error {
	delay := cacheBaseDelay
	var err error
	for attempt := 1; attempt <= cacheAttempts; attempt++ {
		if err = op(); err == nil || !cacheRetryable(err) {
			return err
		}
		if attempt == cacheAttempts {
			break
		}
		time.Sleep(delay/2 + rand.N(delay/2+1))
		delay = min(delay*2, cacheMaxDelay)
	}
	return fmt.Errorf("redis operation failed after %d attempts: %w", cacheAttempts, err)
}

func (cs *CacheService) Set(key string, value any, ttl time.Duration) error {
	return cs.withRetry(func() error {
		return cs.client.Set(redisCtx, key, value, ttl).Err()
	})
}

// Get returns "" without error when the key is absent.
func (cs *CacheService) Get(key string) (string, error) {
	var val string
	err := cs.withRetry(func() error {
		v, err := cs.client.Get(redisCtx, key).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		val = v
		return err
	})
	return val, err
}

func (cs *CacheService) Delete(keys ...string) error {
	return cs.withRetry(func() error {
		return cs.client.Del(redisCtx, keys...).Err()
	})
}

func (cs *CacheService) Exists(key string) (bool, error) {
	var n int64
	err := cs.withRetry(func() (err error) {
		n, err = cs.client.Exists(redisCtx, key).Result()
		return err
	})
	return n > 0, err
}

// DeletePattern removes every key matching a glob, scanning in batches so a
// large keyspace never blocks Redis.
func (cs *CacheService) DeletePattern(pattern string) error {
	iter := cs.client.Scan(redisCtx, 0, pattern, scanBatchLength).Iterator()
	batch := make([]string, 0, scanBatchLength)
	for iter.Next(redisCtx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatchLength {
			if err := cs.Delete(batch...); err != nil {
				return fmt.Errorf("delete failed: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if len(batch) > 0 {
		return cs.Delete(batch...)
	}
	return nil
}

func (cs *CacheService) ClearAll() error {
	return cs.withRetry(func() error {
		return cs.client.FlushDB(redisCtx).Err()
	})
}

func (cs *CacheService) Ping() error {
	return cs.withRetry(func() error {
		return cs.client.Ping(redisCtx).Err()
	})
}

// GetConnectionStats returns Redis connection pool statistics
func (cs *CacheService) GetConnectionStats() map[string]any {
	stats := cs.client.PoolStats()
	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

// ttl returns configured, or fallback when the config leaves it unset
func (cs *CacheService) ttl(configured, fallback time.Duration) time.Duration {
	if configured > 0 {
		return configured
	}
	return fallback
}

func setJSON[T any](cs *CacheService, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cs.Set(key, data, ttl)
}

// getJSON returns nil on a miss.
func getJSON[T any](cs *CacheService, key string) (*T, error) {
	val, err := cs.Get(key)
	if err != nil || val == "" {
		return nil, err
	}
	var out T
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// cached is cache-aside over getJSON/setJSON. Cache failures are logged and
// fall through to load, so Redis being down never fails a read.
func cached[T any](cs *CacheService, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if hit, err := getJSON[T](cs, key); err != nil {
		cs.logger.Warn("Cache read failed", gecho.Field("key", key), gecho.Field("error", err))
	} else if hit != nil {
		return *hit, nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if err := setJSON(cs, key, value, ttl); err != nil {
		cs.logger.Warn("Cache write failed", gecho.Field("key", key), gecho.Field("error", err))
	}
	return value, nil
}
