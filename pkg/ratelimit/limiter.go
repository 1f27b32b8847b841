package ratelimit

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// Counter is the storage a Limiter counts in
type Counter interface {
	IncrementAndGet(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RedisCounter counts with INCR and sets the TTL on the first hit of a window
type RedisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

func (r *RedisCounter) IncrementAndGet(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	if count == 1 {
		if err := r.rdb.Expire(ctx, key, ttl).Err(); err != nil {
			return count, err
		}
	}

	return count, nil
}

// Limiter is a fixed-window limiter keyed by client identity
type Limiter struct {
	counter Counter
	scope   string
	max     int64
	window  time.Duration
	logger  *zap.Logger
}

// NewLimiter allows max hits per window per client within scope
func NewLimiter(counter Counter, scope string, max int64, window time.Duration, logger *zap.Logger) *Limiter {
	return &Limiter{
		counter: counter,
		scope:   scope,
		max:     max,
		window:  window,
		logger:  logger,
	}
}

// Allow reports whether client may proceed. Counter errors allow the request.
func (l *Limiter) Allow(ctx context.Context, client string) bool {
	key := FormatKey(l.scope, client)

	count, err := l.counter.IncrementAndGet(ctx, key, l.window)
	if err != nil {
		if l.logger != nil {
			l.logger.Warn("Rate limit check failed, allowing request",
				zap.String("scope", l.scope),
				zap.Error(err),
			)
		}
		return true
	}

	return count <= l.max
}

// FormatKey hashes client so raw addresses never reach the store
func FormatKey(scope, client string) string {
	sum := blake2b.Sum256([]byte(client))
	return fmt.Sprintf("ratelimit:%s:%s", scope, hex.EncodeToString(sum[:]))
}
