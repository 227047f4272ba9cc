package filestore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "civichub:fileurl:"

// Cached memoizes resolved URLs in Redis so repeated dashboard reads return
// the same presigned URL until the entry expires. TTL must be shorter than
// the presign expiry.
//
// Redis calls go through a circuit breaker; when Redis is unhealthy the
// cache is bypassed and every call goes to the wrapped resolver.
type Cached struct {
	next    Resolver
	rdb     redis.UniversalClient
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[string]
	log     *zap.Logger
}

// NewCached wraps next with a Redis-backed URL cache.
func NewCached(next Resolver, rdb redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "fileurl-cache",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &Cached{next: next, rdb: rdb, ttl: ttl, breaker: cb, log: logger}
}

func (c *Cached) ResolveURL(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", ErrNotFound
	}
	key := cacheKeyPrefix + ref

	hit, err := c.breaker.Execute(func() (string, error) {
		v, err := c.rdb.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return v, err
	})
	if err != nil {
		c.log.Debug("file url cache read skipped", zap.String("ref", ref), zap.Error(err))
	} else if hit != "" {
		return hit, nil
	}

	u, err := c.next.ResolveURL(ctx, ref)
	if err != nil {
		return "", err
	}

	if _, err := c.breaker.Execute(func() (string, error) {
		return "", c.rdb.Set(ctx, key, u, c.ttl).Err()
	}); err != nil {
		c.log.Debug("file url cache write skipped", zap.String("ref", ref), zap.Error(err))
	}
	return u, nil
}
