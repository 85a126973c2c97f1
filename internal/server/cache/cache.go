// Package cache provides a Redis-backed response cache for query results.
// Values are the serialized JSON payloads the handlers would otherwise
// compute; keys hash the operation name and its normalized parameters.
// A singleflight group collapses concurrent misses for the same key, and a
// circuit breaker keeps a failing Redis from slowing every request.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/tnguyen91/lexigraph/internal/lexicon/index"
	"github.com/tnguyen91/lexigraph/pkg/config"
	pkgredis "github.com/tnguyen91/lexigraph/pkg/redis"
	"github.com/tnguyen91/lexigraph/pkg/resilience"
)

const keyPrefix = "lex:"

type ResponseCache struct {
	client  *pkgredis.Client
	cfg     config.RedisConfig
	group   singleflight.Group
	breaker *resilience.CircuitBreaker
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

func New(client *pkgredis.Client, cfg config.RedisConfig) *ResponseCache {
	return &ResponseCache{
		client:  client,
		cfg:     cfg,
		breaker: resilience.NewCircuitBreaker("redis-cache", resilience.CircuitBreakerConfig{}),
		logger:  slog.Default().With("component", "response-cache"),
	}
}

// Key builds the cache key for an operation and its parameters. Lemma-like
// parameters must already be normalized by the caller so that equivalent
// requests share an entry.
func Key(op string, params ...string) string {
	raw := op + "|" + strings.Join(params, "|")
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%s:%x", keyPrefix, op, hash[:16])
}

// NormalizeLemma is re-exported for handlers building cache keys.
func NormalizeLemma(s string) string { return index.NormalizeLemma(s) }

// GetOrCompute returns the cached payload for key, or runs computeFn,
// caches its JSON encoding, and returns it. The boolean reports a cache
// hit. Redis failures degrade to computing the value; they never fail the
// request.
func (c *ResponseCache) GetOrCompute(
	ctx context.Context,
	key string,
	computeFn func() (any, error),
) ([]byte, bool, error) {
	if payload, ok := c.get(ctx, key); ok {
		return payload, true, nil
	}
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if payload, ok := c.get(ctx, key); ok {
			return payload, nil
		}
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("marshaling cache value: %w", err)
		}
		c.set(ctx, key, payload)
		return payload, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.([]byte), false, nil
}

func (c *ResponseCache) get(ctx context.Context, key string) ([]byte, bool) {
	var data string
	err := c.breaker.Execute(func() error {
		var getErr error
		data, getErr = c.client.Get(ctx, key)
		if getErr != nil && pkgredis.IsNilError(getErr) {
			data = ""
			return nil
		}
		return getErr
	})
	if err != nil {
		c.logger.Debug("cache get failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	if data == "" {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return []byte(data), true
}

func (c *ResponseCache) set(ctx context.Context, key string, payload []byte) {
	err := c.breaker.Execute(func() error {
		return c.client.Set(ctx, key, payload, c.cfg.CacheTTL)
	})
	if err != nil {
		c.logger.Debug("cache set failed", "key", key, "error", err)
	}
}

// Invalidate removes every cached response.
func (c *ResponseCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns the hit and miss counters.
func (c *ResponseCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
