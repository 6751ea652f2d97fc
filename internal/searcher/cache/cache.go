// Package cache stores phrase search results in Redis, keyed by the corpus
// checksum and the query, so a rebuilt index never serves stale results.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/resilience"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "search:"

// Store is the subset of *redis.Client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

type QueryCache struct {
	store    Store
	ttl      time.Duration
	checksum string
	group    singleflight.Group
	breaker  *resilience.Breaker
	metrics  *metrics.Metrics
	logger   *slog.Logger
	hits     atomic.Int64
	misses   atomic.Int64
}

// New creates a cache for results computed against the index built from the
// archive with the given checksum. m may be nil. Store calls go through a
// circuit breaker; while it is open every lookup is a miss.
func New(store Store, ttl time.Duration, checksum string, m *metrics.Metrics) *QueryCache {
	return &QueryCache{
		store:    store,
		ttl:      ttl,
		checksum: checksum,
		breaker:  resilience.NewBreaker("result-cache", resilience.BreakerConfig{}),
		metrics:  m,
		logger:   slog.Default().With("component", "query-cache"),
	}
}

func (c *QueryCache) Get(ctx context.Context, query string) (*executor.SearchResult, bool) {
	key := c.buildKey(query)
	var data string
	found := false
	err := c.breaker.Do(func() error {
		var err error
		data, err = c.store.Get(ctx, key)
		if pkgredis.IsNilError(err) {
			return nil
		}
		found = err == nil
		return err
	})
	if err != nil {
		c.logStoreError("cache get failed", key, err)
	}
	if !found {
		c.miss()
		return nil, false
	}
	var result executor.SearchResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.miss()
		return nil, false
	}
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
	c.logger.Debug("cache hit", "query", query, "key", key)
	return &result, true
}

func (c *QueryCache) Set(ctx context.Context, query string, result *executor.SearchResult) {
	key := c.buildKey(query)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	err = c.breaker.Do(func() error {
		return c.store.Set(ctx, key, data, c.ttl)
	})
	if err != nil {
		c.logStoreError("cache set failed", key, err)
	}
}

// GetOrCompute returns the cached result for query, or runs computeFn once
// per key across concurrent callers and caches what it returns.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	query string,
	computeFn func() (*executor.SearchResult, error),
) (*executor.SearchResult, bool, error) {
	if result, ok := c.Get(ctx, query); ok {
		return result, true, nil
	}
	key := c.buildKey(query)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, query, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*executor.SearchResult), false, nil
}

func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidate", "keys_deleted", deleted)
	return nil
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) logStoreError(msg, key string, err error) {
	if errors.Is(err, resilience.ErrBreakerOpen) {
		c.logger.Debug(msg, "key", key, "error", err)
		return
	}
	c.logger.Error(msg, "key", key, "error", err)
}

func (c *QueryCache) miss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

// buildKey hashes the corpus checksum with the raw query. Scores depend on
// the raw query's case and punctuation, so it is not normalised first.
func (c *QueryCache) buildKey(query string) string {
	raw := c.checksum + "|" + query
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
