package websearch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/learning-planner/internal/observability"
	"github.com/yungbote/learning-planner/internal/platform/logger"
)

const cacheKeyPrefix = "lp:search:"

// Cached stores search text in redis keyed by the normalized query. Cache failures are
// logged and fall through to the wrapped searcher.
type Cached struct {
	next    Searcher
	rdb     *redis.Client
	ttl     time.Duration
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewCached(next Searcher, rdb *redis.Client, ttl time.Duration, log *logger.Logger, metrics *observability.Metrics) *Cached {
	if log == nil {
		log = logger.NewNop()
	}
	return &Cached{
		next:    next,
		rdb:     rdb,
		ttl:     ttl,
		log:     log.With("service", "SearchCache"),
		metrics: metrics,
	}
}

func CacheKey(query string) string {
	norm := strings.ToLower(strings.Join(strings.Fields(query), " "))
	sum := sha256.Sum256([]byte(norm))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *Cached) Search(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}
	key := CacheKey(query)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		c.metrics.IncSearchCache("hit")
		return cached, nil
	case errors.Is(err, redis.Nil):
		c.metrics.IncSearchCache("miss")
	default:
		c.metrics.IncSearchCache("error")
		c.log.Warn("search cache read failed", "error", err)
	}

	text, err := c.next.Search(ctx, query)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if err := c.rdb.Set(ctx, key, text, c.ttl).Err(); err != nil {
		c.log.Warn("search cache write failed", "error", err)
	}
	return text, nil
}
