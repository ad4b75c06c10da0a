package websearch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingSearcher struct {
	calls int
	text  string
	err   error
}

func (s *countingSearcher) Search(ctx context.Context, query string) (string, error) {
	s.calls++
	return s.text, s.err
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCachedHitsRedis(t *testing.T) {
	mr, rdb := newTestRedis(t)
	next := &countingSearcher{text: "- Go https://go.dev"}
	c := NewCached(next, rdb, time.Hour, nil, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := c.Search(ctx, "Latest  Go tools")
		if err != nil || got != next.text {
			t.Fatalf("Search: %q %v", got, err)
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", next.calls)
	}
	if _, err := c.Search(ctx, "latest go TOOLS"); err != nil || next.calls != 1 {
		t.Fatalf("normalized query should hit the cache: calls=%d err=%v", next.calls, err)
	}

	key := CacheKey("latest go tools")
	if !mr.Exists(key) {
		t.Fatalf("key %s not stored", key)
	}
	mr.FastForward(2 * time.Hour)
	if mr.Exists(key) {
		t.Fatalf("key should expire with the ttl")
	}
}

func TestCachedSkipsEmptyAndErrors(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	empty := &countingSearcher{}
	c := NewCached(empty, rdb, time.Hour, nil, nil)
	if _, err := c.Search(ctx, "q"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if mr.Exists(CacheKey("q")) {
		t.Fatalf("empty results must not be cached")
	}

	failing := &countingSearcher{err: errors.New("blocked")}
	c = NewCached(failing, rdb, time.Hour, nil, nil)
	if _, err := c.Search(ctx, "q"); err == nil {
		t.Fatalf("expected upstream error")
	}
}

func TestCachedFallsThroughWhenRedisDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	mr.Close()

	next := &countingSearcher{text: "- x https://x.example"}
	c := NewCached(next, rdb, time.Hour, nil, nil)
	got, err := c.Search(context.Background(), "q")
	if err != nil || got != next.text {
		t.Fatalf("Search: %q %v", got, err)
	}
}
