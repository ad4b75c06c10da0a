package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/yungbote/learning-planner/internal/config"
	"github.com/yungbote/learning-planner/internal/platform/logger"
)

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewClient(context.Background(), config.RedisConfig{Addr: mr.Addr()}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	if err := rdb.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Fatalf("miniredis value=%q", got)
	}
}

func TestNewClientWithoutAddr(t *testing.T) {
	rdb, err := NewClient(context.Background(), config.RedisConfig{}, logger.NewNop())
	if err != nil || rdb != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", rdb, err)
	}
}

func TestNewClientPingFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewClient(context.Background(), config.RedisConfig{Addr: addr}, logger.NewNop()); err == nil {
		t.Fatal("expected ping error")
	}
}
