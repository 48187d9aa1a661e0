package cache

import (
	"context"
	"testing"
	"time"
)

func TestNewRedisCache_BadURL(t *testing.T) {
	if _, err := NewRedisCache("not-a-redis-url", time.Hour, nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRedisCache_UnreachableIsMiss(t *testing.T) {
	c, err := NewRedisCache("redis://127.0.0.1:1/0?max_retries=-1&dial_timeout=100ms", time.Hour, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "k", []byte("v"))
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expected miss when redis is down")
	}
	if err := c.Ping(ctx); err == nil {
		t.Fatal("expected ping error")
	}
	if c.TTL != time.Hour {
		t.Fatalf("unexpected ttl %s", c.TTL)
	}
}
