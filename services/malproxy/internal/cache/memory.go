package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

type cacheItem struct {
	val       []byte
	expiresAt time.Time
}

// TTLCache is an in-memory Cache with per-entry expiry. Expired entries are
// removed lazily on lookup.
type TTLCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
	ttl   time.Duration
	now   func() time.Time
}

type Option func(*TTLCache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *TTLCache) { c.now = now }
}

func NewTTLCache(ttl time.Duration, opts ...Option) *TTLCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &TTLCache{
		items: make(map[string]cacheItem),
		ttl:   ttl,
		now:   time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *TTLCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.now().Before(it.expiresAt) {
		c.mu.Lock()
		if cur, ok2 := c.items[key]; ok2 && !c.now().Before(cur.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return it.val, true
}

func (c *TTLCache) Set(_ context.Context, key string, v []byte) {
	c.mu.Lock()
	c.items[key] = cacheItem{val: v, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *TTLCache) Ping(context.Context) error { return nil }

// Len counts stored entries, including expired ones not yet evicted.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// SubscribeInvalidation drops keys named by messages on subj.
// An empty payload or "ALL" clears the whole cache.
func (c *TTLCache) SubscribeInvalidation(nc *nats.Conn, subj string) (*nats.Subscription, error) {
	return nc.Subscribe(subj, func(m *nats.Msg) {
		c.invalidate(string(m.Data))
	})
}

func (c *TTLCache) invalidate(key string) {
	key = strings.TrimSpace(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == "" || strings.EqualFold(key, "ALL") {
		c.items = make(map[string]cacheItem)
		return
	}
	delete(c.items, key)
}

var _ Cache = (*TTLCache)(nil)
