// Package cache stores encoded upstream responses for a fixed time-to-live.
package cache

import (
	"context"
	"time"
)

// DefaultTTL keeps responses for one day.
const DefaultTTL = 24 * time.Hour

// Cache is the read/write interface shared by all backends.
// Implementations must be safe for concurrent use. A failing backend reports
// a miss on Get and drops the value on Set; cache trouble never fails a request.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WatchListKey is the cache key for a watch list query.
func WatchListKey(status string) string {
	if status == "" {
		status = "all"
	}
	return "animeList_" + status
}

// AnimeKey is the cache key for a single anime record.
func AnimeKey(id string) string {
	return "anime_" + id
}
