package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrConfig marks a missing or invalid setting. It is fatal at startup.
var ErrConfig = errors.New("config")

type CacheBackend string

const (
	CacheMemory CacheBackend = "memory"
	CacheRedis  CacheBackend = "redis"
)

type MALConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	TokenURL    string
	APIBaseURL  string
	HTTPTimeout time.Duration

	CacheTTL     time.Duration
	CacheBackend CacheBackend
	RedisURL     string

	// NATSURL enables cache invalidation and analytics when set.
	NATSURL          string
	InvalidateSubj   string
	AnalyticsEnabled bool
}

// LoadDotEnv loads a .env file when present. Existing variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("%w: load %s: %w", ErrConfig, p, err)
		}
	}
	return nil
}

func LoadMAL() (MALConfig, error) {
	cfg := MALConfig{
		ClientID:         env("MAL_CLIENT_ID"),
		ClientSecret:     env("MAL_CLIENT_SECRET"),
		RefreshToken:     env("MAL_REFRESH_TOKEN"),
		TokenURL:         env("MAL_TOKEN_URL"),
		APIBaseURL:       env("MAL_API_BASE_URL"),
		CacheBackend:     CacheBackend(strings.ToLower(env("CACHE_BACKEND"))),
		RedisURL:         env("REDIS_URL"),
		NATSURL:          env("NATS_URL"),
		InvalidateSubj:   env("CACHE_INVALIDATE_SUBJECT"),
		AnalyticsEnabled: envBool("ANALYTICS_ENABLED"),
	}

	var missing []string
	for _, kv := range [][2]string{
		{"MAL_CLIENT_ID", cfg.ClientID},
		{"MAL_CLIENT_SECRET", cfg.ClientSecret},
		{"MAL_REFRESH_TOKEN", cfg.RefreshToken},
	} {
		if kv[1] == "" {
			missing = append(missing, kv[0])
		}
	}
	if len(missing) > 0 {
		return MALConfig{}, fmt.Errorf("%w: %s required", ErrConfig, strings.Join(missing, ", "))
	}

	var err error
	if cfg.HTTPTimeout, err = envDuration("MAL_HTTP_TIMEOUT", 15*time.Second); err != nil {
		return MALConfig{}, err
	}
	if cfg.CacheTTL, err = envDuration("CACHE_TTL", 24*time.Hour); err != nil {
		return MALConfig{}, err
	}

	switch cfg.CacheBackend {
	case "":
		cfg.CacheBackend = CacheMemory
	case CacheMemory:
	case CacheRedis:
		if cfg.RedisURL == "" {
			return MALConfig{}, fmt.Errorf("%w: REDIS_URL is required when CACHE_BACKEND=redis", ErrConfig)
		}
	default:
		return MALConfig{}, fmt.Errorf("%w: unknown CACHE_BACKEND %q", ErrConfig, cfg.CacheBackend)
	}
	if cfg.InvalidateSubj == "" {
		cfg.InvalidateSubj = "malproxy.cache.invalidate"
	}
	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(env(key))
	return b
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := env(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive duration, got %q", ErrConfig, key, v)
	}
	return d, nil
}
