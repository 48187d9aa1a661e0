package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/malproxy/internal/platform/analytics"
	"github.com/example/malproxy/internal/platform/config"
	"github.com/example/malproxy/internal/platform/httpserver"
	"github.com/example/malproxy/internal/platform/logging"
	"github.com/example/malproxy/internal/platform/natsconn"
	"github.com/example/malproxy/internal/platform/run"
	"github.com/example/malproxy/services/malproxy/internal/cache"
	malconfig "github.com/example/malproxy/services/malproxy/internal/config"
	"github.com/example/malproxy/services/malproxy/internal/handlers"
	"github.com/example/malproxy/services/malproxy/internal/mal"
	"github.com/example/malproxy/services/malproxy/internal/service"
)

func main() {
	if err := malconfig.LoadDotEnv(); err != nil {
		panic(err)
	}
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	malCfg, err := malconfig.LoadMAL()
	if err != nil {
		log.Error("load mal config", zap.Error(err))
		run.Exit(1)
	}

	var nc *nats.Conn
	if malCfg.NATSURL != "" {
		nc, err = natsconn.Connect(natsconn.Options{URL: malCfg.NATSURL, Name: cfg.ServiceName})
		if err != nil {
			log.Error("connect nats", zap.Error(err))
			run.Exit(1)
		}
		defer nc.Close()
	}

	respCache, err := newCache(malCfg, nc, log)
	if err != nil {
		log.Error("init cache", zap.Error(err))
		run.Exit(1)
	}

	events := analytics.New(nil, log)
	if nc != nil && malCfg.AnalyticsEnabled {
		js, err := nc.JetStream()
		if err != nil {
			log.Error("init jetstream", zap.Error(err))
			run.Exit(1)
		}
		events = analytics.New(js, log)
	}

	httpClient := &http.Client{Timeout: malCfg.HTTPTimeout}
	client := mal.New(malCfg.APIBaseURL, httpClient, malCfg.HTTPTimeout)
	tokens := mal.NewTokenProvider(malCfg.TokenURL, mal.Credentials{
		ClientID:     malCfg.ClientID,
		ClientSecret: malCfg.ClientSecret,
		RefreshToken: malCfg.RefreshToken,
	}, httpClient, malCfg.HTTPTimeout)

	svc := service.New(service.Deps{
		Tokens: tokens,
		Lists:  mal.NewAggregator(client, client.BaseURL),
		Anime:  client,
		Cache:  respCache,
		Logger: log,
	})

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{
		Logger:    log,
		ReadyFunc: readyFunc(respCache),
	})
	handlers.Register(r, svc, events, log)

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			runner.Graceful(srv.Shutdown)
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

func newCache(cfg malconfig.MALConfig, nc *nats.Conn, log *zap.Logger) (cache.Cache, error) {
	if cfg.CacheBackend == malconfig.CacheRedis {
		rc, err := cache.NewRedisCache(cfg.RedisURL, cfg.CacheTTL, log)
		if err != nil {
			return nil, err
		}
		log.Info("using redis cache", zap.Duration("ttl", cfg.CacheTTL))
		return rc, nil
	}

	c := cache.NewTTLCache(cfg.CacheTTL)
	if nc != nil {
		if _, err := c.SubscribeInvalidation(nc, cfg.InvalidateSubj); err != nil {
			return nil, err
		}
		log.Info("cache invalidation subscribed", zap.String("subject", cfg.InvalidateSubj))
	}
	log.Info("using in-memory cache", zap.Duration("ttl", cfg.CacheTTL))
	return c, nil
}

func readyFunc(c cache.Cache) func() error {
	p, ok := c.(cache.Pinger)
	if !ok {
		return nil
	}
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return p.Ping(ctx)
	}
}
