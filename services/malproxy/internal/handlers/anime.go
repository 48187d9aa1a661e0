package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/malproxy/internal/platform/analytics"
	"github.com/example/malproxy/internal/platform/api"
	"github.com/example/malproxy/internal/platform/httpserver"
	"github.com/example/malproxy/services/malproxy/internal/mal"
	"github.com/example/malproxy/services/malproxy/internal/service"
)

// AnimeService is the subset of service.Service used by the HTTP layer.
type AnimeService interface {
	WatchList(ctx context.Context, status string) (service.Result, error)
	Anime(ctx context.Context, id string) (service.Result, error)
	AnimeList(ctx context.Context) error
}

// Register mounts the proxy routes on r.
func Register(r chi.Router, svc AnimeService, events *analytics.Publisher, log *zap.Logger) {
	r.Get("/getUserWatchAnime", GetUserWatchAnime(svc, events, log))
	r.Get("/getAnime/{id}", GetAnime(svc, events, log))
	r.Get("/getAnimeList", GetAnimeList(svc, log))
}

// GetUserWatchAnime handles GET /getUserWatchAnime?status=
func GetUserWatchAnime(svc AnimeService, events *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		status := strings.TrimSpace(r.URL.Query().Get("status"))

		res, err := svc.WatchList(r.Context(), status)
		if err != nil {
			writeUpstreamError(w, log, rid, err)
			return
		}
		events.Publish(analytics.SubjectWatchListServed, "watchlist_served", rid, map[string]any{
			"status":    status,
			"cache_hit": res.CacheHit,
		})
		api.WriteRawJSON(w, http.StatusOK, res.Body)
	}
}

// GetAnime handles GET /getAnime/{id}
func GetAnime(svc AnimeService, events *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		res, err := svc.Anime(r.Context(), id)
		if err != nil {
			writeUpstreamError(w, log, rid, err, zap.String("anime_id", id))
			return
		}
		events.Publish(analytics.SubjectAnimeServed, "anime_served", rid, map[string]any{
			"anime_id":  id,
			"cache_hit": res.CacheHit,
		})
		api.WriteRawJSON(w, http.StatusOK, res.Body)
	}
}

// GetAnimeList handles GET /getAnimeList. It only exchanges a token and
// answers 204.
func GetAnimeList(svc AnimeService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		if err := svc.AnimeList(r.Context()); err != nil {
			writeUpstreamError(w, log, rid, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// writeUpstreamError logs the failure kind and answers with the fixed 500 body.
func writeUpstreamError(w http.ResponseWriter, log *zap.Logger, rid string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("request_id", rid),
		zap.String("kind", errorKind(err)),
		zap.Error(err),
	)
	log.Error("request failed", fields...)
	api.Internal(w)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, mal.ErrUpstreamTimeout):
		return "upstream_timeout"
	case errors.Is(err, mal.ErrUpstreamAuth):
		return "upstream_auth"
	case errors.Is(err, mal.ErrUpstreamFetch):
		return "upstream_fetch"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal"
	}
}
