// Package api exposes the portal's HTTP surface: public read-only status
// endpoints and the key-protected admin endpoints that maintain schedule
// state.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"labstatus/internal/engine"
	"labstatus/internal/store"
)

// HTTPServer serves the status API.
type HTTPServer struct {
	engine      *engine.Engine
	store       *store.Store
	logger      *zerolog.Logger
	adminAPIKey string
	defaultLang string
	limiter     *ipLimiter
	cache       *responseCache
}

// Options configure the HTTP server beyond its collaborators.
type Options struct {
	AdminAPIKey    string
	DefaultLang    string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewHTTPServer wires the server. Redis is optional; pass nil to disable
// response caching.
func NewHTTPServer(eng *engine.Engine, st *store.Store, rdb *redis.Client, responseTTL time.Duration, logger *zerolog.Logger, opts Options) *HTTPServer {
	if opts.DefaultLang == "" {
		opts.DefaultLang = "en"
	}
	return &HTTPServer{
		engine:      eng,
		store:       st,
		logger:      logger,
		adminAPIKey: opts.AdminAPIKey,
		defaultLang: opts.DefaultLang,
		limiter:     newIPLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		cache:       newResponseCache(rdb, responseTTL),
	}
}

// Handler builds the route table.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	public := func(h http.HandlerFunc) http.Handler {
		return s.requestID(s.rateLimit(h))
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return s.requestID(s.requireAPIKey(h))
	}

	mux.Handle("/api/v1/status/today", public(s.handleToday))
	mux.Handle("/api/v1/status/next-opening", public(s.handleNextOpening))
	mux.Handle("/api/v1/status/message", public(s.handleMessage))
	mux.Handle("/api/v1/status/explanation", public(s.handleExplanation))
	mux.Handle("/api/v1/status/forecast", public(s.handleForecast))
	mux.Handle("/api/v1/holidays", public(s.handleHolidays))

	mux.Handle("/api/v1/admin/override", admin(s.handleAdminOverride))
	mux.Handle("/api/v1/admin/hours", admin(s.handleAdminHours))
	mux.Handle("/api/v1/admin/absence", admin(s.handleAdminAbsence))
	mux.Handle("/api/v1/admin/export/calendar", admin(s.handleExportCalendar))

	return mux
}

// Start runs the server until the context is cancelled.
func (s *HTTPServer) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	s.logger.Info().Int("port", port).Msg("status API listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// lang picks the response language, constrained to the supported set.
func (s *HTTPServer) lang(r *http.Request) string {
	lang := r.URL.Query().Get("lang")
	switch lang {
	case "th", "de", "en":
		return lang
	}
	return s.defaultLang
}
