// Package api serves published phrases over HTTP using gin.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abdulachik/amanecer/internal/phrase"
	"github.com/abdulachik/amanecer/internal/scheduler"
)

// PhraseReader reads published phrases.
type PhraseReader interface {
	Today(ctx context.Context, now time.Time) (*phrase.Phrase, error)
	RandomPast(ctx context.Context, now time.Time, exclude string) (*phrase.Phrase, error)
}

// Config holds router dependencies.
type Config struct {
	Reader PhraseReader
	Health *scheduler.Health
	// RateLimit is the allowed requests per second on /api. Zero disables it.
	RateLimit float64
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Health == nil {
		cfg.Health = scheduler.NewHealth()
	}

	engine := gin.New()
	engine.Use(recovery(), requestMetrics())

	h := &handlers{reader: cfg.Reader, health: cfg.Health, now: cfg.Now}

	engine.GET("/healthz", h.healthz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	if cfg.RateLimit > 0 {
		api.Use(rateLimit(cfg.RateLimit))
	}
	api.GET("/phrases/today", h.today)
	api.GET("/phrases/random", h.random)

	return engine
}

// Server wraps http.Server with graceful shutdown.
type Server struct {
	httpServer *http.Server
}

// NewServer creates a server for handler listening on addr.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start begins serving in the background. The returned channel receives a
// listen error, if any, and is closed when the server stops.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting HTTP server", "addr", s.httpServer.Addr)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
		close(errCh)
	}()

	return errCh
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
