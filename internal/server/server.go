// Package server provides the shrinetips HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips"
	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/catalogue"
)

// maxBodySize bounds POST bodies; copied item texts are a few KB.
const maxBodySize = "64K"

// Reloader reloads the published catalogue.
type Reloader interface {
	Reload(ctx context.Context) (*catalogue.Catalogue, error)
}

// Config holds HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ReloadPerMinute int // 0 disables POST /api/v1/reload
}

// Server provides HTTP endpoints for classifying item texts.
type Server struct {
	echo     *echo.Echo
	store    *catalogue.Store
	reloader Reloader
	filter   *shrinetips.RarityFilter
	limiter  *rate.Limiter
	metrics  *Metrics
	registry *prometheus.Registry
	logger   *slog.Logger
	config   *Config
}

// Option configures a Server.
type Option func(*Server)

// WithReloader enables POST /api/v1/reload.
func WithReloader(r Reloader) Option {
	return func(s *Server) {
		s.reloader = r
	}
}

// WithRarityFilter restricts POST /api/v1/match to the allowed rarities.
func WithRarityFilter(f *shrinetips.RarityFilter) Option {
	return func(s *Server) {
		s.filter = f
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a new HTTP server reading catalogues from store.
func New(store *catalogue.Store, cfg *Config, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8787,
		}
	}

	reg := prometheus.NewRegistry()
	s := &Server{
		store:    store,
		metrics:  NewMetrics(reg),
		registry: reg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		config:   cfg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if cfg.ReloadPerMinute > 0 {
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.ReloadPerMinute)), 1)
	}
	s.metrics.setCatalogue(store.Load())

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.BodyLimit(maxBodySize))
	e.Use(s.observe)

	s.echo = e
	s.registerRoutes()
	return s, nil
}

// Metrics returns the server's metrics, for wiring reload hooks.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	v1 := s.echo.Group("/api/v1")
	v1.GET("/catalogue", s.handleCatalogue)
	v1.POST("/match", s.handleMatch)
	v1.POST("/reload", s.handleReload)
}

// observe logs requests and records their duration.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		duration := time.Since(start)
		status := c.Response().Status

		s.metrics.RequestDuration.
			WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).
			Observe(duration.Seconds())
		s.logger.Debug("http request",
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"status", status,
			"duration", duration,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID))
		return nil
	}
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
