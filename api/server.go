// Package api provides the WattWeaver HTTP API server.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"wattweaver/internal/auth"
	"wattweaver/internal/history"
	"wattweaver/internal/weather"
	"wattweaver/pkg/platform"
)

var (
	version   = "0.1.0"
	startTime = time.Now()
)

// Config holds server configuration.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	JWTSecret    string
}

// ConfigFromEnv builds a Config from environment variables.
func ConfigFromEnv() *Config {
	return &Config{
		Port:         platform.GetEnvInt("WATTWEAVER_PORT", 8080),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		JWTSecret:    platform.GetEnv("WATTWEAVER_JWT_SECRET", "dev-secret"),
	}
}

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	authSvc    *auth.Service
	runs       history.Store
	weather    *weather.Client
	cfg        *Config
}

// NewServer wires the API server with its collaborators.
func NewServer(authSvc *auth.Service, runs history.Store, cfg *Config) *Server {
	if cfg == nil {
		cfg = ConfigFromEnv()
	}
	return &Server{authSvc: authSvc, runs: runs, weather: weather.NewClient(), cfg: cfg}
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)
	r.Get("/health/live", s.handleLiveness)
	r.Get("/health/ready", s.handleReadiness)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/version", s.handleVersion)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Get("/regions", s.handleRegions)
		r.Get("/forecast", s.handleForecast)
		r.Get("/forecast/live", s.handleLiveForecast)
		r.Get("/carbon/intensity", s.handleCarbonIntensity)
		r.Post("/simulate", s.handleSimulate)
		r.Post("/sensitivity", s.handleSensitivity)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/runs", s.handleListRuns)
			r.Get("/runs/{id}", s.handleGetRun)
			r.Get("/runs/{id}/export", s.handleExportRun)
		})
	})

	return r
}

// Start runs the server until the context is canceled or SIGINT/SIGTERM,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Int("port", s.cfg.Port).Str("version", version).Msg("Starting WattWeaver API server")
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	case <-quit:
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
