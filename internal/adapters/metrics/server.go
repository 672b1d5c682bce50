package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/andrescamacho/rtsbot-go/internal/infrastructure/config"
)

// Server exposes the registry over HTTP for Prometheus to scrape
type Server struct {
	srv    *http.Server
	logger zerolog.Logger
}

// NewServer creates a metrics endpoint for the global registry
func NewServer(cfg config.MetricsConfig, logger zerolog.Logger) (*Server, error) {
	if Registry == nil {
		return nil, errors.New("metrics registry not initialized")
	}
	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry}))

	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger.With().Str("component", "metrics").Logger(),
	}, nil
}

// Addr is the listen address
func (s *Server) Addr() string { return s.srv.Addr }

// Start listens in the background until Shutdown
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen for metrics: %w", err)
	}
	s.srv.Addr = ln.Addr().String()
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	s.logger.Info().Str("addr", s.srv.Addr).Msg("serving metrics")
	return nil
}

// Shutdown stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
