// Package gateway exposes the session store over a polling JSON API.
package gateway

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/hovde/livelink/internal/observability"
	"github.com/hovde/livelink/pkg/session"
)

// maxUpdateBody bounds telemetry bodies. Frames arrive as base64 data
// URIs, so this has to be generous.
const maxUpdateBody = 10 << 20

// Config holds server configuration
type Config struct {
	Host   string
	Port   int
	Store  *session.Store
	Logger zerolog.Logger
}

// Server is the HTTP gateway in front of the session store
type Server struct {
	host           string
	port           int
	store          *session.Store
	validator      *updateValidator
	server         *http.Server
	logger         zerolog.Logger
	isShuttingDown bool
	shutdownMu     sync.RWMutex
	inFlightReqs   sync.WaitGroup
}

// NewServer creates a new gateway server
func NewServer(cfg Config) (*Server, error) {
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}

	validator, err := newUpdateValidator()
	if err != nil {
		return nil, err
	}

	return &Server{
		host:      cfg.Host,
		port:      cfg.Port,
		store:     cfg.Store,
		validator: validator,
		logger:    cfg.Logger.With().Str("component", "gateway").Logger(),
	}, nil
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/session", s.track(s.handleCreateSession))
	mux.HandleFunc("DELETE /api/session/{token}", s.track(s.handleCloseSession))
	mux.HandleFunc("POST /api/update/{token}", s.track(s.handleUpdate))
	mux.HandleFunc("GET /api/status/{token}", s.track(s.handleStatus))
	mux.Handle("GET /metrics", observability.MetricsHandler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}

// Start starts the gateway server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    net.JoinHostPort(s.host, fmt.Sprintf("%d", s.port)),
		Handler: s.Handler(),
	}

	s.logger.Info().Str("host", s.host).Int("port", s.port).Msg("Starting gateway server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Gateway server error")
		}
	}()

	return nil
}

// Stop gracefully stops the gateway server
func (s *Server) Stop() error {
	s.shutdownMu.Lock()
	s.isShuttingDown = true
	s.shutdownMu.Unlock()

	s.logger.Info().Msg("Shutting down gateway server")

	// Wait for in-flight requests with timeout
	done := make(chan struct{})
	go func() {
		s.inFlightReqs.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("All in-flight requests completed")
	case <-time.After(30 * time.Second):
		s.logger.Warn().Msg("Shutdown timeout reached, forcing close")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info().Msg("Gateway server stopped")
	return nil
}

// track refuses new work during shutdown, counts the request as
// in-flight, and logs it under a request id.
func (s *Server) track(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.shutdownMu.RLock()
		if s.isShuttingDown {
			s.shutdownMu.RUnlock()
			http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
			return
		}
		s.shutdownMu.RUnlock()

		s.inFlightReqs.Add(1)
		defer s.inFlightReqs.Done()

		requestID, _ := gonanoid.New()
		start := time.Now()
		next(w, r)
		s.logger.Debug().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}
