// Package api exposes the HTTP surface of the code-assist service: one
// session-creation endpoint, three snippet endpoints that relay prompts
// to the upstream model, and a transcript readback endpoint.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/haikal/sidekick/internal/metrics"
	"github.com/haikal/sidekick/pkg/llm"
	"github.com/haikal/sidekick/pkg/session"
)

// Server is the code-assist HTTP server
type Server struct {
	options        ServerOptions
	server         *http.Server
	store          *session.Store
	provider       llm.Provider
	metrics        *metrics.Metrics
	logger         zerolog.Logger
	startTime      time.Time
	isShuttingDown bool
	shutdownMu     sync.RWMutex
	inFlightReqs   sync.WaitGroup
}

// ServerOptions holds server configuration
type ServerOptions struct {
	Host string
	Port int

	// Timeout bounds explain calls; LongTimeout bounds fix and
	// completion calls, which tend to generate more output.
	Timeout     time.Duration
	LongTimeout time.Duration
}

// NewServer creates a new server
func NewServer(options ServerOptions, store *session.Store, provider llm.Provider, m *metrics.Metrics, logger zerolog.Logger) (*Server, error) {
	if options.Port == 0 {
		options.Port = 8000
	}
	if options.Host == "" {
		options.Host = "127.0.0.1"
	}
	if options.Timeout == 0 {
		options.Timeout = 40 * time.Second
	}
	if options.LongTimeout == 0 {
		options.LongTimeout = 60 * time.Second
	}

	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("upstream provider is required")
	}
	if m == nil {
		return nil, fmt.Errorf("metrics is required")
	}

	s := &Server{
		options:   options,
		store:     store,
		provider:  provider,
		metrics:   m,
		logger:    logger,
		startTime: time.Now(),
	}

	store.SetCountObserver(func(n int) {
		m.SessionsActive.Set(float64(n))
	})

	return s, nil
}

// Handler returns the full route table wrapped in the shared middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/start_session", s.handleStartSession)
	mux.HandleFunc("/explain", s.handleExplain)
	mux.HandleFunc("/fix", s.handleFix)
	mux.HandleFunc("/method_completion", s.handleMethodCompletion)
	mux.HandleFunc("/get_full_explanation", s.handleFullExplanation)

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())

	return s.withCORS(s.withRequestLog(mux))
}

// Start starts the server and blocks until it shuts down.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.options.Host, s.options.Port),
		Handler: s.Handler(),
	}

	s.logger.Info().
		Str("host", s.options.Host).
		Int("port", s.options.Port).
		Str("provider", s.provider.Provider()).
		Msg("Starting code-assist server")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop() error {
	s.shutdownMu.Lock()
	s.isShuttingDown = true
	s.shutdownMu.Unlock()

	s.logger.Info().Msg("Shutting down server")

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

	s.logger.Info().Msg("Server stopped")
	return nil
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status":    "ok",
		"uptime":    time.Since(s.startTime).Seconds(),
		"sessions":  s.store.Len(),
		"timestamp": time.Now().UnixMilli(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
