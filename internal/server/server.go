package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zeusync/brain/internal/core/observability/log"
)

// AgentsFunc returns a JSON-encodable snapshot of the running agents.
type AgentsFunc func() any

// Config holds server configuration
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{Addr: ":8080", ShutdownTimeout: 5 * time.Second}
}

// Server exposes a herd over HTTP: Prometheus metrics, an agent snapshot and
// a websocket stream of broadcast messages.
type Server struct {
	config  Config
	logger  log.Log
	router  chi.Router
	hub     *hub
	http    *http.Server
	running atomic.Bool
}

func New(cfg Config, agents AgentsFunc, gatherer prometheus.Gatherer, logger log.Log) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	logger = logger.With(log.String("component", "server"))
	s := &Server{config: cfg, logger: logger, hub: newHub(logger)}

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/agents", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		var snapshot any = []any{}
		if agents != nil {
			snapshot = agents()
		}
		if err := json.NewEncoder(w).Encode(snapshot); err != nil {
			s.logger.Warn("encode agents", log.Error(err))
		}
	})
	r.Get("/ws", s.hub.handleWebSocket)
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Broadcast sends v as JSON to every connected websocket client.
func (s *Server) Broadcast(v any) error {
	return s.hub.broadcast(v)
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int { return s.hub.len() }

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		s.running.Store(false)
		return err
	}
	s.http = &http.Server{
		Handler:     s.router,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	s.logger.Info("listening", log.String("addr", ln.Addr().String()))

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve failed", log.Error(err))
		}
	}()
	return nil
}

// Stop closes websocket clients and shuts the HTTP server down.
func (s *Server) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return ErrServerNotRunning
	}
	s.hub.close()

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}
