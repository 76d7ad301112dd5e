// Package api exposes the TriageFlow engine over HTTP.
//
// It owns session lifetime for the host process: each session wraps one
// engine controller behind a per-session mutex (the engine itself is
// single-threaded by contract), checkpoints a snapshot to the store after
// every accepted mutation, and restores evicted sessions from their stored
// snapshot on demand.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/LumenHealth/TriageFlow/internal/engine"
	"github.com/LumenHealth/TriageFlow/internal/store"
)

// Default configuration values.
const (
	DefaultAddr         = ":8080"
	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 30 * time.Second
)

// Opts holds configuration options for the API server.
type Opts struct {
	Addr string
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// session pairs an engine controller with the mutex that serializes access
// to it, per the engine's caller-must-serialize contract.
type session struct {
	mu   sync.Mutex
	id   string
	ctrl *engine.Controller
}

// Server wires the engine, the store, and the HTTP routes together.
type Server struct {
	store    store.Store
	mu       sync.Mutex
	sessions map[string]*session
}

// NewServer creates a server over the given store.
func NewServer(st store.Store) *Server {
	return &Server{
		store:    st,
		sessions: make(map[string]*session),
	}
}

// Router builds the chi router for the server.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.healthHandler)
	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", s.createSessionHandler)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getSessionHandler)
			r.Post("/responses", s.submitResponseHandler)
			r.Get("/responses", s.getResponsesHandler)
			r.Post("/continue", s.continueHandler)
			r.Post("/abandon", s.abandonHandler)
			r.Get("/results", s.getResultsHandler)
		})
	})
	return r
}

// Run constructs the configured store, builds the server, and serves until
// the listener fails. driver selects the store backend: "postgres",
// "sqlite3", or "memory".
func Run(driver string, storeOpts []store.Option, apiOpts []Option) error {
	cfg := Opts{Addr: DefaultAddr}
	for _, opt := range apiOpts {
		opt(&cfg)
	}

	st, err := buildStore(driver, storeOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	srv := NewServer(st)
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}
	slog.Info("TriageFlow API listening", "addr", cfg.Addr, "store", driver)
	return httpServer.ListenAndServe()
}

func buildStore(driver string, storeOpts []store.Option) (store.Store, error) {
	switch driver {
	case "postgres":
		return store.NewPostgresStore(storeOpts...)
	case "sqlite3":
		return store.NewSQLiteStore(storeOpts...)
	case "", "memory":
		return store.NewInMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// getOrRestoreSession returns the live session for id, restoring it from
// the store if the process has not seen it yet. Returns nil when the
// session is unknown.
func (s *Server) getOrRestoreSession(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	snap, err := s.store.GetSession(id)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	ctrl := engine.New()
	if err := ctrl.RestoreState(*snap); err != nil {
		return nil, fmt.Errorf("failed to restore session %s: %w", id, err)
	}
	slog.Info("Server.getOrRestoreSession: session restored from store", "session_id", id, "stage", snap.Stage)
	sess := &session{id: id, ctrl: ctrl}
	s.sessions[id] = sess
	return sess, nil
}

func (s *Server) addSession(id string, ctrl *engine.Controller) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &session{id: id, ctrl: ctrl}
	s.sessions[id] = sess
	return sess
}

// checkpoint persists the session's current snapshot. Checkpoint failures
// are logged, not surfaced: the in-memory session remains authoritative and
// the next mutation retries the write.
func (s *Server) checkpoint(sess *session) {
	snap := sess.ctrl.State()
	snap.SessionID = sess.id
	if err := s.store.SaveSession(sess.id, snap); err != nil {
		slog.Error("Server.checkpoint: failed to persist session snapshot", "error", err, "session_id", sess.id)
	}
}
