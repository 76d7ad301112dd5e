// Package store provides persistence backends for TriageFlow session
// snapshots and completed results.
//
// It includes an in-memory store for tests and single-process use, plus
// SQLite and PostgreSQL backed stores for durable checkpointing.
package store

import (
	"sort"
	"sync"

	"github.com/LumenHealth/TriageFlow/internal/models"
)

// Store is the persistence interface consumed by the API layer. A nil
// snapshot/results return with a nil error means "not found".
type Store interface {
	SaveSession(sessionID string, snap models.Snapshot) error
	GetSession(sessionID string) (*models.Snapshot, error)
	DeleteSession(sessionID string) error
	ListSessionIDs() ([]string, error)
	SaveResults(sessionID string, results models.Results) error
	GetResults(sessionID string) (*models.Results, error)
	Close() error
}

// Opts holds configuration options for store implementations.
type Opts struct {
	// DSN is the database connection string (file path for SQLite,
	// connection URL for Postgres).
	DSN string
}

// Option configures store construction.
type Option func(*Opts)

// WithDSN sets the database connection string.
func WithDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// InMemoryStore keeps sessions and results in process memory. It guards its
// maps with a mutex because the HTTP layer may checkpoint different
// sessions concurrently (the engine itself stays single-threaded per
// session).
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Snapshot
	results  map[string]models.Results
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]models.Snapshot),
		results:  make(map[string]models.Results),
	}
}

func (s *InMemoryStore) SaveSession(sessionID string, snap models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = snap
	return nil
}

func (s *InMemoryStore) GetSession(sessionID string) (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s *InMemoryStore) DeleteSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *InMemoryStore) ListSessionIDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *InMemoryStore) SaveResults(sessionID string, results models.Results) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[sessionID] = results
	return nil
}

func (s *InMemoryStore) GetResults(sessionID string) (*models.Results, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results, ok := s.results[sessionID]
	if !ok {
		return nil, nil
	}
	return &results, nil
}

func (s *InMemoryStore) Close() error {
	return nil
}
