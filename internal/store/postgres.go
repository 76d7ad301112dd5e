// Package store provides persistence backends for TriageFlow.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "embed"

	"github.com/LumenHealth/TriageFlow/internal/models"
	_ "github.com/lib/pq"
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore persists sessions and results in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store from a connection URL DSN.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	if cfg.DSN == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run Postgres migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres store ready")
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) SaveSession(sessionID string, snap models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot for %s: %w", sessionID, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO sessions (id, snapshot, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = EXCLUDED.updated_at`,
		sessionID, payload, snap.UpdatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveSession failed", "error", err, "session_id", sessionID)
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	slog.Debug("PostgresStore SaveSession succeeded", "session_id", sessionID, "stage", snap.Stage)
	return nil
}

func (s *PostgresStore) GetSession(sessionID string) (*models.Snapshot, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT snapshot FROM sessions WHERE id = $1`, sessionID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetSession failed", "error", err, "session_id", sessionID)
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot for %s: %w", sessionID, err)
	}
	return &snap, nil
}

func (s *PostgresStore) DeleteSession(sessionID string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = $1`, sessionID)
	if err != nil {
		slog.Error("PostgresStore DeleteSession failed", "error", err, "session_id", sessionID)
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

func (s *PostgresStore) ListSessionIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM sessions ORDER BY id`)
	if err != nil {
		slog.Error("PostgresStore ListSessionIDs query failed", "error", err)
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

func (s *PostgresStore) SaveResults(sessionID string, results models.Results) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results for %s: %w", sessionID, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO results (session_id, results, completed_at) VALUES ($1, $2, $3)
		 ON CONFLICT (session_id) DO UPDATE SET results = EXCLUDED.results, completed_at = EXCLUDED.completed_at`,
		sessionID, payload, results.CompletedAt)
	if err != nil {
		slog.Error("PostgresStore SaveResults failed", "error", err, "session_id", sessionID)
		return fmt.Errorf("failed to save results for %s: %w", sessionID, err)
	}
	return nil
}

func (s *PostgresStore) GetResults(sessionID string) (*models.Results, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT results FROM results WHERE session_id = $1`, sessionID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetResults failed", "error", err, "session_id", sessionID)
		return nil, fmt.Errorf("failed to load results for %s: %w", sessionID, err)
	}
	var results models.Results
	if err := json.Unmarshal(payload, &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal results for %s: %w", sessionID, err)
	}
	return &results, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
