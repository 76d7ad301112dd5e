// Package store provides persistence backends for TriageFlow.
//
// This file implements the SQLite-backed store.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	"github.com/LumenHealth/TriageFlow/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteStore persists sessions and results in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store. The DSN is a file path to the
// database file; its directory is created if missing.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run SQLite migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite store ready", "dsn", dsn)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveSession(sessionID string, snap models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot for %s: %w", sessionID, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO sessions (id, snapshot, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = excluded.updated_at`,
		sessionID, string(payload), snap.UpdatedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveSession failed", "error", err, "session_id", sessionID)
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	slog.Debug("SQLiteStore SaveSession succeeded", "session_id", sessionID, "stage", snap.Stage)
	return nil
}

func (s *SQLiteStore) GetSession(sessionID string) (*models.Snapshot, error) {
	var payload string
	err := s.db.QueryRow(`SELECT snapshot FROM sessions WHERE id = ?`, sessionID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetSession failed", "error", err, "session_id", sessionID)
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot for %s: %w", sessionID, err)
	}
	return &snap, nil
}

func (s *SQLiteStore) DeleteSession(sessionID string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, sessionID)
	if err != nil {
		slog.Error("SQLiteStore DeleteSession failed", "error", err, "session_id", sessionID)
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

func (s *SQLiteStore) ListSessionIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM sessions ORDER BY id`)
	if err != nil {
		slog.Error("SQLiteStore ListSessionIDs query failed", "error", err)
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

func (s *SQLiteStore) SaveResults(sessionID string, results models.Results) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results for %s: %w", sessionID, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO results (session_id, results, completed_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET results = excluded.results, completed_at = excluded.completed_at`,
		sessionID, string(payload), results.CompletedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveResults failed", "error", err, "session_id", sessionID)
		return fmt.Errorf("failed to save results for %s: %w", sessionID, err)
	}
	return nil
}

func (s *SQLiteStore) GetResults(sessionID string) (*models.Results, error) {
	var payload string
	err := s.db.QueryRow(`SELECT results FROM results WHERE session_id = ?`, sessionID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetResults failed", "error", err, "session_id", sessionID)
		return nil, fmt.Errorf("failed to load results for %s: %w", sessionID, err)
	}
	var results models.Results
	if err := json.Unmarshal([]byte(payload), &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal results for %s: %w", sessionID, err)
	}
	return &results, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
