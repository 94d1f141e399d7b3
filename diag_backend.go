// diag_backend.go: Pluggable persistence backends for the diagnostic channel
//
// Two backends exist: a unified SQLite database (default) consolidating
// diagnostics from every Proteus-embedding process on the machine, and a
// JSONL file for environments that prefer plain append-only text.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
)

// diagBackend abstracts persistent storage for diagnostic events.
type diagBackend interface {
	Write(events []DiagnosticEvent) error
	Close() error
}

// newDiagBackend selects a backend from the configuration: an empty
// OutputFile or a .db path selects SQLite, a .jsonl path selects JSONL.
// When SQLite initialization fails (read-only filesystem, missing cgo
// support), the JSONL fallback is used so diagnostics are never lost.
func newDiagBackend(config DiagConfig) (diagBackend, error) {
	if config.OutputFile == "" || strings.HasSuffix(config.OutputFile, ".db") {
		backend, err := newSQLiteDiagBackend(config)
		if err == nil {
			return backend, nil
		}
		if config.OutputFile != "" {
			return nil, err
		}
		// Unified database unavailable; fall back to a JSONL file next to
		// the temp directory so events still land somewhere.
		config.OutputFile = filepath.Join(os.TempDir(), "proteus-diagnostics.jsonl")
	}
	return newJSONLDiagBackend(config)
}

// unifiedDiagPath returns the machine-wide diagnostic database location.
func unifiedDiagPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "proteus", "diagnostics.db")
}

// sqliteDiagBackend persists events into a WAL-mode SQLite database.
// WAL keeps the writer from ever blocking readers querying diagnostics,
// which matches this workload: frequent small writes, rare reads.
type sqliteDiagBackend struct {
	db     *sql.DB
	insert *sql.Stmt
	mu     sync.Mutex
}

func newSQLiteDiagBackend(config DiagConfig) (*sqliteDiagBackend, error) {
	dbPath := config.OutputFile
	if dbPath == "" {
		dbPath = unifiedDiagPath()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create diagnostic database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open diagnostic database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping diagnostic database: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS diagnostics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		level TEXT NOT NULL,
		event TEXT NOT NULL,
		component TEXT NOT NULL,
		source TEXT,
		raw_value TEXT,
		target TEXT,
		error TEXT,
		process_id INTEGER,
		context TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_diagnostics_timestamp ON diagnostics(timestamp);
	CREATE INDEX IF NOT EXISTS idx_diagnostics_event ON diagnostics(event);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize diagnostic schema: %w", err)
	}

	insert, err := db.Prepare(`
		INSERT INTO diagnostics
		(timestamp, level, event, component, source, raw_value, target, error, process_id, context)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare diagnostic insert: %w", err)
	}

	return &sqliteDiagBackend{db: db, insert: insert}, nil
}

// Write persists a batch of events inside one transaction.
func (s *sqliteDiagBackend) Write(events []DiagnosticEvent) error {
	if len(events) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin diagnostic transaction: %w", err)
	}
	stmt := tx.Stmt(s.insert)
	for _, e := range events {
		var contextJSON []byte
		if e.Context != nil {
			contextJSON, _ = json.Marshal(e.Context)
		}
		if _, err := stmt.Exec(
			e.Timestamp.Format(time.RFC3339Nano),
			e.Level.String(),
			e.Event,
			e.Component,
			e.Source,
			e.RawValue,
			e.Target,
			e.Error,
			e.ProcessID,
			string(contextJSON),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert diagnostic event: %w", err)
		}
	}
	return tx.Commit()
}

func (s *sqliteDiagBackend) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insert != nil {
		_ = s.insert.Close()
	}
	return s.db.Close()
}

// jsonlDiagBackend appends one JSON object per line to a plain file.
type jsonlDiagBackend struct {
	file *os.File
	mu   sync.Mutex
}

func newJSONLDiagBackend(config DiagConfig) (*jsonlDiagBackend, error) {
	if err := os.MkdirAll(filepath.Dir(config.OutputFile), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create diagnostic directory: %w", err)
	}
	file, err := os.OpenFile(config.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open diagnostic file: %w", err)
	}
	return &jsonlDiagBackend{file: file}, nil
}

// Write appends events as newline-delimited JSON.
func (j *jsonlDiagBackend) Write(events []DiagnosticEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal diagnostic event: %w", err)
		}
		if _, err := j.file.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to append diagnostic event: %w", err)
		}
	}
	return nil
}

func (j *jsonlDiagBackend) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync diagnostic file: %w", err)
	}
	return j.file.Close()
}
