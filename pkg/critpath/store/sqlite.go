package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/randalmurphal/critpath/pkg/critpath"
)

// SQLiteStore persists summaries to SQLite.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a summary database.
// The path should be a file path (e.g., "./critpath.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS build_summaries (
			build_id TEXT PRIMARY KEY,
			sequence INTEGER NOT NULL,
			recorded_at TEXT NOT NULL,
			backend TEXT NOT NULL,
			num_nodes INTEGER NOT NULL,
			num_edges INTEGER NOT NULL,
			path_len INTEGER NOT NULL,
			critical_path_us INTEGER NOT NULL,
			data BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(buildID string, info *critpath.BuildInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	sum := summarize(buildID, info, time.Now().UTC())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	_, err = s.db.Exec(`
		INSERT INTO build_summaries
			(build_id, sequence, recorded_at, backend, num_nodes, num_edges, path_len, critical_path_us, data)
		VALUES (
			?,
			COALESCE((SELECT MAX(sequence) FROM build_summaries), 0) + 1,
			?, ?, ?, ?, ?, ?, ?
		)
		ON CONFLICT(build_id) DO UPDATE SET
			sequence = (SELECT MAX(sequence) FROM build_summaries) + 1,
			recorded_at = excluded.recorded_at,
			backend = excluded.backend,
			num_nodes = excluded.num_nodes,
			num_edges = excluded.num_edges,
			path_len = excluded.path_len,
			critical_path_us = excluded.critical_path_us,
			data = excluded.data
	`,
		buildID,
		sum.RecordedAt.Format(time.RFC3339Nano),
		sum.Backend,
		int64(sum.NumNodes),
		int64(sum.NumEdges),
		sum.PathLen,
		sum.CriticalPath.Microseconds(),
		data,
	)
	if err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(buildID string) (*critpath.BuildInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	var data []byte
	err := s.db.QueryRow(`SELECT data FROM build_summaries WHERE build_id = ?`, buildID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load summary: %w", err)
	}

	var info critpath.BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return &info, nil
}

// List implements Store.
func (s *SQLiteStore) List() ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT build_id, recorded_at, backend, num_nodes, num_edges, path_len, critical_path_us
		FROM build_summaries
		ORDER BY sequence
	`)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum          Summary
			recordedAt   string
			nodes, edges int64
			pathUs       int64
		)
		if err := rows.Scan(&sum.BuildID, &recordedAt, &sum.Backend, &nodes, &edges, &sum.PathLen, &pathUs); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		sum.NumNodes = uint64(nodes)
		sum.NumEdges = uint64(edges)
		sum.CriticalPath = time.Duration(pathUs) * time.Microsecond
		at, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("scan summary %s: recorded_at: %w", sum.BuildID, err)
		}
		sum.RecordedAt = at
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}
	return out, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(buildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM build_summaries WHERE build_id = ?`, buildID); err != nil {
		return fmt.Errorf("delete summary: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
