// Copyright 2025 Textloom
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	sqlite3 "modernc.org/sqlite"

	"github.com/textloom/faqvec/core"
	"github.com/textloom/faqvec/storage"
	"github.com/textloom/faqvec/storage/sqlite/migrations"
)

// SQLite extended result codes for unique constraint violations.
const (
	codeConstraintPrimaryKey = 1555
	codeConstraintUnique     = 2067
)

// Store is a SQLite-backed storage.Store.
type Store struct {
	db     *sql.DB
	path   string
	mu     sync.Mutex
	closed bool
}

var _ storage.Store = (*Store)(nil)

// Open creates or opens a SQLite store at the given file path, creating the
// parent directory and applying pending schema migrations.
func Open(path string) (storage.Store, error) {
	return open(path)
}

// open returns the concrete type for use within the package and its tests.
func open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	// WAL for concurrency, busy timeout for lock contention, and per-connection
	// foreign key enforcement so cascade deletes hold on every pooled conn.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Begin opens a write session holding an open transaction.
func (s *Store) Begin(ctx context.Context) (storage.Session, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, storage.ErrStorageClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return &session{db: s.db, tx: tx}, nil
}

// Stats returns row counts for the provenance hierarchy.
func (s *Store) Stats(ctx context.Context) (*storage.Stats, error) {
	stats := &storage.Stats{}
	queries := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM copyright_holders", &stats.CopyrightHolders},
		{"SELECT COUNT(*) FROM sources", &stats.Sources},
		{"SELECT COUNT(*) FROM chunks", &stats.Chunks},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("counting rows: %w", err)
		}
	}
	return stats, nil
}

// SourceIDs returns the ids of all sources, ordered by id.
func (s *Store) SourceIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM sources ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ChunksBySource returns all chunks belonging to a source, ordered by id.
func (s *Store) ChunksBySource(ctx context.Context, sourceID int64) ([]*core.Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, source_id, content, embedding, metadata FROM chunks WHERE source_id = ? ORDER BY id",
		sourceID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []*core.Chunk
	for rows.Next() {
		var (
			chunk        core.Chunk
			embedding    []byte
			metadataJSON string
		)
		if err := rows.Scan(&chunk.ID, &chunk.SourceID, &chunk.Content, &embedding, &metadataJSON); err != nil {
			return nil, err
		}
		if chunk.Embedding, err = storage.UnmarshalVector(embedding); err != nil {
			return nil, fmt.Errorf("chunk %d: %w", chunk.ID, err)
		}
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("chunk %d metadata: %w", chunk.ID, err)
		}
		chunks = append(chunks, &chunk)
	}
	return chunks, rows.Err()
}

// FirstEmbedded returns a sample of the first stored chunk.
func (s *Store) FirstEmbedded(ctx context.Context) (*storage.EmbeddedSample, error) {
	var (
		content   string
		embedding []byte
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT content, embedding FROM chunks ORDER BY id LIMIT 1").Scan(&content, &embedding)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sampling chunks: %w", err)
	}

	vector, err := storage.UnmarshalVector(embedding)
	if err != nil {
		return nil, err
	}
	return &storage.EmbeddedSample{
		Dimension:      len(vector),
		ContentPreview: preview(content, 100),
	}, nil
}

// migrate applies pending migrations from the embedded filesystem.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint error.
func isUniqueViolation(err error) bool {
	var serr *sqlite3.Error
	if errors.As(err, &serr) {
		code := serr.Code()
		return code == codeConstraintUnique || code == codeConstraintPrimaryKey
	}
	return false
}

// preview truncates s to at most n runes for log-safe sampling.
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
