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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/textloom/faqvec/core"
	"github.com/textloom/faqvec/storage"
)

// session implements storage.Session over one open *sql.Tx. Commit and
// Rollback immediately open a replacement transaction so the session stays
// usable for the whole run. Not safe for concurrent use.
type session struct {
	db      *sql.DB
	tx      *sql.Tx
	spCount int
}

var _ storage.Session = (*session)(nil)

// FindCopyrightHolder looks up a holder id by unique name.
func (s *session) FindCopyrightHolder(ctx context.Context, name string) (int64, error) {
	return s.findID(ctx, "SELECT id FROM copyright_holders WHERE name = ?", name)
}

// InsertCopyrightHolder inserts a holder, containing any unique conflict
// inside a savepoint so the transaction stays usable.
func (s *session) InsertCopyrightHolder(ctx context.Context, name string) (int64, error) {
	return s.insertGuarded(ctx, "INSERT INTO copyright_holders (name) VALUES (?)", name)
}

// FindSource looks up a source id by unique url.
func (s *session) FindSource(ctx context.Context, url string) (int64, error) {
	return s.findID(ctx, "SELECT id FROM sources WHERE url = ?", url)
}

// InsertSource inserts a source, containing any unique conflict inside a
// savepoint so the transaction stays usable.
func (s *session) InsertSource(ctx context.Context, holderID int64, url string) (int64, error) {
	return s.insertGuarded(ctx,
		"INSERT INTO sources (copyright_holder_id, url) VALUES (?, ?)", holderID, url)
}

// InsertChunks stages chunk records under the open transaction.
func (s *session) InsertChunks(ctx context.Context, chunks ...*core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	stmt, err := s.tx.PrepareContext(ctx,
		"INSERT INTO chunks (source_id, content, embedding, metadata) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("%w: chunk metadata: %w", storage.ErrSerializationFailed, err)
		}
		res, err := stmt.ExecContext(ctx,
			chunk.SourceID, chunk.Content, storage.MarshalVector(chunk.Embedding), string(metadataJSON))
		if err != nil {
			return fmt.Errorf("inserting chunk: %w", err)
		}
		if chunk.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("reading chunk id: %w", err)
		}
	}
	return nil
}

// InSavepoint runs fn inside a savepoint; a failing fn rolls back only the
// work staged inside it.
func (s *session) InSavepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	sp := s.nextSavepoint()
	if _, err := s.tx.ExecContext(ctx, "SAVEPOINT "+sp); err != nil {
		return fmt.Errorf("creating savepoint: %w", err)
	}

	if err := fn(ctx); err != nil {
		if _, rbErr := s.tx.ExecContext(ctx, "ROLLBACK TO "+sp); rbErr != nil {
			return fmt.Errorf("%w: rollback to savepoint after %v: %w", storage.ErrTransactionFailed, err, rbErr)
		}
		s.tx.ExecContext(ctx, "RELEASE "+sp)
		return err
	}

	if _, err := s.tx.ExecContext(ctx, "RELEASE "+sp); err != nil {
		return fmt.Errorf("releasing savepoint: %w", err)
	}
	return nil
}

// Commit commits the staged work and opens a fresh transaction.
func (s *session) Commit(ctx context.Context) error {
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", storage.ErrTransactionFailed, err)
	}
	return s.renew(ctx)
}

// Rollback discards the staged work and opens a fresh transaction.
func (s *session) Rollback(ctx context.Context) error {
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("%w: rollback: %w", storage.ErrTransactionFailed, err)
	}
	return s.renew(ctx)
}

// Close rolls back any open transaction and releases the session.
func (s *session) Close() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback()
	s.tx = nil
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

func (s *session) renew(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.tx = nil
		return fmt.Errorf("%w: reopening transaction: %w", storage.ErrTransactionFailed, err)
	}
	s.tx = tx
	return nil
}

func (s *session) findID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	err := s.tx.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *session) insertGuarded(ctx context.Context, query string, args ...any) (int64, error) {
	sp := s.nextSavepoint()
	if _, err := s.tx.ExecContext(ctx, "SAVEPOINT "+sp); err != nil {
		return 0, fmt.Errorf("creating savepoint: %w", err)
	}

	res, err := s.tx.ExecContext(ctx, query, args...)
	if err != nil {
		if _, rbErr := s.tx.ExecContext(ctx, "ROLLBACK TO "+sp); rbErr != nil {
			return 0, fmt.Errorf("%w: rollback to savepoint after %v: %w", storage.ErrTransactionFailed, err, rbErr)
		}
		s.tx.ExecContext(ctx, "RELEASE "+sp)
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %v", storage.ErrDuplicateKey, err)
		}
		return 0, err
	}

	if _, err := s.tx.ExecContext(ctx, "RELEASE "+sp); err != nil {
		return 0, fmt.Errorf("releasing savepoint: %w", err)
	}
	return res.LastInsertId()
}

func (s *session) nextSavepoint() string {
	s.spCount++
	return fmt.Sprintf("sp_%d", s.spCount)
}
