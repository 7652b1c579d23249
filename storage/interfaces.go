package storage

import (
	"context"

	"github.com/textloom/faqvec/core"
)

// Stats holds table counts for the provenance hierarchy.
type Stats struct {
	CopyrightHolders int64
	Sources          int64
	Chunks           int64
}

// EmbeddedSample describes one stored chunk, used to spot-check that
// embeddings were persisted with the expected shape.
type EmbeddedSample struct {
	Dimension      int
	ContentPreview string
}

// Store is the relational backend for the ingestion pipeline.
// Implementations must be thread-safe for the read methods; Begin hands out
// the single write session a run exclusively owns.
type Store interface {
	// Begin opens a session holding an open transaction. The caller owns the
	// session's commit cadence for the run's duration.
	Begin(ctx context.Context) (Session, error)

	// Stats returns row counts for holders, sources, and chunks.
	Stats(ctx context.Context) (*Stats, error)

	// SourceIDs returns the ids of all sources, ordered by id.
	SourceIDs(ctx context.Context) ([]int64, error)

	// ChunksBySource returns all chunks belonging to a source, ordered by id.
	ChunksBySource(ctx context.Context, sourceID int64) ([]*core.Chunk, error)

	// FirstEmbedded returns a sample of the first stored chunk.
	// Returns ErrNotFound when no chunks exist.
	FirstEmbedded(ctx context.Context) (*EmbeddedSample, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// Session is a transaction-scoped handle over the store. All writes happen
// through a session; nothing is durable until Commit. Sessions are not safe
// for concurrent use.
type Session interface {
	// FindCopyrightHolder looks up a holder id by unique name.
	// Returns ErrNotFound if absent.
	FindCopyrightHolder(ctx context.Context, name string) (int64, error)

	// InsertCopyrightHolder inserts a holder and returns its id.
	// Returns ErrDuplicateKey on a unique constraint conflict; the conflict is
	// contained so the surrounding transaction stays usable.
	InsertCopyrightHolder(ctx context.Context, name string) (int64, error)

	// FindSource looks up a source id by unique url.
	// Returns ErrNotFound if absent.
	FindSource(ctx context.Context, url string) (int64, error)

	// InsertSource inserts a source owned by the given holder and returns its
	// id. Returns ErrDuplicateKey on a unique constraint conflict; the
	// conflict is contained so the surrounding transaction stays usable.
	InsertSource(ctx context.Context, holderID int64, url string) (int64, error)

	// InsertChunks stages chunk records under the open transaction.
	InsertChunks(ctx context.Context, chunks ...*core.Chunk) error

	// InSavepoint runs fn inside a savepoint. If fn returns an error, only the
	// work staged inside the savepoint is rolled back; the transaction itself
	// stays open and usable.
	InSavepoint(ctx context.Context, fn func(ctx context.Context) error) error

	// Commit durably commits the staged work and opens a fresh transaction so
	// the session can keep going.
	Commit(ctx context.Context) error

	// Rollback discards the staged work and opens a fresh transaction.
	Rollback(ctx context.Context) error

	// Close rolls back any open transaction and releases the session.
	Close() error
}
