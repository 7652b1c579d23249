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


package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/textloom/faqvec/chunk"
	"github.com/textloom/faqvec/core"
	"github.com/textloom/faqvec/storage"
)

// Options holds the tunables of one ingestion run.
type Options struct {
	// Strategy names the chunking strategy for answer text.
	Strategy string

	// Limit caps the number of rows processed; zero or negative means all.
	Limit int

	// ProgressInterval is how often to log a progress event, in rows.
	ProgressInterval int

	// CommitInterval is how many rows to stage between durable commits.
	CommitInterval int
}

// DefaultOptions returns an Options with the standard run settings.
func DefaultOptions() *Options {
	return &Options{
		Strategy:         chunk.DefaultStrategy,
		ProgressInterval: 500,
		CommitInterval:   100,
	}
}

// Summary reports the outcome of a run. ProcessedRows counts rows whose
// chunks were staged successfully; FailedRows counts rows skipped after a
// row-scope failure. ProcessedRows + FailedRows equals the rows attempted.
type Summary struct {
	ProcessedRows int
	TotalChunks   int
	FailedRows    int
}

// Committer drives a full ingestion run: one write session, sequential rows
// each isolated in a savepoint, and durable commits on a fixed row cadence.
type Committer struct {
	store       storage.Store
	coordinator *Coordinator
	client      EmbeddingClient
	logger      *slog.Logger
}

// NewCommitter creates a committer. A nil logger uses slog.Default().
func NewCommitter(store storage.Store, coordinator *Coordinator, client EmbeddingClient, logger *slog.Logger) (*Committer, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if coordinator == nil {
		return nil, errors.New("coordinator is required")
	}
	if client == nil {
		return nil, ErrClientRequired
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Committer{
		store:       store,
		coordinator: coordinator,
		client:      client,
		logger:      logger.With("component", "committer"),
	}, nil
}

// Ingest processes rows sequentially and returns the run summary.
//
// Row-scope failures (validation, embedding exhaustion, storage errors for
// that row) roll back only the row's savepoint, are logged with the row's
// url, and the run continues. Commit failures, provenance invariant
// violations, and context cancellation abort the run after rolling back
// uncommitted work; everything committed before the abort stays durable.
func (c *Committer) Ingest(ctx context.Context, rows []*core.Row, opts *Options) (*Summary, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	strategy := opts.Strategy
	if strategy == "" {
		strategy = chunk.DefaultStrategy
	}
	commitInterval := opts.CommitInterval
	if commitInterval < 1 {
		commitInterval = DefaultOptions().CommitInterval
	}
	progressInterval := opts.ProgressInterval
	if progressInterval < 1 {
		progressInterval = DefaultOptions().ProgressInterval
	}

	// Embeddings are mandatory for every chunk, so an unusable provider means
	// no partial no-vector data: abort before touching storage.
	if !c.client.IsAvailable() {
		c.logger.Error("embedding provider unavailable, aborting run")
		return nil, ErrEmbeddingUnavailable
	}

	if opts.Limit > 0 && opts.Limit < len(rows) {
		rows = rows[:opts.Limit]
	}

	summary := &Summary{}
	if len(rows) == 0 {
		return summary, nil
	}

	tracker := NewProgressTracker(c.logger, len(rows), progressInterval)
	tracker.Start()

	sess, err := c.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening session: %w", err)
	}
	defer sess.Close()

	uncommitted := 0
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return summary, c.abort(ctx, sess, err)
		}

		var staged int
		err := sess.InSavepoint(ctx, func(ctx context.Context) error {
			var rowErr error
			staged, rowErr = c.coordinator.ProcessRow(ctx, sess, row, strategy)
			return rowErr
		})
		switch {
		case err == nil:
			summary.ProcessedRows++
			summary.TotalChunks += staged
		case errors.Is(err, ErrProvenanceInvariant):
			return summary, c.abort(ctx, sess, err)
		case ctx.Err() != nil:
			return summary, c.abort(ctx, sess, err)
		default:
			summary.FailedRows++
			c.logger.Warn("skipping row", "url", row.URL, "err", err)
		}

		seen := i + 1
		uncommitted++
		tracker.Update(seen, summary.TotalChunks)

		if seen%commitInterval == 0 {
			if err := sess.Commit(ctx); err != nil {
				return summary, fmt.Errorf("committing batch: %w", err)
			}
			uncommitted = 0
			tracker.Committed(seen)
		}
	}

	if uncommitted > 0 {
		if err := sess.Commit(ctx); err != nil {
			return summary, fmt.Errorf("committing final batch: %w", err)
		}
		tracker.Committed(len(rows))
	}

	tracker.Finish(summary)
	return summary, nil
}

// abort rolls back uncommitted work and returns the run-scope error. Rollback
// uses a background context so cancellation cannot block the cleanup.
func (c *Committer) abort(ctx context.Context, sess storage.Session, cause error) error {
	rollbackCtx := ctx
	if ctx.Err() != nil {
		rollbackCtx = context.Background()
	}
	if err := sess.Rollback(rollbackCtx); err != nil {
		c.logger.Error("rollback after run failure", "err", err)
	}
	c.logger.Error("ingestion aborted", "err", cause)
	return cause
}
