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


package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/textloom/faqvec/storage"
)

// EmbeddingReport is the result of an embedding consistency scan.
type EmbeddingReport struct {
	// Sample describes the first stored chunk.
	Sample *storage.EmbeddedSample

	// ChunksScanned is the number of chunks inspected.
	ChunksScanned int

	// Dimensions maps vector length to the number of chunks stored at that
	// length. A healthy store has exactly one entry.
	Dimensions map[int]int

	// Consistent reports whether every scanned chunk matches the sample's
	// dimension.
	Consistent bool
}

// Auditor runs read-only inspections against a store. Sources are scanned
// concurrently on a bounded worker pool.
type Auditor struct {
	store  storage.Store
	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures an Auditor.
type Option func(*Auditor) error

// WithPoolSize sets the worker pool size for the embedding scan.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(a *Auditor) error {
		if size < 1 {
			size = 1
		}
		if a.pool != nil {
			a.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		a.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Auditor) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger.With("component", "audit")
		return nil
	}
}

// NewAuditor creates an auditor over the given store.
func NewAuditor(store storage.Store, opts ...Option) (*Auditor, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	a := &Auditor{
		store:  store,
		pool:   pool,
		logger: slog.Default().With("component", "audit"),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			a.Release()
			return nil, err
		}
	}
	return a, nil
}

// Stats returns provenance row counts.
func (a *Auditor) Stats(ctx context.Context) (*storage.Stats, error) {
	return a.store.Stats(ctx)
}

// CheckEmbeddings samples the first stored chunk and scans every source's
// chunks for vector dimension consistency. Returns ErrNoEmbeddings when the
// store is empty.
func (a *Auditor) CheckEmbeddings(ctx context.Context) (*EmbeddingReport, error) {
	sample, err := a.store.FirstEmbedded(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoEmbeddings
	}
	if err != nil {
		return nil, fmt.Errorf("sampling embeddings: %w", err)
	}

	sourceIDs, err := a.store.SourceIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}

	report := &EmbeddingReport{
		Sample:     sample,
		Dimensions: make(map[int]int),
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		scanErr error
	)
	for _, sourceID := range sourceIDs {
		sourceID := sourceID
		wg.Add(1)
		err := a.pool.Submit(func() {
			defer wg.Done()

			chunks, err := a.store.ChunksBySource(ctx, sourceID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if scanErr == nil {
					scanErr = fmt.Errorf("scanning source %d: %w", sourceID, err)
				}
				return
			}
			for _, chunk := range chunks {
				report.Dimensions[len(chunk.Embedding)]++
				report.ChunksScanned++
			}
		})
		if err != nil {
			wg.Done()
			return nil, fmt.Errorf("submitting scan task: %w", err)
		}
	}
	wg.Wait()

	if scanErr != nil {
		return nil, scanErr
	}

	_, only := report.Dimensions[sample.Dimension]
	report.Consistent = only && len(report.Dimensions) == 1

	a.logger.Debug("embedding scan complete",
		"chunks", report.ChunksScanned, "dimensions", len(report.Dimensions))
	return report, nil
}

// Release releases the worker pool. The auditor should not be used after
// calling Release.
func (a *Auditor) Release() {
	if a.pool != nil {
		a.pool.Release()
	}
}
