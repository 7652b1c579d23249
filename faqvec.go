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


// Package faqvec assembles the ingestion pipeline: a SQLite-backed store, a
// chunking registry, a retrying embedding client, and the run orchestration.
package faqvec

import (
	"context"
	"errors"
	"log/slog"

	"github.com/textloom/faqvec/ai"
	"github.com/textloom/faqvec/ai/openai"
	"github.com/textloom/faqvec/audit"
	"github.com/textloom/faqvec/chunk"
	"github.com/textloom/faqvec/core"
	"github.com/textloom/faqvec/ingest"
	"github.com/textloom/faqvec/storage"
	"github.com/textloom/faqvec/storage/sqlite"
)

// Pipeline is the top-level handle over the store, chunker, embedding client,
// and auditor.
type Pipeline struct {
	store   storage.Store
	chunker *chunk.Chunker
	client  *ai.Client
	auditor *audit.Auditor
	logger  *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*pipelineOptions)

type pipelineOptions struct {
	aiConfig *ai.Config
	logger   *slog.Logger
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(cfg *ai.Config) PipelineOption {
	return func(o *pipelineOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(o *pipelineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Open creates a pipeline over the SQLite database at dbPath. The embedding
// client is armed only when credentials are configured; without them the
// pipeline still serves read-only inspection, and ingestion aborts with
// ingest.ErrEmbeddingUnavailable.
func Open(dbPath string, opts ...PipelineOption) (*Pipeline, error) {
	options := &pipelineOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}

	client := ai.NewClient(options.aiConfig, ai.WithClientLogger(options.logger))
	embedder, err := openai.NewEmbedder(options.aiConfig)
	switch {
	case err == nil:
		client.Initialize(embedder)
	case errors.Is(err, ai.ErrMissingCredentials):
		options.logger.Warn("no embedding credentials configured, ingestion disabled")
	default:
		store.Close()
		return nil, err
	}

	auditor, err := audit.NewAuditor(store, audit.WithLogger(options.logger))
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Pipeline{
		store:   store,
		chunker: chunk.NewChunker(),
		client:  client,
		auditor: auditor,
		logger:  options.logger,
	}, nil
}

// Ingest runs a full ingestion over rows.
func (p *Pipeline) Ingest(ctx context.Context, rows []*core.Row, opts *ingest.Options) (*ingest.Summary, error) {
	coordinator, err := ingest.NewCoordinator(p.chunker, p.client, p.logger)
	if err != nil {
		return nil, err
	}
	committer, err := ingest.NewCommitter(p.store, coordinator, p.client, p.logger)
	if err != nil {
		return nil, err
	}
	return committer.Ingest(ctx, rows, opts)
}

// Stats returns provenance row counts.
func (p *Pipeline) Stats(ctx context.Context) (*storage.Stats, error) {
	return p.auditor.Stats(ctx)
}

// CheckEmbeddings runs the embedding consistency scan.
func (p *Pipeline) CheckEmbeddings(ctx context.Context) (*audit.EmbeddingReport, error) {
	return p.auditor.CheckEmbeddings(ctx)
}

// Chunker returns the strategy registry, for callers that register custom
// splitters before ingesting.
func (p *Pipeline) Chunker() *chunk.Chunker {
	return p.chunker
}

// Client returns the embedding client, for callers that arm it with their own
// provider instead of the configured one.
func (p *Pipeline) Client() *ai.Client {
	return p.client
}

// Close releases the auditor's worker pool and closes the store.
func (p *Pipeline) Close() error {
	p.auditor.Release()
	if err := p.store.Close(); err != nil {
		p.logger.Error("error closing store", "err", err)
		return err
	}
	return nil
}
