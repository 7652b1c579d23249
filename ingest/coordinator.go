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
	"fmt"
	"log/slog"

	"github.com/textloom/faqvec/core"
	"github.com/textloom/faqvec/storage"
)

// EmbeddingClient is the slice of the embedding client the coordinator needs.
type EmbeddingClient interface {
	IsAvailable() bool
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Splitter is the slice of the chunker the coordinator needs.
type Splitter interface {
	Chunk(text, strategy string) ([]string, error)
}

// Coordinator turns one dataset row into its persisted chunks: validate,
// resolve provenance, chunk the answer, embed question and answer chunks in
// one batched call, and stage the chunk records in the session.
type Coordinator struct {
	chunker  Splitter
	client   EmbeddingClient
	resolver *Resolver
	logger   *slog.Logger
}

// NewCoordinator creates a coordinator. A nil logger uses slog.Default().
func NewCoordinator(chunker Splitter, client EmbeddingClient, logger *slog.Logger) (*Coordinator, error) {
	if chunker == nil {
		return nil, ErrChunkerRequired
	}
	if client == nil {
		return nil, ErrClientRequired
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Coordinator{
		chunker:  chunker,
		client:   client,
		resolver: NewResolver(logger),
		logger:   logger.With("component", "coordinator"),
	}, nil
}

// ProcessRow ingests one row under the session's open transaction and returns
// the number of chunks staged. The question is always stored whole as chunk
// index 0; answer chunks follow at indices 1..k split with the given strategy.
// All of the row's texts are embedded in a single batched call.
func (c *Coordinator) ProcessRow(ctx context.Context, sess storage.Session, row *core.Row, strategy string) (int, error) {
	if err := core.ValidateRow(row); err != nil {
		return 0, err
	}
	if !c.client.IsAvailable() {
		return 0, ErrEmbeddingUnavailable
	}

	holderID, err := c.resolver.ResolveHolder(ctx, sess, row.Copyright)
	if err != nil {
		return 0, err
	}
	sourceID, err := c.resolver.ResolveSource(ctx, sess, holderID, row.URL)
	if err != nil {
		return 0, err
	}

	var answerChunks []string
	if row.Answer != "" {
		if answerChunks, err = c.chunker.Chunk(row.Answer, strategy); err != nil {
			return 0, fmt.Errorf("chunking answer: %w", err)
		}
	}

	texts := make([]string, 0, len(answerChunks)+1)
	texts = append(texts, row.Question)
	texts = append(texts, answerChunks...)

	vectors, err := c.client.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding row: %w", err)
	}

	chunks := make([]*core.Chunk, 0, len(texts))
	chunks = append(chunks, &core.Chunk{
		SourceID:  sourceID,
		Content:   row.Question,
		Embedding: vectors[0],
		Metadata:  core.QuestionMetadata(row),
	})
	for i, text := range answerChunks {
		chunks = append(chunks, &core.Chunk{
			SourceID:  sourceID,
			Content:   text,
			Embedding: vectors[i+1],
			Metadata:  core.AnswerMetadata(row, text, strategy, i+1, len(answerChunks)),
		})
	}

	if err := sess.InsertChunks(ctx, chunks...); err != nil {
		return 0, fmt.Errorf("staging chunks: %w", err)
	}

	c.logger.Debug("processed row", "url", row.URL, "chunks", len(chunks))
	return len(chunks), nil
}
