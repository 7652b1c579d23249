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


package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Client is the pipeline's embedding entry point. It wraps a provider
// Embedder with retry-with-backoff, batch-size capping with pacing between
// sub-batches, and dimensionality validation.
//
// A Client starts uninitialized; callers must arm it with Initialize before
// use and should consult IsAvailable before starting bulk work. Client itself
// implements Embedder.
type Client struct {
	mu           sync.RWMutex
	embedder     Embedder
	retry        RetryPolicy
	maxBatchSize int
	batchPause   time.Duration
	dimensions   int
	logger       *slog.Logger
}

var _ Embedder = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRetryPolicy sets the retry policy applied to every provider call.
func WithRetryPolicy(policy RetryPolicy) ClientOption {
	return func(c *Client) {
		c.retry = policy
	}
}

// WithClientLogger sets a custom logger. Default is slog.Default().
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger.With("component", "embedding-client")
	}
}

// NewClient creates an uninitialized client using the batch and dimension
// settings from cfg. A nil cfg uses DefaultConfig.
func NewClient(cfg *Config, opts ...ClientOption) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	c := &Client{
		retry:        DefaultRetryPolicy(),
		maxBatchSize: cfg.MaxBatchSize,
		batchPause:   cfg.BatchPause,
		dimensions:   cfg.Dimensions,
		logger:       slog.Default().With("component", "embedding-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize arms the client with a provider embedder.
func (c *Client) Initialize(embedder Embedder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.embedder = embedder
}

// IsAvailable reports whether the client holds a live provider handle.
// Callers must check this before starting bulk work: embeddings are mandatory
// for every chunk, so an unavailable client aborts the whole run.
func (c *Client) IsAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.embedder != nil
}

// EmbedText generates an embedding for a single text, with retry.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts generates embeddings for texts in original order. Batches larger
// than the configured cap are split into sequential sub-batches with a small
// pause between them; results are concatenated in input order.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	c.mu.RLock()
	embedder := c.embedder
	c.mu.RUnlock()

	if embedder == nil {
		return nil, ErrNotInitialized
	}
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	if len(texts) > c.maxBatchSize {
		c.logger.Debug("splitting large batch", "texts", len(texts), "maxBatchSize", c.maxBatchSize)
	}

	all := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.maxBatchSize {
		end := start + c.maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := c.embedBatch(ctx, embedder, texts[start:end])
		if err != nil {
			return nil, err
		}
		all = append(all, vectors...)

		// Pace between sub-batches to avoid bursting into the rate limit.
		if end < len(texts) && c.batchPause > 0 {
			timer := time.NewTimer(c.batchPause)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return all, nil
}

// embedBatch performs one capped provider call under the retry policy and
// validates the result shape.
func (c *Client) embedBatch(ctx context.Context, embedder Embedder, batch []string) ([][]float32, error) {
	var vectors [][]float32
	err := c.retry.Do(ctx, func() error {
		var err error
		vectors, err = embedder.EmbedTexts(ctx, batch)
		return err
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w after %d attempts: %w", ErrProviderUnavailable, c.retry.MaxAttempts, err)
	}

	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrBatchSizeMismatch, len(batch), len(vectors))
	}
	if c.dimensions > 0 {
		for i, v := range vectors {
			if len(v) != c.dimensions {
				return nil, fmt.Errorf("%w: vector %d has %d dimensions, expected %d",
					ErrDimensionMismatch, i, len(v), c.dimensions)
			}
		}
	}
	return vectors, nil
}
