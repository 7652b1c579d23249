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
	"errors"
	"time"
)

// Config holds configuration for the embedding provider.
type Config struct {
	// BaseURL is the base URL for the embedding service API.
	// Example: "https://api.openai.com/v1", or a local OpenAI-compatible server.
	BaseURL string

	// APIKey authenticates against the embedding service. Required for the
	// hosted OpenAI API; local OpenAI-compatible servers usually ignore it.
	APIKey string

	// Model is the embedding model identifier.
	// Example: "text-embedding-3-small"
	Model string

	// Dimensions is the expected vector dimensionality. Vectors returned by
	// the provider are validated against it. Default: 1536
	Dimensions int

	// MaxBatchSize caps the number of texts sent to the provider in a single
	// request; larger batches are split. Default: 100
	MaxBatchSize int

	// BatchPause is the pause between consecutive sub-batches of a split
	// request, to avoid bursting into the provider's rate limit. Default: 100ms
	BatchPause time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the embedding service base URL.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithAPIKey sets the embedding service API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithDimensions sets the expected embedding dimensionality.
func WithDimensions(dims int) ConfigOption {
	return func(c *Config) {
		c.Dimensions = dims
	}
}

// WithMaxBatchSize sets the provider-side batch size cap.
func WithMaxBatchSize(size int) ConfigOption {
	return func(c *Config) {
		c.MaxBatchSize = size
	}
}

// WithBatchPause sets the pause between split sub-batches.
func WithBatchPause(pause time.Duration) ConfigOption {
	return func(c *Config) {
		c.BatchPause = pause
	}
}

// DefaultConfig returns a Config with defaults for the hosted OpenAI API.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      "https://api.openai.com/v1",
		Model:        "text-embedding-3-small",
		Dimensions:   1536,
		MaxBatchSize: 100,
		BatchPause:   100 * time.Millisecond,
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithAPIKey(key),
//	    WithModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("ai config: BaseURL is required")
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.Dimensions <= 0 {
		return errors.New("ai config: Dimensions must be positive")
	}
	if c.MaxBatchSize <= 0 {
		return errors.New("ai config: MaxBatchSize must be positive")
	}
	if c.BatchPause < 0 {
		return errors.New("ai config: BatchPause cannot be negative")
	}
	return nil
}
