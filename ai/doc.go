// Package ai defines the embedding service abstraction used by the ingestion
// pipeline.
//
// The Embedder interface decouples the pipeline from any particular provider.
// Client wraps a provider Embedder with the operational policy every call
// needs: retry with exponential backoff (applied uniformly to rate-limit and
// transient errors), splitting of oversized batches with pacing between
// sub-batches, and validation of result order, count, and dimensionality.
//
// Provider implementations live in subpackages (ai/openai for OpenAI-style
// APIs, ai/mock for tests).
package ai
