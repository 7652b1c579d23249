// Package chunk provides named text chunking strategies for the ingestion
// pipeline.
//
// Strategies are pre-registered under well-known names (recursive, token,
// character) and are interchangeable: the pipeline only depends on the
// contract that a strategy splits text deterministically into bounded
// segments with overlap between consecutive segments. Custom strategies may
// be registered at runtime without touching the built-in ones.
package chunk
