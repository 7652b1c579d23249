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

import "errors"

var (
	// ErrStoreRequired is returned when a nil store is provided.
	ErrStoreRequired = errors.New("store is required")

	// ErrChunkerRequired is returned when a nil chunker is provided.
	ErrChunkerRequired = errors.New("chunker is required")

	// ErrClientRequired is returned when a nil embedding client is provided.
	ErrClientRequired = errors.New("embedding client is required")

	// ErrEmbeddingUnavailable is returned when a run is attempted without a
	// usable embedding provider. Embeddings are mandatory for every chunk, so
	// the run aborts before any row is processed.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrProvenanceInvariant is returned when a provenance insert fails with a
	// duplicate-key conflict but the conflicting record cannot be found on
	// re-lookup. It signals storage corruption and aborts the run.
	ErrProvenanceInvariant = errors.New("provenance record missing after duplicate-key conflict")
)
