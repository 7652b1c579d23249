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


// Package storage provides the storage abstraction layer for faqvec.
//
// This package defines the Store and Session interfaces that decouple the
// ingestion pipeline from the relational backend, along with the sentinel
// errors backends map their driver errors onto and the binary codec for the
// embedding vector column.
//
// # Constructor Return Type Pattern
//
// Backend packages return these interfaces from their public constructors to
// enforce abstraction:
//
//	store, err := sqlite.Open(path)  // returns storage.Store
//
// # Transaction Model
//
// A Session holds exactly one open transaction at a time. The batch committer
// exclusively owns the session for a run: it decides when Commit runs, and
// per-row work is isolated inside savepoints so a failed row never poisons
// the staged work of its neighbors. Unique-constraint conflicts during
// provenance inserts surface as ErrDuplicateKey with the transaction intact,
// which is what makes the lookup/insert/re-lookup dedup protocol safe under
// concurrent and duplicate input.
package storage
