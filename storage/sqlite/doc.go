// Package sqlite implements the storage interfaces on SQLite.
//
// The schema lives in embedded migrations applied at Open. Write sessions
// hold one open transaction each; unique-constraint conflicts during
// provenance inserts are contained in savepoints and surfaced as
// storage.ErrDuplicateKey with the transaction intact. Embedding vectors are
// stored as length-prefixed float32 BLOBs; chunk metadata as a JSON text
// column.
package sqlite
