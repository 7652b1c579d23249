// Package ingest orchestrates the question/answer ingestion run: provenance
// resolution, chunking, batched embedding, and transactional persistence.
//
// A run opens one write session and processes rows sequentially. Each row is
// isolated in a savepoint, so one bad row costs only its own work; staged rows
// are committed on a fixed cadence and once more at the end. Row-scope
// failures are logged and counted, while commit failures, provenance
// invariant violations, and context cancellation abort the whole run.
package ingest
