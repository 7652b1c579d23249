// Package audit inspects an existing store: provenance row counts and a
// consistency scan of stored embedding vectors.
package audit
