// Package dataset loads question/answer rows from NDJSON files.
package dataset
