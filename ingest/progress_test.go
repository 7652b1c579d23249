package ingest

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_ReportsOnInterval(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	tracker := NewProgressTracker(logger, 10, 5)
	tracker.Start()
	tracker.Update(3, 9)
	assert.NotContains(t, buf.String(), "msg=progress")

	tracker.Update(5, 15)
	assert.Contains(t, buf.String(), "msg=progress")
	assert.Contains(t, buf.String(), "rows=5")
	assert.Contains(t, buf.String(), "percentage=50.0")
}

func TestProgressTracker_IgnoresUpdatesBeforeStart(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	tracker := NewProgressTracker(logger, 10, 1)
	tracker.Update(5, 5)
	tracker.Committed(5)
	assert.Empty(t, buf.String())
	assert.Zero(t, tracker.Elapsed())
}

func TestProgressTracker_FinishLogsSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	tracker := NewProgressTracker(logger, 3, 100)
	tracker.Start()
	tracker.Update(3, 9)
	tracker.Finish(&Summary{ProcessedRows: 2, FailedRows: 1, TotalChunks: 9})

	out := buf.String()
	assert.Contains(t, out, "ingestion complete")
	assert.Contains(t, out, "processedRows=2")
	assert.Contains(t, out, "failedRows=1")
	assert.Contains(t, out, "totalChunks=9")
}
