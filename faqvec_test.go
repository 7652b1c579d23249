package faqvec_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textloom/faqvec"
	"github.com/textloom/faqvec/ai"
	"github.com/textloom/faqvec/ai/mock"
	"github.com/textloom/faqvec/core"
	"github.com/textloom/faqvec/ingest"
)

func openTestPipeline(t *testing.T) *faqvec.Pipeline {
	t.Helper()

	cfg := ai.NewConfig(ai.WithDimensions(8))
	pipeline, err := faqvec.Open(filepath.Join(t.TempDir(), "faqvec.db"), faqvec.WithAIConfig(cfg))
	require.NoError(t, err)
	t.Cleanup(func() { pipeline.Close() })
	return pipeline
}

func TestPipeline_EndToEnd(t *testing.T) {
	ctx := context.Background()
	pipeline := openTestPipeline(t)

	// No credentials configured, so the client starts unarmed.
	require.False(t, pipeline.Client().IsAvailable())
	pipeline.Client().Initialize(&mock.MockEmbedder{Dim: 8})
	require.True(t, pipeline.Client().IsAvailable())

	rows := []*core.Row{
		{Copyright: "Acme", URL: "https://example.com/faq/1", Question: "What?", Answer: "Because of reasons."},
		{Copyright: "Acme", URL: "https://example.com/faq/2", Question: "Why?", Answer: ""},
		{Copyright: "Globex", URL: "https://example.com/faq/3", Question: "How?", Answer: "Carefully and slowly."},
	}

	summary, err := pipeline.Ingest(ctx, rows, &ingest.Options{Strategy: "recursive"})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ProcessedRows)
	assert.Zero(t, summary.FailedRows)
	// Every row stores its question; rows with answers add at least one chunk.
	assert.GreaterOrEqual(t, summary.TotalChunks, 5)

	stats, err := pipeline.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.CopyrightHolders)
	assert.Equal(t, int64(3), stats.Sources)
	assert.Equal(t, int64(summary.TotalChunks), stats.Chunks)

	report, err := pipeline.CheckEmbeddings(ctx)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Equal(t, 8, report.Sample.Dimension)
	assert.Equal(t, summary.TotalChunks, report.ChunksScanned)
}

func TestPipeline_ReingestIsIdempotentOnProvenance(t *testing.T) {
	ctx := context.Background()
	pipeline := openTestPipeline(t)
	pipeline.Client().Initialize(&mock.MockEmbedder{Dim: 8})

	rows := []*core.Row{
		{Copyright: "Acme", URL: "https://example.com/faq/1", Question: "What?", Answer: "Answer."},
	}

	_, err := pipeline.Ingest(ctx, rows, nil)
	require.NoError(t, err)
	_, err = pipeline.Ingest(ctx, rows, nil)
	require.NoError(t, err)

	// Re-ingesting resolves to the existing holder and source instead of
	// creating duplicates.
	stats, err := pipeline.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.CopyrightHolders)
	assert.Equal(t, int64(1), stats.Sources)
}

func TestPipeline_IngestWithoutProviderAborts(t *testing.T) {
	pipeline := openTestPipeline(t)

	rows := []*core.Row{
		{Copyright: "Acme", URL: "https://example.com/faq/1", Question: "What?", Answer: "Answer."},
	}
	_, err := pipeline.Ingest(context.Background(), rows, nil)
	assert.ErrorIs(t, err, ingest.ErrEmbeddingUnavailable)
}
