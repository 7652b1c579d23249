package ingest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textloom/faqvec/core"
	"github.com/textloom/faqvec/storage"
)

func makeRows(n int) []*core.Row {
	rows := make([]*core.Row, n)
	for i := range rows {
		rows[i] = &core.Row{
			Copyright: "Acme",
			URL:       fmt.Sprintf("https://example.com/faq/%d", i),
			Question:  fmt.Sprintf("question %d", i),
			Answer:    "part one|part two",
		}
	}
	return rows
}

func newTestCommitter(t *testing.T, store storage.Store, client EmbeddingClient) *Committer {
	t.Helper()

	coordinator, err := NewCoordinator(stubSplitter{}, client, nil)
	require.NoError(t, err)
	committer, err := NewCommitter(store, coordinator, client, nil)
	require.NoError(t, err)
	return committer
}

func TestIngest_CommitCadence(t *testing.T) {
	sess := newFakeSession()
	store := &fakeStore{session: sess}
	client := &stubClient{available: true}
	committer := newTestCommitter(t, store, client)

	summary, err := committer.Ingest(context.Background(), makeRows(123), &Options{
		Strategy:       "recursive",
		CommitInterval: 50,
	})
	require.NoError(t, err)

	// 123 rows at interval 50: commits after rows 50 and 100, then the final
	// partial batch of 23.
	assert.Equal(t, 3, sess.commits)
	assert.Equal(t, 123, summary.ProcessedRows)
	assert.Zero(t, summary.FailedRows)
	assert.Equal(t, 123*3, summary.TotalChunks)
	assert.Len(t, sess.committed, 123*3)
	assert.Empty(t, sess.staged)
}

func TestIngest_ExactMultipleSkipsEmptyFinalCommit(t *testing.T) {
	sess := newFakeSession()
	store := &fakeStore{session: sess}
	client := &stubClient{available: true}
	committer := newTestCommitter(t, store, client)

	summary, err := committer.Ingest(context.Background(), makeRows(100), &Options{CommitInterval: 50})
	require.NoError(t, err)
	assert.Equal(t, 2, sess.commits)
	assert.Equal(t, 100, summary.ProcessedRows)
}

func TestIngest_RowFailureContinuesRun(t *testing.T) {
	sess := newFakeSession()
	store := &fakeStore{session: sess}
	client := &stubClient{available: true, failSubstring: "question 3"}
	committer := newTestCommitter(t, store, client)

	summary, err := committer.Ingest(context.Background(), makeRows(10), &Options{CommitInterval: 100})
	require.NoError(t, err)
	assert.Equal(t, 9, summary.ProcessedRows)
	assert.Equal(t, 1, summary.FailedRows)
	assert.Equal(t, 9*3, summary.TotalChunks)

	// The failed row's savepoint rolled back its chunks only.
	assert.Len(t, sess.committed, 9*3)
	for _, chunk := range sess.committed {
		assert.NotEqual(t, "question 3", chunk.Metadata.Question)
	}
}

func TestIngest_UnavailableProviderAbortsBeforeWork(t *testing.T) {
	sess := newFakeSession()
	store := &fakeStore{session: sess}
	committer := newTestCommitter(t, store, &stubClient{available: false})

	_, err := committer.Ingest(context.Background(), makeRows(5), nil)
	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
	assert.Zero(t, store.begins)
}

func TestIngest_ProvenanceInvariantAbortsRun(t *testing.T) {
	sess := newFakeSession()
	sess.findHolderFn = func(name string) (int64, error) { return 0, storage.ErrNotFound }
	sess.insertHolderFn = func(name string) (int64, error) { return 0, storage.ErrDuplicateKey }
	store := &fakeStore{session: sess}
	client := &stubClient{available: true}
	committer := newTestCommitter(t, store, client)

	summary, err := committer.Ingest(context.Background(), makeRows(5), &Options{CommitInterval: 2})
	assert.ErrorIs(t, err, ErrProvenanceInvariant)
	assert.Zero(t, summary.ProcessedRows)
	assert.Equal(t, 1, sess.rollbacks)
	assert.Zero(t, sess.commits)
}

func TestIngest_LimitCapsRows(t *testing.T) {
	sess := newFakeSession()
	store := &fakeStore{session: sess}
	client := &stubClient{available: true}
	committer := newTestCommitter(t, store, client)

	summary, err := committer.Ingest(context.Background(), makeRows(10), &Options{Limit: 3, CommitInterval: 100})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ProcessedRows)
}

func TestIngest_CancelledContextAborts(t *testing.T) {
	sess := newFakeSession()
	store := &fakeStore{session: sess}
	client := &stubClient{available: true}
	committer := newTestCommitter(t, store, client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := committer.Ingest(ctx, makeRows(5), &Options{CommitInterval: 2})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.ProcessedRows)
	assert.Equal(t, 1, sess.rollbacks)
}

func TestIngest_CommitFailureAbortsRun(t *testing.T) {
	sess := newFakeSession()
	sess.commitFailAt = 1
	store := &fakeStore{session: sess}
	client := &stubClient{available: true}
	committer := newTestCommitter(t, store, client)

	summary, err := committer.Ingest(context.Background(), makeRows(10), &Options{CommitInterval: 5})
	assert.ErrorIs(t, err, storage.ErrTransactionFailed)
	assert.Equal(t, 5, summary.ProcessedRows)
	assert.Empty(t, sess.committed)
}

func TestIngest_EmptyRows(t *testing.T) {
	sess := newFakeSession()
	store := &fakeStore{session: sess}
	client := &stubClient{available: true}
	committer := newTestCommitter(t, store, client)

	summary, err := committer.Ingest(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Zero(t, summary.ProcessedRows)
	assert.Zero(t, store.begins)
}
