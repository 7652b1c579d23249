package ingest

import (
	"context"
	"errors"
	"strings"

	"github.com/textloom/faqvec/core"
	"github.com/textloom/faqvec/storage"
)

var errEmbedFailed = errors.New("embedding failed")

// fakeStore hands out fakeSessions and counts how often Begin is called.
type fakeStore struct {
	session *fakeSession
	begins  int
}

func (s *fakeStore) Begin(ctx context.Context) (storage.Session, error) {
	s.begins++
	return s.session, nil
}

func (s *fakeStore) Stats(ctx context.Context) (*storage.Stats, error) { return &storage.Stats{}, nil }
func (s *fakeStore) SourceIDs(ctx context.Context) ([]int64, error)    { return nil, nil }
func (s *fakeStore) ChunksBySource(ctx context.Context, sourceID int64) ([]*core.Chunk, error) {
	return nil, nil
}
func (s *fakeStore) FirstEmbedded(ctx context.Context) (*storage.EmbeddedSample, error) {
	return nil, storage.ErrNotFound
}
func (s *fakeStore) Close() error { return nil }

// fakeSession is an in-memory storage.Session with function-field overrides
// for the provenance operations. Savepoints snapshot and restore the staged
// state; Commit moves staged chunks to committed.
type fakeSession struct {
	holders map[string]int64
	sources map[string]int64
	nextID  int64

	staged    []*core.Chunk
	committed []*core.Chunk
	commits   int
	rollbacks int

	// commitFailAt makes the Nth commit fail (1-based); zero disables.
	commitFailAt int

	findHolderFn   func(name string) (int64, error)
	insertHolderFn func(name string) (int64, error)
	findSourceFn   func(url string) (int64, error)
	insertSourceFn func(holderID int64, url string) (int64, error)
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		holders: make(map[string]int64),
		sources: make(map[string]int64),
	}
}

func (s *fakeSession) FindCopyrightHolder(ctx context.Context, name string) (int64, error) {
	if s.findHolderFn != nil {
		return s.findHolderFn(name)
	}
	if id, ok := s.holders[name]; ok {
		return id, nil
	}
	return 0, storage.ErrNotFound
}

func (s *fakeSession) InsertCopyrightHolder(ctx context.Context, name string) (int64, error) {
	if s.insertHolderFn != nil {
		return s.insertHolderFn(name)
	}
	if _, ok := s.holders[name]; ok {
		return 0, storage.ErrDuplicateKey
	}
	s.nextID++
	s.holders[name] = s.nextID
	return s.nextID, nil
}

func (s *fakeSession) FindSource(ctx context.Context, url string) (int64, error) {
	if s.findSourceFn != nil {
		return s.findSourceFn(url)
	}
	if id, ok := s.sources[url]; ok {
		return id, nil
	}
	return 0, storage.ErrNotFound
}

func (s *fakeSession) InsertSource(ctx context.Context, holderID int64, url string) (int64, error) {
	if s.insertSourceFn != nil {
		return s.insertSourceFn(holderID, url)
	}
	if _, ok := s.sources[url]; ok {
		return 0, storage.ErrDuplicateKey
	}
	s.nextID++
	s.sources[url] = s.nextID
	return s.nextID, nil
}

func (s *fakeSession) InsertChunks(ctx context.Context, chunks ...*core.Chunk) error {
	for _, chunk := range chunks {
		s.nextID++
		chunk.ID = s.nextID
		s.staged = append(s.staged, chunk)
	}
	return nil
}

func (s *fakeSession) InSavepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	stagedLen := len(s.staged)
	holders := copyMap(s.holders)
	sources := copyMap(s.sources)

	if err := fn(ctx); err != nil {
		s.staged = s.staged[:stagedLen]
		s.holders = holders
		s.sources = sources
		return err
	}
	return nil
}

func (s *fakeSession) Commit(ctx context.Context) error {
	s.commits++
	if s.commitFailAt > 0 && s.commits == s.commitFailAt {
		return storage.ErrTransactionFailed
	}
	s.committed = append(s.committed, s.staged...)
	s.staged = nil
	return nil
}

func (s *fakeSession) Rollback(ctx context.Context) error {
	s.rollbacks++
	s.staged = nil
	return nil
}

func (s *fakeSession) Close() error { return nil }

func copyMap(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// stubClient implements EmbeddingClient. failSubstring makes EmbedTexts fail
// whenever any text contains it.
type stubClient struct {
	available     bool
	failSubstring string
	calls         [][]string
}

func (c *stubClient) IsAvailable() bool { return c.available }

func (c *stubClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls = append(c.calls, texts)
	for _, text := range texts {
		if c.failSubstring != "" && strings.Contains(text, c.failSubstring) {
			return nil, errEmbedFailed
		}
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(len(texts[i]))}
	}
	return vectors, nil
}

// stubSplitter splits on "|" so tests control the chunk count directly.
type stubSplitter struct{}

func (stubSplitter) Chunk(text, strategy string) ([]string, error) {
	return strings.Split(text, "|"), nil
}
