package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSplitter splits on a fixed separator, for testing registration.
type fixedSplitter struct {
	sep string
}

func (s fixedSplitter) SplitText(text string) ([]string, error) {
	return strings.Split(text, s.sep), nil
}

func TestNewChunker_RegistersBuiltins(t *testing.T) {
	c := NewChunker()

	assert.Equal(t, []string{StrategyCharacter, StrategyRecursive, StrategyToken}, c.Strategies())
}

func TestChunk_Recursive(t *testing.T) {
	c := NewChunker()

	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)
	segments, err := c.Chunk(text, StrategyRecursive)
	require.NoError(t, err)
	require.NotEmpty(t, segments)

	for _, seg := range segments {
		assert.LessOrEqual(t, len(seg), 500, "segment exceeds chunk size")
	}
}

func TestChunk_ShortTextIsSingleSegment(t *testing.T) {
	c := NewChunker()

	segments, err := c.Chunk("short answer", StrategyRecursive)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "short answer", segments[0])
}

func TestChunk_Deterministic(t *testing.T) {
	c := NewChunker()
	text := strings.Repeat("line one\nline two\nline three\n", 100)

	first, err := c.Chunk(text, StrategyCharacter)
	require.NoError(t, err)
	second, err := c.Chunk(text, StrategyCharacter)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same input and strategy must split identically")
}

func TestChunk_UnknownStrategyFallsBack(t *testing.T) {
	c := NewChunker()
	text := strings.Repeat("alpha beta gamma delta. ", 50)

	fallback, err := c.Chunk(text, "no-such-strategy")
	require.NoError(t, err)
	recursive, err := c.Chunk(text, StrategyRecursive)
	require.NoError(t, err)

	assert.Equal(t, recursive, fallback)
}

func TestRegister_CustomStrategy(t *testing.T) {
	c := NewChunker()
	c.Register("pipe", fixedSplitter{sep: "|"})

	segments, err := c.Chunk("a|b|c", "pipe")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, segments)

	// Built-ins are untouched.
	assert.Contains(t, c.Strategies(), StrategyRecursive)
	assert.Contains(t, c.Strategies(), "pipe")
}
