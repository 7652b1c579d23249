package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNDJSON = `{"copyright": "Acme", "url": "https://example.com/faq/1", "Question": "What?", "Answer": "Because."}

{"copyright": "Acme", "url": "https://example.com/faq/2", "Question": "Why?", "Answer": ""}
{"copyright": "Globex", "url": "https://example.com/faq/3", "Question": "How?", "Answer": "Carefully."}
`

func TestRead_ParsesRowsAndSkipsBlankLines(t *testing.T) {
	rows, err := Read(strings.NewReader(sampleNDJSON), 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Acme", rows[0].Copyright)
	assert.Equal(t, "https://example.com/faq/1", rows[0].URL)
	assert.Equal(t, "What?", rows[0].Question)
	assert.Equal(t, "Because.", rows[0].Answer)

	assert.Empty(t, rows[1].Answer)
	assert.Equal(t, "Globex", rows[2].Copyright)
}

func TestRead_Limit(t *testing.T) {
	rows, err := Read(strings.NewReader(sampleNDJSON), 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = Read(strings.NewReader(sampleNDJSON), -1)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestRead_MalformedLineFailsWholeRead(t *testing.T) {
	input := `{"copyright": "Acme", "url": "u", "Question": "q", "Answer": "a"}
not json at all
`
	_, err := Read(strings.NewReader(input), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(sampleNDJSON), 0600))

	rows, err := ReadFile(path, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.jsonl"), 0)
	assert.Error(t, err)
}
