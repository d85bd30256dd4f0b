package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	text := "a short requirement description."
	chunks := Split(text, Options{})
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
}

func TestSplit_EmptyTextNoChunks(t *testing.T) {
	assert.Nil(t, Split("", Options{}))
}

func TestSplit_CoverageHasNoGaps(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 500; i++ {
		sb.WriteString("Section ")
		sb.WriteString(strings.Repeat("x", 40))
		sb.WriteString("\n\n")
	}
	text := sb.String()

	chunks := Split(text, Options{MaxTokens: 100, OverlapTokens: 10})
	require.NotEmpty(t, chunks)

	covered := make([]bool, len(text))
	for _, c := range chunks {
		for i := c.StartChar; i < c.EndChar; i++ {
			covered[i] = true
		}
	}
	for i, ok := range covered {
		require.Truef(t, ok, "gap at offset %d", i)
	}
}

func TestSplit_ChunksAreOrderedAndIndexed(t *testing.T) {
	text := strings.Repeat("word ", 4000)
	chunks := Split(text, Options{MaxTokens: 100, OverlapTokens: 10})
	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.Equal(t, i, c.ChunkIndex)
	}
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
}
