package pipeline

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/stratify/core"
)

func collectChunks(t *testing.T, size int, segments []core.TextSegment) []core.TextChunk {
	t.Helper()

	chunker, err := NewChunker(size)
	require.NoError(t, err)

	var chunks []core.TextChunk
	for chunk := range chunker.Split(segments) {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func TestNewChunkerRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1, -350} {
		_, err := NewChunker(size)
		assert.ErrorIs(t, err, ErrInvalidChunkSize, "size %d", size)
	}
}

func TestSplitSingleSegment(t *testing.T) {
	segments := []core.TextSegment{
		{Text: "ABCDEFGHI", Metadata: map[string]any{"p": 1}},
	}

	chunks := collectChunks(t, 4, segments)

	require.Len(t, chunks, 3)
	assert.Equal(t, "ABCD", chunks[0].Text)
	assert.Equal(t, "EFGH", chunks[1].Text)
	assert.Equal(t, "I", chunks[2].Text)
	for _, chunk := range chunks {
		assert.Equal(t, 1, chunk.Metadata["p"])
	}
}

func TestSplitEmptyInput(t *testing.T) {
	chunks := collectChunks(t, 4, nil)
	assert.Empty(t, chunks)
}

func TestSplitSizeLargerThanInput(t *testing.T) {
	segments := []core.TextSegment{
		{Text: "short ", Metadata: map[string]any{"p": 1}},
		{Text: "text", Metadata: map[string]any{"p": 2}},
	}

	chunks := collectChunks(t, 1000, segments)

	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0].Text)
	// Final flush carries the last-seen segment's metadata.
	assert.Equal(t, 2, chunks[0].Metadata["p"])
}

func TestSplitAttributesChunkToOpeningSegment(t *testing.T) {
	segments := []core.TextSegment{
		{Text: "AB", Metadata: map[string]any{"p": 1}},
		{Text: "CDEFGH", Metadata: map[string]any{"p": 2}},
	}

	chunks := collectChunks(t, 4, segments)

	require.Len(t, chunks, 2)
	// The first chunk opened inside segment 1 even though segment 2
	// closed it, so it is tagged with page 1.
	assert.Equal(t, "ABCDEF", chunks[0].Text)
	assert.Equal(t, 1, chunks[0].Metadata["p"])
	assert.Equal(t, "GH", chunks[1].Text)
	assert.Equal(t, 2, chunks[1].Metadata["p"])
}

func TestSplitExactSegmentBoundary(t *testing.T) {
	segments := []core.TextSegment{
		{Text: "AB", Metadata: map[string]any{"p": 1}},
		{Text: "CD", Metadata: map[string]any{"p": 2}},
	}

	chunks := collectChunks(t, 4, segments)

	require.Len(t, chunks, 1)
	assert.Equal(t, "ABCD", chunks[0].Text)
	// A chunk completed exactly at a segment boundary is tagged with the
	// closing segment.
	assert.Equal(t, 2, chunks[0].Metadata["p"])
}

func TestSplitMultibyteText(t *testing.T) {
	segments := []core.TextSegment{
		{Text: "日本語テキスト", Metadata: map[string]any{"p": 1}},
	}

	chunks := collectChunks(t, 4, segments)

	// Boundaries are character positions, so a three-byte rune is never
	// split in half.
	require.Len(t, chunks, 2)
	assert.Equal(t, "日本語テ", chunks[0].Text)
	assert.Equal(t, "キスト", chunks[1].Text)
	for _, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk.Text), "chunk %q is not valid UTF-8", chunk.Text)
	}
}

func TestSplitMultibyteAcrossSegments(t *testing.T) {
	segments := []core.TextSegment{
		{Text: "héllo ", Metadata: map[string]any{"p": 1}},
		{Text: "wörld — “done”", Metadata: map[string]any{"p": 2}},
	}

	var want strings.Builder
	for _, seg := range segments {
		want.WriteString(seg.Text)
	}

	for _, size := range []int{1, 2, 3, 5, 8} {
		var got strings.Builder
		for _, chunk := range collectChunks(t, size, segments) {
			require.True(t, utf8.ValidString(chunk.Text), "size %d: chunk %q is not valid UTF-8", size, chunk.Text)
			got.WriteString(chunk.Text)
		}
		assert.Equal(t, want.String(), got.String(), "size %d", size)
	}
}

func TestSplitReconstructsInput(t *testing.T) {
	segments := []core.TextSegment{
		{Text: "The quick brown fox ", Metadata: map[string]any{"p": 1}},
		{Text: "jumps over ", Metadata: map[string]any{"p": 2}},
		{Text: "", Metadata: map[string]any{"p": 3}},
		{Text: "the lazy dog. ", Metadata: map[string]any{"p": 4}},
		{Text: "Pack my box with five dozen liquor jugs.", Metadata: map[string]any{"p": 5}},
	}

	var want strings.Builder
	for _, seg := range segments {
		want.WriteString(seg.Text)
	}

	for _, size := range []int{1, 3, 7, 16, 64, 1000} {
		var got strings.Builder
		for _, chunk := range collectChunks(t, size, segments) {
			got.WriteString(chunk.Text)
		}
		assert.Equal(t, want.String(), got.String(), "size %d", size)
	}
}

func TestSplitIsSingleUseAndStoppable(t *testing.T) {
	segments := []core.TextSegment{
		{Text: "ABCDEFGHI", Metadata: map[string]any{"p": 1}},
	}

	chunker, err := NewChunker(3)
	require.NoError(t, err)

	var first []core.TextChunk
	for chunk := range chunker.Split(segments) {
		first = append(first, chunk)
		if len(first) == 2 {
			break
		}
	}
	assert.Len(t, first, 2)
}

func TestDropEmpty(t *testing.T) {
	chunks := func(yield func(core.TextChunk) bool) {
		yield(core.TextChunk{Text: "a"})
		yield(core.TextChunk{Text: ""})
		yield(core.TextChunk{Text: "b"})
	}

	var got []string
	for chunk := range DropEmpty(chunks) {
		got = append(got, chunk.Text)
	}
	assert.Equal(t, []string{"a", "b"}, got)
}
