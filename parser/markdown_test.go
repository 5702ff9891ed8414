package parser

import (
	"strings"
	"testing"

	"github.com/poiesic/stratify/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownParser_Parse(t *testing.T) {
	input := "# Title\n\nFirst paragraph with *emphasis*.\n\nSecond paragraph.\n"

	p := &MarkdownParser{}
	segments, err := p.Parse(strings.NewReader(input), "readme.md", "doc-1", "user-1")
	require.NoError(t, err)
	require.Len(t, segments, 3)

	assert.Equal(t, "Title", segments[0].Text)
	assert.Contains(t, segments[1].Text, "First paragraph with")
	assert.Contains(t, segments[1].Text, "emphasis")
	assert.Equal(t, "Second paragraph.", segments[2].Text)
}

func TestMarkdownParser_Parse_Metadata(t *testing.T) {
	p := &MarkdownParser{}
	segments, err := p.Parse(strings.NewReader("plain paragraph"), "readme.md", "doc-2", "user-2")
	require.NoError(t, err)
	require.Len(t, segments, 1)

	meta := segments[0].Metadata
	assert.Equal(t, "readme.md", meta[core.MetaFilename])
	assert.Equal(t, "doc-2", meta[core.MetaDocID])
	assert.Equal(t, "user-2", meta[core.MetaUID])
}

func TestMarkdownParser_Parse_Empty(t *testing.T) {
	p := &MarkdownParser{}
	segments, err := p.Parse(strings.NewReader(""), "readme.md", "doc-1", "user-1")
	require.NoError(t, err)
	assert.Empty(t, segments)
}
