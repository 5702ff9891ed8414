package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/stratify/ai/mock"
	"github.com/poiesic/stratify/core"
)

func docMeta(page int) map[string]any {
	return map[string]any{
		core.MetaDocID:    "doc-1",
		core.MetaUID:      "user-1",
		core.MetaFilename: "report.txt",
		core.MetaPage:     page,
	}
}

func chunkSeq(chunks []core.TextChunk) iter.Seq[core.TextChunk] {
	return func(yield func(core.TextChunk) bool) {
		for _, chunk := range chunks {
			if !yield(chunk) {
				return
			}
		}
	}
}

func makeChunks(n int) []core.TextChunk {
	chunks := make([]core.TextChunk, n)
	for i := range chunks {
		chunks[i] = core.TextChunk{
			Text:     fmt.Sprintf("chunk-%d", i),
			Metadata: docMeta(i + 1),
		}
	}
	return chunks
}

func collectTree(t *testing.T, builder *TreeBuilder, chunks []core.TextChunk) []*core.TreeNode {
	t.Helper()

	var nodes []*core.TreeNode
	for node, err := range builder.Build(context.Background(), chunkSeq(chunks)) {
		require.NoError(t, err)
		nodes = append(nodes, node)
	}
	return nodes
}

func TestNewTreeBuilderValidation(t *testing.T) {
	_, err := NewTreeBuilder(nil, 3)
	assert.ErrorIs(t, err, ErrProviderRequired)

	_, err = NewTreeBuilder(mock.NewSummarizer(), 0)
	assert.ErrorIs(t, err, ErrInvalidGroupSize)
}

func TestBuildSevenChunks(t *testing.T) {
	builder, err := NewTreeBuilder(mock.NewSummarizer(), 3)
	require.NoError(t, err)

	nodes := collectTree(t, builder, makeChunks(7))

	// Groups of 3, 3, 1: seven leaves, three condensed nodes, one root.
	require.Len(t, nodes, 11)
	require.NoError(t, core.ValidateTree(nodes))

	var leaves, condensed, roots []*core.TreeNode
	for _, node := range nodes {
		switch {
		case node.IsRoot():
			roots = append(roots, node)
		case node.IsLeaf():
			leaves = append(leaves, node)
		default:
			condensed = append(condensed, node)
		}
	}
	require.Len(t, leaves, 7)
	require.Len(t, condensed, 3)
	require.Len(t, roots, 1)

	assert.Len(t, condensed[0].Children, 3)
	assert.Len(t, condensed[1].Children, 3)
	assert.Len(t, condensed[2].Children, 1)

	rootChildren := make(map[string]bool, len(roots[0].Children))
	for _, id := range roots[0].Children {
		rootChildren[id] = true
	}
	for _, node := range condensed {
		assert.True(t, rootChildren[node.ID])
		assert.Equal(t, roots[0].ID, node.Parent)
	}
}

func TestBuildEmissionOrder(t *testing.T) {
	builder, err := NewTreeBuilder(mock.NewSummarizer(), 3)
	require.NoError(t, err)

	nodes := collectTree(t, builder, makeChunks(4))

	// Each group's leaves precede its condensed node; the root is last.
	require.Len(t, nodes, 7)
	assert.True(t, nodes[0].IsLeaf())
	assert.True(t, nodes[1].IsLeaf())
	assert.True(t, nodes[2].IsLeaf())
	assert.Equal(t, nodes[3].ID, nodes[0].Parent)
	assert.True(t, nodes[4].IsLeaf())
	assert.Equal(t, nodes[5].ID, nodes[4].Parent)
	assert.True(t, nodes[6].IsRoot())
}

func TestBuildSummarizerInputs(t *testing.T) {
	summarizer := mock.NewSummarizer()

	var condenseInputs []string
	summarizer.CondenseFunc = func(ctx context.Context, content string) (string, error) {
		condenseInputs = append(condenseInputs, content)
		return fmt.Sprintf("condensed-%d", len(condenseInputs)), nil
	}

	var summarizeInput string
	summarizer.SummarizeFunc = func(ctx context.Context, content string) (string, error) {
		summarizeInput = content
		return "digest", nil
	}

	builder, err := NewTreeBuilder(summarizer, 2)
	require.NoError(t, err)

	nodes := collectTree(t, builder, makeChunks(3))

	// Group texts are joined with a single space.
	require.Equal(t, []string{"chunk-0 chunk-1", "chunk-2"}, condenseInputs)
	// The document digest is built from newline-terminated condensations.
	assert.Equal(t, "condensed-1\ncondensed-2\n", summarizeInput)

	root := nodes[len(nodes)-1]
	require.True(t, root.IsRoot())
	assert.Equal(t, "digest", root.Content)
}

func TestBuildMetadataInheritance(t *testing.T) {
	builder, err := NewTreeBuilder(mock.NewSummarizer(), 3)
	require.NoError(t, err)

	nodes := collectTree(t, builder, makeChunks(5))

	for _, node := range nodes {
		if node.IsLeaf() || node.IsRoot() {
			continue
		}
		// Condensed nodes inherit their group's first chunk metadata.
		first := nodes[0]
		if node.Children[0] != first.ID {
			continue
		}
		assert.Equal(t, first.Metadata[core.MetaPage], node.Metadata[core.MetaPage])
	}

	root := nodes[len(nodes)-1]
	require.True(t, root.IsRoot())
	assert.Equal(t, 1, root.Metadata[core.MetaPage])
}

func TestBuildEmptyChunkStream(t *testing.T) {
	builder, err := NewTreeBuilder(mock.NewSummarizer(), 3)
	require.NoError(t, err)

	nodes := collectTree(t, builder, nil)
	assert.Empty(t, nodes)
}

func TestBuildDisjointIDsAcrossRuns(t *testing.T) {
	builder, err := NewTreeBuilder(mock.NewSummarizer(), 3)
	require.NoError(t, err)

	chunks := makeChunks(7)
	first := collectTree(t, builder, chunks)
	second := collectTree(t, builder, chunks)

	seen := make(map[string]bool, len(first))
	for _, node := range first {
		seen[node.ID] = true
	}
	for _, node := range second {
		assert.False(t, seen[node.ID], "id %s reused across runs", node.ID)
	}
}

func TestBuildCondenseFailureAborts(t *testing.T) {
	summarizer := mock.NewSummarizer()
	calls := 0
	summarizer.CondenseFunc = func(ctx context.Context, content string) (string, error) {
		calls++
		if calls == 2 {
			return "", errors.New("model unavailable")
		}
		return "condensed", nil
	}

	builder, err := NewTreeBuilder(summarizer, 3)
	require.NoError(t, err)

	var nodes []*core.TreeNode
	var buildErr error
	for node, err := range builder.Build(context.Background(), chunkSeq(makeChunks(6))) {
		if err != nil {
			buildErr = err
			break
		}
		nodes = append(nodes, node)
	}

	require.ErrorIs(t, buildErr, ErrSummarize)
	// The second group fails before any of its leaves are emitted.
	assert.Len(t, nodes, 4)
	assert.Equal(t, 0, summarizer.SummarizeCalls())
}

func TestBuildSummarizeFailureAborts(t *testing.T) {
	summarizer := mock.NewSummarizer()
	summarizer.SummarizeFunc = func(ctx context.Context, content string) (string, error) {
		return "", errors.New("model unavailable")
	}

	builder, err := NewTreeBuilder(summarizer, 3)
	require.NoError(t, err)

	var buildErr error
	for _, err := range builder.Build(context.Background(), chunkSeq(makeChunks(3))) {
		if err != nil {
			buildErr = err
		}
	}
	assert.ErrorIs(t, buildErr, ErrSummarize)
}

func TestBuildObservesCancellation(t *testing.T) {
	builder, err := NewTreeBuilder(mock.NewSummarizer(), 3)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var nodes []*core.TreeNode
	var buildErr error
	for node, err := range builder.Build(ctx, chunkSeq(makeChunks(6))) {
		if err != nil {
			buildErr = err
			break
		}
		nodes = append(nodes, node)
	}

	assert.ErrorIs(t, buildErr, context.Canceled)
	assert.Empty(t, nodes)
}

func TestBuildLeafContentMatchesChunks(t *testing.T) {
	builder, err := NewTreeBuilder(mock.NewSummarizer(), 3)
	require.NoError(t, err)

	chunks := makeChunks(5)
	nodes := collectTree(t, builder, chunks)

	var leafTexts []string
	for _, node := range nodes {
		if node.IsLeaf() {
			leafTexts = append(leafTexts, node.Content)
		}
	}
	assert.Equal(t, strings.Split("chunk-0 chunk-1 chunk-2 chunk-3 chunk-4", " "), leafTexts)
}
