package core

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// Metadata keys that identify the owning document. Parsers attach these to
// every segment; tree nodes inherit them from the chunks they summarize.
const (
	MetaDocID    = "doc_id"
	MetaUID      = "uid"
	MetaFilename = "filename"
	MetaPage     = "page_number"
)

// TextSegment is one unit of parsed document text with its source metadata
// (page number, filename, owning document identifiers). Segments arrive in
// source reading order and are never reordered downstream.
type TextSegment struct {
	Text     string
	Metadata map[string]any
}

// TextChunk is a fixed-size slice of concatenated segment text. Chunks are
// the leaf granularity of the summary tree. A chunk carries the metadata of
// the segment that was current when the chunk was opened.
type TextChunk struct {
	Text     string
	Metadata map[string]any
}

// TreeNode is the unit persisted to the vector store. The tree has exactly
// three levels: leaf chunks, condensed group summaries, and a single
// document-level root.
//
// Invariants:
//   - ID is a freshly generated UUID, unique within a processing run.
//   - Leaves have no children; the root has an empty Parent.
//   - Metadata always carries the owning-document identifiers, inherited from
//     the first chunk in the subtree the node summarizes.
//
// Nodes are immutable once yielded by the tree builder.
type TreeNode struct {
	ID       string
	Content  string
	Parent   string
	Children []string
	Metadata map[string]any
}

// IsLeaf reports whether the node is a leaf chunk.
func (n *TreeNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// IsRoot reports whether the node is the document-level summary.
func (n *TreeNode) IsRoot() bool {
	return n.Parent == ""
}

// ChecksumFromContent computes a deterministic checksum of text content using
// BLAKE2b hashing. Identical content always produces the same checksum, which
// lets callers detect unchanged documents across ingest runs.
func ChecksumFromContent(text string) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
