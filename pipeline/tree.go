// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pipeline

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/google/uuid"

	"github.com/poiesic/stratify/ai"
	"github.com/poiesic/stratify/core"
)

// DefaultGroupSize is the number of chunks condensed into one intermediate
// summary node. Small groups keep each condense call's input bounded
// regardless of document length.
const DefaultGroupSize = 3

// TreeBuilder assembles a three-level summary tree over a chunk stream:
// leaf chunks, condensed group summaries, and a single document-level root.
// Depth never grows with document size; breadth does.
type TreeBuilder struct {
	summarizer ai.Summarizer
	groupSize  int
}

// NewTreeBuilder creates a TreeBuilder condensing groups of groupSize chunks.
func NewTreeBuilder(summarizer ai.Summarizer, groupSize int) (*TreeBuilder, error) {
	if summarizer == nil {
		return nil, ErrProviderRequired
	}
	if groupSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGroupSize, groupSize)
	}
	return &TreeBuilder{summarizer: summarizer, groupSize: groupSize}, nil
}

// Build lazily emits the tree for one document: each group's leaves, then
// that group's condensed node, and finally the single root. Node ids are
// freshly generated, so repeated builds over the same chunks never collide.
//
// Each group's condense call happens before its leaves are emitted, so a
// summarization failure stops the group's nodes from ever reaching the
// store. Cancellation is observed at group boundaries. An empty chunk
// stream produces no nodes.
//
// The returned sequence is single-use; a non-nil error is the final element.
func (b *TreeBuilder) Build(ctx context.Context, chunks iter.Seq[core.TextChunk]) iter.Seq2[*core.TreeNode, error] {
	return func(yield func(*core.TreeNode, error) bool) {
		rootID := uuid.NewString()

		var (
			summary      strings.Builder
			condensedIDs []string
			rootMeta     map[string]any
		)

		for group := range batched(chunks, b.groupSize) {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if rootMeta == nil {
				rootMeta = group[0].Metadata
			}

			texts := make([]string, len(group))
			for i, chunk := range group {
				texts[i] = chunk.Text
			}

			condensed, err := b.summarizer.Condense(ctx, strings.Join(texts, " "))
			if err != nil {
				yield(nil, fmt.Errorf("%w: condensing group of %d chunks: %w", ErrSummarize, len(group), err))
				return
			}

			condensedID := uuid.NewString()
			leafIDs := make([]string, len(group))
			for i, chunk := range group {
				leafIDs[i] = uuid.NewString()
				leaf := &core.TreeNode{
					ID:       leafIDs[i],
					Content:  chunk.Text,
					Parent:   condensedID,
					Children: []string{},
					Metadata: chunk.Metadata,
				}
				if !yield(leaf, nil) {
					return
				}
			}

			node := &core.TreeNode{
				ID:       condensedID,
				Content:  condensed,
				Parent:   rootID,
				Children: leafIDs,
				Metadata: group[0].Metadata,
			}
			if !yield(node, nil) {
				return
			}

			summary.WriteString(condensed)
			summary.WriteByte('\n')
			condensedIDs = append(condensedIDs, condensedID)
		}

		if len(condensedIDs) == 0 {
			return
		}
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}

		digest, err := b.summarizer.Summarize(ctx, summary.String())
		if err != nil {
			yield(nil, fmt.Errorf("%w: summarizing document: %w", ErrSummarize, err))
			return
		}

		yield(&core.TreeNode{
			ID:       rootID,
			Content:  digest,
			Children: condensedIDs,
			Metadata: rootMeta,
		}, nil)
	}
}
