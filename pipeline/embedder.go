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
	"log/slog"

	"github.com/poiesic/stratify/ai"
	"github.com/poiesic/stratify/core"
)

// DefaultBatchSize is the number of nodes embedded per embedder call.
const DefaultBatchSize = 50

// EmbeddingBatcher windows a node stream into fixed-size batches, embeds
// each batch with one embedder call, and hands the results to a Persister.
type EmbeddingBatcher struct {
	embedder  ai.Embedder
	persister *Persister
	size      int
	logger    *slog.Logger
}

// NewEmbeddingBatcher creates a batcher embedding batchSize nodes per call.
func NewEmbeddingBatcher(embedder ai.Embedder, persister *Persister, batchSize int, logger *slog.Logger) (*EmbeddingBatcher, error) {
	if embedder == nil {
		return nil, ErrProviderRequired
	}
	if persister == nil {
		return nil, ErrStoreRequired
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EmbeddingBatcher{
		embedder:  embedder,
		persister: persister,
		size:      batchSize,
		logger:    logger,
	}, nil
}

// EmbedAll consumes the node stream, embedding and persisting in batches,
// and returns the total number of nodes embedded. Processing stops at the
// first error: a stream error, a cancelled context, an embedder failure, a
// vector count mismatch, or a persistence failure. Batches persisted before
// the failure remain in the store.
func (b *EmbeddingBatcher) EmbedAll(ctx context.Context, nodes iter.Seq2[*core.TreeNode, error]) (int, error) {
	total := 0
	batch := make([]*core.TreeNode, 0, b.size)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		texts := make([]string, len(batch))
		for i, node := range batch {
			texts[i] = node.Content
		}

		vectors, err := b.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return fmt.Errorf("%w: batch of %d nodes: %w", ErrEmbed, len(batch), err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("%w: submitted %d nodes, got %d vectors", ErrEmbedCountMismatch, len(batch), len(vectors))
		}

		if err := b.persister.Save(ctx, batch, vectors); err != nil {
			return err
		}

		total += len(batch)
		b.logger.Debug("persisted embedding batch", "size", len(batch), "total", total)
		batch = batch[:0]
		return nil
	}

	for node, err := range nodes {
		if err != nil {
			return total, err
		}
		batch = append(batch, node)
		if len(batch) == b.size {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}
