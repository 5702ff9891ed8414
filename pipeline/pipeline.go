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
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"time"

	"github.com/poiesic/stratify/ai"
	"github.com/poiesic/stratify/core"
	"github.com/poiesic/stratify/manifest"
	"github.com/poiesic/stratify/parser"
	"github.com/poiesic/stratify/store"
)

// DefaultNamespace is the vector store namespace used when no override is
// given.
const DefaultNamespace = "stratify"

// Pipeline orchestrates document ingestion: parse, chunk, build the summary
// tree, embed, and persist. Construct once and reuse across documents; each
// Process call owns its own id namespace and intermediate state.
type Pipeline struct {
	provider ai.Provider
	store    store.VectorStore
	ledger   *manifest.Ledger
	logger   *slog.Logger

	namespace    string
	chunkSize    int
	groupSize    int
	batchSize    int
	keepExisting bool

	chunker *Chunker
	tree    *TreeBuilder
	batcher *EmbeddingBatcher
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithChunkSize sets the chunk length in characters (Unicode code points).
// Default is DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) error {
		if size <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidChunkSize, size)
		}
		p.chunkSize = size
		return nil
	}
}

// WithGroupSize sets the number of chunks per condensed summary node.
// Default is DefaultGroupSize.
func WithGroupSize(size int) Option {
	return func(p *Pipeline) error {
		if size <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidGroupSize, size)
		}
		p.groupSize = size
		return nil
	}
}

// WithBatchSize sets the number of nodes embedded per embedder call.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidBatchSize, size)
		}
		p.batchSize = size
		return nil
	}
}

// WithNamespace sets the vector store namespace records are written to.
// Default is DefaultNamespace.
func WithNamespace(namespace string) Option {
	return func(p *Pipeline) error {
		if namespace == "" {
			return store.ErrNamespaceRequired
		}
		p.namespace = namespace
		return nil
	}
}

// WithKeepExisting disables the delete-before-insert step, so re-ingesting
// a doc_id appends a second tree instead of replacing the first.
//
// Without this option the previous tree is deleted before the new one is
// built, so a re-ingest that fails mid-run (a summarizer or embedder error)
// leaves the doc_id with no records at all. Use WithKeepExisting and a
// manual Remove when that window is unacceptable.
func WithKeepExisting() Option {
	return func(p *Pipeline) error {
		p.keepExisting = true
		return nil
	}
}

// WithManifest records each successful ingest into the given ledger.
func WithManifest(ledger *manifest.Ledger) Option {
	return func(p *Pipeline) error {
		p.ledger = ledger
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// New creates a Pipeline backed by the given AI provider and vector store.
func New(provider ai.Provider, vs store.VectorStore, opts ...Option) (*Pipeline, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if vs == nil {
		return nil, ErrStoreRequired
	}

	p := &Pipeline{
		provider:  provider,
		store:     vs,
		logger:    slog.Default(),
		namespace: DefaultNamespace,
		chunkSize: DefaultChunkSize,
		groupSize: DefaultGroupSize,
		batchSize: DefaultBatchSize,
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	// Build stages after options are applied so they get final config.
	chunker, err := NewChunker(p.chunkSize)
	if err != nil {
		return nil, err
	}

	tree, err := NewTreeBuilder(provider.Summarizer(), p.groupSize)
	if err != nil {
		return nil, err
	}

	persister, err := NewPersister(vs, p.namespace)
	if err != nil {
		return nil, err
	}

	batcher, err := NewEmbeddingBatcher(provider.Embedder(), persister, p.batchSize, p.logger)
	if err != nil {
		return nil, err
	}

	p.chunker = chunker
	p.tree = tree
	p.batcher = batcher
	return p, nil
}

// Process ingests one document and returns the number of nodes embedded and
// persisted. Unless WithKeepExisting was set, any records previously stored
// under the same docID are deleted first, so re-ingestion replaces rather
// than accumulates.
//
// The first fatal error aborts processing. Parse failures happen before any
// write. The delete runs before the new tree is built, so a summarization,
// embedding, or persistence failure on a re-ingest can leave the docID with
// fewer records than before the call — including none at all.
func (p *Pipeline) Process(ctx context.Context, r io.Reader, filename, docID, uid string) (int, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("%w: reading %s: %w", ErrParse, filename, err)
	}

	fileParser, err := parser.ForFile(filename)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrParse, err)
	}

	segments, err := fileParser.Parse(bytes.NewReader(content), filename, docID, uid)
	if err != nil {
		return 0, fmt.Errorf("%w: parsing %s: %w", ErrParse, filename, err)
	}
	p.logger.Debug("parsed document", "doc_id", docID, "filename", filename, "segments", len(segments))

	if !p.keepExisting {
		if err := p.store.DeleteByDocID(ctx, docID, p.namespace); err != nil {
			return 0, fmt.Errorf("%w: clearing previous records for %s: %w", ErrPersist, docID, err)
		}
	}

	chunks := DropEmpty(p.chunker.Split(segments))

	var rootID string
	nodes := captureRoot(p.tree.Build(ctx, chunks), &rootID)

	count, err := p.batcher.EmbedAll(ctx, nodes)
	if err != nil {
		return count, err
	}
	p.logger.Info("document ingested", "doc_id", docID, "filename", filename, "nodes", count)

	if p.ledger != nil && count > 0 {
		record := &manifest.Record{
			DocID:      docID,
			UID:        uid,
			Filename:   filename,
			Checksum:   core.ChecksumFromContent(string(content)),
			NodeCount:  count,
			RootID:     rootID,
			IngestedAt: time.Now().UTC(),
		}
		if err := p.ledger.Put(record); err != nil {
			return count, fmt.Errorf("recording ingest of %s: %w", docID, err)
		}
	}

	return count, nil
}

// captureRoot passes the node stream through unchanged while remembering the
// root node's id for the ingest record.
func captureRoot(nodes iter.Seq2[*core.TreeNode, error], rootID *string) iter.Seq2[*core.TreeNode, error] {
	return func(yield func(*core.TreeNode, error) bool) {
		for node, err := range nodes {
			if err == nil && node.IsRoot() {
				*rootID = node.ID
			}
			if !yield(node, err) {
				return
			}
		}
	}
}
