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


package stratify

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/poiesic/stratify/ai"
	"github.com/poiesic/stratify/ai/openai"
	"github.com/poiesic/stratify/manifest"
	"github.com/poiesic/stratify/pipeline"
	"github.com/poiesic/stratify/store/qdrant"
)

// Ingestor is the top-level entry point: it owns the AI provider, the
// vector store connection, the ingest ledger, and a reusable pipeline.
// Construct once and share across documents.
type Ingestor struct {
	provider  ai.Provider
	store     *qdrant.Store
	ledger    *manifest.Ledger
	pipeline  *pipeline.Pipeline
	namespace string
	logger    *slog.Logger

	mu      sync.Mutex
	ensured bool
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*ingestorOptions)

type ingestorOptions struct {
	aiConfig     *ai.Config
	namespace    string
	manifestPath string
	pipelineOpts []pipeline.Option
}

// WithAIConfig overrides the default AI service configuration.
func WithAIConfig(config *ai.Config) IngestorOption {
	return func(o *ingestorOptions) {
		o.aiConfig = config
	}
}

// WithNamespace sets the vector store namespace. Default is
// pipeline.DefaultNamespace.
func WithNamespace(namespace string) IngestorOption {
	return func(o *ingestorOptions) {
		o.namespace = namespace
	}
}

// WithManifestPath enables the ingest ledger at the given directory. Without
// it no ledger is kept.
func WithManifestPath(path string) IngestorOption {
	return func(o *ingestorOptions) {
		o.manifestPath = path
	}
}

// WithPipelineOptions passes additional options through to the pipeline.
func WithPipelineOptions(opts ...pipeline.Option) IngestorOption {
	return func(o *ingestorOptions) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}

// NewIngestor connects to the vector store at the given gRPC address and
// builds the processing pipeline around it. The connection is established
// lazily, so construction succeeds without a reachable server.
func NewIngestor(qdrantAddr string, opts ...IngestorOption) (*Ingestor, error) {
	options := &ingestorOptions{
		aiConfig:  ai.DefaultConfig(),
		namespace: pipeline.DefaultNamespace,
	}
	for _, opt := range opts {
		opt(options)
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		return nil, err
	}

	vs, err := qdrant.New(qdrantAddr)
	if err != nil {
		provider.Close()
		return nil, err
	}

	var ledger *manifest.Ledger
	if options.manifestPath != "" {
		ledger, err = manifest.Open(options.manifestPath, false)
		if err != nil {
			vs.Close()
			provider.Close()
			return nil, err
		}
	}

	pipelineOpts := []pipeline.Option{pipeline.WithNamespace(options.namespace)}
	if ledger != nil {
		pipelineOpts = append(pipelineOpts, pipeline.WithManifest(ledger))
	}
	pipelineOpts = append(pipelineOpts, options.pipelineOpts...)

	p, err := pipeline.New(provider, vs, pipelineOpts...)
	if err != nil {
		if ledger != nil {
			ledger.Close()
		}
		vs.Close()
		provider.Close()
		return nil, err
	}

	return &Ingestor{
		provider:  provider,
		store:     vs,
		ledger:    ledger,
		pipeline:  p,
		namespace: options.namespace,
		logger:    slog.Default(),
	}, nil
}

// Ingest processes one document end to end and returns the number of nodes
// persisted. The namespace's collection is created on first use; a failed
// creation is retried on the next call rather than cached.
func (ing *Ingestor) Ingest(ctx context.Context, r io.Reader, filename, docID, uid string) (int, error) {
	if err := ing.ensureNamespace(ctx); err != nil {
		return 0, err
	}
	return ing.pipeline.Process(ctx, r, filename, docID, uid)
}

func (ing *Ingestor) ensureNamespace(ctx context.Context) error {
	ing.mu.Lock()
	defer ing.mu.Unlock()

	if ing.ensured {
		return nil
	}
	if err := ing.store.EnsureNamespace(ctx, ing.namespace, ing.provider.Embedder().Dimension()); err != nil {
		return err
	}
	ing.ensured = true
	return nil
}

// Remove deletes a document's records from the store and, when a ledger is
// configured, its ingest record.
func (ing *Ingestor) Remove(ctx context.Context, docID string) error {
	if err := ing.store.DeleteByDocID(ctx, docID, ing.namespace); err != nil {
		return err
	}
	if ing.ledger != nil {
		return ing.ledger.Delete(docID)
	}
	return nil
}

// Pipeline returns the underlying pipeline.
func (ing *Ingestor) Pipeline() *pipeline.Pipeline {
	return ing.pipeline
}

// Ledger returns the ingest ledger, or nil if none was configured.
func (ing *Ingestor) Ledger() *manifest.Ledger {
	return ing.ledger
}

// Close releases the provider, the ledger, and the store connection.
func (ing *Ingestor) Close() error {
	if err := ing.provider.Close(); err != nil {
		ing.logger.Error("error closing AI provider", "err", err)
	}
	if ing.ledger != nil {
		if err := ing.ledger.Close(); err != nil {
			ing.logger.Error("error closing ingest ledger", "err", err)
			return err
		}
	}
	return ing.store.Close()
}
