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


// Package pipeline implements the document ingestion engine: chunking,
// hierarchical summarization, embedding, and persistence.
//
// A document flows through five stages connected by lazy sequences:
//
//	Parser -> Chunker -> TreeBuilder -> EmbeddingBatcher -> Persister
//
// The Chunker slices parsed segments into bounded chunks. The TreeBuilder
// assembles a fixed three-level summary tree over them: leaf chunks,
// condensed group summaries, and one document-level root. The
// EmbeddingBatcher embeds nodes in windows of fifty and the Persister
// upserts each batch into the vector store.
//
// Stages pull from each other one element at a time, so memory stays
// bounded to one group or batch regardless of document size. Summarizer and
// embedder calls are sequential; cancellation is observed at group and
// batch boundaries.
//
// Pipeline is the sole entry point:
//
//	p, err := pipeline.New(provider, vectorStore, pipeline.WithNamespace("docs"))
//	if err != nil {
//		return err
//	}
//	count, err := p.Process(ctx, file, "report.pdf", docID, uid)
//
// Errors fall into four classes, each with a sentinel: ErrParse,
// ErrSummarize, ErrEmbed (and ErrEmbedCountMismatch), and ErrPersist. The
// first fatal error aborts the document; the pipeline never retries
// internally.
package pipeline
