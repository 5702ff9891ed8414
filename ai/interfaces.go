package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts,
	// one vector per input text.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the fixed length of the vectors this embedder produces.
	Dimension() int
}

// Summarizer condenses text into shorter summaries.
// Implementations must be thread-safe for concurrent use, and should be
// deterministic: repeated calls on identical input under identical settings
// produce stable output (temperature pinned to zero).
type Summarizer interface {
	// Condense reduces a small group of chunks (passed as one concatenated
	// string) to a few sentences with bounded output length.
	Condense(ctx context.Context, content string) (string, error)

	// Summarize produces a document-level digest from the accumulated
	// condensed summaries. Output is bounded but larger than Condense's.
	Summarize(ctx context.Context, content string) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and Summarizer
// instances, ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Summarizer returns the summarization service.
	// The returned Summarizer is safe for concurrent use.
	Summarizer() Summarizer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
