package pipeline

import "errors"

var (
	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrStoreRequired is returned when a vector store is not provided.
	ErrStoreRequired = errors.New("vector store required")

	// ErrInvalidChunkSize is returned when a chunk size of zero or less is
	// requested.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")

	// ErrInvalidGroupSize is returned when a condensation group size of zero
	// or less is requested.
	ErrInvalidGroupSize = errors.New("group size must be positive")

	// ErrInvalidBatchSize is returned when an embedding batch size of zero
	// or less is requested.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrParse indicates the document could not be parsed into segments.
	// Parse failures are fatal and nothing is written.
	ErrParse = errors.New("parse failure")

	// ErrSummarize indicates a condense or summarize call failed. The
	// current document's processing is aborted.
	ErrSummarize = errors.New("summarization failure")

	// ErrEmbed indicates the embedder failed. Batches already persisted
	// before the failure remain in the store.
	ErrEmbed = errors.New("embedding failure")

	// ErrEmbedCountMismatch indicates the embedder returned a different
	// number of vectors than nodes submitted. This is a fatal inconsistency.
	ErrEmbedCountMismatch = errors.New("embedding count mismatch")

	// ErrPersist indicates a vector store write failed. Prior batches'
	// writes stand.
	ErrPersist = errors.New("persistence failure")
)
