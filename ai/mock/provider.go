package mock

import "github.com/poiesic/stratify/ai"

// Provider is a test double for ai.Provider aggregating the mock services.
type Provider struct {
	embedder   *Embedder
	summarizer *Summarizer
}

// NewProvider creates a provider backed by mock services with default
// behavior. Use GetEmbedder/GetSummarizer to reach the concrete mocks for
// assertions.
func NewProvider() *Provider {
	return &Provider{
		embedder:   NewEmbedder(),
		summarizer: NewSummarizer(),
	}
}

// Embedder returns the mock embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Summarizer returns the mock summarization service.
func (p *Provider) Summarizer() ai.Summarizer {
	return p.summarizer
}

// Close is a no-op for the mock provider.
func (p *Provider) Close() error {
	return nil
}

// GetEmbedder returns the concrete mock embedder for test assertions.
func (p *Provider) GetEmbedder() *Embedder {
	return p.embedder
}

// GetSummarizer returns the concrete mock summarizer for test assertions.
func (p *Provider) GetSummarizer() *Summarizer {
	return p.summarizer
}
