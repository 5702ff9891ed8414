package mock

import "context"

// Summarizer is a test double for ai.Summarizer.
// It allows custom behavior injection via function fields.
type Summarizer struct {
	// CondenseFunc is called by Condense if set.
	// If nil, uses default deterministic behavior.
	CondenseFunc func(ctx context.Context, content string) (string, error)

	// SummarizeFunc is called by Summarize if set.
	// If nil, uses default deterministic behavior.
	SummarizeFunc func(ctx context.Context, content string) (string, error)

	condenseCalls  int
	summarizeCalls int
}

// NewSummarizer creates a mock summarizer with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// Condense returns a deterministic truncation of the input.
func (m *Summarizer) Condense(ctx context.Context, content string) (string, error) {
	m.condenseCalls++

	if m.CondenseFunc != nil {
		return m.CondenseFunc(ctx, content)
	}

	return "condensed: " + truncate(content, 48), nil
}

// Summarize returns a deterministic truncation of the input.
func (m *Summarizer) Summarize(ctx context.Context, content string) (string, error) {
	m.summarizeCalls++

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, content)
	}

	return "summary: " + truncate(content, 96), nil
}

// CondenseCalls returns the number of Condense invocations.
func (m *Summarizer) CondenseCalls() int {
	return m.condenseCalls
}

// SummarizeCalls returns the number of Summarize invocations.
func (m *Summarizer) SummarizeCalls() int {
	return m.summarizeCalls
}

// Reset clears the call counts and injected behavior.
func (m *Summarizer) Reset() {
	m.condenseCalls = 0
	m.summarizeCalls = 0
	m.CondenseFunc = nil
	m.SummarizeFunc = nil
}

// truncate cuts s to at most n bytes without adding an ellipsis.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
