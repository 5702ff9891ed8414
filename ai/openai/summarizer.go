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


package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/stratify/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrNoCompletion is returned when the model produces no output choices.
var ErrNoCompletion = errors.New("model returned no completion")

// Summarizer implements ai.Summarizer using OpenAI-compatible chat APIs.
// Generation runs with temperature zero so repeated calls on identical input
// are stable.
type Summarizer struct {
	client            llms.Model
	condenseMaxTokens int
	summaryMaxTokens  int
	logger            *slog.Logger
}

// newSummarizer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSummarizer(config *ai.Config) (*Summarizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/summarization
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.SummaryHost),
		openai.WithToken("none"),
		openai.WithModel(config.SummaryModel),
	)
	if err != nil {
		return nil, err
	}

	return &Summarizer{
		client:            client,
		condenseMaxTokens: config.CondenseMaxTokens,
		summaryMaxTokens:  config.SummaryMaxTokens,
		logger:            slog.Default().With("component", "openai-summarizer"),
	}, nil
}

// NewSummarizer creates a new summarizer using the provided configuration.
//
// Returns ai.Summarizer interface to enforce abstraction.
func NewSummarizer(config *ai.Config) (ai.Summarizer, error) {
	return newSummarizer(config)
}

// Condense reduces a group of chunks to a single concise sentence.
func (s *Summarizer) Condense(ctx context.Context, content string) (string, error) {
	return s.generate(ctx, buildCondensePrompt(content), s.condenseMaxTokens)
}

// Summarize produces the document-level digest from accumulated condensed text.
func (s *Summarizer) Summarize(ctx context.Context, content string) (string, error) {
	return s.generate(ctx, buildSummaryPrompt(content), s.summaryMaxTokens)
}

// generate runs a single deterministic completion with a bounded output length.
func (s *Summarizer) generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := s.client.GenerateContent(ctx, messages,
		llms.WithTemperature(0.0),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		s.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		s.logger.Warn("no choices returned from model")
		return "", ErrNoCompletion
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
