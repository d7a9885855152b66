package rag

import (
	"context"
	"fmt"
	"strings"

	"docuchat/internal/contextutil"
)

// Synthesizer turns a tool outcome into the final cited answer.
type Synthesizer struct {
	generator Generator
}

// NewSynthesizer creates a synthesizer backed by the given generator.
func NewSynthesizer(generator Generator) *Synthesizer {
	return &Synthesizer{generator: generator}
}

// Synthesize answers the user's original question from the tool result.
// A result without usable context short-circuits: its placeholder message
// becomes the answer, its sources pass through as-is, and the generator is
// not called. The question answered is always the user's original phrasing,
// not the condensed search query.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, result ToolResult) (string, []Source) {
	if result.Status != ToolFound || len(result.Sources) == 0 || result.Context == "" {
		return result.Context, result.Sources
	}

	prompt := fmt.Sprintf(answerPromptTemplate, numberSources(result.Sources), question)

	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		contextutil.LoggerFromContext(ctx).Error("answer generation failed", "error", err)
		return generationFailedMessage, result.Sources
	}
	return strings.TrimSpace(answer), result.Sources
}

// numberSources renders sources as numbered blocks so the model can cite
// them by bracket number.
func numberSources(sources []Source) string {
	var b strings.Builder
	for i, src := range sources {
		fmt.Fprintf(&b, "Source [%d]:\n%s\n\n", i+1, src.Text)
	}
	return b.String()
}
