package rag_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"docuchat/internal/rag"
	"docuchat/internal/rag/mocks"
)

func TestSynthesizer_NumbersSourcesAndAnswers(t *testing.T) {
	ctrl := gomock.NewController(t)
	generator := mocks.NewMockGenerator(ctrl)

	result := rag.ToolResult{
		Status:  rag.ToolFound,
		Context: "chunk one\n---\nchunk two",
		Sources: []rag.Source{
			{DocumentID: 3, Filename: "helios.md", Text: "chunk one"},
			{DocumentID: 4, Filename: "engines.md", Text: "chunk two"},
		},
	}

	generator.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			if !strings.Contains(prompt, "Source [1]:\nchunk one") {
				t.Errorf("prompt missing numbered first source:\n%s", prompt)
			}
			if !strings.Contains(prompt, "Source [2]:\nchunk two") {
				t.Errorf("prompt missing numbered second source:\n%s", prompt)
			}
			if !strings.Contains(prompt, "What is Helios-V?") {
				t.Errorf("prompt missing original question:\n%s", prompt)
			}
			return "Helios-V is a heavy-lift launch vehicle [1] with methalox engines [2].\n", nil
		})

	answer, sources := rag.NewSynthesizer(generator).Synthesize(context.Background(), "What is Helios-V?", result)

	if !strings.Contains(answer, "[1]") {
		t.Errorf("answer lost citations: %q", answer)
	}
	if len(sources) != 2 {
		t.Errorf("got %d sources, want 2", len(sources))
	}
}

func TestSynthesizer_ShortCircuitsWithoutModelCall(t *testing.T) {
	tests := []struct {
		name   string
		result rag.ToolResult
	}{
		{"not found", rag.ToolResult{Status: rag.ToolNotFound, Context: "nothing matched"}},
		{"unavailable", rag.ToolResult{Status: rag.ToolUnavailable, Context: "tool offline"}},
		{"found but no sources", rag.ToolResult{Status: rag.ToolFound, Context: "orphan context"}},
		{"found but empty context", rag.ToolResult{Status: rag.ToolFound, Sources: []rag.Source{{Text: "x"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			// No expectations: any Generate call fails the test.
			generator := mocks.NewMockGenerator(ctrl)

			answer, sources := rag.NewSynthesizer(generator).Synthesize(context.Background(), "anything", tt.result)

			if answer != tt.result.Context {
				t.Errorf("answer = %q, want placeholder %q", answer, tt.result.Context)
			}
			if len(sources) != len(tt.result.Sources) {
				t.Errorf("got %d sources, want %d passed through", len(sources), len(tt.result.Sources))
			}
		})
	}
}

func TestSynthesizer_GenerationFailureDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	generator := mocks.NewMockGenerator(ctrl)

	generator.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return("", errors.New("model offline"))

	result := rag.ToolResult{
		Status:  rag.ToolFound,
		Context: "chunk",
		Sources: []rag.Source{{DocumentID: 1, Filename: "a.md", Text: "chunk"}},
	}

	answer, sources := rag.NewSynthesizer(generator).Synthesize(context.Background(), "q", result)

	if answer == "" {
		t.Error("expected a degraded answer message, got empty string")
	}
	if len(sources) != 1 {
		t.Errorf("got %d sources, want the retrieved source back", len(sources))
	}
}
