package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_generator.go -package=mocks docuchat/internal/rag Generator
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_encoders.go -package=mocks docuchat/internal/rag DenseEncoder,SparseEncoder,CrossEncoder
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_web_searcher.go -package=mocks docuchat/internal/rag WebSearcher
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks docuchat/internal/rag Engine

import (
	"context"

	"docuchat/internal/llm"
	"docuchat/internal/websearch"
)

// Generator produces text completions from a language model.
type Generator interface {
	// Generate returns the full completion for a prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// GenerateStream invokes callback with each completion chunk as it
	// arrives. A callback error aborts the stream.
	GenerateStream(ctx context.Context, prompt string, callback func(chunk string) error) error
}

// DenseEncoder embeds texts into dense vectors.
type DenseEncoder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// SparseEncoder embeds texts into sparse term-weight vectors.
type SparseEncoder interface {
	EmbedSparse(ctx context.Context, texts []string) ([]llm.SparseVector, error)
}

// CrossEncoder scores query/passage pairs for relevance.
type CrossEncoder interface {
	// Score returns one relevance score per passage, in input order.
	Score(ctx context.Context, query string, passages []string) ([]float32, error)
}

// WebSearcher runs a web search and returns result snippets.
type WebSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]websearch.Result, error)
}
