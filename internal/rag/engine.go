package rag

import (
	"context"
	"fmt"
	"strings"

	"docuchat/internal/contextutil"
)

// Engine is the chat pipeline: condense the query, route it to a tool,
// retrieve context and synthesize a cited answer.
type Engine interface {
	// Chat answers one conversational turn.
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	// ChatStream answers one turn over the non-agentic document pipeline,
	// streaming answer chunks to callback as they are generated.
	ChatStream(ctx context.Context, req ChatRequest, callback func(chunk string) error) error
}

type engine struct {
	condenser   *Condenser
	agent       *Agent
	synthesizer *Synthesizer
	retriever   *HybridRetriever
	reranker    *Reranker
	topK        int
}

// NewEngine assembles the chat pipeline from its stages.
func NewEngine(condenser *Condenser, agent *Agent, synthesizer *Synthesizer, retriever *HybridRetriever, reranker *Reranker, topK int) Engine {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &engine{
		condenser:   condenser,
		agent:       agent,
		synthesizer: synthesizer,
		retriever:   retriever,
		reranker:    reranker,
		topK:        topK,
	}
}

// Chat runs the full agentic pipeline for one turn. Dependency failures
// degrade stage by stage; the only error is request validation.
func (e *engine) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return ChatResponse{}, NewValidationError("query", "must not be empty")
	}

	logger := contextutil.LoggerFromContext(ctx)
	scope := AccessScope{UserID: req.UserID, DocumentID: req.DocumentID}

	standalone := e.condenser.Condense(ctx, req.Query, req.History)

	tool := e.agent.Route(ctx, standalone, scope)
	logger.Info("routed chat turn", "tool", tool.String())

	result := e.agent.Execute(ctx, tool, standalone, scope)

	answer, sources := e.synthesizer.Synthesize(ctx, req.Query, result)
	return ChatResponse{Answer: answer, Sources: sources}, nil
}

// ChatStream runs the document-only pipeline and streams the answer. It
// skips tool routing: the legacy streaming endpoint predates the agent.
func (e *engine) ChatStream(ctx context.Context, req ChatRequest, callback func(chunk string) error) error {
	if strings.TrimSpace(req.Query) == "" {
		return NewValidationError("query", "must not be empty")
	}

	scope := AccessScope{UserID: req.UserID, DocumentID: req.DocumentID}
	standalone := e.condenser.Condense(ctx, req.Query, req.History)

	candidates := e.retriever.Retrieve(ctx, standalone, scope, e.topK)
	top := e.reranker.Rerank(ctx, standalone, candidates, e.topK)
	if len(top) == 0 {
		return callback(documentsNotFoundMessage)
	}

	texts := make([]string, len(top))
	for i, c := range top {
		texts[i] = c.Text
	}
	prompt := fmt.Sprintf(streamPromptTemplate, strings.Join(texts, "\n---\n"), req.Query)

	if err := e.synthesizer.generator.GenerateStream(ctx, prompt, callback); err != nil {
		return fmt.Errorf("streaming answer generation failed: %w", err)
	}
	return nil
}
