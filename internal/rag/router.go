package rag

import (
	"context"
	"fmt"
	"strings"

	"docuchat/internal/contextutil"
)

// webSearchMaxResults caps how many web snippets feed the answer.
const webSearchMaxResults = 3

// Agent routes each chat turn to a retrieval tool and executes it.
type Agent struct {
	generator Generator
	retriever *HybridRetriever
	reranker  *Reranker
	web       WebSearcher
	topK      int
}

// NewAgent creates a tool-routing agent. web may be nil when no web search
// provider is configured; the web tool then reports itself unavailable.
func NewAgent(generator Generator, retriever *HybridRetriever, reranker *Reranker, web WebSearcher, topK int) *Agent {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Agent{
		generator: generator,
		retriever: retriever,
		reranker:  reranker,
		web:       web,
		topK:      topK,
	}
}

// Route picks the tool for a standalone query. A scope that names a specific
// document forces document search without consulting the model. Routing
// failures fall back to document search.
func (a *Agent) Route(ctx context.Context, query string, scope AccessScope) Tool {
	if scope.DocumentID != nil {
		return ToolDocumentSearch
	}

	raw, err := a.generator.Generate(ctx, fmt.Sprintf(routePromptTemplate, query))
	if err != nil {
		contextutil.LoggerFromContext(ctx).Warn("tool routing failed, defaulting to document search", "error", err)
		return ToolDocumentSearch
	}
	return classifyTool(raw)
}

// classifyTool maps a model routing reply to a tool. This is the only place
// model output is parsed into a tool; everything downstream switches on the
// Tool value. Replies naming both tools resolve to document search, as does
// anything unrecognized.
func classifyTool(raw string) Tool {
	reply := strings.ToLower(raw)
	if strings.Contains(reply, ToolDocumentSearch.String()) {
		return ToolDocumentSearch
	}
	if strings.Contains(reply, ToolWebSearch.String()) {
		return ToolWebSearch
	}
	return ToolDocumentSearch
}

// Execute runs the chosen tool and returns its outcome.
func (a *Agent) Execute(ctx context.Context, tool Tool, query string, scope AccessScope) ToolResult {
	switch tool {
	case ToolWebSearch:
		return a.searchWeb(ctx, query)
	default:
		return a.searchDocuments(ctx, query, scope)
	}
}

// searchDocuments retrieves, reranks and packages document chunks. An empty
// pool after filtering reports not-found; the caller never learns whether
// inaccessible chunks existed.
func (a *Agent) searchDocuments(ctx context.Context, query string, scope AccessScope) ToolResult {
	candidates := a.retriever.Retrieve(ctx, query, scope, a.topK)
	top := a.reranker.Rerank(ctx, query, candidates, a.topK)
	if len(top) == 0 {
		return ToolResult{Status: ToolNotFound, Context: documentsNotFoundMessage}
	}

	texts := make([]string, len(top))
	sources := make([]Source, len(top))
	for i, c := range top {
		texts[i] = c.Text
		sources[i] = Source{DocumentID: c.DocumentID, Filename: c.Filename, Text: c.Text}
	}
	return ToolResult{
		Status:  ToolFound,
		Context: strings.Join(texts, "\n---\n"),
		Sources: sources,
	}
}

// searchWeb queries the web search provider. Web sources carry document ID 0
// and the page URL in place of a filename.
func (a *Agent) searchWeb(ctx context.Context, query string) ToolResult {
	if a.web == nil {
		return ToolResult{Status: ToolUnavailable, Context: webUnavailableMessage}
	}

	results, err := a.web.Search(ctx, query, webSearchMaxResults)
	if err != nil {
		contextutil.LoggerFromContext(ctx).Warn("web search failed", "error", err)
		return ToolResult{Status: ToolUnavailable, Context: webUnavailableMessage}
	}
	if len(results) == 0 {
		return ToolResult{Status: ToolNotFound, Context: webNotFoundMessage}
	}

	texts := make([]string, len(results))
	sources := make([]Source, len(results))
	for i, res := range results {
		texts[i] = res.Content
		sources[i] = Source{DocumentID: 0, Filename: res.URL, Text: res.Content}
	}
	return ToolResult{
		Status:  ToolFound,
		Context: strings.Join(texts, "\n---\n"),
		Sources: sources,
	}
}
