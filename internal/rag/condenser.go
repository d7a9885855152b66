package rag

import (
	"context"
	"fmt"
	"strings"

	"docuchat/internal/contextutil"
)

// Condenser rewrites a follow-up question into a standalone search query
// using the conversation history.
type Condenser struct {
	generator Generator
}

// NewCondenser creates a condenser backed by the given generator.
func NewCondenser(generator Generator) *Condenser {
	return &Condenser{generator: generator}
}

// Condense returns a standalone version of query. With no history the query
// is already standalone and is returned as-is without a model call. On model
// failure the original query is returned so the turn still proceeds.
func (c *Condenser) Condense(ctx context.Context, query string, history []Turn) string {
	if len(history) == 0 {
		return query
	}

	prompt := fmt.Sprintf(condensePromptTemplate, formatHistory(history), query)

	condensed, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		contextutil.LoggerFromContext(ctx).Warn("query condensation failed, using original query", "error", err)
		return query
	}

	condensed = strings.TrimSpace(condensed)
	if condensed == "" {
		return query
	}
	return condensed
}

// formatHistory renders turns as a transcript for the condense prompt.
func formatHistory(history []Turn) string {
	var b strings.Builder
	for _, turn := range history {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", turn.User, turn.Assistant)
	}
	return b.String()
}
