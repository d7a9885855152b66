package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"docuchat/internal/contextutil"
	"docuchat/internal/rag"
)

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	engine rag.Engine
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(engine rag.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// ChatRequest represents the HTTP request payload for chat. History entries
// are [user, assistant] pairs, oldest first.
type ChatRequest struct {
	Query      string     `json:"query"`
	History    []rag.Turn `json:"history"`
	DocumentID *int64     `json:"document_id"`
}

// ChatResponse represents the HTTP response payload for chat.
type ChatResponse struct {
	Answer  string       `json:"answer"`
	Sources []rag.Source `json:"sources"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles HTTP requests for chat. With ?stream=true the answer is
// streamed over Server-Sent Events instead of returned as one JSON body.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	engineReq := rag.ChatRequest{
		Query:      req.Query,
		History:    req.History,
		DocumentID: req.DocumentID,
		UserID:     contextutil.UserIDFromContext(ctx),
	}

	if r.URL.Query().Get("stream") == "true" {
		h.streamChat(w, r, engineReq)
		return
	}

	resp, err := h.engine.Chat(ctx, engineReq)
	if err != nil {
		handleEngineError(w, r, err)
		return
	}

	sources := resp.Sources
	if sources == nil {
		sources = []rag.Source{}
	}
	writeJSON(w, http.StatusOK, ChatResponse{Answer: resp.Answer, Sources: sources})
}

// streamChat streams the answer over SSE, one "data:" event per chunk,
// terminated by a [DONE] event.
func (h *ChatHandler) streamChat(w http.ResponseWriter, r *http.Request, req rag.ChatRequest) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "streaming not supported by response writer")
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	err := h.engine.ChatStream(ctx, req, func(chunk string) error {
		// Chunks are JSON-encoded so newlines survive the SSE framing.
		payload, err := json.Marshal(map[string]string{"token": chunk})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		// Validation fails before anything is streamed, so a plain error
		// response is still possible there.
		var validationErr *rag.ValidationError
		if errors.As(err, &validationErr) {
			writeError(w, http.StatusBadRequest, validationErr.Error())
			return
		}
		logger.ErrorContext(ctx, "chat streaming failed", "error", err)
		_, _ = fmt.Fprintf(w, "data: {\"error\":\"stream interrupted\"}\n\n")
		flusher.Flush()
		return
	}

	_, _ = fmt.Fprintf(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// handleEngineError maps engine errors to HTTP status codes.
func handleEngineError(w http.ResponseWriter, r *http.Request, err error) {
	logger := contextutil.LoggerFromContext(r.Context())

	var validationErr *rag.ValidationError
	if errors.As(err, &validationErr) {
		logger.WarnContext(r.Context(), "invalid chat request", "error", err)
		writeError(w, http.StatusBadRequest, validationErr.Error())
		return
	}

	logger.ErrorContext(r.Context(), "chat request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "Failed to process chat request")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}
