package rag

import (
	"encoding/json"
	"fmt"
)

// Turn is one completed exchange in a conversation: what the user asked and
// what the assistant replied. On the wire it is a two-element JSON array,
// matching the client payload format.
type Turn struct {
	User      string
	Assistant string
}

// MarshalJSON encodes the turn as ["user text", "assistant text"].
func (t Turn) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{t.User, t.Assistant})
}

// UnmarshalJSON decodes a two-element JSON array into the turn.
func (t *Turn) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("conversation turn must be a [user, assistant] pair: %w", err)
	}
	t.User = pair[0]
	t.Assistant = pair[1]
	return nil
}

// AccessScope is the per-request access context used to build the retrieval
// filter. A nil UserID means the caller is anonymous; a nil DocumentID means
// no specific document was requested.
type AccessScope struct {
	UserID     *int64
	DocumentID *int64
}

// Candidate is one retrieved chunk, transient within a request. Score is the
// vector similarity from retrieval until the rerank stage overwrites it with
// the cross-encoder relevance score.
type Candidate struct {
	ID         string
	Score      float32
	DocumentID int64
	OwnerID    int64
	Filename   string
	Text       string
}

// Source is one citable unit returned to the caller alongside the answer.
// DocumentID 0 denotes a web source; Filename then holds the URL.
type Source struct {
	DocumentID int64  `json:"document_id"`
	Filename   string `json:"filename"`
	Text       string `json:"text"`
}

// ChatRequest is one chat turn from the caller. History is ordered oldest
// first. UserID is supplied by the authentication layer, not the client.
type ChatRequest struct {
	Query      string
	History    []Turn
	DocumentID *int64
	UserID     *int64
}

// ChatResponse is the completed answer with its citations.
type ChatResponse struct {
	Answer  string
	Sources []Source
}

// Tool identifies which retrieval tool the agent runs for a turn.
type Tool int

const (
	// ToolDocumentSearch retrieves from the internal document index.
	ToolDocumentSearch Tool = iota
	// ToolWebSearch retrieves from the public web.
	ToolWebSearch
)

// String returns the tool's wire name as used in routing prompts.
func (t Tool) String() string {
	switch t {
	case ToolWebSearch:
		return "web_search"
	default:
		return "document_search"
	}
}

// ToolStatus discriminates tool outcomes so no caller has to sniff message
// strings to know what happened.
type ToolStatus int

const (
	// ToolFound means the tool produced usable context.
	ToolFound ToolStatus = iota
	// ToolNotFound means the tool ran but nothing matched.
	ToolNotFound
	// ToolUnavailable means the tool could not run at all.
	ToolUnavailable
)

// ToolResult is the outcome of one tool execution. For non-Found statuses
// Context holds the user-facing placeholder message and Sources is empty.
type ToolResult struct {
	Status  ToolStatus
	Context string
	Sources []Source
}
