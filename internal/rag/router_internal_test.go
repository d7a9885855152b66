package rag

import "testing"

func TestClassifyTool(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  Tool
	}{
		{"exact document search", "document_search", ToolDocumentSearch},
		{"exact web search", "web_search", ToolWebSearch},
		{"uppercase", "WEB_SEARCH", ToolWebSearch},
		{"embedded in chatter", "I would use the web_search tool here.", ToolWebSearch},
		{"both mentioned prefers documents", "document_search or maybe web_search", ToolDocumentSearch},
		{"unrecognized defaults to documents", "calculator", ToolDocumentSearch},
		{"empty defaults to documents", "", ToolDocumentSearch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyTool(tt.reply); got != tt.want {
				t.Errorf("classifyTool(%q) = %s, want %s", tt.reply, got, tt.want)
			}
		})
	}
}

func TestToolString(t *testing.T) {
	if got := ToolDocumentSearch.String(); got != "document_search" {
		t.Errorf("ToolDocumentSearch.String() = %q", got)
	}
	if got := ToolWebSearch.String(); got != "web_search" {
		t.Errorf("ToolWebSearch.String() = %q", got)
	}
}
