package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// ExtractText converts an uploaded file's raw bytes into plain text for
// chunking. Markdown files are stripped of formatting via the AST; anything
// else is treated as plain text.
func ExtractText(filename string, content []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return extractMarkdownText(content)
	default:
		return string(content), nil
	}
}

// extractMarkdownText parses markdown and collects the text content of every
// node, with newlines at block boundaries so paragraph structure survives
// for the splitter.
func extractMarkdownText(content []byte) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(content))

	var b strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(content))
			if node.HardLineBreak() || node.SoftLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.CodeBlock:
			writeLines(&b, node, content)
		case *ast.FencedCodeBlock:
			writeLines(&b, node, content)
		case *ast.Heading, *ast.Paragraph, *ast.ListItem, *ast.Blockquote:
			ensureBlockBreak(&b)
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk markdown tree: %w", err)
	}

	return strings.TrimSpace(b.String()), nil
}

// writeLines appends a code block's raw lines.
func writeLines(b *strings.Builder, n ast.Node, content []byte) {
	ensureBlockBreak(b)
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(content))
	}
}

// ensureBlockBreak separates blocks with a blank line so the splitter sees
// paragraph boundaries.
func ensureBlockBreak(b *strings.Builder) {
	if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n\n") {
		b.WriteString("\n\n")
	}
}
