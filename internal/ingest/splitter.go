package ingest

import (
	"strings"
	"unicode/utf8"
)

// Default chunking geometry. Chunks around a thousand characters keep enough
// context for retrieval; the overlap preserves sentences cut at a boundary.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
)

// defaultSeparators is ordered from strongest to weakest boundary. The empty
// separator means a hard character split.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter cuts document text into overlapping chunks, preferring paragraph
// and sentence boundaries over mid-word cuts.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewSplitter creates a splitter. Non-positive arguments fall back to the
// defaults.
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultChunkOverlap
	}
	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: defaultSeparators,
	}
}

// Split cuts text into chunks of at most the configured size. Blank chunks
// are dropped; consecutive chunks share up to overlap characters.
func (s *Splitter) Split(text string) []string {
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	sep, rest := pickSeparator(text, separators)
	if sep == "" {
		return s.hardSplit(text)
	}

	var chunks []string
	current := ""
	for _, piece := range strings.SplitAfter(text, sep) {
		if len(piece) > s.chunkSize {
			if strings.TrimSpace(current) != "" {
				chunks = append(chunks, current)
			}
			sub := s.split(piece, rest)
			chunks = append(chunks, sub...)
			current = ""
			if len(sub) > 0 {
				current = overlapTail(sub[len(sub)-1], s.overlap)
			}
			continue
		}

		if current != "" && len(current)+len(piece) > s.chunkSize {
			if strings.TrimSpace(current) != "" {
				chunks = append(chunks, current)
			}
			carry := overlapTail(current, s.overlap)
			if len(carry)+len(piece) <= s.chunkSize {
				current = carry
			} else {
				current = ""
			}
		}
		current += piece
	}

	// The remainder is kept unless it is pure overlap already emitted.
	if strings.TrimSpace(current) != "" {
		if len(chunks) == 0 || !strings.HasSuffix(chunks[len(chunks)-1], current) {
			chunks = append(chunks, current)
		}
	}
	return chunks
}

// pickSeparator returns the strongest separator present in text and the
// weaker ones left for recursive splits.
func pickSeparator(text string, separators []string) (string, []string) {
	for i, sep := range separators {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(text, sep) {
			return sep, separators[i+1:]
		}
	}
	return "", nil
}

// hardSplit cuts text into fixed windows when no separator applies.
// Window edges never land inside a multi-byte rune.
func (s *Splitter) hardSplit(text string) []string {
	var chunks []string
	start := 0
	for start < len(text) {
		end := start + s.chunkSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		end = runeFloor(text, end)
		if end <= start {
			_, size := utf8.DecodeRuneInString(text[start:])
			end = start + size
		}
		chunks = append(chunks, text[start:end])
		next := runeCeil(text, end-s.overlap)
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// overlapTail returns at most n trailing bytes of chunk, starting on a rune
// boundary, to seed the next chunk.
func overlapTail(chunk string, n int) string {
	if len(chunk) <= n {
		return chunk
	}
	return chunk[runeCeil(chunk, len(chunk)-n):]
}

// runeFloor moves i back to the nearest rune start at or before it.
func runeFloor(s string, i int) int {
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// runeCeil moves i forward to the nearest rune start at or after it.
func runeCeil(s string, i int) int {
	if i < 0 {
		return 0
	}
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
