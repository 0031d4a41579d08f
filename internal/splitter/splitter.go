package splitter

import "strings"

// Defaults match the ingestion design: ~1000-character chunks with ~200
// characters of overlap so figures split across a boundary stay retrievable.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// Splitter cuts page text into overlapping character chunks, preferring to
// break at paragraph boundaries, then line breaks, then spaces. Sizes are
// measured in runes.
type Splitter struct {
	chunkSize int
	overlap   int
}

func New(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 5
	}
	return &Splitter{
		chunkSize: chunkSize,
		overlap:   overlap,
	}
}

// Split returns the chunks of text, each at most the configured chunk size,
// with consecutive chunks sharing roughly the configured overlap. Whitespace
// at chunk edges is trimmed; whitespace-only input yields nothing.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		return []string{strings.TrimSpace(text)}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + s.chunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = cutPoint(runes, start, end)
		}
		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, piece)
		}
		if end == len(runes) {
			break
		}
		next := end - s.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

// cutPoint finds where to end a chunk that would otherwise stop at limit:
// the last paragraph break in the window, else the last line break, else
// the last space, else a hard cut.
func cutPoint(runes []rune, start, limit int) int {
	for i := limit - 1; i > start; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}
	for i := limit - 1; i > start; i-- {
		if runes[i] == '\n' {
			return i + 1
		}
	}
	for i := limit - 1; i > start; i-- {
		if runes[i] == ' ' {
			return i + 1
		}
	}
	return limit
}
