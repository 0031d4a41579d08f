package domain

import "time"

// Message roles stored in a session transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Session is one document-analysis context: its vector index directory,
// chat transcript, and the summary charts computed at creation.
type Session struct {
	ID            string    `json:"id" yaml:"id"`
	Title         string    `json:"title" yaml:"title"`
	IndexPath     string    `json:"index_path" yaml:"index_path"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	Messages      []Message `json:"messages" yaml:"messages"`
	InitialCharts []Chart   `json:"initial_charts" yaml:"initial_charts"`
}

// Message is one chat turn. Sources and ChartData are only ever set on
// assistant messages.
type Message struct {
	Role      string   `json:"role" yaml:"role"` // "user" or "assistant"
	Content   string   `json:"content" yaml:"content"`
	Sources   []string `json:"sources,omitempty" yaml:"sources,omitempty"`
	ChartData []Chart  `json:"chart_data,omitempty" yaml:"chart_data,omitempty"`
}

// Chunk is one retrievable slice of extracted document text. Content
// carries a literal "[Page N] " prefix (one-based) so the page number
// survives into the retrieval context; Page itself is zero-based.
type Chunk struct {
	Content string `json:"content"`
	Page    int    `json:"page"`
	Source  string `json:"source"`
}

// StoredChunk is a chunk as returned by the index debug accessor.
type StoredChunk struct {
	ID int64 `json:"id"`
	Chunk
}

// ScoredChunk pairs a retrieved chunk with its similarity score.
type ScoredChunk struct {
	Chunk
	Score float32 `json:"score"`
}

// Answer is the post-processed result of one question: display text with
// chart JSON stripped out, plus page-ordered citations and parsed charts.
type Answer struct {
	Text    string   `json:"text"`
	Sources []string `json:"sources"`
	Charts  []Chart  `json:"charts"`
}
