package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/domain"
)

// retrievalK is how many chunks are pulled from the index per question.
const retrievalK = 20

// Retriever yields the chunks most relevant to a query, best first.
type Retriever interface {
	Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error)
}

// LLM produces a chat completion under a system instruction.
type LLM interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Answerer runs the question answering pipeline: retrieve context, prompt
// the model, post-process the reply.
type Answerer struct {
	llm              LLM
	logger           *zap.Logger
	topK             int
	summaryBaseDelay time.Duration
}

func NewAnswerer(llm LLM, logger *zap.Logger) *Answerer {
	return &Answerer{
		llm:              llm,
		logger:           logger,
		topK:             retrievalK,
		summaryBaseDelay: time.Second,
	}
}

// Answer retrieves context for question from ret and asks the model, then
// splits the reply into display text, charts and page-sorted sources.
func (a *Answerer) Answer(ctx context.Context, ret Retriever, question string) (*domain.Answer, error) {
	hits, err := ret.Query(ctx, question, a.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	var contextText strings.Builder
	for i, hit := range hits {
		if i > 0 {
			contextText.WriteString("\n\n")
		}
		contextText.WriteString(hit.Content)
	}

	raw, err := a.llm.Complete(ctx, answerSystemPrompt+"\n\n"+contextText.String(), question)
	if err != nil {
		return nil, err
	}

	text, charts := ExtractCharts(raw)

	return &domain.Answer{
		Text:    text,
		Sources: formatSources(hits),
		Charts:  charts,
	}, nil
}

// formatSources renders every retrieved chunk, sorted ascending by page,
// as a page header followed by the full chunk text so the user can verify
// any cited figure.
func formatSources(hits []domain.ScoredChunk) []string {
	sorted := make([]domain.ScoredChunk, len(hits))
	copy(sorted, hits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Page < sorted[j].Page
	})

	sources := make([]string, 0, len(sorted))
	for _, hit := range sorted {
		sources = append(sources, fmt.Sprintf("**Page %d:**\n%s", hit.Page+1, hit.Content))
	}
	return sources
}
