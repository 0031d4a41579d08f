package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/domain"
)

type fakeRetriever struct {
	chunks    []domain.ScoredChunk
	err       error
	lastQuery string
	lastK     int
}

func (f *fakeRetriever) Query(_ context.Context, text string, k int) ([]domain.ScoredChunk, error) {
	f.lastQuery = text
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks, nil
}

type llmTurn struct {
	text string
	err  error
}

type fakeLLM struct {
	turns      []llmTurn
	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeLLM) Complete(_ context.Context, system, user string) (string, error) {
	f.lastSystem, f.lastUser = system, user
	turn := f.turns[f.calls%len(f.turns)]
	f.calls++
	return turn.text, turn.err
}

func retrievedChunks() []domain.ScoredChunk {
	return []domain.ScoredChunk{
		{Chunk: domain.Chunk{Content: "[Page 3] operating costs rose", Page: 2, Source: "r.pdf"}, Score: 0.9},
		{Chunk: domain.Chunk{Content: "[Page 1] revenue was 500 MSEK", Page: 0, Source: "r.pdf"}, Score: 0.8},
		{Chunk: domain.Chunk{Content: "[Page 2] net profit was 40 MSEK", Page: 1, Source: "r.pdf"}, Score: 0.7},
	}
}

func TestAnswer_FullFlow(t *testing.T) {
	reply := "Revenue was 500 MSEK [Page 1].\n\n" +
		"```json\n{\"type\": \"bar\", \"title\": \"Revenue\", \"data\": [{\"label\": \"2024\", \"value\": 500}]}\n```\n"
	ret := &fakeRetriever{chunks: retrievedChunks()}
	llm := &fakeLLM{turns: []llmTurn{{text: reply}}}

	ans, err := NewAnswerer(llm, zap.NewNop()).Answer(context.Background(), ret, "What was the revenue?")
	require.NoError(t, err)

	assert.Equal(t, 20, ret.lastK)
	assert.Equal(t, "What was the revenue?", ret.lastQuery)
	assert.Equal(t, "What was the revenue?", llm.lastUser)

	// The system instruction carries the contract and the retrieved context.
	assert.True(t, strings.HasPrefix(llm.lastSystem, answerSystemPrompt))
	for _, c := range retrievedChunks() {
		assert.Contains(t, llm.lastSystem, c.Content)
	}

	assert.Equal(t, "Revenue was 500 MSEK [Page 1].", ans.Text)
	assert.NotContains(t, ans.Text, "```")

	require.Len(t, ans.Charts, 1)
	assert.Equal(t, domain.ChartBar, ans.Charts[0].Type)

	// Sources cover every retrieved chunk, ascending by page, full text.
	require.Len(t, ans.Sources, 3)
	assert.Equal(t, "**Page 1:**\n[Page 1] revenue was 500 MSEK", ans.Sources[0])
	assert.True(t, strings.HasPrefix(ans.Sources[1], "**Page 2:**"))
	assert.True(t, strings.HasPrefix(ans.Sources[2], "**Page 3:**"))
}

func TestAnswer_RetrieverError(t *testing.T) {
	ret := &fakeRetriever{err: errors.New("embed query: boom")}
	llm := &fakeLLM{turns: []llmTurn{{text: "unused"}}}

	_, err := NewAnswerer(llm, zap.NewNop()).Answer(context.Background(), ret, "q")
	require.Error(t, err)
	assert.Zero(t, llm.calls)
}

func TestAnswer_ProviderErrorPassesThrough(t *testing.T) {
	wantErr := &domain.ProviderError{Op: "chat", RateLimited: true, Err: errors.New("quota")}
	ret := &fakeRetriever{chunks: retrievedChunks()}
	llm := &fakeLLM{turns: []llmTurn{{err: wantErr}}}

	_, err := NewAnswerer(llm, zap.NewNop()).Answer(context.Background(), ret, "q")

	var pe *domain.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.True(t, pe.RateLimited)
}

func TestAnswer_EmptyIndex(t *testing.T) {
	ret := &fakeRetriever{}
	llm := &fakeLLM{turns: []llmTurn{{text: "I don't know."}}}

	ans, err := NewAnswerer(llm, zap.NewNop()).Answer(context.Background(), ret, "q")
	require.NoError(t, err)

	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, "I don't know.", ans.Text)
	assert.Empty(t, ans.Sources)
	assert.Empty(t, ans.Charts)
}
