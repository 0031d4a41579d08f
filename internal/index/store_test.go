package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/domain"
)

// keywordEmbed maps text onto a fixed three-axis vector space so similarity
// rankings are deterministic without a live embedding model.
func keywordEmbed(_ context.Context, text string) ([]float32, error) {
	v := []float32{0.1, 0.1, 0.1}
	if strings.Contains(text, "revenue") {
		v[0] = 1
	}
	if strings.Contains(text, "profit") {
		v[1] = 1
	}
	if strings.Contains(text, "assets") {
		v[2] = 1
	}
	return v, nil
}

func testChunks() []domain.Chunk {
	return []domain.Chunk{
		{Content: "[Page 1] revenue grew by 12% year over year", Page: 0, Source: "report.pdf"},
		{Content: "[Page 2] net profit margin held at 8%", Page: 1, Source: "report.pdf"},
		{Content: "[Page 3] total assets reached 4.2 billion", Page: 2, Source: "report.pdf"},
	}
}

func TestBuildAndOpenRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "session_abc")
	chunks := testChunks()

	built, err := Build(context.Background(), dir, chunks, keywordEmbed, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, built.AllDocuments(), 3)
	require.NoError(t, built.Close())

	opened, err := Open(dir, keywordEmbed, zap.NewNop())
	require.NoError(t, err)
	defer opened.Close()

	docs := opened.AllDocuments()
	require.Len(t, docs, 3)
	for i, doc := range docs {
		assert.Equal(t, chunks[i].Content, doc.Content)
		assert.Equal(t, chunks[i].Page, doc.Page)
		assert.Equal(t, chunks[i].Source, doc.Source)
		assert.Positive(t, doc.ID)
	}
}

func TestQuery_RanksBySimilarity(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "session_abc")

	store, err := Build(context.Background(), dir, testChunks(), keywordEmbed, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	results, err := store.Query(context.Background(), "how did revenue develop?", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Contains(t, results[0].Content, "revenue")
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestQuery_KLargerThanStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "session_abc")

	store, err := Build(context.Background(), dir, testChunks(), keywordEmbed, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	results, err := store.Query(context.Background(), "profit", 20)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestQuery_EmptyStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "session_abc")

	store, err := Build(context.Background(), dir, nil, keywordEmbed, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	results, err := store.Query(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBuild_AbortsOnEmbedError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "session_abc")
	wantErr := errors.New("quota exhausted")

	calls := 0
	failing := func(ctx context.Context, text string) ([]float32, error) {
		calls++
		if calls > 1 {
			return nil, wantErr
		}
		return keywordEmbed(ctx, text)
	}

	_, err := Build(context.Background(), dir, testChunks(), failing, zap.NewNop())
	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 2, calls, "build should stop at the first failed embed")

	// The partial directory stays behind for the cleanup sweep.
	_, statErr := os.Stat(dir)
	assert.NoError(t, statErr)
}

func TestOpen_MissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does_not_exist")

	_, err := Open(dir, keywordEmbed, zap.NewNop())
	assert.ErrorIs(t, err, domain.ErrIndexNotFound)
}

func TestQuery_EmbedErrorSurfaces(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "session_abc")

	store, err := Build(context.Background(), dir, testChunks(), keywordEmbed, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	store.embed = func(context.Context, string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}

	_, err = store.Query(context.Background(), "revenue", 5)
	assert.Error(t, err)
}
