package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/finsight-ai/finsight/internal/domain"
)

// embeddingCandidates are probed in order on first use; the first model
// that answers a trivial request wins. When none answers, the last
// candidate is used anyway and real traffic surfaces the problem.
var embeddingCandidates = []string{"text-embedding-004", "embedding-001"}

// chatTemperature keeps answers close to the source documents.
const chatTemperature = 0.3

// Client wraps the Gemini API for embeddings and chat completions.
type Client struct {
	genai     *genai.Client
	chatModel string
	models    *ModelCache
	logger    *zap.Logger
}

// NewClient builds a Gemini client. An empty API key means embeddings can
// never be produced, reported as domain.ErrEmbeddingUnavailable.
func NewClient(ctx context.Context, apiKey, chatModel string, cache *ModelCache, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set: %w", domain.ErrEmbeddingUnavailable)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if cache == nil {
		cache = &ModelCache{}
	}
	return &Client{genai: client, chatModel: chatModel, models: cache, logger: logger}, nil
}

func (c *Client) Close() error {
	return c.genai.Close()
}

// EmbedText returns the embedding vector for text.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	em := c.genai.EmbeddingModel(c.embeddingModelName(ctx))
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, c.providerErr("embed", err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, c.providerErr("embed", errors.New("received an empty embedding"))
	}
	return res.Embedding.Values, nil
}

// Complete sends user to the chat model under the given system instruction
// and returns the concatenated text parts of the response.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	model := c.genai.GenerativeModel(c.chatModel)
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}
	temp := float32(chatTemperature)
	model.GenerationConfig = genai.GenerationConfig{Temperature: &temp}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", c.providerErr("chat", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	if sb.Len() == 0 {
		return "", c.providerErr("chat", errors.New("model returned no text"))
	}
	return sb.String(), nil
}

func (c *Client) embeddingModelName(ctx context.Context) string {
	if name, ok := c.models.Get(); ok {
		return name
	}
	name := c.probeEmbeddingModel(ctx)
	c.models.Set(name)
	return name
}

func (c *Client) probeEmbeddingModel(ctx context.Context) string {
	for _, name := range embeddingCandidates {
		em := c.genai.EmbeddingModel(name)
		if _, err := em.EmbedContent(ctx, genai.Text("test")); err != nil {
			c.logger.Warn("embedding model did not answer probe",
				zap.String("model", name), zap.Error(err))
			continue
		}
		c.logger.Info("selected embedding model", zap.String("model", name))
		return name
	}

	fallback := embeddingCandidates[len(embeddingCandidates)-1]
	c.logger.Warn("no embedding model answered the probe, falling back",
		zap.String("model", fallback))
	return fallback
}

func (c *Client) providerErr(op string, err error) error {
	return &domain.ProviderError{Op: op, RateLimited: isRateLimit(err), Err: err}
}

// isRateLimit reports whether err looks like a quota or rate limit
// rejection from the API.
func isRateLimit(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "rate limit")
}
