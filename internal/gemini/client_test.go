package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"

	"github.com/finsight-ai/finsight/internal/domain"
)

func TestNewClient_MissingAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), "", "gemini-2.0-flash", nil, zap.NewNop())
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Fatalf("expected ErrEmbeddingUnavailable, got %v", err)
	}
}

func TestNewClient_WithKey(t *testing.T) {
	client, err := NewClient(context.Background(), "test-key", "gemini-2.0-flash", nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	if client.chatModel != "gemini-2.0-flash" {
		t.Errorf("chatModel = %q", client.chatModel)
	}
}

func TestModelCache(t *testing.T) {
	var cache ModelCache

	if _, ok := cache.Get(); ok {
		t.Fatal("empty cache should report no model")
	}

	cache.Set("embedding-001")
	name, ok := cache.Get()
	if !ok || name != "embedding-001" {
		t.Errorf("Get() = %q, %v", name, ok)
	}
}

func TestEmbeddingModelName_PreloadedCacheSkipsProbe(t *testing.T) {
	cache := &ModelCache{}
	cache.Set("embedding-001")

	client, err := NewClient(context.Background(), "test-key", "gemini-2.0-flash", cache, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	// With the cache preloaded this must resolve without any API traffic.
	if got := client.embeddingModelName(context.Background()); got != "embedding-001" {
		t.Errorf("embeddingModelName = %q, want embedding-001", got)
	}
}

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"googleapi 429", &googleapi.Error{Code: 429}, true},
		{"wrapped googleapi 429", fmt.Errorf("embed: %w", &googleapi.Error{Code: 429}), true},
		{"quota message", errors.New("Quota exceeded for requests per minute"), true},
		{"resource exhausted", errors.New("rpc error: code = ResourceExhausted desc = resource exhausted"), true},
		{"googleapi 500", &googleapi.Error{Code: 500}, false},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRateLimit(tt.err); got != tt.want {
				t.Errorf("isRateLimit(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestProviderErr(t *testing.T) {
	client := &Client{logger: zap.NewNop()}

	err := client.providerErr("embed", &googleapi.Error{Code: 429, Message: "quota"})

	var pe *domain.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %T", err)
	}
	if pe.Op != "embed" {
		t.Errorf("Op = %q", pe.Op)
	}
	if !pe.RateLimited {
		t.Error("expected RateLimited to be set")
	}
}
