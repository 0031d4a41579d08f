package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/analyzer"
	"github.com/finsight-ai/finsight/internal/api"
	"github.com/finsight-ai/finsight/internal/config"
	"github.com/finsight-ai/finsight/internal/domain"
	"github.com/finsight-ai/finsight/internal/gemini"
	"github.com/finsight-ai/finsight/internal/index"
	"github.com/finsight-ai/finsight/internal/ingest"
	"github.com/finsight-ai/finsight/internal/logging"
	"github.com/finsight-ai/finsight/internal/pipeline"
	"github.com/finsight-ai/finsight/internal/registry"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel, cfg.LogFile)
	defer logger.Sync()

	ctx := context.Background()

	// Model provider. Without an API key the server still comes up so that
	// stored sessions stay browsable; uploads and chat fail until the key
	// is configured.
	var embed index.EmbedFunc
	var llm pipeline.LLM
	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.ChatModel, &gemini.ModelCache{}, logger)
	switch {
	case err == nil:
		defer client.Close()
		embed = client.EmbedText
		llm = client
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		logger.Warn("GEMINI_API_KEY is not set, uploads and chat are disabled")
		embed = func(context.Context, string) ([]float32, error) {
			return nil, domain.ErrEmbeddingUnavailable
		}
		llm = unavailableLLM{}
	default:
		logger.Fatal("failed to initialize Gemini client", zap.Error(err))
	}

	reg := registry.New(cfg.RegistryPath)
	indexes := index.NewManager(cfg.IndexRoot, logger)
	answerer := pipeline.NewAnswerer(llm, logger)
	ingestor := ingest.New(logger)

	core := analyzer.New(reg, indexes, ingestor, answerer, embed, logger)
	defer core.Close()

	// Reclaim index directories orphaned by deleted sessions or uploads
	// that died halfway.
	if removed := core.SweepIndexes(); removed > 0 {
		logger.Info("startup sweep removed stale index directories", zap.Int("removed", removed))
	}

	apiHandler := api.NewAPIHandler(core, logger)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second, // Adjusted for potentially slower LLM handshakes
		WriteTimeout: 60 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		logger.Info("starting server", zap.String("addr", serverAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not listen", zap.String("addr", serverAddr), zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Give active connections time to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited gracefully")
}

// unavailableLLM stands in for the chat model when no API key is set.
type unavailableLLM struct{}

func (unavailableLLM) Complete(context.Context, string, string) (string, error) {
	return "", domain.ErrEmbeddingUnavailable
}
