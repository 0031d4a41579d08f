package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/analyzer"
	"github.com/finsight-ai/finsight/internal/config"
	"github.com/finsight-ai/finsight/internal/domain"
	"github.com/finsight-ai/finsight/internal/gemini"
	"github.com/finsight-ai/finsight/internal/index"
	"github.com/finsight-ai/finsight/internal/ingest"
	"github.com/finsight-ai/finsight/internal/logging"
	"github.com/finsight-ai/finsight/internal/pipeline"
	"github.com/finsight-ai/finsight/internal/registry"
	"github.com/finsight-ai/finsight/internal/tui"
)

func main() {
	sessionID := flag.String("session", "", "resume an existing session instead of uploading")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: finsight-chat [-session <id>] [report.pdf ...]")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*sessionID, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "finsight-chat:", err)
		os.Exit(1)
	}
}

func run(sessionID string, paths []string) error {
	cfg := config.Load()

	// Console log lines would corrupt the alternate screen, so logs go
	// to the file sink or nowhere.
	logger := zap.NewNop()
	if cfg.LogFile != "" {
		logger = logging.NewFile(cfg.LogLevel, cfg.LogFile)
	}
	defer logger.Sync()

	ctx := context.Background()

	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.ChatModel, nil, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	reg := registry.New(cfg.RegistryPath)
	indexes := index.NewManager(cfg.IndexRoot, logger)
	answerer := pipeline.NewAnswerer(client, logger)
	core := analyzer.New(reg, indexes, ingest.New(logger), answerer, client.EmbedText, logger)
	defer core.Close()

	sess, err := resolveSession(ctx, core, sessionID, paths)
	if err != nil {
		return err
	}

	program := tea.NewProgram(tui.New(core, sess), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// resolveSession picks the session to chat against: an existing one by id,
// or a fresh one built from the PDFs named on the command line.
func resolveSession(ctx context.Context, core *analyzer.Analyzer, sessionID string, paths []string) (*domain.Session, error) {
	switch {
	case sessionID != "":
		return core.Session(sessionID)

	case len(paths) > 0:
		files := make([]ingest.File, 0, len(paths))
		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			files = append(files, ingest.File{Name: filepath.Base(path), Data: data})
		}

		fmt.Println("Indexing documents, this can take a moment...")
		result, err := core.Upload(ctx, files)
		if err != nil {
			return nil, err
		}
		return core.Session(result.SessionID)

	default:
		return nil, fmt.Errorf("nothing to do: pass -session <id> or at least one PDF")
	}
}
