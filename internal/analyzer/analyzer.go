package analyzer

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/domain"
	"github.com/finsight-ai/finsight/internal/index"
	"github.com/finsight-ai/finsight/internal/ingest"
	"github.com/finsight-ai/finsight/internal/pipeline"
	"github.com/finsight-ai/finsight/internal/registry"
)

// Ingestor turns uploaded files into page-tagged chunks.
type Ingestor interface {
	Ingest(files []ingest.File) []domain.Chunk
}

// Analyzer wires the whole document analysis flow together, from PDF
// ingestion through per-session indexes to answered questions, keeping the
// registry in sync along the way. One instance serves the whole process.
type Analyzer struct {
	registry *registry.Registry
	indexes  *index.Manager
	ingestor Ingestor
	answerer *pipeline.Answerer
	embed    index.EmbedFunc
	logger   *zap.Logger

	// The hot cache holds at most one open index; a request for another
	// session evicts it unconditionally. mu serializes every operation
	// that touches it, so an evicted store is never closed mid-query.
	mu          sync.Mutex
	cachedID    string
	cachedStore *index.Store
}

func New(reg *registry.Registry, indexes *index.Manager, ing Ingestor, ans *pipeline.Answerer, embed index.EmbedFunc, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		registry: reg,
		indexes:  indexes,
		ingestor: ing,
		answerer: ans,
		embed:    embed,
		logger:   logger,
	}
}

// UploadResult is what a successful upload hands back to the transport.
type UploadResult struct {
	SessionID     string
	InitialCharts []domain.Chart
}

// Upload turns a batch of PDFs into a brand-new registered session backed
// by a fresh index, with proactive summary charts computed along the way.
// The new session becomes the hot one.
func (a *Analyzer) Upload(ctx context.Context, files []ingest.File) (*UploadResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	chunks := a.ingestor.Ingest(files)
	if len(chunks) == 0 {
		return nil, domain.ErrNoExtractableText
	}

	dir := a.indexes.NewSessionDir()
	store, err := index.Build(ctx, dir, chunks, a.embed, a.logger)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	// Charts are generated before the session exists, so a failure here
	// costs only the charts, never the session.
	charts := a.answerer.SummarizeCharts(ctx, store)
	if charts == nil {
		charts = []domain.Chart{}
	}

	title := "New Analysis"
	if len(files) > 0 {
		title = filepath.Base(files[0].Name)
	}

	id, err := a.registry.Create(title, dir)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("register session: %w", err)
	}
	if err := a.registry.SetInitialCharts(id, charts); err != nil {
		a.logger.Warn("could not persist initial charts",
			zap.String("session", id), zap.Error(err))
	}

	a.prime(id, store)
	a.logger.Info("session created",
		zap.String("session", id), zap.String("title", title),
		zap.Int("chunks", len(chunks)), zap.Int("charts", len(charts)))

	return &UploadResult{SessionID: id, InitialCharts: charts}, nil
}

// Chat answers one question inside an existing session and appends the
// exchange to its transcript.
func (a *Analyzer) Chat(ctx context.Context, sessionID, prompt string) (*domain.Answer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	store, err := a.storeFor(sessionID)
	if err != nil {
		return nil, err
	}

	ans, err := a.answerer.Answer(ctx, store, prompt)
	if err != nil {
		return nil, err
	}

	a.appendExchange(sessionID, prompt, ans)
	return ans, nil
}

func (a *Analyzer) appendExchange(sessionID, prompt string, ans *domain.Answer) {
	sess, err := a.registry.Get(sessionID)
	if err != nil {
		a.logger.Warn("session vanished before transcript update", zap.String("session", sessionID))
		return
	}
	messages := append(sess.Messages,
		domain.Message{Role: domain.RoleUser, Content: prompt},
		domain.Message{Role: domain.RoleAssistant, Content: ans.Text, Sources: ans.Sources, ChartData: ans.Charts},
	)
	if err := a.registry.SetMessages(sessionID, messages); err != nil {
		a.logger.Warn("could not persist transcript",
			zap.String("session", sessionID), zap.Error(err))
	}
}

// Sessions lists every session, newest first.
func (a *Analyzer) Sessions() []domain.Session {
	return a.registry.List()
}

// Session returns one session with its full transcript.
func (a *Analyzer) Session(id string) (*domain.Session, error) {
	return a.registry.Get(id)
}

// Delete removes a session from the registry. Its index directory stays on
// disk until the next sweep picks it up. Deleting an unknown id is a no-op.
func (a *Analyzer) Delete(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.registry.Delete(id); err != nil {
		return err
	}
	if a.cachedID == id {
		a.evict()
	}
	return nil
}

// Discard drops the hot index cache, closing the underlying store.
func (a *Analyzer) Discard() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.evict()
}

// Documents exposes every indexed chunk of a session for inspection.
func (a *Analyzer) Documents(sessionID string) ([]domain.StoredChunk, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	store, err := a.storeFor(sessionID)
	if err != nil {
		return nil, err
	}
	return store.AllDocuments(), nil
}

// SweepIndexes reclaims index directories that no live session references.
// Run once at process startup.
func (a *Analyzer) SweepIndexes() int {
	return a.indexes.Sweep(a.registry.IndexPaths())
}

// Close releases the cached index, if any. The active pointer survives so
// a restart still knows which directory was last in use.
func (a *Analyzer) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cachedStore != nil {
		a.cachedStore.Close()
		a.cachedStore = nil
		a.cachedID = ""
	}
}
