package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/domain"
)

const dbFileName = "chunks.db"

// embedPace spaces out embedding calls during a build to stay under the
// provider rate limit (1500/min).
const embedPace = 40 * time.Millisecond

// EmbedFunc turns text into an embedding vector.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// Store is one session's persisted vector index: a SQLite file inside the
// session's dedicated directory. Chunks and embeddings are cached in memory
// for retrieval; the database is the durable copy.
type Store struct {
	db     *sql.DB
	dir    string
	embed  EmbedFunc
	chunks []storedChunk
	logger *zap.Logger
}

type storedChunk struct {
	id        int64
	chunk     domain.Chunk
	embedding []float32
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schema := `
    CREATE TABLE IF NOT EXISTS chunks (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        content TEXT NOT NULL,
        page INTEGER NOT NULL,
        source TEXT NOT NULL,
        embedding_json TEXT -- Storing as JSON string of []float32
    );
    `
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// Build embeds every chunk and persists a fresh index under dir. A failed
// embed aborts the build and the partial directory is left behind; the
// registry never learns about it, so the next cleanup sweep reclaims it.
func Build(ctx context.Context, dir string, chunks []domain.Chunk, embed EmbedFunc, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	db, err := openDB(filepath.Join(dir, dbFileName))
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, dir: dir, embed: embed, logger: logger}

	ticker := time.NewTicker(embedPace)
	defer ticker.Stop()

	for i, chunk := range chunks {
		select {
		case <-ctx.Done():
			s.Close()
			return nil, ctx.Err()
		case <-ticker.C:
		}

		embedding, err := embed(ctx, chunk.Content)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("embed chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if err := s.insert(chunk, embedding); err != nil {
			s.Close()
			return nil, err
		}
		if (i+1)%25 == 0 || i+1 == len(chunks) {
			logger.Info("indexed chunks",
				zap.Int("done", i+1), zap.Int("total", len(chunks)))
		}
	}
	return s, nil
}

// Open reopens a previously built index. Returns domain.ErrIndexNotFound
// when the directory is missing; beyond that, integrity is whatever SQLite
// says it is.
func Open(dir string, embed EmbedFunc, logger *zap.Logger) (*Store, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, domain.ErrIndexNotFound
	}

	db, err := openDB(filepath.Join(dir, dbFileName))
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, dir: dir, embed: embed, logger: logger}
	if err := s.loadChunks(); err != nil {
		db.Close()
		return nil, err
	}
	if len(s.chunks) == 0 {
		logger.Warn("index opened with no chunks", zap.String("dir", dir))
	}
	return s, nil
}

func (s *Store) insert(chunk domain.Chunk, embedding []float32) error {
	embeddingBytes, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}

	stmt, err := s.db.Prepare("INSERT INTO chunks (content, page, source, embedding_json) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(chunk.Content, chunk.Page, chunk.Source, string(embeddingBytes))
	if err != nil {
		return fmt.Errorf("failed to execute chunk insert: %w", err)
	}
	id, _ := res.LastInsertId()
	s.chunks = append(s.chunks, storedChunk{id: id, chunk: chunk, embedding: embedding})
	return nil
}

func (s *Store) loadChunks() error {
	rows, err := s.db.Query("SELECT id, content, page, source, embedding_json FROM chunks")
	if err != nil {
		return fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc storedChunk
		var embeddingJSON string
		if err := rows.Scan(&sc.id, &sc.chunk.Content, &sc.chunk.Page, &sc.chunk.Source, &embeddingJSON); err != nil {
			return fmt.Errorf("failed to scan chunk row: %w", err)
		}
		if embeddingJSON != "" {
			if err := json.Unmarshal([]byte(embeddingJSON), &sc.embedding); err != nil {
				s.logger.Warn("corrupt embedding, chunk will not be searchable",
					zap.Int64("id", sc.id), zap.Error(err))
				sc.embedding = nil
			}
		}
		s.chunks = append(s.chunks, sc)
	}
	return rows.Err()
}

// Query embeds text and returns the k most similar chunks, best first.
func (s *Store) Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error) {
	if len(s.chunks) == 0 {
		return nil, nil
	}

	queryEmbedding, err := s.embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored := make([]domain.ScoredChunk, 0, len(s.chunks))
	for _, sc := range s.chunks {
		if len(sc.embedding) == 0 {
			continue
		}
		similarity, err := cosineSimilarity(queryEmbedding, sc.embedding)
		if err != nil {
			s.logger.Warn("skipping chunk in similarity ranking",
				zap.Int64("id", sc.id), zap.Error(err))
			continue
		}
		scored = append(scored, domain.ScoredChunk{Chunk: sc.chunk, Score: similarity})
	}

	// Sort by similarity in descending order
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// AllDocuments returns every stored chunk with its id. Debug accessor for
// inspection, not part of normal retrieval.
func (s *Store) AllDocuments() []domain.StoredChunk {
	out := make([]domain.StoredChunk, 0, len(s.chunks))
	for _, sc := range s.chunks {
		out = append(out, domain.StoredChunk{ID: sc.id, Chunk: sc.chunk})
	}
	return out
}

// Dir returns the directory this store lives in.
func (s *Store) Dir() string { return s.dir }

func (s *Store) Close() error {
	return s.db.Close()
}
