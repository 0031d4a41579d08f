package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finsight-ai/finsight/internal/domain"
)

// record is a session as stored in the registry document; the session id
// is the map key, not a field.
type record struct {
	Title         string           `json:"title"`
	IndexPath     string           `json:"index_path"`
	CreatedAt     time.Time        `json:"created_at"`
	Messages      []domain.Message `json:"messages"`
	InitialCharts []domain.Chart   `json:"initial_charts"`
}

func (rec *record) session(id string) *domain.Session {
	return &domain.Session{
		ID:            id,
		Title:         rec.Title,
		IndexPath:     rec.IndexPath,
		CreatedAt:     rec.CreatedAt,
		Messages:      rec.Messages,
		InitialCharts: rec.InitialCharts,
	}
}

// Registry persists sessions as one JSON document. Every operation reads
// the whole document into memory and writes it back whole after mutating.
// The mutex keeps two goroutines from interleaving a read-modify-write;
// across operations the last writer wins. Single-process use only.
type Registry struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Registry {
	return &Registry{path: path}
}

// load returns the registry document. A missing or unreadable file is an
// empty registry.
func (r *Registry) load() map[string]*record {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return map[string]*record{}
	}
	history := map[string]*record{}
	if err := json.Unmarshal(data, &history); err != nil {
		return map[string]*record{}
	}
	return history
}

func (r *Registry) save(history map[string]*record) error {
	data, err := json.MarshalIndent(history, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create registry dir: %w", err)
		}
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	return nil
}

// Create adds a session bound to indexPath and returns its fresh id.
func (r *Registry) Create(title, indexPath string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	history := r.load()
	history[id] = &record{
		Title:         title,
		IndexPath:     indexPath,
		CreatedAt:     time.Now().UTC(),
		Messages:      []domain.Message{},
		InitialCharts: []domain.Chart{},
	}
	if err := r.save(history); err != nil {
		return "", err
	}
	return id, nil
}

// Get returns the session or domain.ErrSessionNotFound.
func (r *Registry) Get(id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.load()[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return rec.session(id), nil
}

// SetMessages replaces a session's transcript. An unknown id is a silent
// no-op so retries stay idempotent.
func (r *Registry) SetMessages(id string, messages []domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.load()
	rec, ok := history[id]
	if !ok {
		return nil
	}
	rec.Messages = messages
	return r.save(history)
}

// SetInitialCharts stores the proactive summary charts computed at session
// creation. Same silent no-op contract as SetMessages.
func (r *Registry) SetInitialCharts(id string, charts []domain.Chart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.load()
	rec, ok := history[id]
	if !ok {
		return nil
	}
	rec.InitialCharts = charts
	return r.save(history)
}

// Delete removes the registry entry only; the session's index directory is
// reclaimed later by the cleanup sweep. An unknown id is a silent no-op.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.load()
	if _, ok := history[id]; !ok {
		return nil
	}
	delete(history, id)
	return r.save(history)
}

// List returns every session, newest first.
func (r *Registry) List() []domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.load()
	sessions := make([]domain.Session, 0, len(history))
	for id, rec := range history {
		sessions = append(sessions, *rec.session(id))
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions
}

// IndexPaths returns every index directory referenced by a live entry,
// used as the cleanup sweep's skip list.
func (r *Registry) IndexPaths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.load()
	paths := make([]string, 0, len(history))
	for _, rec := range history {
		if rec.IndexPath != "" {
			paths = append(paths, rec.IndexPath)
		}
	}
	return paths
}
