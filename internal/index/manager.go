package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// activeFileName is the pointer file inside the index root naming the
// directory whose index is currently loaded. The cleanup sweep never
// touches the pointed-at directory.
const activeFileName = ".active"

// Manager owns the index root directory. It hands out unique per-session
// index directories and tracks which one is active; its sweep reclaims the
// ones nothing references anymore.
type Manager struct {
	root      string
	logger    *zap.Logger
	removeAll func(string) error
}

func NewManager(root string, logger *zap.Logger) *Manager {
	return &Manager{root: root, logger: logger, removeAll: os.RemoveAll}
}

// Root returns the index root directory.
func (m *Manager) Root() string { return m.root }

// NewSessionDir returns a fresh, unique directory path for a session's
// index. The directory itself is created when the index is built.
func (m *Manager) NewSessionDir() string {
	return filepath.Join(m.root, "session_"+uuid.NewString())
}

func (m *Manager) activePath() string {
	return filepath.Join(m.root, activeFileName)
}

// SetActive records dir as the currently loaded index directory.
func (m *Manager) SetActive(dir string) error {
	if err := os.MkdirAll(m.root, 0755); err != nil {
		return fmt.Errorf("create index root: %w", err)
	}
	if err := os.WriteFile(m.activePath(), []byte(dir), 0644); err != nil {
		return fmt.Errorf("write active pointer: %w", err)
	}
	return nil
}

// ClearActive removes the pointer so no directory is marked in use.
func (m *Manager) ClearActive() error {
	if err := os.Remove(m.activePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear active pointer: %w", err)
	}
	return nil
}

// Active returns the pointed-at directory, if a pointer exists.
func (m *Manager) Active() (string, bool) {
	data, err := os.ReadFile(m.activePath())
	if err != nil {
		return "", false
	}
	dir := strings.TrimSpace(string(data))
	return dir, dir != ""
}

// Sweep removes every subdirectory of the root that is neither the active
// directory nor listed in referenced, and reports how many it removed.
// Removal failures are logged and swallowed; a directory we cannot delete
// today is picked up again on the next sweep.
func (m *Manager) Sweep(referenced []string) int {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Warn("cannot enumerate index root", zap.String("root", m.root), zap.Error(err))
		}
		return 0
	}

	keep := make(map[string]bool, len(referenced)+1)
	for _, p := range referenced {
		keep[filepath.Clean(p)] = true
	}
	if active, ok := m.Active(); ok {
		keep[filepath.Clean(active)] = true
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(m.root, entry.Name())
		if keep[filepath.Clean(dir)] {
			continue
		}
		if err := m.removeAll(dir); err != nil {
			m.logger.Warn("could not remove stale index directory, will retry on next sweep",
				zap.String("dir", dir), zap.Error(err))
			continue
		}
		m.logger.Info("removed stale index directory", zap.String("dir", dir))
		removed++
	}
	return removed
}
