package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"pulseboard/internal/domain"
	"pulseboard/internal/logger"
)

// ExtensionStore holds the per-module enabled/settings side-table, keyed by
// module path. Every toggle is persisted immediately.
type ExtensionStore struct {
	path string
	log  logger.Logger

	mu      sync.RWMutex
	entries map[string]domain.ExtensionConfigEntry
}

func NewExtensionStore(dataDir string, log logger.Logger) *ExtensionStore {
	s := &ExtensionStore{
		path:    filepath.Join(dataDir, "extensions.json"),
		log:     log,
		entries: make(map[string]domain.ExtensionConfigEntry),
	}
	s.load()
	return s
}

func (s *ExtensionStore) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("extension config: read failed, starting empty", "path", s.path, "error", err)
		}
		return
	}

	var loaded map[string]domain.ExtensionConfigEntry
	if err := json.Unmarshal(raw, &loaded); err != nil {
		s.log.Warn("extension config: malformed document, starting empty", "path", s.path, "error", err)
		return
	}
	s.entries = loaded
}

func (s *ExtensionStore) Get(path string) (domain.ExtensionConfigEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[path]
	return entry, ok
}

func (s *ExtensionStore) SetEnabled(path string, enabled bool) error {
	s.mu.Lock()
	entry := s.entries[path]
	entry.Enabled = enabled
	s.entries[path] = entry
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	return s.save(snapshot)
}

func (s *ExtensionStore) Delete(path string) error {
	s.mu.Lock()
	delete(s.entries, path)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	return s.save(snapshot)
}

func (s *ExtensionStore) snapshotLocked() map[string]domain.ExtensionConfigEntry {
	out := make(map[string]domain.ExtensionConfigEntry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

func (s *ExtensionStore) save(snapshot map[string]domain.ExtensionConfigEntry) error {
	if err := writeJSON(s.path, snapshot); err != nil {
		s.log.Error("extension config: save failed", "path", s.path, "error", err)
		return err
	}
	return nil
}
