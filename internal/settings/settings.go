// Package settings persists the two flat JSON documents the dashboard keeps on
// disk: the settings document and the extension config side-table. Both are
// read at startup and rewritten whole on every change. Read failures fall back
// to in-memory defaults for the session; save failures are logged but non-fatal.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pulseboard/internal/domain"
	"pulseboard/internal/logger"
)

// TopicUpdated is published on the event bus after a settings write, with the
// new settings document as payload.
const TopicUpdated = "settings.updated"

type Store struct {
	path string
	log  logger.Logger

	mu   sync.RWMutex
	data domain.Settings
}

func NewStore(dataDir string, log logger.Logger) *Store {
	s := &Store{
		path: filepath.Join(dataDir, "settings.json"),
		log:  log,
		data: domain.DefaultSettings(),
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("settings: read failed, using defaults", "path", s.path, "error", err)
		}
		return
	}

	var loaded domain.Settings
	if err := json.Unmarshal(raw, &loaded); err != nil {
		s.log.Warn("settings: malformed document, using defaults", "path", s.path, "error", err)
		return
	}
	s.data = loaded
}

func (s *Store) Get() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *Store) Put(next domain.Settings) error {
	s.mu.Lock()
	s.data = next
	s.mu.Unlock()

	if err := writeJSON(s.path, next); err != nil {
		s.log.Error("settings: save failed", "path", s.path, "error", err)
		return err
	}
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
