package settings

import (
	"os"
	"path/filepath"
	"testing"

	"pulseboard/internal/domain"
	"pulseboard/internal/logger"
)

func TestStoreDefaultsWhenFileMissing(t *testing.T) {
	s := NewStore(t.TempDir(), logger.Nop())

	got := s.Get()
	want := domain.DefaultSettings()
	if got.Theme != want.Theme || !got.Monitoring.CPU || !got.AutoStart {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestStoreDefaultsWhenFileMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(dir, logger.Nop())
	if s.Get().Theme != "dark" {
		t.Fatalf("malformed document should fall back to defaults")
	}
}

func TestStorePutRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := NewStore(dir, logger.Nop())
	next := s.Get()
	next.Theme = "light"
	next.WatchPaths = []string{"/tmp/watched"}
	if err := s.Put(next); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	reloaded := NewStore(dir, logger.Nop())
	got := reloaded.Get()
	if got.Theme != "light" {
		t.Fatalf("theme = %q, want light", got.Theme)
	}
	if len(got.WatchPaths) != 1 || got.WatchPaths[0] != "/tmp/watched" {
		t.Fatalf("watch paths = %v", got.WatchPaths)
	}
}

func TestExtensionStoreToggleAndDelete(t *testing.T) {
	dir := t.TempDir()

	s := NewExtensionStore(dir, logger.Nop())
	if err := s.SetEnabled("/ext/foo.so", true); err != nil {
		t.Fatalf("set enabled: %v", err)
	}

	reloaded := NewExtensionStore(dir, logger.Nop())
	entry, ok := reloaded.Get("/ext/foo.so")
	if !ok || !entry.Enabled {
		t.Fatalf("expected persisted enabled entry, got %+v ok=%v", entry, ok)
	}

	if err := reloaded.Delete("/ext/foo.so"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := NewExtensionStore(dir, logger.Nop()).Get("/ext/foo.so"); ok {
		t.Fatalf("entry should be gone after delete")
	}
}
