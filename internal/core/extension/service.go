package extension

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pulseboard/internal/cmdexec"
	"pulseboard/internal/domain"
	"pulseboard/internal/event"
	"pulseboard/internal/logger"
	"pulseboard/internal/settings"
)

// OpenFunc resolves a module file to its Module implementation. Swapped for a
// fake in tests.
type OpenFunc func(path string) (Module, error)

type Deps struct {
	Dir       string
	Config    *settings.ExtensionStore
	Hub       Broadcaster
	Metrics   MetricsSource
	Processes ProcessSource
	Settings  SettingsSource
	Storage   StorageRepo
	Bus       *event.Bus
	Runner    cmdexec.Runner
	Log       logger.Logger

	// Open defaults to the Go plugin loader when nil.
	Open OpenFunc
}

type entry struct {
	path     string
	manifest domain.Manifest
	state    domain.ExtensionState
	lastErr  string

	module Module
	api    *hostAPI

	// ops serializes load/unload for this entry. Service.mu only guards
	// field access and must never be held across module code.
	ops sync.Mutex
}

// Service owns the module registry for the process lifetime: discovery,
// manifest validation, capability-gated loading and the per-module
// enable/disable/reload/delete lifecycle. One module failing must never
// affect another.
type Service struct {
	deps Deps
	open OpenFunc

	mu      sync.Mutex
	entries map[string]*entry
}

func NewService(deps Deps) *Service {
	open := deps.Open
	if open == nil {
		open = openPlugin
	}
	if deps.Runner == nil {
		deps.Runner = cmdexec.Default()
	}
	return &Service{
		deps:    deps,
		open:    open,
		entries: make(map[string]*entry),
	}
}

// Discover scans the extension directory, validates manifests and loads every
// module marked enabled in the config side-table. Runs once at startup.
func (s *Service) Discover(ctx context.Context) {
	if err := s.ensureDir(); err != nil {
		s.deps.Log.Error("extensions: cannot prepare directory", "dir", s.deps.Dir, "error", err)
		return
	}

	names, err := os.ReadDir(s.deps.Dir)
	if err != nil {
		s.deps.Log.Error("extensions: cannot list directory", "dir", s.deps.Dir, "error", err)
		return
	}

	for _, de := range names {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".so") {
			continue
		}
		path := filepath.Join(s.deps.Dir, de.Name())

		if err := s.register(path); err != nil {
			s.deps.Log.Warn("extensions: candidate rejected", "path", path, "error", err)
			continue
		}

		if cfg, ok := s.deps.Config.Get(path); ok && cfg.Enabled {
			if err := s.SetEnabled(ctx, path, true); err != nil {
				s.deps.Log.Warn("extensions: startup load failed", "path", path, "error", err)
			}
		}
	}
}

// register parses the manifest and adds the entry. A module never seen
// before lands in Discovered; one the config side-table already knows lands
// in Disabled. Registering an already-known path refreshes its manifest and
// leaves the running state alone. It never executes module code.
func (s *Service) register(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read module: %w", err)
	}

	manifest, err := ExtractManifest(content)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if prev, ok := s.entries[path]; ok {
		prev.manifest = manifest
		s.mu.Unlock()
		s.deps.Log.Info("extensions: manifest refreshed",
			"name", manifest.Name, "version", manifest.Version, "path", path)
		return nil
	}

	state := domain.StateDiscovered
	if _, known := s.deps.Config.Get(path); known {
		state = domain.StateDisabled
	}
	s.entries[path] = &entry{
		path:     path,
		manifest: manifest,
		state:    state,
	}
	s.mu.Unlock()

	s.deps.Log.Info("extensions: registered",
		"name", manifest.Name, "version", manifest.Version, "path", path)
	return nil
}

// Install registers a module file dropped into the directory after startup.
// The name is a bare file name; it is resolved inside the extension
// directory so callers cannot register files elsewhere on disk.
func (s *Service) Install(name string) error {
	return s.register(filepath.Join(s.deps.Dir, filepath.Base(name)))
}

func (s *Service) List() []domain.ExtensionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ExtensionInfo, 0, len(s.entries))
	for _, e := range s.entries {
		cfg, _ := s.deps.Config.Get(e.path)
		out = append(out, domain.ExtensionInfo{
			Path:      e.path,
			Manifest:  e.manifest,
			State:     e.state,
			Enabled:   cfg.Enabled,
			LastError: e.lastErr,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// lockEntry takes the entry's operation lock. A concurrent Delete may have
// dropped the entry while we waited, so membership is re-checked under the
// lock before it is handed out.
func (s *Service) lockEntry(path string) (*entry, error) {
	s.mu.Lock()
	e, ok := s.entries[path]
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrExtensionNotFound
	}

	e.ops.Lock()

	s.mu.Lock()
	current, ok := s.entries[path]
	s.mu.Unlock()
	if !ok || current != e {
		e.ops.Unlock()
		return nil, domain.ErrExtensionNotFound
	}
	return e, nil
}

// SetEnabled persists the new state first, then synchronously loads or
// unloads the module. Lifecycle operations on one module are serialized;
// concurrent enables initialize it once.
func (s *Service) SetEnabled(ctx context.Context, path string, enabled bool) error {
	e, err := s.lockEntry(path)
	if err != nil {
		return err
	}
	defer e.ops.Unlock()

	if err := s.deps.Config.SetEnabled(path, enabled); err != nil {
		return fmt.Errorf("persist toggle: %w", err)
	}

	if enabled {
		return s.load(ctx, e)
	}
	s.unload(e)
	return nil
}

// Reload is unload-then-load with no intermediate state visible to other
// modules.
func (s *Service) Reload(ctx context.Context, path string) error {
	e, err := s.lockEntry(path)
	if err != nil {
		return err
	}
	defer e.ops.Unlock()

	s.unload(e)
	return s.load(ctx, e)
}

// Delete unloads first so no config entry can outlive its surfaces, then
// erases the registry entry, the config entry and finally the module file.
func (s *Service) Delete(path string) error {
	e, err := s.lockEntry(path)
	if err != nil {
		return err
	}
	defer e.ops.Unlock()

	s.unload(e)

	s.mu.Lock()
	delete(s.entries, path)
	s.mu.Unlock()

	if err := s.deps.Config.Delete(path); err != nil {
		return fmt.Errorf("drop config entry: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.deps.Log.Warn("extensions: module file not removed", "path", path, "error", err)
	}
	return nil
}

// Shutdown unloads every active module.
func (s *Service) Shutdown() {
	s.mu.Lock()
	entries := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	for _, e := range entries {
		e.ops.Lock()
		s.unload(e)
		e.ops.Unlock()
	}
}

func (s *Service) load(ctx context.Context, e *entry) error {
	s.mu.Lock()
	if e.state == domain.StateActive {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	module, err := s.open(e.path)
	if err != nil {
		s.fail(e, err)
		return err
	}

	api := newHostAPI(e.manifest, &s.deps)
	if err := module.Init(ctx, api); err != nil {
		api.teardown()
		s.fail(e, err)
		return err
	}

	s.mu.Lock()
	e.module = module
	e.api = api
	e.state = domain.StateActive
	e.lastErr = ""
	s.mu.Unlock()

	s.deps.Log.Info("extensions: active", "name", e.manifest.Name)
	return nil
}

func (s *Service) unload(e *entry) {
	s.mu.Lock()
	if e.state != domain.StateActive {
		// Nothing is running, but an explicit disable still moves a
		// Discovered or LoadFailed module to Disabled.
		e.state = domain.StateDisabled
		s.mu.Unlock()
		return
	}
	module := e.module
	api := e.api
	e.module = nil
	e.api = nil
	e.state = domain.StateDisabled
	s.mu.Unlock()

	if d, ok := module.(Disposer); ok {
		d.Dispose()
	}
	api.teardown()

	s.deps.Log.Info("extensions: unloaded", "name", e.manifest.Name)
}

// fail records a load failure. The module stays enabled in config so an
// explicit reload retries it; the operator gets a notification.
func (s *Service) fail(e *entry, err error) {
	s.mu.Lock()
	e.state = domain.StateLoadFailed
	e.lastErr = err.Error()
	s.mu.Unlock()

	s.deps.Log.Error("extensions: load failed", "name", e.manifest.Name, "error", err)
	s.deps.Hub.Broadcast(domain.WsChannelExtensions, domain.WsEventNotification, domain.Notification{
		ID:       uuid.New(),
		Source:   "extension-loader",
		Message:  fmt.Sprintf("failed to load %s: %v", e.manifest.Name, err),
		Severity: domain.SeverityCritical,
		SentAt:   time.Now().UnixMilli(),
	})
}
