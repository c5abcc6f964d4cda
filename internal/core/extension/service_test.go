package extension

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"pulseboard/internal/domain"
	"pulseboard/internal/event"
	"pulseboard/internal/logger"
	"pulseboard/internal/settings"
)

type recordedEvent struct {
	Channel string
	Event   string
	Payload any
}

type fakeHub struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (h *fakeHub) Broadcast(channel, event string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, recordedEvent{channel, event, payload})
}

func (h *fakeHub) byEvent(name string) []recordedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []recordedEvent
	for _, ev := range h.events {
		if ev.Event == name {
			out = append(out, ev)
		}
	}
	return out
}

type fakeMetrics struct{ snap domain.Snapshot }

func (f fakeMetrics) Latest() (domain.Snapshot, bool) { return f.snap, f.snap.CapturedAt != 0 }

type fakeProcesses struct{}

func (fakeProcesses) Latest() []domain.ProcessInfo { return nil }

type fakeSettings struct{}

func (fakeSettings) Get() domain.Settings { return domain.DefaultSettings() }

type memStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStorage() *memStorage { return &memStorage{data: make(map[string]string)} }

func (m *memStorage) Get(_ context.Context, module, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[module+"/"+key], nil
}

func (m *memStorage) Set(_ context.Context, module, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[module+"/"+key] = value
	return nil
}

// fakeModule creates one surface on init and records lifecycle calls. A
// non-nil initGate makes Init block until the channel is closed.
type fakeModule struct {
	surfaceID string
	initErr   error
	initGate  chan struct{}

	mu       sync.Mutex
	inits    int
	disposes int
}

func (m *fakeModule) Init(ctx context.Context, api Capability) error {
	m.mu.Lock()
	m.inits++
	m.mu.Unlock()

	if m.initGate != nil {
		<-m.initGate
	}
	if m.initErr != nil {
		return m.initErr
	}
	return api.CreateSurface(m.surfaceID, "Test Surface", "")
}

func (m *fakeModule) initCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inits
}

func (m *fakeModule) Dispose() {
	m.mu.Lock()
	m.disposes++
	m.mu.Unlock()
}

const validManifest = `<<pulseboard:extension>>{"name":"mod-%s","version":"1.0.0"}<<pulseboard:end>>`

func writeModuleFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type harness struct {
	svc     *Service
	hub     *fakeHub
	cfg     *settings.ExtensionStore
	dir     string
	modules map[string]Module
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	hub := &fakeHub{}
	cfg := settings.NewExtensionStore(t.TempDir(), logger.Nop())
	modules := make(map[string]Module)

	svc := NewService(Deps{
		Dir:       dir,
		Config:    cfg,
		Hub:       hub,
		Metrics:   fakeMetrics{},
		Processes: fakeProcesses{},
		Settings:  fakeSettings{},
		Storage:   newMemStorage(),
		Bus:       event.New(),
		Log:       logger.Nop(),
		Open: func(path string) (Module, error) {
			m, ok := modules[path]
			if !ok {
				return nil, errors.New("no such module")
			}
			return m, nil
		},
	})

	return &harness{svc: svc, hub: hub, cfg: cfg, dir: dir, modules: modules}
}

func TestDiscoverRejectsMissingManifest(t *testing.T) {
	h := newHarness(t)
	writeModuleFile(t, h.dir, "good.so", `junk <<pulseboard:extension>>{"name":"good","version":"1"}<<pulseboard:end>> junk`)
	writeModuleFile(t, h.dir, "bad.so", "no manifest here")
	writeModuleFile(t, h.dir, "ignored.txt", "wrong suffix")

	h.svc.Discover(context.Background())

	list := h.svc.List()
	if len(list) != 1 {
		t.Fatalf("expected exactly one registration, got %d", len(list))
	}
	if list[0].Manifest.Name != "good" {
		t.Fatalf("registered = %+v", list[0])
	}
	if list[0].State != domain.StateDiscovered {
		t.Fatalf("fresh module should be discovered, got %s", list[0].State)
	}
}

func TestFreshModuleStateTransitions(t *testing.T) {
	h := newHarness(t)
	path := writeModuleFile(t, h.dir, "a.so", `<<pulseboard:extension>>{"name":"a","version":"1"}<<pulseboard:end>>`)
	h.modules[path] = &fakeModule{surfaceID: "s"}

	h.svc.Discover(context.Background())

	if got := h.svc.List()[0].State; got != domain.StateDiscovered {
		t.Fatalf("after discovery: state = %s, want discovered", got)
	}

	if err := h.svc.SetEnabled(context.Background(), path, false); err != nil {
		t.Fatal(err)
	}
	if got := h.svc.List()[0].State; got != domain.StateDisabled {
		t.Fatalf("after explicit disable: state = %s, want disabled", got)
	}
}

func TestEnableLoadsAndDisableTearsDown(t *testing.T) {
	h := newHarness(t)
	path := writeModuleFile(t, h.dir, "a.so", `<<pulseboard:extension>>{"name":"a","version":"1"}<<pulseboard:end>>`)
	mod := &fakeModule{surfaceID: "a-tab"}
	h.modules[path] = mod

	h.svc.Discover(context.Background())

	if err := h.svc.SetEnabled(context.Background(), path, true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if got := h.svc.List()[0].State; got != domain.StateActive {
		t.Fatalf("state = %s, want active", got)
	}
	if entry, _ := h.cfg.Get(path); !entry.Enabled {
		t.Fatalf("toggle must be persisted")
	}
	if len(h.hub.byEvent(domain.WsEventSurfaceCreated)) != 1 {
		t.Fatalf("surface should be created on init")
	}

	if err := h.svc.SetEnabled(context.Background(), path, false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if got := h.svc.List()[0].State; got != domain.StateDisabled {
		t.Fatalf("state = %s, want disabled", got)
	}
	if mod.disposes != 1 {
		t.Fatalf("dispose calls = %d, want 1", mod.disposes)
	}
	if len(h.hub.byEvent(domain.WsEventSurfaceRemoved)) != 1 {
		t.Fatalf("surface should be torn down on disable")
	}
}

func TestToggleOffOnMatchesReloadForActiveSet(t *testing.T) {
	h := newHarness(t)
	path := writeModuleFile(t, h.dir, "a.so", `<<pulseboard:extension>>{"name":"a","version":"1"}<<pulseboard:end>>`)
	h.modules[path] = &fakeModule{surfaceID: "s"}

	h.svc.Discover(context.Background())
	ctx := context.Background()

	if err := h.svc.SetEnabled(ctx, path, true); err != nil {
		t.Fatal(err)
	}
	if err := h.svc.SetEnabled(ctx, path, false); err != nil {
		t.Fatal(err)
	}
	if err := h.svc.SetEnabled(ctx, path, true); err != nil {
		t.Fatal(err)
	}
	afterToggle := h.svc.List()[0].State

	if err := h.svc.Reload(ctx, path); err != nil {
		t.Fatal(err)
	}
	afterReload := h.svc.List()[0].State

	if afterToggle != domain.StateActive || afterReload != domain.StateActive {
		t.Fatalf("toggle cycle = %s, reload = %s, both should be active", afterToggle, afterReload)
	}
}

func TestLoadFailureStaysEnabledAndIsolated(t *testing.T) {
	h := newHarness(t)
	bad := writeModuleFile(t, h.dir, "bad.so", `<<pulseboard:extension>>{"name":"bad","version":"1"}<<pulseboard:end>>`)
	good := writeModuleFile(t, h.dir, "good.so", `<<pulseboard:extension>>{"name":"good","version":"1"}<<pulseboard:end>>`)
	badMod := &fakeModule{initErr: errors.New("boom")}
	h.modules[bad] = badMod
	h.modules[good] = &fakeModule{surfaceID: "g"}

	h.svc.Discover(context.Background())
	ctx := context.Background()

	if err := h.svc.SetEnabled(ctx, bad, true); err == nil {
		t.Fatalf("expected load error")
	}
	if err := h.svc.SetEnabled(ctx, good, true); err != nil {
		t.Fatalf("one module's failure must not affect another: %v", err)
	}

	var badInfo, goodInfo domain.ExtensionInfo
	for _, info := range h.svc.List() {
		switch info.Manifest.Name {
		case "bad":
			badInfo = info
		case "good":
			goodInfo = info
		}
	}

	if badInfo.State != domain.StateLoadFailed {
		t.Fatalf("bad state = %s", badInfo.State)
	}
	if !badInfo.Enabled {
		t.Fatalf("failed module must stay enabled in config for retry")
	}
	if badInfo.LastError == "" {
		t.Fatalf("load error should be recorded")
	}
	if goodInfo.State != domain.StateActive {
		t.Fatalf("good state = %s", goodInfo.State)
	}
	if len(h.hub.byEvent(domain.WsEventNotification)) == 0 {
		t.Fatalf("operator should be notified of the load failure")
	}

	// explicit reload retries: let it succeed this time
	badMod.initErr = nil
	if err := h.svc.Reload(ctx, bad); err != nil {
		t.Fatalf("reload retry: %v", err)
	}
}

func TestDeleteUnloadsBeforeErasing(t *testing.T) {
	h := newHarness(t)
	path := writeModuleFile(t, h.dir, "a.so", `<<pulseboard:extension>>{"name":"a","version":"1"}<<pulseboard:end>>`)
	mod := &fakeModule{surfaceID: "a-tab"}
	h.modules[path] = mod

	h.svc.Discover(context.Background())
	if err := h.svc.SetEnabled(context.Background(), path, true); err != nil {
		t.Fatal(err)
	}

	if err := h.svc.Delete(path); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if mod.disposes != 1 {
		t.Fatalf("active module must be unloaded first")
	}
	if len(h.hub.byEvent(domain.WsEventSurfaceRemoved)) != 1 {
		t.Fatalf("surface must be removed before erasure")
	}
	if len(h.svc.List()) != 0 {
		t.Fatalf("registry entry should be gone")
	}
	if _, ok := h.cfg.Get(path); ok {
		t.Fatalf("config entry should be gone")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("module file should be gone")
	}
}

func TestDiscoverLoadsEnabledFromConfig(t *testing.T) {
	h := newHarness(t)
	path := writeModuleFile(t, h.dir, "a.so", `<<pulseboard:extension>>{"name":"a","version":"1"}<<pulseboard:end>>`)
	h.modules[path] = &fakeModule{surfaceID: "s"}

	if err := h.cfg.SetEnabled(path, true); err != nil {
		t.Fatal(err)
	}

	h.svc.Discover(context.Background())

	if got := h.svc.List()[0].State; got != domain.StateActive {
		t.Fatalf("enabled module should be active after discovery, got %s", got)
	}
}

func TestConcurrentEnablesInitializeOnce(t *testing.T) {
	h := newHarness(t)
	path := writeModuleFile(t, h.dir, "a.so", `<<pulseboard:extension>>{"name":"a","version":"1"}<<pulseboard:end>>`)
	gate := make(chan struct{})
	mod := &fakeModule{surfaceID: "slow", initGate: gate}
	h.modules[path] = mod

	h.svc.Discover(context.Background())
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := h.svc.SetEnabled(ctx, path, true); err != nil {
				t.Errorf("enable: %v", err)
			}
		}()
	}

	// let both calls reach the service before Init is allowed to finish
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	if got := mod.initCount(); got != 1 {
		t.Fatalf("init calls = %d, want 1", got)
	}
	if len(h.hub.byEvent(domain.WsEventSurfaceCreated)) != 1 {
		t.Fatalf("exactly one surface should exist")
	}

	if err := h.svc.SetEnabled(ctx, path, false); err != nil {
		t.Fatal(err)
	}
	if mod.disposes != 1 {
		t.Fatalf("dispose calls = %d, want 1", mod.disposes)
	}
	if len(h.hub.byEvent(domain.WsEventSurfaceRemoved)) != 1 {
		t.Fatalf("the one surface should be torn down, nothing orphaned")
	}
}

func TestInstallRegistersLateModule(t *testing.T) {
	h := newHarness(t)
	h.svc.Discover(context.Background())

	if len(h.svc.List()) != 0 {
		t.Fatalf("directory starts empty")
	}

	writeModuleFile(t, h.dir, "late.so", `<<pulseboard:extension>>{"name":"late","version":"1"}<<pulseboard:end>>`)
	if err := h.svc.Install("late.so"); err != nil {
		t.Fatalf("install: %v", err)
	}

	list := h.svc.List()
	if len(list) != 1 || list[0].Manifest.Name != "late" {
		t.Fatalf("list = %+v", list)
	}
	if list[0].State != domain.StateDiscovered {
		t.Fatalf("installed module should be discovered, got %s", list[0].State)
	}

	if err := h.svc.Install("missing.so"); err == nil {
		t.Fatalf("installing a missing file must fail")
	}
}

func TestInstallResolvesInsideDirectoryOnly(t *testing.T) {
	h := newHarness(t)
	outside := writeModuleFile(t, t.TempDir(), "outside.so", `<<pulseboard:extension>>{"name":"outside","version":"1"}<<pulseboard:end>>`)

	if err := h.svc.Install(outside); err == nil {
		t.Fatalf("a path outside the extension directory must not resolve")
	}
	if len(h.svc.List()) != 0 {
		t.Fatalf("nothing should be registered")
	}
}
