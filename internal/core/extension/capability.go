package extension

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"pulseboard/internal/cmdexec"
	"pulseboard/internal/domain"
	"pulseboard/internal/event"
	"pulseboard/internal/logger"
)

type MetricsSource interface {
	Latest() (domain.Snapshot, bool)
}

type ProcessSource interface {
	Latest() []domain.ProcessInfo
}

type SettingsSource interface {
	Get() domain.Settings
}

// hostAPI is the concrete capability object handed to one module. It tracks
// the surfaces and bus subscriptions it granted so the host can tear them
// down when the module goes away.
type hostAPI struct {
	owner    string
	manifest domain.Manifest

	hub       Broadcaster
	metrics   MetricsSource
	processes ProcessSource
	settings  SettingsSource
	storage   StorageRepo
	bus       *event.Bus
	runner    cmdexec.Runner
	log       logger.Logger

	mu       sync.Mutex
	surfaces map[string]bool
	unsubs   []func()
	closed   bool
}

func newHostAPI(manifest domain.Manifest, deps *Deps) *hostAPI {
	return &hostAPI{
		owner:     manifest.Name,
		manifest:  manifest,
		hub:       deps.Hub,
		metrics:   deps.Metrics,
		processes: deps.Processes,
		settings:  deps.Settings,
		storage:   deps.Storage,
		bus:       deps.Bus,
		runner:    deps.Runner,
		log:       deps.Log.With("extension", manifest.Name),
	}
}

func (a *hostAPI) CreateSurface(id, title, icon string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return fmt.Errorf("extension %s is not active", a.owner)
	}
	if a.surfaces == nil {
		a.surfaces = make(map[string]bool)
	}
	a.surfaces[id] = true

	a.hub.Broadcast(domain.WsChannelExtensions, domain.WsEventSurfaceCreated, domain.Surface{
		ID:    id,
		Owner: a.owner,
		Title: title,
		Icon:  icon,
	})
	return nil
}

func (a *hostAPI) RemoveSurface(id string) {
	a.mu.Lock()
	delete(a.surfaces, id)
	a.mu.Unlock()

	a.hub.Broadcast(domain.WsChannelExtensions, domain.WsEventSurfaceRemoved, domain.Surface{
		ID:    id,
		Owner: a.owner,
	})
}

func (a *hostAPI) Notify(message string, severity domain.NotificationSeverity) {
	a.hub.Broadcast(domain.WsChannelExtensions, domain.WsEventNotification, domain.Notification{
		ID:       uuid.New(),
		Source:   a.owner,
		Message:  message,
		Severity: severity,
		SentAt:   time.Now().UnixMilli(),
	})
}

func (a *hostAPI) CurrentMetrics() (domain.Snapshot, bool) {
	return a.metrics.Latest()
}

func (a *hostAPI) CurrentProcesses() []domain.ProcessInfo {
	return a.processes.Latest()
}

func (a *hostAPI) CurrentSettings() domain.Settings {
	return a.settings.Get()
}

func (a *hostAPI) StorageGet(key string) (string, error) {
	return a.storage.Get(context.Background(), a.owner, key)
}

func (a *hostAPI) StorageSet(key, value string) error {
	return a.storage.Set(context.Background(), a.owner, key, value)
}

func (a *hostAPI) Subscribe(eventName string, handler func(payload any)) func() {
	unsub := a.bus.Subscribe(eventName, handler)

	a.mu.Lock()
	a.unsubs = append(a.unsubs, unsub)
	a.mu.Unlock()

	return unsub
}

func (a *hostAPI) Publish(eventName string, payload any) {
	a.bus.Publish(eventName, payload)
}

func (a *hostAPI) BuildCard(title, body string) string {
	return fmt.Sprintf(`<div class="pb-card"><h3>%s</h3><div>%s</div></div>`,
		template.HTMLEscapeString(title), template.HTMLEscapeString(body))
}

func (a *hostAPI) BuildButton(label, action string) string {
	return fmt.Sprintf(`<button class="pb-btn" data-action="%s">%s</button>`,
		template.HTMLEscapeString(action), template.HTMLEscapeString(label))
}

func (a *hostAPI) BuildChart(targetID, series string) string {
	return fmt.Sprintf(`<canvas class="pb-chart" id="%s" data-series="%s"></canvas>`,
		template.HTMLEscapeString(targetID), template.HTMLEscapeString(series))
}

func (a *hostAPI) RunCommand(ctx context.Context, name string, args ...string) (string, error) {
	if !a.manifest.HasPermission(domain.PermExec) {
		return "", fmt.Errorf("%w: %s", domain.ErrPermissionDenied, domain.PermExec)
	}
	a.log.Info("extension running command", "command", name)
	out, err := a.runner.CombinedOutput(ctx, name, args...)
	return string(out), err
}

func (a *hostAPI) ReadFile(path string) ([]byte, error) {
	if !a.manifest.HasPermission(domain.PermFiles) {
		return nil, fmt.Errorf("%w: %s", domain.ErrPermissionDenied, domain.PermFiles)
	}
	return os.ReadFile(path)
}

func (a *hostAPI) WriteFile(path string, data []byte) error {
	if !a.manifest.HasPermission(domain.PermFiles) {
		return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, domain.PermFiles)
	}
	return os.WriteFile(path, data, 0o644)
}

// teardown removes every surface the module created and drops its bus
// subscriptions. Timers the module started internally are its own business.
func (a *hostAPI) teardown() {
	a.mu.Lock()
	surfaces := make([]string, 0, len(a.surfaces))
	for id := range a.surfaces {
		surfaces = append(surfaces, id)
	}
	unsubs := a.unsubs
	a.surfaces = nil
	a.unsubs = nil
	a.closed = true
	a.mu.Unlock()

	for _, id := range surfaces {
		a.hub.Broadcast(domain.WsChannelExtensions, domain.WsEventSurfaceRemoved, domain.Surface{
			ID:    id,
			Owner: a.owner,
		})
	}
	for _, unsub := range unsubs {
		unsub()
	}
}
