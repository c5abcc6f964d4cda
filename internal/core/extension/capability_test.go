package extension

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pulseboard/internal/cmdexec"
	"pulseboard/internal/domain"
	"pulseboard/internal/event"
	"pulseboard/internal/logger"
)

func newTestAPI(t *testing.T, permissions []string) (*hostAPI, *fakeHub, *event.Bus) {
	t.Helper()
	hub := &fakeHub{}
	bus := event.New()
	api := newHostAPI(domain.Manifest{
		Name:        "test-ext",
		Version:     "1",
		Permissions: permissions,
	}, &Deps{
		Hub:       hub,
		Metrics:   fakeMetrics{},
		Processes: fakeProcesses{},
		Settings:  fakeSettings{},
		Storage:   newMemStorage(),
		Bus:       bus,
		Runner:    cmdexec.Default(),
		Log:       logger.Nop(),
	})
	return api, hub, bus
}

func TestRunCommandRequiresExecPermission(t *testing.T) {
	api, _, _ := newTestAPI(t, nil)

	if _, err := api.RunCommand(context.Background(), "echo", "hi"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("err = %v, want permission denied", err)
	}

	granted, _, _ := newTestAPI(t, []string{domain.PermExec})
	out, err := granted.RunCommand(context.Background(), "echo", "hi")
	if err != nil {
		t.Fatalf("granted run: %v", err)
	}
	if strings.TrimSpace(out) != "hi" {
		t.Fatalf("out = %q", out)
	}
}

func TestFileOpsRequireFilesPermission(t *testing.T) {
	api, _, _ := newTestAPI(t, nil)

	if _, err := api.ReadFile("/etc/hostname"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("read err = %v, want permission denied", err)
	}
	if err := api.WriteFile("/tmp/x", nil); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("write err = %v, want permission denied", err)
	}
}

func TestStorageIsScopedToModule(t *testing.T) {
	storage := newMemStorage()
	deps := &Deps{
		Hub: &fakeHub{}, Metrics: fakeMetrics{}, Processes: fakeProcesses{},
		Settings: fakeSettings{}, Storage: storage, Bus: event.New(),
		Runner: cmdexec.Default(), Log: logger.Nop(),
	}

	a := newHostAPI(domain.Manifest{Name: "a", Version: "1"}, deps)
	b := newHostAPI(domain.Manifest{Name: "b", Version: "1"}, deps)

	if err := a.StorageSet("color", "red"); err != nil {
		t.Fatal(err)
	}
	if got, _ := a.StorageGet("color"); got != "red" {
		t.Fatalf("a.color = %q", got)
	}
	if got, _ := b.StorageGet("color"); got != "" {
		t.Fatalf("b must not see a's keys, got %q", got)
	}
}

func TestBuildersEscapeHTML(t *testing.T) {
	api, _, _ := newTestAPI(t, nil)

	card := api.BuildCard(`<script>`, `"quoted"`)
	if strings.Contains(card, "<script>") {
		t.Fatalf("card not escaped: %s", card)
	}
	button := api.BuildButton("<b>", "act")
	if strings.Contains(button, "<b>") {
		t.Fatalf("button not escaped: %s", button)
	}
}

func TestTeardownRemovesSurfacesAndSubscriptions(t *testing.T) {
	api, hub, bus := newTestAPI(t, nil)

	if err := api.CreateSurface("tab1", "Tab", ""); err != nil {
		t.Fatal(err)
	}
	delivered := 0
	api.Subscribe("custom.event", func(any) { delivered++ })

	api.teardown()

	if len(hub.byEvent(domain.WsEventSurfaceRemoved)) != 1 {
		t.Fatalf("surface should be removed on teardown")
	}
	bus.Publish("custom.event", nil)
	if delivered != 0 {
		t.Fatalf("subscription should be dropped on teardown")
	}
	if err := api.CreateSurface("tab2", "Tab", ""); err == nil {
		t.Fatalf("closed capability must reject new surfaces")
	}
}
