package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"pulseboard/internal/cmdexec"
	"pulseboard/internal/config"
	"pulseboard/internal/core"
	"pulseboard/internal/core/auth"
	"pulseboard/internal/core/extension"
	"pulseboard/internal/core/history"
	"pulseboard/internal/core/metrics"
	"pulseboard/internal/core/process"
	"pulseboard/internal/core/watcher"
	"pulseboard/internal/domain"
	"pulseboard/internal/event"
	"pulseboard/internal/logger"
	"pulseboard/internal/settings"
	"pulseboard/internal/storage/snapshot"
	"pulseboard/internal/storage/sqlite"
	"pulseboard/internal/transport/rest"
	"pulseboard/internal/transport/websocket"
)

const (
	metricsHistorySize = 20
	fsEventRingSize    = 100
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.New(cfg)

	metricsStore := snapshot.NewMetricsStore()
	processStore := snapshot.NewProcessStore()
	metricsHistory := history.NewWindow[domain.Snapshot](metricsHistorySize)
	fsRing := history.NewWindow[domain.FileSystemEvent](fsEventRingSize)

	hub := websocket.NewHub(ctx, log)
	go hub.Run()
	defer hub.Stop()

	sampler := metrics.NewSampler(log)
	sched := core.NewScheduler(log, sampler.Sample, func(snap domain.Snapshot) {
		metricsStore.Set(snap)
		metricsHistory.Push(snap)
		hub.Broadcast(domain.WsChannelMetrics, domain.WsEventMetricsUpdated, snap)
	})
	defer sched.Stop()

	hostInfo, err := metrics.CollectHostInfo(ctx)
	if err != nil {
		log.Warn("host info unavailable", "error", err)
	}

	settingsStore := settings.NewStore(cfg.DataDir, log)
	extensionCfg := settings.NewExtensionStore(cfg.DataDir, log)

	if settingsStore.Get().AutoStart {
		sched.Start(ctx, cfg.Interval)
	}

	db, err := sqlite.NewSqliteDB(cfg.DBPath, log)
	if err != nil {
		log.Error("sqlite: connect failed", "error", err)
		return
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("sqlite: close failed", "error", err)
		}
	}()

	userRepo := sqlite.NewUserRepository(db)
	storageRepo := sqlite.NewExtensionStorageRepository(db)
	authService := auth.NewService(userRepo, cfg)

	bus := event.New()
	lister := process.NewLister()

	extensions := extension.NewService(extension.Deps{
		Dir:       cfg.ExtensionsDir,
		Config:    extensionCfg,
		Hub:       hub,
		Metrics:   metricsStore,
		Processes: processStore,
		Settings:  settingsStore,
		Storage:   storageRepo,
		Bus:       bus,
		Runner:    cmdexec.Default(),
		Log:       log,
	})
	extensions.Discover(ctx)
	defer extensions.Shutdown()

	watch := newWatchRunner(log, func(ev domain.FileSystemEvent) {
		fsRing.Push(ev)
		hub.Broadcast(domain.WsChannelFilesystem, domain.WsEventFilesystemChanged, ev)
		bus.Publish(domain.WsEventFilesystemChanged, ev)
	})
	watch.Reset(settingsStore.Get().WatchPaths)
	defer watch.Close()

	// Settings writes take effect without a restart.
	unsubscribe := bus.Subscribe(settings.TopicUpdated, func(payload any) {
		next, ok := payload.(domain.Settings)
		if !ok {
			return
		}
		watch.Reset(next.WatchPaths)
		if next.AutoStart && !sched.Running() {
			sched.Start(ctx, cfg.Interval)
		}
		if !next.AutoStart {
			sched.Stop()
		}
	})
	defer unsubscribe()

	router := rest.NewRouter(cfg, &rest.RouterDeps{
		Ws:        websocket.NewHandler(hub, cfg, log),
		Auth:      rest.NewAuthHandler(authService, cfg),
		Metrics:   rest.NewMetricsHandler(metricsStore, metricsHistory, hostInfo),
		Process:   rest.NewProcessHandler(lister, processStore, log),
		Events:    rest.NewEventsHandler(fsRing),
		Settings:  rest.NewSettingsHandler(settingsStore, bus, log),
		Extension: rest.NewExtensionHandler(extensions, log),
	})

	srv := rest.NewServer(router, cfg.Address)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", "address", cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http server shutdown error", "error", err)
		}

	case err := <-errCh:
		log.Error("http server error", "error", err)
	}

	log.Info("server stopped")
}

// watchRunner swaps the filesystem watcher when the watch path set changes.
// The old watcher is closed before the new one starts so each path is
// reported by at most one watcher.
type watchRunner struct {
	log  logger.Logger
	sink func(domain.FileSystemEvent)

	mu    sync.Mutex
	cur   *watcher.Service
	roots []string
}

func newWatchRunner(log logger.Logger, sink func(domain.FileSystemEvent)) *watchRunner {
	return &watchRunner{log: log, sink: sink}
}

func (r *watchRunner) Reset(roots []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Equal(roots, r.roots) {
		return
	}

	r.closeLocked()
	r.roots = slices.Clone(roots)

	if len(roots) == 0 {
		return
	}

	svc, err := watcher.New(roots, r.log)
	if err != nil {
		r.log.Error("watcher: start failed", "error", err)
		return
	}
	svc.Start()
	r.cur = svc

	go func() {
		for ev := range svc.Events() {
			r.sink(ev)
		}
	}()
}

func (r *watchRunner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked()
}

func (r *watchRunner) closeLocked() {
	if r.cur == nil {
		return
	}
	if err := r.cur.Close(); err != nil {
		r.log.Warn("watcher: close failed", "error", err)
	}
	r.cur = nil
}
