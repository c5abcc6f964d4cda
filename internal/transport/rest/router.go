// Package rest
package rest

import (
	"net/http"

	"pulseboard/internal/config"
	"pulseboard/internal/transport/rest/middleware"
	"pulseboard/internal/transport/websocket"
)

type RouterDeps struct {
	Ws        *websocket.Handler
	Auth      *AuthHandler
	Metrics   *MetricsHandler
	Process   *ProcessHandler
	Events    *EventsHandler
	Settings  *SettingsHandler
	Extension *ExtensionHandler
}

func NewRouter(cfg *config.Config, deps *RouterDeps) http.Handler {
	mux := http.NewServeMux()

	globalMw := middleware.New()
	globalMw.Use(middleware.CORS(cfg))

	userStack := middleware.New()
	userStack.Use(middleware.JWT(cfg))

	// HEALTH
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// WEBSOCKET
	mux.HandleFunc("GET /ws", deps.Ws.Serve)

	// AUTH
	mux.HandleFunc("POST /auth/register", deps.Auth.Register)
	mux.HandleFunc("POST /auth/login", deps.Auth.Login)
	mux.Handle("POST /auth/logout", userStack.ThenFunc(deps.Auth.Logout))

	// METRICS
	mux.Handle("GET /metrics", userStack.ThenFunc(deps.Metrics.Latest))
	mux.Handle("GET /metrics/history", userStack.ThenFunc(deps.Metrics.History))

	// PROCESSES
	mux.Handle("GET /processes", userStack.ThenFunc(deps.Process.Index))

	// FILESYSTEM EVENTS
	mux.Handle("GET /events", userStack.ThenFunc(deps.Events.Index))

	// SETTINGS
	mux.Handle("GET /settings", userStack.ThenFunc(deps.Settings.Show))
	mux.Handle("PUT /settings", userStack.ThenFunc(deps.Settings.Update))

	// EXTENSIONS
	mux.Handle("GET /extensions", userStack.ThenFunc(deps.Extension.Index))
	mux.Handle("POST /extensions/install", userStack.ThenFunc(deps.Extension.Install))
	mux.Handle("POST /extensions/toggle", userStack.ThenFunc(deps.Extension.Toggle))
	mux.Handle("POST /extensions/reload", userStack.ThenFunc(deps.Extension.Reload))
	mux.Handle("POST /extensions/delete", userStack.ThenFunc(deps.Extension.Destroy))

	return globalMw.Apply(mux)
}
