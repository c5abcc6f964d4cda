package rest

import (
	"net/http"

	"pulseboard/internal/core/history"
	"pulseboard/internal/domain"
	"pulseboard/internal/storage/snapshot"
)

type MetricsHandler struct {
	store   *snapshot.MetricsStore
	history *history.Window[domain.Snapshot]
	host    domain.HostInfo
}

func NewMetricsHandler(store *snapshot.MetricsStore, hist *history.Window[domain.Snapshot], host domain.HostInfo) *MetricsHandler {
	return &MetricsHandler{
		store:   store,
		history: hist,
		host:    host,
	}
}

// Latest serves the most recent snapshot, with the static host facts in meta.
// Before the first tick completes there is no snapshot to serve.
func (h *MetricsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.store.Latest()
	if !ok {
		JSONError(w, http.StatusServiceUnavailable, "No metrics sampled yet")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    snap,
		Meta:    h.host,
	})
}

// History serves the retained snapshot window, oldest first.
func (h *MetricsHandler) History(w http.ResponseWriter, r *http.Request) {
	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    h.history.Items(),
	})
}
