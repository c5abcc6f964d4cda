package rest

import (
	"net/http"

	"pulseboard/internal/core/process"
	"pulseboard/internal/logger"
	"pulseboard/internal/storage/snapshot"
)

type ProcessHandler struct {
	lister *process.Lister
	store  *snapshot.ProcessStore
	log    logger.Logger
}

func NewProcessHandler(lister *process.Lister, store *snapshot.ProcessStore, log logger.Logger) *ProcessHandler {
	return &ProcessHandler{
		lister: lister,
		store:  store,
		log:    log,
	}
}

// Index lists processes on demand. The result is also cached so extension
// modules see the same listing the dashboard last showed.
func (h *ProcessHandler) Index(w http.ResponseWriter, r *http.Request) {
	list, err := h.lister.List(r.Context())
	if err != nil {
		h.log.Error("processes: listing failed", "error", err)
		JSONError(w, http.StatusInternalServerError, "Failed to list processes")
		return
	}

	h.store.Set(list)

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    list,
	})
}
