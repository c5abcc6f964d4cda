package rest

import (
	"net/http"

	"pulseboard/internal/core/history"
	"pulseboard/internal/domain"
)

type EventsHandler struct {
	ring *history.Window[domain.FileSystemEvent]
}

func NewEventsHandler(ring *history.Window[domain.FileSystemEvent]) *EventsHandler {
	return &EventsHandler{ring: ring}
}

// Index serves the retained filesystem events, oldest first.
func (h *EventsHandler) Index(w http.ResponseWriter, r *http.Request) {
	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    h.ring.Items(),
	})
}
