package rest

import (
	"encoding/json"
	"net/http"

	"pulseboard/internal/domain"
	"pulseboard/internal/event"
	"pulseboard/internal/logger"
	"pulseboard/internal/settings"
)

type SettingsHandler struct {
	store *settings.Store
	bus   *event.Bus
	log   logger.Logger
}

func NewSettingsHandler(store *settings.Store, bus *event.Bus, log logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		store: store,
		bus:   bus,
		log:   log,
	}
}

func (h *SettingsHandler) Show(w http.ResponseWriter, r *http.Request) {
	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    h.store.Get(),
	})
}

// Update replaces the settings document wholesale and announces the change
// so dependent subsystems can reconfigure.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var next domain.Settings
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if next.Theme != "dark" && next.Theme != "light" {
		JSONValidationError(w, map[string]string{
			"theme": "The theme must be one of: dark light.",
		})
		return
	}

	if err := h.store.Put(next); err != nil {
		h.log.Error("settings: save failed", "error", err)
		JSONError(w, http.StatusInternalServerError, "Failed to persist settings")
		return
	}

	h.bus.Publish(settings.TopicUpdated, next)

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "Settings saved.",
		Data:    next,
	})
}
