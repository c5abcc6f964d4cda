package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"pulseboard/internal/core/extension"
	"pulseboard/internal/domain"
	"pulseboard/internal/logger"
)

type ExtensionHandler struct {
	svc *extension.Service
	log logger.Logger
}

func NewExtensionHandler(svc *extension.Service, log logger.Logger) *ExtensionHandler {
	return &ExtensionHandler{svc: svc, log: log}
}

type extensionToggleRequest struct {
	Path    string `json:"path" validate:"required"`
	Enabled *bool  `json:"enabled" validate:"required"`
}

type extensionPathRequest struct {
	Path string `json:"path" validate:"required"`
}

type extensionInstallRequest struct {
	Name string `json:"name" validate:"required"`
}

// Install registers a module file already dropped into the extension
// directory, without a restart. The module starts out discovered; enabling
// it is a separate toggle.
func (h *ExtensionHandler) Install(w http.ResponseWriter, r *http.Request) {
	var req extensionInstallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}
	if req.Name != filepath.Base(req.Name) || !strings.HasSuffix(req.Name, ".so") {
		JSONValidationError(w, map[string]string{
			"name": "The name must be a bare *.so file name.",
		})
		return
	}

	if err := h.svc.Install(req.Name); err != nil {
		h.writeServiceError(w, req.Name, err)
		return
	}

	JSONSuccess(w, http.StatusCreated, APIResponse{
		Message: "Extension installed.",
		Data:    h.svc.List(),
	})
}

func (h *ExtensionHandler) Index(w http.ResponseWriter, r *http.Request) {
	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    h.svc.List(),
	})
}

// Toggle enables or disables a module. The preference is persisted even when
// activating the module fails, so the failure is reported but the choice
// survives a restart.
func (h *ExtensionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req extensionToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	if err := h.svc.SetEnabled(r.Context(), req.Path, *req.Enabled); err != nil {
		h.writeServiceError(w, req.Path, err)
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    h.svc.List(),
	})
}

func (h *ExtensionHandler) Reload(w http.ResponseWriter, r *http.Request) {
	var req extensionPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	if err := h.svc.Reload(r.Context(), req.Path); err != nil {
		h.writeServiceError(w, req.Path, err)
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    h.svc.List(),
	})
}

func (h *ExtensionHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	var req extensionPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	if err := h.svc.Delete(req.Path); err != nil {
		h.writeServiceError(w, req.Path, err)
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "Extension removed.",
		Data:    h.svc.List(),
	})
}

func (h *ExtensionHandler) writeServiceError(w http.ResponseWriter, path string, err error) {
	switch {
	case errors.Is(err, domain.ErrExtensionNotFound):
		JSONError(w, http.StatusNotFound, "Extension not found")
	case errors.Is(err, os.ErrNotExist):
		JSONError(w, http.StatusNotFound, "Extension file not found")
	case errors.Is(err, domain.ErrManifestMissing), errors.Is(err, domain.ErrManifestInvalid):
		JSONError(w, http.StatusUnprocessableEntity, "Extension manifest is invalid")
	default:
		h.log.Error("extensions: operation failed", "path", path, "error", err)
		JSONError(w, http.StatusInternalServerError, "Extension operation failed")
	}
}
