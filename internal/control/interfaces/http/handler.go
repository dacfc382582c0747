package controlhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	controlapp "ecocore-cloud/internal/control/application"
	control "ecocore-cloud/internal/control/domain"
)

// OverrideHandler accepts manual override commands.
type OverrideHandler struct {
	service *controlapp.Service
	logger  *log.Logger
}

// NewOverrideHandler constructs an override handler.
func NewOverrideHandler(service *controlapp.Service, logger *log.Logger) (*OverrideHandler, error) {
	if service == nil {
		return nil, errors.New("override handler: nil service")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &OverrideHandler{service: service, logger: logger}, nil
}

// ServeHTTP handles POST /api/control/override.
func (h *OverrideHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var cmd control.OverrideCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.logger.Printf("override: decode error: %v", err)
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	cmd.Normalize()
	alert, err := h.service.Override(r.Context(), cmd)
	if err != nil {
		h.logger.Printf("override: reject: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := map[string]any{
		"status":       "success",
		"message":      fmt.Sprintf("Command %s sent to %s Controller.", cmd.Action, cmd.Utility),
		"override_log": alert,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
