package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/utils"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/services"
)

// AdminHandler exposes runtime operating settings.
type AdminHandler struct {
	settings *services.SettingsService
	logger   *logger.Logger
}

func NewAdminHandler(settings *services.SettingsService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{settings: settings, logger: log}
}

// GetSettings returns the current operating settings.
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, h.settings.Get(r.Context()))
}

// UpdateSettings applies a partial settings update. Fields omitted
// from the body keep their current values.
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var u services.SettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	settings, err := h.settings.Update(r.Context(), u)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, settings)
}
