package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/api/dto"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/alert"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/detection"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/utils"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/validator"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/services"
)

// AlertHandler exposes the alert lifecycle.
type AlertHandler struct {
	alerts    *services.AlertService
	logger    *logger.Logger
	validator *validator.Validator
}

func NewAlertHandler(alerts *services.AlertService, log *logger.Logger, val *validator.Validator) *AlertHandler {
	return &AlertHandler{alerts: alerts, logger: log, validator: val}
}

// List returns active alerts, newest first, optionally filtered by
// severity and sector.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := alert.Filter{Limit: utils.ParseLimit(r, utils.DefaultListLimit)}

	if raw := r.URL.Query().Get("severity"); raw != "" {
		sev, ok := detection.ParseSeverity(raw)
		if !ok {
			utils.WriteError(w, errors.BadRequest(fmt.Sprintf("unknown severity %q", raw)))
			return
		}
		filter.Severity = sev
	}
	if raw := r.URL.Query().Get("sector"); raw != "" {
		sector, ok := telemetry.ParseSector(raw)
		if !ok {
			utils.WriteError(w, errors.BadRequest(fmt.Sprintf("unknown sector %q", raw)))
			return
		}
		filter.Sector = sector
	}

	utils.WriteSuccess(w, http.StatusOK, h.alerts.ListActive(r.Context(), filter))
}

// Acknowledged returns alerts someone is already working, newest first.
func (h *AlertHandler) Acknowledged(w http.ResponseWriter, r *http.Request) {
	limit := utils.ParseLimit(r, utils.DefaultListLimit)
	utils.WriteSuccess(w, http.StatusOK, h.alerts.ListAcknowledged(r.Context(), limit))
}

// Statistics returns the lifecycle rollup.
func (h *AlertHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, h.alerts.Statistics(r.Context()))
}

// Acknowledge marks an alert as being worked.
func (h *AlertHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	var req dto.AcknowledgeAlertRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	a, err := h.alerts.Acknowledge(r.Context(), chi.URLParam(r, "id"), req.AcknowledgedBy)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, a)
}

// Resolve closes an alert with optional notes.
func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req dto.ResolveAlertRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	a, err := h.alerts.Resolve(r.Context(), chi.URLParam(r, "id"), req.ResolvedBy, req.Notes)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, a)
}
