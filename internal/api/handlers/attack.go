package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/api/dto"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/utils"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/validator"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/services"
)

// AttackHandler exposes red-team tooling: ad-hoc attack injection,
// the scenario catalog and the coverage report.
type AttackHandler struct {
	attacks   *services.AttackService
	logger    *logger.Logger
	validator *validator.Validator
}

func NewAttackHandler(attacks *services.AttackService, log *logger.Logger, val *validator.Validator) *AttackHandler {
	return &AttackHandler{attacks: attacks, logger: log, validator: val}
}

// Simulate generates attack telemetry for one sector and runs it
// through detection.
func (h *AttackHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req dto.SimulateAttackRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	result, err := h.attacks.Simulate(r.Context(), telemetry.Sector(req.Sector), req.AttackType, req.NumSamples)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, result)
}

// Scenarios lists the named multi-stage exercises.
func (h *AttackHandler) Scenarios(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, h.attacks.Scenarios())
}

// RunScenario executes one catalog scenario end to end.
func (h *AttackHandler) RunScenario(w http.ResponseWriter, r *http.Request) {
	result, err := h.attacks.RunScenario(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, result)
}

// Report aggregates every executed scenario into coverage numbers.
func (h *AttackHandler) Report(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, h.attacks.Report(r.Context()))
}
