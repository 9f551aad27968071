package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/api/dto"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/utils"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/validator"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/services"
)

// DetectionHandler exposes model training and batch scoring.
type DetectionHandler struct {
	pipeline  *services.PipelineService
	logger    *logger.Logger
	validator *validator.Validator
}

func NewDetectionHandler(pipeline *services.PipelineService, log *logger.Logger, val *validator.Validator) *DetectionHandler {
	return &DetectionHandler{pipeline: pipeline, logger: log, validator: val}
}

// Train fits a sector's detectors on generated baseline telemetry.
// Training is single-flight per sector; a concurrent request gets 409.
func (h *DetectionHandler) Train(w http.ResponseWriter, r *http.Request) {
	sector, ok := telemetry.ParseSector(chi.URLParam(r, "sector"))
	if !ok {
		utils.WriteError(w, errors.NotFound("sector"))
		return
	}
	numSamples := utils.ParseIntQuery(r, "num_samples", 0)

	result, err := h.pipeline.Train(r.Context(), sector, numSamples, "manual")
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, result)
}

// Detect scores a pushed telemetry batch and reports the verdicts plus
// any alerts and response actions they raised.
func (h *DetectionHandler) Detect(w http.ResponseWriter, r *http.Request) {
	sector, ok := telemetry.ParseSector(chi.URLParam(r, "sector"))
	if !ok {
		utils.WriteError(w, errors.NotFound("sector"))
		return
	}

	var req dto.DetectRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	for i := range req.Samples {
		if req.Samples[i].Sector == "" {
			req.Samples[i].Sector = sector
		}
	}

	result, err := h.pipeline.Detect(r.Context(), sector, req.Samples)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, result)
}
