package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/api/dto"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/asset"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/utils"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/validator"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/services"
)

// AssetHandler exposes fleet enrollment, listings, telemetry ingestion
// and per-device history.
type AssetHandler struct {
	fleet     *services.FleetService
	logger    *logger.Logger
	validator *validator.Validator
}

func NewAssetHandler(fleet *services.FleetService, log *logger.Logger, val *validator.Validator) *AssetHandler {
	return &AssetHandler{fleet: fleet, logger: log, validator: val}
}

// Register enrolls a physical device into the fleet.
func (h *AssetHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterAssetRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	a, err := h.fleet.Register(r.Context(), &asset.Asset{
		ID:              req.AssetID,
		Type:            req.AssetType,
		Sector:          telemetry.Sector(req.Sector),
		Location:        req.Location,
		IPAddress:       req.IPAddress,
		FirmwareVersion: req.FirmwareVersion,
		Metadata:        req.Metadata,
	})
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, a)
}

// List returns externally registered devices.
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, h.fleet.ListRegistered(r.Context()))
}

// ListAll returns the simulated fleets plus registered devices.
func (h *AssetHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, h.fleet.ListAll(r.Context()))
}

// SectorAssets returns one sector's devices, simulated fleet first.
func (h *AssetHandler) SectorAssets(w http.ResponseWriter, r *http.Request) {
	sector, ok := telemetry.ParseSector(chi.URLParam(r, "sector"))
	if !ok {
		utils.WriteError(w, errors.NotFound("sector"))
		return
	}
	utils.WriteSuccess(w, http.StatusOK, h.fleet.ListBySector(r.Context(), sector))
}

// SectorMetrics returns freshly sampled normal telemetry for a
// sector's simulated fleet, for live dashboards.
func (h *AssetHandler) SectorMetrics(w http.ResponseWriter, r *http.Request) {
	sector, ok := telemetry.ParseSector(chi.URLParam(r, "sector"))
	if !ok {
		utils.WriteError(w, errors.NotFound("sector"))
		return
	}
	n := utils.ParseIntQuery(r, "samples", 10)

	samples, err := h.fleet.SectorSamples(r.Context(), sector, n)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, samples)
}

// IngestMetrics pushes device telemetry through storage and detection.
func (h *AssetHandler) IngestMetrics(w http.ResponseWriter, r *http.Request) {
	var req dto.IngestMetricsRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	result, err := h.fleet.Ingest(r.Context(), req.Samples)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, result)
}

// History returns a device's recent telemetry, oldest first.
func (h *AssetHandler) History(w http.ResponseWriter, r *http.Request) {
	samples, err := h.fleet.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, samples)
}

// Deregister removes a registered device from the fleet.
func (h *AssetHandler) Deregister(w http.ResponseWriter, r *http.Request) {
	if err := h.fleet.Deregister(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Device deregistered", nil)
}
