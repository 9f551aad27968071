package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/api/dto"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/cache"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/utils"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/queue"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/services"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/store"
)

const pingTimeout = 2 * time.Second

// SystemHandler serves the product banner, liveness and the
// aggregated operational status page.
type SystemHandler struct {
	pipeline  *services.PipelineService
	fleet     *services.FleetService
	alerts    *services.AlertService
	responses *services.ResponseService

	store *store.Store
	cache *cache.Valkey
	queue *queue.Publisher

	monitoring bool
	version    string
	logger     *logger.Logger
}

func NewSystemHandler(
	pipeline *services.PipelineService,
	fleet *services.FleetService,
	alerts *services.AlertService,
	responses *services.ResponseService,
	st *store.Store,
	ca *cache.Valkey,
	qu *queue.Publisher,
	monitoring bool,
	version string,
	log *logger.Logger,
) *SystemHandler {
	return &SystemHandler{
		pipeline:   pipeline,
		fleet:      fleet,
		alerts:     alerts,
		responses:  responses,
		store:      st,
		cache:      ca,
		queue:      qu,
		monitoring: monitoring,
		version:    version,
		logger:     log,
	}
}

// Banner identifies the API at the root path.
func (h *SystemHandler) Banner(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, dto.Banner{
		Name:    "Smooth Operator API",
		Version: h.version,
		Status:  "operational",
	})
}

// Health is the liveness probe.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, dto.HealthStatus{
		Status:           "healthy",
		Timestamp:        time.Now().UTC(),
		MonitoringActive: h.monitoring,
		Sectors:          telemetry.Sectors(),
	})
}

// Ready is the readiness probe. The mirror store is the only checked
// dependency; cache and queue degrade to no-ops when unreachable, a
// lost store would silently drop the audit trail.
func (h *SystemHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			h.logger.ErrorWithErr(err, "Store ping failed")
			utils.WriteError(w, errors.ServiceUnavailable("Mirror store connection failed"))
			return
		}
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Status aggregates fleet, model, alert, response and infrastructure
// state into one operational snapshot.
func (h *SystemHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	devices := make(map[string]int, len(telemetry.Sectors()))
	for _, sector := range telemetry.Sectors() {
		devices[string(sector)] = len(h.fleet.ListBySector(ctx, sector))
	}

	astats := h.alerts.Statistics(ctx)
	rstats := h.responses.Statistics(ctx)

	status := dto.SystemStatus{
		Status:    "operational",
		Timestamp: time.Now().UTC(),
		System: dto.SystemFlags{
			MonitoringActive: h.monitoring,
			TrainingActive:   h.pipeline.Training(),
		},
		Devices: devices,
		Models:  h.pipeline.ModelStatuses(),
		Alerts: dto.AlertRollup{
			Active:     astats.Active,
			Total:      astats.Total,
			BySeverity: astats.SeverityCounts,
		},
		Responses: dto.ResponseRollup{
			Total:       rstats.Total,
			Pending:     rstats.PendingApproval,
			SuccessRate: rstats.SuccessRate,
		},
		Infrastructure: h.infrastructure(ctx),
	}

	if err := h.cache.StoreStats(ctx, "system", status); err != nil {
		h.logger.ErrorWithErr(err, "Failed to cache status rollup")
	}
	utils.WriteSuccess(w, http.StatusOK, status)
}

// infrastructure pings each optional backend with a short deadline so
// a hung dependency cannot stall the status page.
func (h *SystemHandler) infrastructure(ctx context.Context) map[string]dto.ComponentStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	components := make(map[string]dto.ComponentStatus, 3)

	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			h.logger.ErrorWithErr(err, "Store ping failed")
			components["store"] = dto.ComponentStatus{Connected: false, Detail: h.store.Driver()}
		} else {
			components["store"] = dto.ComponentStatus{Connected: true, Detail: h.store.Driver()}
		}
	} else {
		components["store"] = dto.ComponentStatus{Connected: false, Detail: "disabled"}
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			h.logger.ErrorWithErr(err, "Cache ping failed")
			components["cache"] = dto.ComponentStatus{Connected: false, Detail: h.cache.Addr()}
		} else {
			components["cache"] = dto.ComponentStatus{Connected: true, Detail: h.cache.Addr()}
		}
	} else {
		components["cache"] = dto.ComponentStatus{Connected: false, Detail: "disabled"}
	}

	if h.queue.Enabled() {
		components["queue"] = dto.ComponentStatus{Connected: true, Detail: h.queue.Brokers()}
	} else {
		components["queue"] = dto.ComponentStatus{Connected: false, Detail: "disabled"}
	}

	return components
}
