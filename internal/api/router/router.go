package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/api/handlers"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/api/middleware"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/config"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/metrics"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/ws"
)

type Handlers struct {
	System    *handlers.SystemHandler
	Detection *handlers.DetectionHandler
	Attack    *handlers.AttackHandler
	Alert     *handlers.AlertHandler
	Response  *handlers.ResponseHandler
	Asset     *handlers.AssetHandler
	Admin     *handlers.AdminHandler
	WS        *ws.Hub
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200

	// Unversioned surface
	r.Get("/", h.System.Banner)
	r.Get("/health", h.System.Health)
	r.Get("/ready", h.System.Ready)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Detection pipeline
		r.Post("/train/{sector}", h.Detection.Train)
		r.Post("/detect/{sector}", h.Detection.Detect)

		// Red team
		r.Route("/attacks", func(r chi.Router) {
			r.Post("/simulate", h.Attack.Simulate)
			r.Get("/scenarios", h.Attack.Scenarios)
			r.Post("/scenarios/{name}/run", h.Attack.RunScenario)
			r.Get("/report", h.Attack.Report)
		})

		// Alert lifecycle
		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", h.Alert.List)
			r.Get("/acknowledged", h.Alert.Acknowledged)
			r.Get("/statistics", h.Alert.Statistics)
			r.Post("/{id}/acknowledge", h.Alert.Acknowledge)
			r.Post("/{id}/resolve", h.Alert.Resolve)
		})

		// Response actions
		r.Route("/responses", func(r chi.Router) {
			r.Get("/", h.Response.List)
			r.Get("/pending", h.Response.Pending)
			r.Get("/statistics", h.Response.Statistics)
			r.Post("/{id}/approve", h.Response.Approve)
			r.Post("/{id}/rollback", h.Response.Rollback)
		})

		// Fleet
		r.Route("/assets", func(r chi.Router) {
			r.Post("/", h.Asset.Register)
			r.Get("/", h.Asset.List)
			r.Get("/all", h.Asset.ListAll)
			r.Post("/metrics", h.Asset.IngestMetrics)
			r.Get("/{id}/history", h.Asset.History)
			r.Delete("/{id}", h.Asset.Deregister)
		})
		r.Route("/sectors/{sector}", func(r chi.Router) {
			r.Get("/assets", h.Asset.SectorAssets)
			r.Get("/metrics", h.Asset.SectorMetrics)
		})

		// Operational status and live event stream
		r.Get("/system/status", h.System.Status)
		r.Get("/ws", h.WS.ServeHTTP)

		// Runtime settings
		r.Route("/admin/settings", func(r chi.Router) {
			r.Get("/", h.Admin.GetSettings)
			r.Put("/", h.Admin.UpdateSettings)
		})
	})

	return r
}
