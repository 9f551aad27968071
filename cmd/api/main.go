package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/api/handlers"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/api/router"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/cache"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/config"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/engine"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/integrations"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/validator"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/policy"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/probe"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/queue"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/services"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/simulator"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/store"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/worker"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/ws"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	log.Infof("Starting Smooth Operator API v%s (%s)", version, cfg.Server.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(cfg.Database, log)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	var valkey *cache.Valkey
	if cfg.Cache.Enabled {
		valkey, err = cache.New(cfg.Cache, log)
		if err != nil {
			log.ErrorWithErr(err, "Cache unavailable, continuing without read models")
			valkey = nil
		}
	}
	defer valkey.Close()

	publisher := queue.NewPublisher(cfg.Queue, log)
	defer publisher.Close()

	slack := integrations.NewSlackClient(cfg.Integrations)
	summarizer := integrations.NewSummarizer(cfg.Integrations)

	// The hub needs a status callback but the services it reports on
	// are built after the hub, because they broadcast through it. The
	// closure reads these variables once everything is wired.
	var (
		pipeline  *services.PipelineService
		fleet     *services.FleetService
		alertSvc  *services.AlertService
		responses *services.ResponseService
	)
	hub := ws.NewHub(func(ctx context.Context) interface{} {
		if pipeline == nil || fleet == nil || alertSvc == nil || responses == nil {
			return map[string]string{"status": "starting"}
		}
		devices := make(map[string]int, len(telemetry.Sectors()))
		for _, sector := range telemetry.Sectors() {
			devices[string(sector)] = len(fleet.ListBySector(ctx, sector))
		}
		astats := alertSvc.Statistics(ctx)
		rstats := responses.Statistics(ctx)
		return map[string]interface{}{
			"status":            "operational",
			"training_active":   pipeline.Training(),
			"devices":           devices,
			"models":            pipeline.ModelStatuses(),
			"active_alerts":     astats.Active,
			"total_alerts":      astats.Total,
			"pending_responses": rstats.PendingApproval,
		}
	}, log)
	go hub.Run(ctx)

	notifications := services.NewNotificationService(slack, summarizer, publisher, valkey, hub, log)
	defer notifications.Close()

	alertSvc = services.NewAlertService(cfg.Alerting, st.Alerts(), notifications, log)
	responses = services.NewResponseService(st.Actions(), log)
	responses.SetEventSink(notifications)

	sims := simulator.NewAll(cfg.Simulation.DevicesPerSector, time.Now().UnixNano())
	engines := make(map[telemetry.Sector]*engine.Engine, len(telemetry.Sectors()))
	for _, sector := range telemetry.Sectors() {
		engines[sector] = engine.New(sector, cfg.Detection, log)
	}

	pol, err := policy.New(cfg.Response, log)
	if err != nil {
		log.Fatalf("Failed to load response policy: %v", err)
	}

	pipeline = services.NewPipelineService(
		engines, sims, alertSvc, responses, pol,
		cfg.Response.AutoResponseEnabled, cfg.Training.DefaultSamples, log,
	)
	fleet = services.NewFleetService(sims, pipeline, cfg.Fleet.HistorySize, st.Assets(), log)
	fleet.SetEventSink(notifications)
	if err := fleet.Restore(ctx); err != nil {
		log.ErrorWithErr(err, "Failed to restore fleet registry")
	}
	attacks := services.NewAttackService(sims, pipeline, log)

	var pollCtl services.PollControl
	if cfg.Fleet.MonitorEnabled {
		monitor := worker.NewMonitor(
			fleet, pipeline, probe.New(log),
			cfg.Fleet.MonitorInterval, cfg.Training.BootstrapSamples, log,
		)
		pollCtl = monitor
		go monitor.Start(ctx)
	}

	retrainer := worker.NewRetrainer(pipeline, cfg.Training.RetrainSchedule, cfg.Training.RetrainSamples, log)
	if err := retrainer.Start(); err != nil {
		log.Fatalf("Failed to start retrain schedule: %v", err)
	}
	defer retrainer.Stop()

	settings := services.NewSettingsService(alertSvc, pipeline, pol, pollCtl, retrainer, log)
	settings.SetEventSink(notifications)

	val := validator.New()
	handler := router.New(cfg, log, &router.Handlers{
		System: handlers.NewSystemHandler(
			pipeline, fleet, alertSvc, responses,
			st, valkey, publisher,
			cfg.Fleet.MonitorEnabled, version, log,
		),
		Detection: handlers.NewDetectionHandler(pipeline, log, val),
		Attack:    handlers.NewAttackHandler(attacks, log, val),
		Alert:     handlers.NewAlertHandler(alertSvc, log, val),
		Response:  handlers.NewResponseHandler(responses, log, val),
		Asset:     handlers.NewAssetHandler(fleet, log, val),
		Admin:     handlers.NewAdminHandler(settings, log),
		WS:        hub,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infof("Received %s, shutting down", sig)
	case err := <-errCh:
		log.ErrorWithErr(err, "Server failed")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Graceful shutdown failed")
	}
	cancel()
	log.Info("Server stopped")
}
