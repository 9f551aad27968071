package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/alert"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/detection"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/response"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/engine"
	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/metrics"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/policy"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/simulator"
)

// PipelineService chains detection into the alert lifecycle and the
// response planner: verdicts raise or fold alerts, and newly created
// alerts trigger planned response actions. Folded recurrences update
// the existing alert without multiplying responses.
type PipelineService struct {
	engines   map[telemetry.Sector]*engine.Engine
	sims      map[telemetry.Sector]*simulator.Simulator
	alerts    alert.Service
	responses response.Service
	policy    *policy.Engine

	autoRespond  atomic.Bool
	trainSamples int
	training     map[telemetry.Sector]*atomic.Bool

	logger *logger.Logger
}

// NewPipelineService wires the detection engines to the lifecycle
// services. policy may be nil, which disables automated responses.
func NewPipelineService(
	engines map[telemetry.Sector]*engine.Engine,
	sims map[telemetry.Sector]*simulator.Simulator,
	alerts alert.Service,
	responses response.Service,
	pol *policy.Engine,
	autoRespond bool,
	trainSamples int,
	log *logger.Logger,
) *PipelineService {
	training := make(map[telemetry.Sector]*atomic.Bool, len(engines))
	for sector := range engines {
		training[sector] = &atomic.Bool{}
	}
	if trainSamples <= 0 {
		trainSamples = 1000
	}
	p := &PipelineService{
		engines:      engines,
		sims:         sims,
		alerts:       alerts,
		responses:    responses,
		policy:       pol,
		trainSamples: trainSamples,
		training:     training,
		logger:       log.Component("pipeline"),
	}
	p.autoRespond.Store(autoRespond)
	return p
}

// Train fits a sector's detectors on freshly generated baseline
// telemetry. Only one training run per sector may be in flight;
// concurrent requests are rejected with a conflict.
func (p *PipelineService) Train(ctx context.Context, sector telemetry.Sector, numSamples int, trigger string) (*detection.TrainingResult, error) {
	eng, ok := p.engines[sector]
	if !ok {
		return nil, apperrors.NotFound("sector")
	}
	flight := p.training[sector]
	if !flight.CompareAndSwap(false, true) {
		return nil, apperrors.Conflict(fmt.Sprintf("training already in progress for sector %s", sector))
	}
	defer flight.Store(false)

	if numSamples <= 0 {
		numSamples = p.trainSamples
	}
	sim, ok := p.sims[sector]
	if !ok {
		return nil, apperrors.NotFound("sector simulator")
	}

	started := time.Now()
	samples := sim.Baseline(numSamples)
	result, err := eng.Train(samples)
	if err != nil {
		metrics.RecordTrainingRun(string(sector), trigger, "error", time.Since(started))
		p.logger.ErrorWithErr(err, "Training failed")
		return nil, err
	}
	metrics.RecordTrainingRun(string(sector), trigger, "ok", time.Since(started))

	p.logger.WithFields(map[string]interface{}{
		"sector":    string(sector),
		"samples":   result.Samples,
		"detectors": result.Detectors,
		"trigger":   trigger,
	}).Info("Sector models trained")
	return result, nil
}

// Detect scores a telemetry batch and drives anomalous verdicts through
// alerting and automated response.
func (p *PipelineService) Detect(ctx context.Context, sector telemetry.Sector, samples []telemetry.Sample) (*DetectResult, error) {
	eng, ok := p.engines[sector]
	if !ok {
		return nil, apperrors.NotFound("sector")
	}

	started := time.Now()
	verdicts, err := eng.Detect(samples)
	if err != nil {
		metrics.RecordDetectionRun(string(sector), "error", time.Since(started))
		return nil, err
	}
	metrics.RecordDetectionRun(string(sector), "ok", time.Since(started))

	result := &DetectResult{Verdicts: verdicts}
	for _, v := range verdicts {
		if !v.IsAnomaly {
			continue
		}
		result.Anomalies++
		metrics.RecordAnomaly(string(v.Sector), string(v.Severity))

		a, created := p.alerts.CreateFromVerdict(ctx, v)
		if a == nil || !created {
			continue
		}
		result.AlertsCreated++
		result.Alerts = append(result.Alerts, a)
		p.respond(ctx, a, v.Features, result)
	}
	return result, nil
}

// respond plans response actions for a newly created alert, linking
// each action back to it. With auto-response disabled the planned
// actions still materialize but park for operator approval instead of
// executing.
func (p *PipelineService) respond(ctx context.Context, a *alert.Alert, features map[string]float64, result *DetectResult) {
	if p.policy == nil || p.responses == nil {
		return
	}
	queueOnly := !p.autoRespond.Load()
	for _, spec := range p.policy.Plan(a, features) {
		if queueOnly {
			spec.RequiresApproval = true
		}
		act, err := p.responses.Execute(ctx, spec, a.ID)
		if err != nil {
			p.logger.ErrorWithErr(err, "Failed to execute response action")
			continue
		}
		if err := p.alerts.AttachResponse(ctx, a.ID, act.ID); err != nil {
			p.logger.ErrorWithErr(err, "Failed to attach response action to alert")
		}
		result.Actions = append(result.Actions, act)
	}
}

// Trained reports whether the sector's engine has completed a training
// run.
func (p *PipelineService) Trained(sector telemetry.Sector) bool {
	eng, ok := p.engines[sector]
	return ok && eng.Trained()
}

// ModelStatuses reports every engine's readiness in stable sector
// order.
func (p *PipelineService) ModelStatuses() []detection.EngineStatus {
	out := make([]detection.EngineStatus, 0, len(p.engines))
	for _, sector := range telemetry.Sectors() {
		if eng, ok := p.engines[sector]; ok {
			out = append(out, eng.Status())
		}
	}
	return out
}

// Training reports whether any sector has a training run in flight.
func (p *PipelineService) Training() bool {
	for _, flight := range p.training {
		if flight.Load() {
			return true
		}
	}
	return false
}

// AutoRespond reports whether planned actions execute immediately.
func (p *PipelineService) AutoRespond() bool {
	return p.autoRespond.Load()
}

// SetAutoRespond toggles immediate execution for subsequent
// detections. Disabling it parks every planned action for approval.
func (p *PipelineService) SetAutoRespond(enabled bool) {
	p.autoRespond.Store(enabled)
}
