package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/simulator"
)

// AttackService drives adversary emulation: single attack simulations
// against one sector and scripted multi-attack red-team scenarios, both
// fed through the live detection pipeline.
type AttackService struct {
	sims     map[telemetry.Sector]*simulator.Simulator
	pipeline *PipelineService

	mu      sync.Mutex
	history []ScenarioRun

	logger *logger.Logger
	now    func() time.Time
}

// NewAttackService creates a new attack simulation service.
func NewAttackService(sims map[telemetry.Sector]*simulator.Simulator, pipeline *PipelineService, log *logger.Logger) *AttackService {
	return &AttackService{
		sims:     sims,
		pipeline: pipeline,
		logger:   log.Component("attacks"),
		now:      time.Now,
	}
}

// Simulate generates attack-shaped telemetry and runs it through
// detection. If the sector's models are untrained the raw attack data
// is returned with a warning instead.
func (s *AttackService) Simulate(ctx context.Context, sector telemetry.Sector, attackType string, numSamples int) (*SimulationResult, error) {
	sim, ok := s.sims[sector]
	if !ok {
		return nil, apperrors.NotFound("sector")
	}
	if numSamples <= 0 {
		numSamples = 10
	}

	samples, err := sim.Attack(attackType, numSamples)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"sector":      string(sector),
		"attack_type": attackType,
		"samples":     len(samples),
	}).Info("Attack simulation generated")

	if !s.pipeline.Trained(sector) {
		return &SimulationResult{
			Status:           "warning",
			Message:          fmt.Sprintf("Models not trained for %s. Attack data generated but not detected.", sector),
			Sector:           sector,
			AttackType:       attackType,
			SamplesGenerated: len(samples),
			AttackData:       samples,
		}, nil
	}

	res, err := s.pipeline.Detect(ctx, sector, samples)
	if err != nil {
		return nil, err
	}
	return &SimulationResult{
		Status:            "success",
		Sector:            sector,
		AttackType:        attackType,
		SamplesGenerated:  len(samples),
		AnomaliesDetected: res.Anomalies,
		AlertsCreated:     res.AlertsCreated,
		DetectionResults:  res.Verdicts,
	}, nil
}

// AttackTypes lists the attack types a sector simulator supports.
func (s *AttackService) AttackTypes(sector telemetry.Sector) ([]string, error) {
	sim, ok := s.sims[sector]
	if !ok {
		return nil, apperrors.NotFound("sector")
	}
	return sim.AttackTypes(), nil
}

// Scenarios returns the red-team exercise catalog.
func (s *AttackService) Scenarios() []simulator.Scenario {
	return simulator.Scenarios()
}

// RunScenario executes a cataloged red-team exercise. The scenario's
// attack types split the intensity-scaled sample count, and the batch
// runs through detection when the sector's models are trained. Every
// run is recorded for coverage reporting.
func (s *AttackService) RunScenario(ctx context.Context, key string) (*ScenarioResult, error) {
	sc, ok := simulator.FindScenario(key)
	if !ok {
		keys := make([]string, 0)
		for _, known := range simulator.Scenarios() {
			keys = append(keys, known.Key)
		}
		return nil, apperrors.NotFound("scenario").WithDetails(map[string]interface{}{
			"available_scenarios": keys,
		})
	}
	sim, ok := s.sims[sc.Sector]
	if !ok {
		return nil, apperrors.NotFound("sector")
	}

	total := sc.Samples()
	samples := make([]telemetry.Sample, 0, total)
	for i, at := range sc.AttackTypes {
		share := total / len(sc.AttackTypes)
		if i < total%len(sc.AttackTypes) {
			share++
		}
		batch, err := sim.Attack(at, share)
		if err != nil {
			return nil, err
		}
		samples = append(samples, batch...)
	}

	result := &ScenarioResult{Scenario: sc, SamplesGenerated: len(samples)}
	if s.pipeline.Trained(sc.Sector) {
		res, err := s.pipeline.Detect(ctx, sc.Sector, samples)
		if err != nil {
			return nil, err
		}
		result.Detected = true
		result.AnomaliesDetected = res.Anomalies
		result.AlertsCreated = res.AlertsCreated
		result.ActionsTaken = len(res.Actions)
	}

	s.mu.Lock()
	s.history = append(s.history, ScenarioRun{
		Name:      sc.Key,
		Sector:    sc.Sector,
		Intensity: sc.Intensity,
		Samples:   len(samples),
		Timestamp: s.now(),
	})
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"scenario":  sc.Key,
		"sector":    string(sc.Sector),
		"intensity": sc.Intensity,
		"samples":   len(samples),
		"detected":  result.Detected,
	}).Info("Red-team scenario executed")
	return result, nil
}

// Report aggregates all executed scenarios into a MITRE coverage
// summary.
func (s *AttackService) Report(ctx context.Context) *RedTeamReport {
	s.mu.Lock()
	history := append([]ScenarioRun(nil), s.history...)
	s.mu.Unlock()

	if len(history) == 0 {
		return &RedTeamReport{
			Status:  "no_exercises",
			Message: "No attack scenarios have been executed",
		}
	}

	report := &RedTeamReport{
		GeneratedAt:            s.now(),
		TotalScenariosExecuted: len(history),
		ScenariosBySector:      make(map[string]int),
		ScenariosByIntensity:   make(map[string]int),
		ScenariosExecuted:      history,
	}
	tactics := make(map[string]bool)
	for _, run := range history {
		report.TotalAttackSamples += run.Samples
		report.ScenariosBySector[string(run.Sector)]++
		report.ScenariosByIntensity[run.Intensity]++
		if sc, ok := simulator.FindScenario(run.Name); ok {
			for _, tactic := range sc.MitreTactics {
				tactics[tactic] = true
			}
		}
	}
	report.MitreTacticsTested = make([]string, 0, len(tactics))
	for tactic := range tactics {
		report.MitreTacticsTested = append(report.MitreTacticsTested, tactic)
	}
	sort.Strings(report.MitreTacticsTested)
	report.MitreCoveragePercentage = simulator.MitreCoverage(len(tactics))
	return report
}
