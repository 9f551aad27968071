package services

import (
	"context"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/alert"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/asset"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/detection"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/response"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/simulator"
)

// Notifier fans alert lifecycle changes out to external channels (chat
// webhook, event bus, live dashboards). Implementations must not block
// the alert path; slow sinks are expected to run on their own
// goroutines with their own timeouts.
type Notifier interface {
	NotifyAlert(a *alert.Alert)
	NotifyAlertUpdate(a *alert.Alert)
}

// ResponseEvents receives response lifecycle transitions for fan-out to
// the event bus and live dashboards. Implementations must not block.
type ResponseEvents interface {
	PublishResponse(ctx context.Context, event string, act *response.Action)
}

// FleetEvents receives fleet registry changes and accepted telemetry
// batches so live dashboards, the read-model cache and the event bus
// track device activity without polling. Implementations must not
// block.
type FleetEvents interface {
	PublishAssetState(ctx context.Context, a *asset.Asset)
	PublishTelemetry(ctx context.Context, sector telemetry.Sector, samples []telemetry.Sample)
}

// OperatorEvents carries out-of-band operational events, such as
// settings changes, to the operator-facing channels.
type OperatorEvents interface {
	NotifyOperators(ctx context.Context, event string, payload interface{})
}

// DetectResult is the outcome of one detection pass, including any
// lifecycle and response side effects it triggered.
type DetectResult struct {
	Verdicts      []detection.Verdict `json:"detection_results"`
	Anomalies     int                 `json:"anomalies_detected"`
	AlertsCreated int                 `json:"alerts_created"`
	Alerts        []*alert.Alert      `json:"alerts,omitempty"`
	Actions       []*response.Action  `json:"actions,omitempty"`
}

// SimulationResult is the outcome of one attack simulation. When the
// sector's models are not trained yet, Status is "warning" and the raw
// attack data is returned instead of detection results.
type SimulationResult struct {
	Status            string              `json:"status"`
	Message           string              `json:"message,omitempty"`
	Sector            telemetry.Sector    `json:"sector"`
	AttackType        string              `json:"attack_type"`
	SamplesGenerated  int                 `json:"samples_generated"`
	AnomaliesDetected int                 `json:"anomalies_detected"`
	AlertsCreated     int                 `json:"alerts_created"`
	DetectionResults  []detection.Verdict `json:"detection_results,omitempty"`
	AttackData        []telemetry.Sample  `json:"attack_data,omitempty"`
}

// ScenarioRun records one executed red-team exercise for reporting.
type ScenarioRun struct {
	Name      string           `json:"name"`
	Sector    telemetry.Sector `json:"sector"`
	Intensity string           `json:"intensity"`
	Samples   int              `json:"samples"`
	Timestamp time.Time        `json:"timestamp"`
}

// ScenarioResult is the outcome of one red-team scenario execution.
type ScenarioResult struct {
	Scenario          simulator.Scenario `json:"scenario"`
	SamplesGenerated  int                `json:"samples_generated"`
	Detected          bool               `json:"detected"`
	AnomaliesDetected int                `json:"anomalies_detected"`
	AlertsCreated     int                `json:"alerts_created"`
	ActionsTaken      int                `json:"actions_taken"`
}

// RedTeamReport aggregates all executed scenarios into a coverage
// summary. With no history, only Status and Message are set.
type RedTeamReport struct {
	Status                  string         `json:"status,omitempty"`
	Message                 string         `json:"message,omitempty"`
	GeneratedAt             time.Time      `json:"generated_at"`
	TotalScenariosExecuted  int            `json:"total_scenarios_executed"`
	TotalAttackSamples      int            `json:"total_attack_samples"`
	ScenariosBySector       map[string]int `json:"scenarios_by_sector,omitempty"`
	ScenariosByIntensity    map[string]int `json:"scenarios_by_intensity,omitempty"`
	MitreTacticsTested      []string       `json:"mitre_tactics_tested,omitempty"`
	MitreCoveragePercentage float64        `json:"mitre_coverage_percentage"`
	ScenariosExecuted       []ScenarioRun  `json:"scenarios_executed,omitempty"`
}
