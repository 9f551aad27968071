package client

import "time"

// Sample is one telemetry reading from a monitored device
type Sample struct {
	Timestamp time.Time          `json:"timestamp,omitempty"`
	AssetID   string             `json:"asset_id"`
	AssetType string             `json:"asset_type,omitempty"`
	Sector    string             `json:"sector"`
	Features  map[string]float64 `json:"features"`
	Labels    map[string]string  `json:"labels,omitempty"`
}

// Verdict is one sample's detection outcome
type Verdict struct {
	Timestamp      time.Time          `json:"timestamp"`
	AssetID        string             `json:"asset_id"`
	AssetType      string             `json:"asset_type"`
	Sector         string             `json:"sector"`
	IsAnomaly      bool               `json:"is_anomaly"`
	Score          float64            `json:"anomaly_score"`
	Severity       string             `json:"severity"`
	DetectorVotes  map[string]int     `json:"detector_votes"`
	DetectorScores map[string]float64 `json:"detector_scores"`
	Features       map[string]float64 `json:"features,omitempty"`
}

// TrainingResult summarizes one completed training run
type TrainingResult struct {
	Sector    string    `json:"sector"`
	Samples   int       `json:"samples"`
	Detectors []string  `json:"detectors"`
	Skipped   []string  `json:"skipped,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// DetectResult is the outcome of one detection pass
type DetectResult struct {
	Verdicts      []Verdict `json:"detection_results"`
	Anomalies     int       `json:"anomalies_detected"`
	AlertsCreated int       `json:"alerts_created"`
	Alerts        []Alert   `json:"alerts,omitempty"`
	Actions       []Action  `json:"actions,omitempty"`
}

// Alert is a deduplicated incident raised from anomalous verdicts
type Alert struct {
	ID              string         `json:"alert_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Severity        string         `json:"severity"`
	SeverityLabel   string         `json:"severity_name"`
	AssetID         string         `json:"asset_id"`
	AssetType       string         `json:"asset_type"`
	Sector          string         `json:"sector"`
	Score           float64        `json:"anomaly_score"`
	DetectorVotes   map[string]int `json:"detector_votes"`
	Description     string         `json:"description"`
	Status          string         `json:"status"`
	AcknowledgedBy  string         `json:"acknowledged_by,omitempty"`
	AcknowledgedAt  *time.Time     `json:"acknowledged_at,omitempty"`
	ResolvedBy      string         `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty"`
	ResolutionNotes string         `json:"resolution_notes,omitempty"`
	ResponseActions []string       `json:"response_actions"`
}

// AlertStats is the alert lifecycle rollup
type AlertStats struct {
	Total          int            `json:"total_alerts"`
	Active         int            `json:"active_alerts"`
	Resolved       int            `json:"resolved_alerts"`
	SeverityCounts map[string]int `json:"severity_counts"`
	SectorCounts   map[string]int `json:"sector_counts"`
	MTTASeconds    float64        `json:"mtta_seconds"`
	MTTRSeconds    float64        `json:"mttr_seconds"`
}

// Action is one automated response to an alert
type Action struct {
	ID               string     `json:"response_id"`
	AlertID          string     `json:"alert_id"`
	ActionType       string     `json:"action"`
	Target           string     `json:"target"`
	Reason           string     `json:"reason"`
	Priority         string     `json:"priority,omitempty"`
	RequiresApproval bool       `json:"requires_approval"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	ApprovedBy       string     `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	ExecutedAt       *time.Time `json:"executed_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	RolledBackAt     *time.Time `json:"rolled_back_at,omitempty"`
	Success          bool       `json:"success"`
	Output           string     `json:"output,omitempty"`
}

// ResponseStats is the response execution rollup
type ResponseStats struct {
	Total                    int            `json:"total_responses"`
	Completed                int            `json:"completed"`
	Failed                   int            `json:"failed"`
	PendingApproval          int            `json:"pending_approval"`
	SuccessRate              float64        `json:"success_rate"`
	MeanExecutionTimeSeconds float64        `json:"mean_execution_time_seconds"`
	ActionCounts             map[string]int `json:"action_counts"`
}

// Asset is a monitored device
type Asset struct {
	ID              string            `json:"asset_id"`
	Type            string            `json:"asset_type"`
	Sector          string            `json:"sector"`
	Location        string            `json:"location"`
	IPAddress       string            `json:"ip_address,omitempty"`
	FirmwareVersion string            `json:"firmware_version,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	Status          string            `json:"status"`
	RegisteredAt    time.Time         `json:"registered_at"`
	IsSimulated     bool              `json:"is_simulated"`
}

// SimulationResult is the outcome of one attack simulation
type SimulationResult struct {
	Status            string    `json:"status"`
	Message           string    `json:"message,omitempty"`
	Sector            string    `json:"sector"`
	AttackType        string    `json:"attack_type"`
	SamplesGenerated  int       `json:"samples_generated"`
	AnomaliesDetected int       `json:"anomalies_detected"`
	AlertsCreated     int       `json:"alerts_created"`
	DetectionResults  []Verdict `json:"detection_results,omitempty"`
	AttackData        []Sample  `json:"attack_data,omitempty"`
}

// Scenario is a cataloged red-team exercise
type Scenario struct {
	Key          string   `json:"scenario_name"`
	Name         string   `json:"description"`
	Sector       string   `json:"sector"`
	AttackTypes  []string `json:"attack_types"`
	Duration     int      `json:"duration_seconds"`
	Intensity    string   `json:"intensity"`
	MitreTactics []string `json:"mitre_tactics"`
}

// ScenarioResult is the outcome of one scenario execution
type ScenarioResult struct {
	Scenario          Scenario `json:"scenario"`
	SamplesGenerated  int      `json:"samples_generated"`
	Detected          bool     `json:"detected"`
	AnomaliesDetected int      `json:"anomalies_detected"`
	AlertsCreated     int      `json:"alerts_created"`
	ActionsTaken      int      `json:"actions_taken"`
}

// ScenarioRun is one executed scenario inside a red-team report
type ScenarioRun struct {
	Name      string    `json:"name"`
	Sector    string    `json:"sector"`
	Intensity string    `json:"intensity"`
	Samples   int       `json:"samples"`
	Timestamp time.Time `json:"timestamp"`
}

// RedTeamReport aggregates executed scenarios into coverage numbers
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

// EngineStatus reports a sector engine's readiness
type EngineStatus struct {
	Sector        string    `json:"sector"`
	Trained       bool      `json:"trained"`
	Detectors     []string  `json:"detectors"`
	FeatureNames  []string  `json:"feature_names,omitempty"`
	LastTrainedAt time.Time `json:"last_trained_at,omitempty"`
}

// ComponentStatus reports one infrastructure dependency
type ComponentStatus struct {
	Connected bool   `json:"connected"`
	Detail    string `json:"detail,omitempty"`
}

// SystemStatus is the aggregated operational snapshot
type SystemStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	System    struct {
		MonitoringActive bool `json:"monitoring_active"`
		TrainingActive   bool `json:"training_active"`
	} `json:"system"`
	Devices map[string]int `json:"devices"`
	Models  []EngineStatus `json:"models"`
	Alerts  struct {
		Active     int            `json:"active"`
		Total      int            `json:"total"`
		BySeverity map[string]int `json:"by_severity"`
	} `json:"alerts"`
	Responses struct {
		Total       int     `json:"total"`
		Pending     int     `json:"pending"`
		SuccessRate float64 `json:"success_rate"`
	} `json:"responses"`
	Infrastructure map[string]ComponentStatus `json:"infrastructure"`
}

// HealthStatus is the liveness payload
type HealthStatus struct {
	Status           string    `json:"status"`
	Timestamp        time.Time `json:"timestamp"`
	MonitoringActive bool      `json:"monitoring_active"`
	Sectors          []string  `json:"sectors"`
}

// Banner identifies the API
type Banner struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// Settings are the runtime operating settings
type Settings struct {
	QuietPeriodSeconds     int  `json:"quiet_period_seconds"`
	AutoResponseEnabled    bool `json:"auto_response_enabled"`
	RequireApprovalP0      bool `json:"require_approval_p0"`
	RequireApprovalP1      bool `json:"require_approval_p1"`
	MonitorIntervalSeconds int  `json:"monitor_interval_seconds,omitempty"`
	RetrainSamples         int  `json:"retrain_samples,omitempty"`
}
