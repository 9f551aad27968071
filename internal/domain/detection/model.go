package detection

import (
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
)

// Verdict is the ensemble's judgement on a single telemetry sample.
// Score is normalized to [0,1] relative to the batch it was scored in;
// comparisons across batches are meaningful only at the tier level.
type Verdict struct {
	Timestamp      time.Time          `json:"timestamp"`
	AssetID        string             `json:"asset_id"`
	AssetType      string             `json:"asset_type"`
	Sector         telemetry.Sector   `json:"sector"`
	IsAnomaly      bool               `json:"is_anomaly"`
	Score          float64            `json:"anomaly_score"`
	Severity       Severity           `json:"severity"`
	DetectorVotes  map[string]int     `json:"detector_votes"`
	DetectorScores map[string]float64 `json:"detector_scores"`
	Features       map[string]float64 `json:"features,omitempty"`
}

// TrainingResult summarizes one completed training run.
type TrainingResult struct {
	Sector    telemetry.Sector `json:"sector"`
	Samples   int              `json:"samples"`
	Detectors []string         `json:"detectors"`
	Skipped   []string         `json:"skipped,omitempty"`
	Duration  time.Duration    `json:"-"`
	StartedAt time.Time        `json:"started_at"`
}

// EngineStatus reports a sector engine's readiness.
type EngineStatus struct {
	Sector        telemetry.Sector `json:"sector"`
	Trained       bool             `json:"trained"`
	Detectors     []string         `json:"detectors"`
	FeatureNames  []string         `json:"feature_names,omitempty"`
	LastTrainedAt time.Time        `json:"last_trained_at,omitempty"`
}
