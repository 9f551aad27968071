// Package engine runs the per-sector anomaly detection pipeline:
// feature extraction, the detector ensemble, and majority voting with
// batch-normalized scores.
package engine

import (
	"sync"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/config"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/detector"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/detection"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/metrics"
)

// Engine is the detection pipeline for one sector. The feature
// extractor lives as long as the engine, so the feature order fixed by
// the first training batch survives retrains. Each training run builds
// a fresh detector set and swaps it in atomically; in-flight detections
// keep using the snapshot they started with.
type Engine struct {
	sector    telemetry.Sector
	cfg       config.DetectionConfig
	log       *logger.Logger
	voteRatio float64
	extractor *FeatureExtractor

	mu   sync.RWMutex
	snap *snapshot
}

type snapshot struct {
	detectors []detector.Detector
	trainedAt time.Time
}

// New creates an untrained engine for the given sector.
func New(sector telemetry.Sector, cfg config.DetectionConfig, log *logger.Logger) *Engine {
	ratio := cfg.EnsembleVoteRatio
	if ratio <= 0 {
		ratio = 0.5
	}
	return &Engine{
		sector:    sector,
		cfg:       cfg,
		log:       log.WithFields(map[string]interface{}{"sector": string(sector)}),
		voteRatio: ratio,
		extractor: NewFeatureExtractor(),
	}
}

// Sector returns the sector this engine serves.
func (e *Engine) Sector() telemetry.Sector { return e.sector }

// Trained reports whether at least one training run has completed.
func (e *Engine) Trained() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap != nil
}

func (e *Engine) buildDetectors() []detector.Detector {
	return []detector.Detector{
		detector.NewZScore(e.cfg.ZScoreThreshold),
		detector.NewMovingAverage(e.cfg.MovingAvgWindow, e.cfg.MovingAvgMultiplier),
		detector.NewIsolationForest(e.cfg.ForestTrees, e.cfg.ForestSubsampleSize, e.cfg.ForestContamination),
		detector.NewOneClassBoundary(e.cfg.BoundaryNu),
		detector.NewSequence(e.cfg.SequenceLength),
	}
}

// Train fits a fresh detector set on the given baseline samples and
// swaps it in as the active snapshot. A detector whose training fails
// is kept but skipped at detection time; the run succeeds as long as
// feature extraction does.
func (e *Engine) Train(samples []telemetry.Sample) (*detection.TrainingResult, error) {
	started := time.Now()

	X, err := e.extractor.Prepare(samples)
	if err != nil {
		return nil, err
	}

	dets := e.buildDetectors()
	result := &detection.TrainingResult{
		Sector:    e.sector,
		Samples:   len(samples),
		StartedAt: started,
	}
	for _, det := range dets {
		if err := det.Train(X); err != nil {
			metrics.RecordDetectorFailure(det.Name(), "train")
			e.log.WithError(err).Warnf("detector %s failed to train, will be skipped", det.Name())
			result.Skipped = append(result.Skipped, det.Name())
			continue
		}
		result.Detectors = append(result.Detectors, det.Name())
	}

	e.mu.Lock()
	e.snap = &snapshot{detectors: dets, trainedAt: time.Now()}
	e.mu.Unlock()

	result.Duration = time.Since(started)
	e.log.WithFields(map[string]interface{}{
		"samples":   result.Samples,
		"detectors": len(result.Detectors),
		"skipped":   len(result.Skipped),
	}).Info("detection models trained")
	return result, nil
}

// Detect scores a batch of samples against the active snapshot. Each
// detector predicts in isolation: one that errors is logged, counted
// and excluded from the vote without failing the batch. With every
// detector excluded the batch fails open as all-normal.
func (e *Engine) Detect(samples []telemetry.Sample) ([]detection.Verdict, error) {
	e.mu.RLock()
	snap := e.snap
	e.mu.RUnlock()
	if snap == nil {
		return nil, apperrors.NotTrained(string(e.sector))
	}

	X, err := e.extractor.Prepare(samples)
	if err != nil {
		return nil, err
	}

	outputs := make([]detectorOutput, 0, len(snap.detectors))
	for _, det := range snap.detectors {
		if !det.Trained() {
			continue
		}
		labels, scores, err := det.Predict(X)
		if err != nil {
			metrics.RecordDetectorFailure(det.Name(), "predict")
			e.log.WithError(apperrors.DetectorFailure(det.Name(), err)).Warn("detector excluded from vote")
			continue
		}
		outputs = append(outputs, detectorOutput{name: det.Name(), labels: labels, scores: scores})
	}

	labels, scores := vote(len(samples), outputs, e.voteRatio)

	verdicts := make([]detection.Verdict, len(samples))
	for i, s := range samples {
		votes := make(map[string]int, len(outputs))
		raw := make(map[string]float64, len(outputs))
		for _, out := range outputs {
			votes[out.name] = out.labels[i]
			raw[out.name] = out.scores[i]
		}
		ts := s.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		verdicts[i] = detection.Verdict{
			Timestamp:      ts,
			AssetID:        s.AssetID,
			AssetType:      s.AssetType,
			Sector:         e.sector,
			IsAnomaly:      labels[i] == 1,
			Score:          scores[i],
			Severity:       detection.SeverityFromScore(scores[i]),
			DetectorVotes:  votes,
			DetectorScores: raw,
			Features:       s.Features,
		}
	}
	return verdicts, nil
}

// Status reports the engine's readiness, the detectors currently able
// to vote and the fixed feature order.
func (e *Engine) Status() detection.EngineStatus {
	e.mu.RLock()
	snap := e.snap
	e.mu.RUnlock()

	st := detection.EngineStatus{
		Sector:       e.sector,
		FeatureNames: e.extractor.Names(),
	}
	if snap == nil {
		return st
	}
	st.Trained = true
	st.LastTrainedAt = snap.trainedAt
	for _, det := range snap.detectors {
		if det.Trained() {
			st.Detectors = append(st.Detectors, det.Name())
		}
	}
	return st
}
