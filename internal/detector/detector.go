// Package detector implements the anomaly detection algorithms behind
// the ensemble: a statistical z-score model, a rolling-window deviation
// model, an isolation forest, a centroid-boundary model and a sequence
// reconstruction model.
//
// All detectors share one contract: Train fits on a numeric matrix
// (rows = samples, columns = features in a fixed order), Predict
// returns per-row binary labels (1 = anomaly) and raw scores where
// higher means more anomalous. Raw score scales differ per algorithm;
// the ensemble normalizes them per batch. Except for MovingAverage,
// which keeps rolling state and synchronizes internally, detectors are
// read-only after Train and safe for concurrent Predict calls.
package detector

// Detector is one anomaly detection algorithm.
type Detector interface {
	// Name returns the registration name used in votes and logs
	Name() string

	// Trained reports whether the detector is ready to predict
	Trained() bool

	// Train fits the detector on baseline data
	Train(X [][]float64) error

	// Predict labels each row (1 anomaly, 0 normal) and scores it,
	// higher meaning more anomalous
	Predict(X [][]float64) (labels []int, scores []float64, err error)
}
