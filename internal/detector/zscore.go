package detector

import (
	"math"

	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
)

// DefaultZScoreThreshold is the deviation, in standard deviations,
// beyond which a point is anomalous.
const DefaultZScoreThreshold = 3.0

// ZScore flags rows whose worst per-feature deviation from the
// training mean exceeds a fixed number of standard deviations.
type ZScore struct {
	threshold float64
	means     []float64
	stds      []float64
	trained   bool
}

// NewZScore creates a z-score detector. Non-positive thresholds fall
// back to the default.
func NewZScore(threshold float64) *ZScore {
	if threshold <= 0 {
		threshold = DefaultZScoreThreshold
	}
	return &ZScore{threshold: threshold}
}

// Name implements Detector.
func (d *ZScore) Name() string { return "zscore" }

// Trained implements Detector.
func (d *ZScore) Trained() bool { return d.trained }

// Train computes per-feature mean and standard deviation. Features
// with zero deviation get a unit deviation so they never divide by
// zero.
func (d *ZScore) Train(X [][]float64) error {
	if len(X) == 0 || len(X[0]) == 0 {
		return apperrors.BadRequest("training data is empty")
	}
	means := columnMeans(X)
	d.means = means
	d.stds = flooredStds(columnStds(X, means))
	d.trained = true
	return nil
}

// Predict scores each row by its maximum absolute z-score across
// features.
func (d *ZScore) Predict(X [][]float64) ([]int, []float64, error) {
	if !d.trained {
		return nil, nil, apperrors.NotTrainedDetector(d.Name())
	}
	labels := make([]int, len(X))
	scores := make([]float64, len(X))
	for i, row := range X {
		maxZ := 0.0
		for j := 0; j < len(d.means) && j < len(row); j++ {
			z := math.Abs((row[j] - d.means[j]) / d.stds[j])
			if z > maxZ {
				maxZ = z
			}
		}
		scores[i] = maxZ
		if maxZ > d.threshold {
			labels[i] = 1
		}
	}
	return labels, scores, nil
}
