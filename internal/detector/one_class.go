package detector

import (
	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
)

// DefaultBoundaryNu bounds the fraction of training points allowed to
// fall outside the learned boundary.
const DefaultBoundaryNu = 0.1

// OneClassBoundary learns a spherical boundary around the standardized
// training data: the radius is the (1 - nu) quantile of training
// distances from the centroid, and anything beyond it is anomalous.
type OneClassBoundary struct {
	nu       float64
	means    []float64
	stds     []float64
	centroid []float64
	radius   float64
	trained  bool
}

// NewOneClassBoundary creates a centroid-boundary detector. Out of
// range nu falls back to the default.
func NewOneClassBoundary(nu float64) *OneClassBoundary {
	if nu <= 0 || nu >= 1 {
		nu = DefaultBoundaryNu
	}
	return &OneClassBoundary{nu: nu}
}

// Name implements Detector.
func (d *OneClassBoundary) Name() string { return "one_class" }

// Trained implements Detector.
func (d *OneClassBoundary) Trained() bool { return d.trained }

// Train standardizes the baseline and fixes the boundary radius.
func (d *OneClassBoundary) Train(X [][]float64) error {
	if len(X) == 0 || len(X[0]) == 0 {
		return apperrors.BadRequest("training data is empty")
	}

	means := columnMeans(X)
	stds := flooredStds(columnStds(X, means))

	scaled := make([][]float64, len(X))
	for i, row := range X {
		scaled[i] = standardize(row, means, stds)
	}

	centroid := columnMeans(scaled)
	dists := make([]float64, len(scaled))
	for i, z := range scaled {
		dists[i] = euclidean(z, centroid)
	}

	d.means = means
	d.stds = stds
	d.centroid = centroid
	d.radius = quantile(dists, 1-d.nu)
	d.trained = true
	return nil
}

// Predict scores each row by its standardized distance from the
// training centroid.
func (d *OneClassBoundary) Predict(X [][]float64) ([]int, []float64, error) {
	if !d.trained {
		return nil, nil, apperrors.NotTrainedDetector(d.Name())
	}
	labels := make([]int, len(X))
	scores := make([]float64, len(X))
	for i, row := range X {
		dist := euclidean(standardize(row, d.means, d.stds), d.centroid)
		scores[i] = dist
		if dist > d.radius {
			labels[i] = 1
		}
	}
	return labels, scores, nil
}

func standardize(row, means, stds []float64) []float64 {
	out := make([]float64, len(means))
	for j := 0; j < len(means); j++ {
		v := 0.0
		if j < len(row) {
			v = row[j]
		}
		out[j] = (v - means[j]) / stds[j]
	}
	return out
}
