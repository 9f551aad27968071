package detector

import (
	"math"
	"sync"

	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
)

// Moving average defaults
const (
	DefaultMovingAvgWindow     = 20
	DefaultMovingAvgMultiplier = 2.5
)

// MovingAverage compares each point against rolling statistics over
// the most recent window of observations. It is the only stateful
// detector: Predict appends every scored point to its history, so
// calls are serialized internally.
type MovingAverage struct {
	window     int
	multiplier float64

	mu      sync.Mutex
	history [][]float64
	trained bool
}

// NewMovingAverage creates a rolling-window detector. Non-positive
// parameters fall back to the defaults.
func NewMovingAverage(window int, multiplier float64) *MovingAverage {
	if window <= 0 {
		window = DefaultMovingAvgWindow
	}
	if multiplier <= 0 {
		multiplier = DefaultMovingAvgMultiplier
	}
	return &MovingAverage{window: window, multiplier: multiplier}
}

// Name implements Detector.
func (d *MovingAverage) Name() string { return "moving_avg" }

// Trained implements Detector.
func (d *MovingAverage) Trained() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.trained
}

// Train seeds the history with baseline rows.
func (d *MovingAverage) Train(X [][]float64) error {
	if len(X) == 0 || len(X[0]) == 0 {
		return apperrors.BadRequest("training data is empty")
	}
	history := make([][]float64, len(X))
	for i, row := range X {
		history[i] = append([]float64(nil), row...)
	}
	d.mu.Lock()
	d.history = history
	d.trained = true
	d.mu.Unlock()
	return nil
}

// Predict scores each row against the rolling mean and deviation of
// the preceding window. Points arriving before a full window exists
// are unconditionally normal. History grows with every point and is
// trimmed back to five windows once it exceeds ten.
func (d *MovingAverage) Predict(X [][]float64) ([]int, []float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.trained {
		return nil, nil, apperrors.NotTrainedDetector(d.Name())
	}

	labels := make([]int, len(X))
	scores := make([]float64, len(X))

	for i, row := range X {
		point := append([]float64(nil), row...)

		if len(d.history) < d.window {
			d.history = append(d.history, point)
			continue
		}

		recent := d.history[len(d.history)-d.window:]
		means := columnMeans(recent)
		stds := flooredStds(columnStds(recent, means))

		maxDev := 0.0
		for j := 0; j < len(means) && j < len(point); j++ {
			dev := math.Abs((point[j] - means[j]) / stds[j])
			if dev > maxDev {
				maxDev = dev
			}
		}

		scores[i] = maxDev
		if maxDev > d.multiplier {
			labels[i] = 1
		}

		d.history = append(d.history, point)
		if len(d.history) > d.window*10 {
			trimmed := make([][]float64, d.window*5)
			copy(trimmed, d.history[len(d.history)-d.window*5:])
			d.history = trimmed
		}
	}

	return labels, scores, nil
}
