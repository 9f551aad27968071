package detector

import (
	"fmt"

	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
)

// DefaultSequenceLength is the trailing window a point is judged
// against.
const DefaultSequenceLength = 50

// minSequenceWindows is how many full windows the training set must
// yield for the error threshold to mean anything.
const minSequenceWindows = 10

// Sequence scores each point by how poorly a per-feature first-order
// autoregressive model reconstructs the trailing window ending at it.
// The label threshold is the 95th percentile of windowed training
// errors. Points without a full window of history score zero.
type Sequence struct {
	length    int
	means     []float64
	stds      []float64
	coefA     []float64
	coefB     []float64
	threshold float64
	trained   bool
}

// NewSequence creates a sequence reconstruction detector. Lengths
// below 2 fall back to the default.
func NewSequence(length int) *Sequence {
	if length < 2 {
		length = DefaultSequenceLength
	}
	return &Sequence{length: length}
}

// Name implements Detector.
func (d *Sequence) Name() string { return "sequence" }

// Trained implements Detector.
func (d *Sequence) Trained() bool { return d.trained }

// Train standardizes the baseline, fits one AR(1) predictor per
// feature on consecutive pairs, and sets the error threshold.
func (d *Sequence) Train(X [][]float64) error {
	if len(X) == 0 || len(X[0]) == 0 {
		return apperrors.BadRequest("training data is empty")
	}
	minSamples := d.length + minSequenceWindows - 1
	if len(X) < minSamples {
		return apperrors.BadRequest(
			fmt.Sprintf("not enough data to build sequences: need at least %d samples", minSamples))
	}

	means := columnMeans(X)
	stds := flooredStds(columnStds(X, means))

	scaled := make([][]float64, len(X))
	for i, row := range X {
		scaled[i] = standardize(row, means, stds)
	}

	cols := len(means)
	coefA := make([]float64, cols)
	coefB := make([]float64, cols)
	for j := 0; j < cols; j++ {
		prev := make([]float64, len(scaled)-1)
		cur := make([]float64, len(scaled)-1)
		for t := 1; t < len(scaled); t++ {
			prev[t-1] = scaled[t-1][j]
			cur[t-1] = scaled[t][j]
		}
		coefA[j], coefB[j] = fitAR1(prev, cur)
	}

	d.means = means
	d.stds = stds
	d.coefA = coefA
	d.coefB = coefB

	pointErrs := reconstructionErrors(scaled, coefA, coefB)
	windowErrs := windowedErrors(pointErrs, d.length, len(scaled))
	valid := windowErrs[d.length-1:]
	d.threshold = quantile(valid, 0.95)
	d.trained = true
	return nil
}

// Predict scores points that have a full trailing window inside the
// batch; earlier points score zero.
func (d *Sequence) Predict(X [][]float64) ([]int, []float64, error) {
	if !d.trained {
		return nil, nil, apperrors.NotTrainedDetector(d.Name())
	}

	labels := make([]int, len(X))
	scores := make([]float64, len(X))
	if len(X) < d.length {
		return labels, scores, nil
	}

	scaled := make([][]float64, len(X))
	for i, row := range X {
		scaled[i] = standardize(row, d.means, d.stds)
	}

	pointErrs := reconstructionErrors(scaled, d.coefA, d.coefB)
	windowErrs := windowedErrors(pointErrs, d.length, len(scaled))
	for t := d.length - 1; t < len(X); t++ {
		scores[t] = windowErrs[t]
		if windowErrs[t] > d.threshold {
			labels[t] = 1
		}
	}
	return labels, scores, nil
}

// fitAR1 least-squares fits cur ≈ a*prev + b.
func fitAR1(prev, cur []float64) (a, b float64) {
	mp := mean(prev)
	mc := mean(cur)
	var num, den float64
	for i := range prev {
		num += (prev[i] - mp) * (cur[i] - mc)
		den += (prev[i] - mp) * (prev[i] - mp)
	}
	if den == 0 {
		return 0, mc
	}
	a = num / den
	b = mc - a*mp
	return a, b
}

// reconstructionErrors returns the per-point mean squared prediction
// error; index 0 has no predecessor and stays zero.
func reconstructionErrors(scaled [][]float64, coefA, coefB []float64) []float64 {
	errs := make([]float64, len(scaled))
	for t := 1; t < len(scaled); t++ {
		sum := 0.0
		for j := 0; j < len(coefA); j++ {
			pred := coefA[j]*scaled[t-1][j] + coefB[j]
			diff := scaled[t][j] - pred
			sum += diff * diff
		}
		errs[t] = sum / float64(len(coefA))
	}
	return errs
}

// windowedErrors averages point errors over the window ending at each
// index. Indexes before the first full window stay zero.
func windowedErrors(pointErrs []float64, length, n int) []float64 {
	out := make([]float64, n)
	for t := length - 1; t < n; t++ {
		start := t - length + 2
		if start < 1 {
			start = 1
		}
		sum := 0.0
		count := 0
		for k := start; k <= t; k++ {
			sum += pointErrs[k]
			count++
		}
		if count > 0 {
			out[t] = sum / float64(count)
		}
	}
	return out
}
