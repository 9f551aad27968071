package detector

import (
	"math"
	"sort"
)

// mean returns the arithmetic mean, 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev returns the population standard deviation around m.
func stddev(xs []float64, m float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// columnMeans returns the per-column mean of a row-major matrix.
func columnMeans(X [][]float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	cols := len(X[0])
	means := make([]float64, cols)
	for _, row := range X {
		for j := 0; j < cols && j < len(row); j++ {
			means[j] += row[j]
		}
	}
	for j := range means {
		means[j] /= float64(len(X))
	}
	return means
}

// columnStds returns the per-column population standard deviation.
func columnStds(X [][]float64, means []float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	stds := make([]float64, len(means))
	for _, row := range X {
		for j := 0; j < len(means) && j < len(row); j++ {
			d := row[j] - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / float64(len(X)))
	}
	return stds
}

// flooredStds replaces zero deviations with 1 so standardization never
// divides by zero.
func flooredStds(stds []float64) []float64 {
	out := make([]float64, len(stds))
	for j, s := range stds {
		if s == 0 {
			out[j] = 1
		} else {
			out[j] = s
		}
	}
	return out
}

// quantile returns the q-th quantile (0..1) with linear interpolation
// between order statistics. The input is not modified.
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// euclidean returns the distance between two equally long vectors.
func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := 0; i < len(a) && i < len(b); i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
