package engine

// detectorOutput is one detector's verdict over a batch.
type detectorOutput struct {
	name   string
	labels []int
	scores []float64
}

// vote combines per-detector outputs into a single label and score per
// sample. Labels use mean voting: a sample is anomalous when the mean
// of the included labels reaches voteRatio, so an exact tie counts as
// anomalous. Scores are the mean of the included raw scores, then
// min-max rescaled across the batch so downstream severity tiers see
// [0, 1]. With no outputs every sample is normal with score zero.
func vote(n int, outputs []detectorOutput, voteRatio float64) ([]int, []float64) {
	labels := make([]int, n)
	scores := make([]float64, n)
	if len(outputs) == 0 || n == 0 {
		return labels, scores
	}

	for i := 0; i < n; i++ {
		var labelSum, scoreSum float64
		for _, out := range outputs {
			labelSum += float64(out.labels[i])
			scoreSum += out.scores[i]
		}
		if labelSum/float64(len(outputs)) >= voteRatio {
			labels[i] = 1
		}
		scores[i] = scoreSum / float64(len(outputs))
	}
	return labels, normalizeScores(scores)
}

// normalizeScores rescales a batch of scores to [0, 1] relative to the
// batch itself. When every score is equal there is no spread to
// rescale: values already in range pass through, values above one
// saturate at one. Batch-relative scaling means a sample's final score
// depends on what it was scored with.
func normalizeScores(scores []float64) []float64 {
	if len(scores) == 0 {
		return scores
	}
	min, max := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	out := make([]float64, len(scores))
	if max > min {
		span := max - min
		for i, s := range scores {
			out[i] = (s - min) / span
		}
		return out
	}
	for i, s := range scores {
		if s > 1.0 {
			out[i] = 1.0
		} else {
			out[i] = s
		}
	}
	return out
}
