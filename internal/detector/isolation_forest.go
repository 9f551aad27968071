package detector

import (
	"math"
	"math/rand"

	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
)

// Isolation forest defaults
const (
	DefaultForestTrees         = 100
	DefaultForestSubsample     = 256
	DefaultForestContamination = 0.1
)

// forestSeed fixes tree construction so repeated training on the same
// baseline yields the same forest.
const forestSeed = 42

// IsolationForest isolates anomalies by recursive random partitioning:
// points that take few random splits to isolate sit in sparse regions
// and score close to 1. The label threshold is set at training time to
// the (1 - contamination) quantile of the training scores.
type IsolationForest struct {
	trees         int
	subsample     int
	contamination float64

	forest     []*isoNode
	sampleSize int
	threshold  float64
	trained    bool
}

type isoNode struct {
	feature     int
	split       float64
	left, right *isoNode
	size        int
}

func (n *isoNode) leaf() bool { return n.left == nil }

// NewIsolationForest creates an isolation forest. Non-positive
// parameters fall back to the defaults.
func NewIsolationForest(trees, subsample int, contamination float64) *IsolationForest {
	if trees <= 0 {
		trees = DefaultForestTrees
	}
	if subsample <= 0 {
		subsample = DefaultForestSubsample
	}
	if contamination <= 0 || contamination >= 1 {
		contamination = DefaultForestContamination
	}
	return &IsolationForest{trees: trees, subsample: subsample, contamination: contamination}
}

// Name implements Detector.
func (d *IsolationForest) Name() string { return "isolation_forest" }

// Trained implements Detector.
func (d *IsolationForest) Trained() bool { return d.trained }

// Train grows the forest on random subsamples of the baseline and
// derives the label threshold from the training score distribution.
func (d *IsolationForest) Train(X [][]float64) error {
	if len(X) == 0 || len(X[0]) == 0 {
		return apperrors.BadRequest("training data is empty")
	}

	n := len(X)
	sampleSize := d.subsample
	if sampleSize > n {
		sampleSize = n
	}

	heightLimit := 0
	if sampleSize > 1 {
		heightLimit = int(math.Ceil(math.Log2(float64(sampleSize))))
	}

	rng := rand.New(rand.NewSource(forestSeed))
	forest := make([]*isoNode, d.trees)
	for t := range forest {
		idx := rng.Perm(n)[:sampleSize]
		forest[t] = buildIsoTree(X, idx, 0, heightLimit, rng)
	}

	d.forest = forest
	d.sampleSize = sampleSize
	d.trained = true

	scores := make([]float64, n)
	for i, row := range X {
		scores[i] = d.score(row)
	}
	d.threshold = quantile(scores, 1-d.contamination)
	return nil
}

// Predict scores each row with the standard isolation measure
// 2^(-E[h]/c(n)) and labels those above the training threshold.
func (d *IsolationForest) Predict(X [][]float64) ([]int, []float64, error) {
	if !d.trained {
		return nil, nil, apperrors.NotTrainedDetector(d.Name())
	}
	labels := make([]int, len(X))
	scores := make([]float64, len(X))
	for i, row := range X {
		s := d.score(row)
		scores[i] = s
		if s > d.threshold {
			labels[i] = 1
		}
	}
	return labels, scores, nil
}

func (d *IsolationForest) score(row []float64) float64 {
	total := 0.0
	for _, tree := range d.forest {
		total += pathLength(row, tree, 0)
	}
	avg := total / float64(len(d.forest))
	norm := avgPathLength(d.sampleSize)
	if norm == 0 {
		return 0.5
	}
	return math.Pow(2, -avg/norm)
}

func buildIsoTree(X [][]float64, idx []int, depth, limit int, rng *rand.Rand) *isoNode {
	if depth >= limit || len(idx) <= 1 {
		return &isoNode{size: len(idx)}
	}

	cols := len(X[idx[0]])
	// Candidate features must spread across the node's points;
	// constant columns cannot be split.
	splittable := make([]int, 0, cols)
	mins := make([]float64, cols)
	maxs := make([]float64, cols)
	for j := 0; j < cols; j++ {
		mins[j] = math.Inf(1)
		maxs[j] = math.Inf(-1)
	}
	for _, i := range idx {
		row := X[i]
		for j := 0; j < cols && j < len(row); j++ {
			if row[j] < mins[j] {
				mins[j] = row[j]
			}
			if row[j] > maxs[j] {
				maxs[j] = row[j]
			}
		}
	}
	for j := 0; j < cols; j++ {
		if maxs[j] > mins[j] {
			splittable = append(splittable, j)
		}
	}
	if len(splittable) == 0 {
		return &isoNode{size: len(idx)}
	}

	feature := splittable[rng.Intn(len(splittable))]
	split := mins[feature] + rng.Float64()*(maxs[feature]-mins[feature])

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if X[i][feature] < split {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	if len(leftIdx) == 0 || len(rightIdx) == 0 {
		return &isoNode{size: len(idx)}
	}

	return &isoNode{
		feature: feature,
		split:   split,
		left:    buildIsoTree(X, leftIdx, depth+1, limit, rng),
		right:   buildIsoTree(X, rightIdx, depth+1, limit, rng),
		size:    len(idx),
	}
}

func pathLength(row []float64, node *isoNode, depth int) float64 {
	for !node.leaf() {
		if node.feature < len(row) && row[node.feature] < node.split {
			node = node.left
		} else {
			node = node.right
		}
		depth++
	}
	return float64(depth) + avgPathLength(node.size)
}

// avgPathLength is c(n), the expected path length of an unsuccessful
// BST search among n points. It grounds both leaf adjustments and
// score normalization.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	if n == 2 {
		return 1
	}
	const euler = 0.5772156649
	h := math.Log(float64(n-1)) + euler
	return 2*h - 2*float64(n-1)/float64(n)
}
