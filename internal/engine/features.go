package engine

import (
	"sort"
	"sync"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
)

// FeatureExtractor turns telemetry samples into the fixed-order numeric
// matrix the detectors consume. The first batch it sees fixes the
// feature-name list for the extractor's lifetime: the sorted union of
// feature keys across that batch. Later batches project onto it,
// filling missing features with zero and ignoring unknown ones, so a
// model trained against the list always receives columns in the same
// order.
type FeatureExtractor struct {
	mu    sync.RWMutex
	names []string
}

// NewFeatureExtractor creates an extractor with no fixed features yet.
func NewFeatureExtractor() *FeatureExtractor {
	return &FeatureExtractor{}
}

// Names returns the fixed feature-name list, nil before the first
// batch.
func (e *FeatureExtractor) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.names == nil {
		return nil
	}
	return append([]string(nil), e.names...)
}

// Prepare converts samples to a row-major matrix. The first call fixes
// the feature set and fails with NoNumericFeatures when the batch
// carries none.
func (e *FeatureExtractor) Prepare(samples []telemetry.Sample) ([][]float64, error) {
	names, err := e.lockNames(samples)
	if err != nil {
		return nil, err
	}

	X := make([][]float64, len(samples))
	for i, s := range samples {
		row := make([]float64, len(names))
		for j, name := range names {
			row[j] = s.Features[name]
		}
		X[i] = row
	}
	return X, nil
}

func (e *FeatureExtractor) lockNames(samples []telemetry.Sample) ([]string, error) {
	e.mu.RLock()
	names := e.names
	e.mu.RUnlock()
	if names != nil {
		return names, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.names != nil {
		return e.names, nil
	}

	union := make(map[string]struct{})
	for _, s := range samples {
		for k := range s.Features {
			union[k] = struct{}{}
		}
	}
	if len(union) == 0 {
		return nil, apperrors.NoNumericFeatures()
	}

	fixed := make([]string, 0, len(union))
	for k := range union {
		fixed = append(fixed, k)
	}
	sort.Strings(fixed)
	e.names = fixed
	return fixed, nil
}
