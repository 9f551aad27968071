package detector

import (
	"math/rand"
	"testing"
)

func noisyRows(n int, offset float64, rng *rand.Rand) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = []float64{offset + rng.NormFloat64()}
	}
	return rows
}

func TestSequence_Train(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name    string
		length  int
		data    [][]float64
		wantErr bool
	}{
		{
			name:    "enough samples",
			length:  5,
			data:    noisyRows(50, 0, rng),
			wantErr: false,
		},
		{
			name:    "exactly minimum",
			length:  5,
			data:    noisyRows(14, 0, rng),
			wantErr: false,
		},
		{
			name:    "below minimum",
			length:  5,
			data:    noisyRows(13, 0, rng),
			wantErr: true,
		},
		{
			name:    "empty",
			length:  5,
			data:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewSequence(tt.length)
			err := d.Train(tt.data)

			if (err != nil) != tt.wantErr {
				t.Errorf("Train() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSequence_ShortBatchScoresZero(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	d := NewSequence(10)
	if err := d.Train(noisyRows(60, 0, rng)); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	labels, scores, err := d.Predict(noisyRows(5, 0, rng))
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i := range labels {
		if labels[i] != 0 || scores[i] != 0 {
			t.Errorf("Predict() point %d = (%d, %v), want (0, 0) for a batch shorter than the window", i, labels[i], scores[i])
		}
	}
}

func TestSequence_FlagsRegimeChange(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	d := NewSequence(5)
	if err := d.Train(noisyRows(100, 0, rng)); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	// Ten in-regime points followed by ten points at a large offset.
	batch := noisyRows(10, 0, rng)
	batch = append(batch, noisyRows(10, 50, rng)...)

	labels, scores, err := d.Predict(batch)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	// Points before a full window score zero.
	for i := 0; i < 4; i++ {
		if scores[i] != 0 {
			t.Errorf("Predict() warmup score %d = %v, want 0", i, scores[i])
		}
	}

	if labels[len(labels)-1] != 1 {
		t.Errorf("Predict() post-shift label = %d, want 1", labels[len(labels)-1])
	}
	if scores[len(scores)-1] <= scores[9] {
		t.Errorf("Predict() post-shift score %v not above in-regime score %v", scores[len(scores)-1], scores[9])
	}
}

func TestSequence_PredictBeforeTrain(t *testing.T) {
	d := NewSequence(5)
	_, _, err := d.Predict(noisyRows(10, 0, rand.New(rand.NewSource(6))))
	if err == nil {
		t.Fatal("Predict() expected error before Train()")
	}
}
