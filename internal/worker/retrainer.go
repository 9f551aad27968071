package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
)

// Retrainer periodically re-fits every sector's detectors on fresh
// baseline telemetry so the models track drift in normal behavior. A
// sector whose run fails keeps serving its previous snapshot.
type Retrainer struct {
	pipeline  Pipeline
	schedule  string
	samples   atomic.Int64 // tunable at runtime, read at each run
	scheduler *cron.Cron
	logger    *logger.Logger
}

// NewRetrainer creates a retraining scheduler. schedule is a standard
// five-field cron expression; samples sizes each baseline.
func NewRetrainer(pipeline Pipeline, schedule string, samples int, log *logger.Logger) *Retrainer {
	if schedule == "" {
		schedule = "0 3 * * *"
	}
	if samples <= 0 {
		samples = 500
	}
	r := &Retrainer{
		pipeline: pipeline,
		schedule: schedule,
		logger:   log.Component("retrainer"),
	}
	r.samples.Store(int64(samples))
	return r
}

// Samples returns the baseline size the next run will use.
func (r *Retrainer) Samples() int {
	return int(r.samples.Load())
}

// SetSamples changes the baseline size for subsequent runs. Non-positive
// values are ignored.
func (r *Retrainer) SetSamples(n int) {
	if n <= 0 {
		return
	}
	r.samples.Store(int64(n))
}

// Start registers the schedule and begins firing in the background.
func (r *Retrainer) Start() error {
	r.scheduler = cron.New()
	if _, err := r.scheduler.AddFunc(r.schedule, r.run); err != nil {
		return fmt.Errorf("invalid retrain schedule %q: %w", r.schedule, err)
	}
	r.scheduler.Start()
	r.logger.Infof("Retraining scheduler started (%s, %d samples)", r.schedule, r.Samples())
	return nil
}

// Stop halts the scheduler. An in-flight retraining run finishes.
func (r *Retrainer) Stop() {
	if r.scheduler == nil {
		return
	}
	<-r.scheduler.Stop().Done()
	r.logger.Info("Retraining scheduler stopped")
}

// run retrains each sector in turn. Failures are logged per sector so
// one bad run does not starve the others.
func (r *Retrainer) run() {
	ctx := context.Background()
	started := time.Now()
	samples := r.Samples()

	retrained := 0
	for _, sector := range telemetry.Sectors() {
		result, err := r.pipeline.Train(ctx, sector, samples, "scheduled")
		if err != nil {
			r.logger.WithFields(map[string]interface{}{
				"sector": string(sector),
			}).ErrorWithErr(err, "Scheduled retraining failed")
			continue
		}
		retrained++
		r.logger.WithFields(map[string]interface{}{
			"sector":    string(sector),
			"samples":   result.Samples,
			"detectors": result.Detectors,
		}).Info("Sector models retrained")
	}

	r.logger.Infof("Retraining pass finished: %d/%d sectors in %s",
		retrained, len(telemetry.Sectors()), time.Since(started).Round(time.Millisecond))
}
