package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/asset"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/detection"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/probe"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/services"
)

// Fleet is the slice of the fleet service the workers consume.
type Fleet interface {
	ListRegistered(ctx context.Context) []*asset.Asset
	Ingest(ctx context.Context, samples []telemetry.Sample) (*services.DetectResult, error)
}

// Pipeline is the slice of the detection pipeline the workers consume.
type Pipeline interface {
	Trained(sector telemetry.Sector) bool
	Train(ctx context.Context, sector telemetry.Sector, numSamples int, trigger string) (*detection.TrainingResult, error)
}

// Prober checks one host for liveness and service exposure.
type Prober interface {
	Probe(ctx context.Context, host string) probe.Result
}

const (
	defaultMonitorInterval = 10 * time.Second
	defaultRetryWait       = 5 * time.Second
	defaultBootstrapSize   = 50
)

// Monitor polls registered hardware over the network and feeds the
// observed telemetry through the detection pipeline. Simulated fleets
// are skipped; their samples come from the simulators directly.
type Monitor struct {
	fleet     Fleet
	pipeline  Pipeline
	prober    Prober
	interval  atomic.Int64 // nanoseconds, tunable at runtime
	retryWait time.Duration
	bootstrap int
	logger    *logger.Logger
	now       func() time.Time
}

// NewMonitor creates a fleet monitor worker. bootstrapSamples sizes the
// baseline used to train a sector the first time one of its devices is
// polled before any explicit training ran.
func NewMonitor(fleet Fleet, pipeline Pipeline, prober Prober, interval time.Duration, bootstrapSamples int, log *logger.Logger) *Monitor {
	if interval <= 0 {
		interval = defaultMonitorInterval
	}
	if bootstrapSamples <= 0 {
		bootstrapSamples = defaultBootstrapSize
	}
	m := &Monitor{
		fleet:     fleet,
		pipeline:  pipeline,
		prober:    prober,
		retryWait: defaultRetryWait,
		bootstrap: bootstrapSamples,
		logger:    log.Component("monitor"),
		now:       time.Now,
	}
	m.interval.Store(int64(interval))
	return m
}

// Interval returns the current poll interval.
func (m *Monitor) Interval() time.Duration {
	return time.Duration(m.interval.Load())
}

// SetInterval changes the poll interval, taking effect after the sweep
// in progress. Non-positive values are ignored.
func (m *Monitor) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	m.interval.Store(int64(d))
}

// Start begins the polling loop and blocks until ctx is cancelled. The
// first sweep runs immediately; a failed sweep retries after a short
// wait instead of sitting out the whole interval.
func (m *Monitor) Start(ctx context.Context) {
	m.logger.Infof("Starting fleet monitor (every %s)", m.Interval())

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Fleet monitor stopped")
			return
		case <-timer.C:
			wait := m.Interval()
			if err := m.sweep(ctx); err != nil {
				m.logger.ErrorWithErr(err, "Fleet sweep failed")
				wait = m.retryWait
			}
			timer.Reset(wait)
		}
	}
}

// sweep probes every registered device with a network address and runs
// the collected telemetry through detection. Sectors seen for the first
// time are trained from a small simulated baseline so their devices are
// scored rather than silently recorded.
func (m *Monitor) sweep(ctx context.Context) error {
	devices := m.fleet.ListRegistered(ctx)

	samples := make([]telemetry.Sample, 0, len(devices))
	sectors := make(map[telemetry.Sector]bool)
	for _, dev := range devices {
		if dev.IsSimulated || dev.IPAddress == "" {
			continue
		}
		res := m.prober.Probe(ctx, dev.IPAddress)
		if !res.Reachable {
			m.logger.WithFields(map[string]interface{}{
				"asset_id":   dev.ID,
				"ip_address": dev.IPAddress,
			}).Warn("Registered device unreachable")
		}
		samples = append(samples, res.Sample(dev, m.now()))
		sectors[dev.Sector] = true
	}
	if len(samples) == 0 {
		return nil
	}

	for _, sector := range telemetry.Sectors() {
		if !sectors[sector] || m.pipeline.Trained(sector) {
			continue
		}
		if _, err := m.pipeline.Train(ctx, sector, m.bootstrap, "bootstrap"); err != nil {
			return fmt.Errorf("bootstrap training for sector %s: %w", sector, err)
		}
		m.logger.Infof("Bootstrapped %s models from %d baseline samples", sector, m.bootstrap)
	}

	res, err := m.fleet.Ingest(ctx, samples)
	if err != nil {
		return err
	}
	if res.Anomalies > 0 {
		m.logger.WithFields(map[string]interface{}{
			"devices":   len(samples),
			"anomalies": res.Anomalies,
			"alerts":    res.AlertsCreated,
		}).Warn("Fleet sweep flagged anomalous devices")
	} else {
		m.logger.Debugf("Fleet sweep scored %d device(s), all nominal", len(samples))
	}
	return nil
}
