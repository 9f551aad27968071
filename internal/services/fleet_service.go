package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/asset"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/simulator"
)

// FleetService implements asset.Service. Simulated fleets come from the
// sector simulators; externally registered devices live in the registry
// with a bounded telemetry history ring per asset.
type FleetService struct {
	mu         sync.Mutex
	registered map[string]*asset.Asset
	order      []string
	history    map[string]*sampleRing

	sims        map[telemetry.Sector]*simulator.Simulator
	pipeline    *PipelineService
	historySize int

	repo   asset.Repository
	events FleetEvents
	logger *logger.Logger
	now    func() time.Time
}

var _ asset.Service = (*FleetService)(nil)

// NewFleetService creates a new fleet registry. repo may be nil,
// disabling the durable mirror.
func NewFleetService(
	sims map[telemetry.Sector]*simulator.Simulator,
	pipeline *PipelineService,
	historySize int,
	repo asset.Repository,
	log *logger.Logger,
) *FleetService {
	if historySize <= 0 {
		historySize = 20
	}
	return &FleetService{
		registered:  make(map[string]*asset.Asset),
		history:     make(map[string]*sampleRing),
		sims:        sims,
		pipeline:    pipeline,
		historySize: historySize,
		repo:        repo,
		logger:      log.Component("fleet"),
		now:         time.Now,
	}
}

// SetEventSink attaches the registry and telemetry fan-out. Attach
// before serving traffic; the field is read without the service lock.
func (s *FleetService) SetEventSink(sink FleetEvents) {
	s.events = sink
}

// Restore loads previously registered assets from the durable mirror,
// serving cold starts.
func (s *FleetService) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	assets, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	for _, a := range assets {
		if _, exists := s.registered[a.ID]; exists {
			continue
		}
		s.registered[a.ID] = a
		s.order = append(s.order, a.ID)
	}
	n := len(s.registered)
	s.mu.Unlock()

	if n > 0 {
		s.logger.Infof("Restored %d registered devices from store", n)
	}
	return nil
}

// Register adds an externally managed asset to the fleet. A missing ID
// gets a generated one; registering an existing ID is a conflict.
func (s *FleetService) Register(ctx context.Context, a *asset.Asset) (*asset.Asset, error) {
	if a.Type == "" {
		return nil, apperrors.BadRequest("asset_type is required")
	}
	if _, ok := telemetry.ParseSector(string(a.Sector)); !ok {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown sector %q", a.Sector))
	}
	if a.ID == "" {
		a.ID = generatedAssetID(a.Sector)
	}

	s.mu.Lock()
	if _, exists := s.registered[a.ID]; exists {
		s.mu.Unlock()
		return nil, apperrors.Conflict(fmt.Sprintf("device %s is already registered", a.ID))
	}
	a.Status = asset.StatusActive
	a.RegisteredAt = s.now()
	a.IsSimulated = false
	s.registered[a.ID] = a
	s.order = append(s.order, a.ID)
	out := a.Clone()
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"asset_id": out.ID,
		"sector":   string(out.Sector),
		"type":     out.Type,
	}).Info("Device registered")
	s.mirror(ctx, out)
	s.publishState(ctx, out)
	return out, nil
}

// Deregister removes a registered asset and its telemetry history.
// Simulated fleet members cannot be removed.
func (s *FleetService) Deregister(ctx context.Context, id string) error {
	s.mu.Lock()
	a, ok := s.registered[id]
	if !ok {
		s.mu.Unlock()
		return apperrors.NotFound("device")
	}
	out := a.Clone()
	delete(s.registered, id)
	delete(s.history, id)
	for i, known := range s.order {
		if known == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{"asset_id": id}).Info("Device deregistered")
	if s.repo != nil {
		if err := s.repo.Delete(ctx, id); err != nil {
			s.logger.ErrorWithErr(err, "Failed to delete device from store")
		}
	}
	out.Status = asset.StatusRemoved
	s.publishState(ctx, out)
	return nil
}

// GetByID retrieves an asset, registered or simulated.
func (s *FleetService) GetByID(ctx context.Context, id string) (*asset.Asset, error) {
	s.mu.Lock()
	if a, ok := s.registered[id]; ok {
		out := a.Clone()
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	for _, sim := range s.sims {
		for _, d := range sim.Devices() {
			if d.ID == id {
				return d, nil
			}
		}
	}
	return nil, apperrors.NotFound("device")
}

// ListRegistered lists externally registered assets in registration
// order.
func (s *FleetService) ListRegistered(ctx context.Context) []*asset.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*asset.Asset, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.registered[id].Clone())
	}
	return out
}

// ListAll lists simulated and registered assets, simulated fleets
// first in stable sector order.
func (s *FleetService) ListAll(ctx context.Context) []*asset.Asset {
	out := make([]*asset.Asset, 0)
	for _, sector := range telemetry.Sectors() {
		if sim, ok := s.sims[sector]; ok {
			out = append(out, sim.Devices()...)
		}
	}
	return append(out, s.ListRegistered(ctx)...)
}

// ListBySector lists assets in one sector, simulated fleet first.
func (s *FleetService) ListBySector(ctx context.Context, sector telemetry.Sector) []*asset.Asset {
	out := make([]*asset.Asset, 0)
	if sim, ok := s.sims[sector]; ok {
		out = append(out, sim.Devices()...)
	}
	for _, a := range s.ListRegistered(ctx) {
		if a.Sector == sector {
			out = append(out, a)
		}
	}
	return out
}

// History returns an asset's recent telemetry, oldest first.
func (s *FleetService) History(ctx context.Context, id string) ([]telemetry.Sample, error) {
	s.mu.Lock()
	_, isRegistered := s.registered[id]
	ring, hasHistory := s.history[id]
	var out []telemetry.Sample
	if hasHistory {
		out = ring.snapshot()
	}
	s.mu.Unlock()

	if !isRegistered && !hasHistory {
		if _, err := s.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}
	if out == nil {
		out = []telemetry.Sample{}
	}
	return out, nil
}

// RecordSample appends a sample to its asset's history ring and stamps
// the registered device's last_seen marker.
func (s *FleetService) RecordSample(ctx context.Context, sample telemetry.Sample) {
	if sample.AssetID == "" {
		return
	}
	s.mu.Lock()
	ring, ok := s.history[sample.AssetID]
	if !ok {
		ring = newSampleRing(s.historySize)
		s.history[sample.AssetID] = ring
	}
	ring.add(sample.Clone())
	var seen *asset.Asset
	if a, ok := s.registered[sample.AssetID]; ok {
		if a.Metadata == nil {
			a.Metadata = make(map[string]string)
		}
		a.Metadata["last_seen"] = s.now().UTC().Format(time.RFC3339)
		seen = a.Clone()
	}
	s.mu.Unlock()

	if seen != nil {
		s.publishState(ctx, seen)
	}
}

// Ingest stores pushed telemetry, streams it to the event bus and runs
// it through detection for every trained sector in the batch. Samples
// for untrained sectors are stored but not scored.
func (s *FleetService) Ingest(ctx context.Context, samples []telemetry.Sample) (*DetectResult, error) {
	groups := make(map[telemetry.Sector][]telemetry.Sample)
	for _, sample := range samples {
		if _, ok := telemetry.ParseSector(string(sample.Sector)); !ok {
			return nil, apperrors.BadRequest(fmt.Sprintf("unknown sector %q", sample.Sector))
		}
		s.RecordSample(ctx, sample)
		groups[sample.Sector] = append(groups[sample.Sector], sample)
	}

	merged := &DetectResult{}
	for sector, batch := range groups {
		if s.events != nil {
			s.events.PublishTelemetry(ctx, sector, batch)
		}
		if !s.pipeline.Trained(sector) {
			continue
		}
		res, err := s.pipeline.Detect(ctx, sector, batch)
		if err != nil {
			return nil, err
		}
		merged.Verdicts = append(merged.Verdicts, res.Verdicts...)
		merged.Anomalies += res.Anomalies
		merged.AlertsCreated += res.AlertsCreated
		merged.Alerts = append(merged.Alerts, res.Alerts...)
		merged.Actions = append(merged.Actions, res.Actions...)
	}
	return merged, nil
}

// SectorSamples generates fresh normal telemetry from a sector's
// simulated fleet, for live metric displays.
func (s *FleetService) SectorSamples(ctx context.Context, sector telemetry.Sector, n int) ([]telemetry.Sample, error) {
	sim, ok := s.sims[sector]
	if !ok {
		return nil, apperrors.NotFound("sector")
	}
	if n <= 0 {
		n = 10
	}
	return sim.Baseline(n), nil
}

func (s *FleetService) mirror(ctx context.Context, a *asset.Asset) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, a); err != nil {
		s.logger.ErrorWithErr(err, "Failed to mirror device registration")
	}
}

func (s *FleetService) publishState(ctx context.Context, a *asset.Asset) {
	if s.events == nil {
		return
	}
	s.events.PublishAssetState(ctx, a)
}

func generatedAssetID(sector telemetry.Sector) string {
	prefix := strings.ToUpper(string(sector))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	u := uuid.New()
	return fmt.Sprintf("%s-REG-%x", prefix, u[:4])
}

// sampleRing is a fixed-size telemetry buffer. Once full, new samples
// overwrite the oldest.
type sampleRing struct {
	buf  []telemetry.Sample
	next int
	full bool
}

func newSampleRing(size int) *sampleRing {
	return &sampleRing{buf: make([]telemetry.Sample, size)}
}

func (r *sampleRing) add(s telemetry.Sample) {
	r.buf[r.next] = s
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

func (r *sampleRing) snapshot() []telemetry.Sample {
	if !r.full {
		return append([]telemetry.Sample(nil), r.buf[:r.next]...)
	}
	out := make([]telemetry.Sample, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	out = append(out, r.buf[:r.next]...)
	return out
}
