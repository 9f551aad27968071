// Package simulator generates synthetic telemetry for the monitored
// sectors: a device fleet per sector, normal operating samples for
// model training, and attack-shaped samples for exercising the
// detection pipeline.
package simulator

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/asset"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
)

// attackFunc mutates a normal sample into an attack-shaped one. Most
// mutations are conditional on the device actually carrying the
// targeted signal, so an attack against the wrong device class can be
// a near-no-op, just as in live traffic.
type attackFunc func(r *rand.Rand, s *telemetry.Sample)

// profile describes one sector's device classes and traffic shape.
type profile struct {
	sector      telemetry.Sector
	idPrefix    string
	deviceTypes []string
	locations   []string
	firmware    func(r *rand.Rand) string
	metrics     func(r *rand.Rand, d *device, features map[string]float64, labels map[string]string)
	attacks     map[string]attackFunc
}

// device pairs the published asset record with simulator-local state.
type device struct {
	asset   *asset.Asset
	battery float64
}

// Simulator produces telemetry for one sector's simulated fleet. All
// generation goes through one seeded source, so a fixed seed replays
// the same fleet and traffic.
type Simulator struct {
	mu      sync.Mutex
	rng     *rand.Rand
	profile *profile
	devices []*device
}

// New builds a simulator for the given sector.
func New(sector telemetry.Sector, numDevices int, seed int64) (*Simulator, error) {
	var p *profile
	switch sector {
	case telemetry.SectorHealthcare:
		p = healthcareProfile()
	case telemetry.SectorAgriculture:
		p = agricultureProfile()
	case telemetry.SectorUrban:
		p = urbanProfile()
	default:
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown sector: %s", sector))
	}
	if numDevices <= 0 {
		numDevices = 10
	}

	s := &Simulator{rng: rand.New(rand.NewSource(seed)), profile: p}
	for i := 0; i < numDevices; i++ {
		s.devices = append(s.devices, s.newDevice(i))
	}
	return s, nil
}

// NewAll builds one simulator per monitored sector.
func NewAll(numDevices int, seed int64) map[telemetry.Sector]*Simulator {
	sims := make(map[telemetry.Sector]*Simulator, len(telemetry.Sectors()))
	for i, sector := range telemetry.Sectors() {
		sim, err := New(sector, numDevices, seed+int64(i))
		if err != nil {
			continue
		}
		sims[sector] = sim
	}
	return sims
}

func (s *Simulator) newDevice(i int) *device {
	a := &asset.Asset{
		ID:              fmt.Sprintf("%s-%04d", s.profile.idPrefix, i),
		Type:            s.profile.deviceTypes[s.rng.Intn(len(s.profile.deviceTypes))],
		Sector:          s.profile.sector,
		Location:        s.profile.locations[s.rng.Intn(len(s.profile.locations))],
		FirmwareVersion: s.profile.firmware(s.rng),
		Status:          asset.StatusActive,
		RegisteredAt:    time.Now(),
		IsSimulated:     true,
		Metadata: map[string]string{
			"last_maintenance": time.Now().UTC().Format(time.RFC3339),
		},
	}
	d := &device{asset: a}
	if s.profile.sector == telemetry.SectorAgriculture {
		d.battery = uniform(s.rng, 60, 100)
	}
	if s.profile.sector == telemetry.SectorUrban {
		a.Metadata["criticality"] = choice(s.rng, []string{"high", "medium", "low"})
	}
	return d
}

// Sector returns the sector this simulator feeds.
func (s *Simulator) Sector() telemetry.Sector { return s.profile.sector }

// Devices returns the simulated fleet.
func (s *Simulator) Devices() []*asset.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*asset.Asset, len(s.devices))
	for i, d := range s.devices {
		out[i] = d.asset.Clone()
	}
	return out
}

// AttackTypes lists the attacks this sector supports.
func (s *Simulator) AttackTypes() []string {
	types := make([]string, 0, len(s.profile.attacks))
	for name := range s.profile.attacks {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// Sample generates one normal reading. An empty device id picks a
// random fleet member; an unknown id falls back to the first device.
func (s *Simulator) Sample(deviceID string) telemetry.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.normalLocked(s.pickLocked(deviceID))
}

// Baseline generates n normal samples across random fleet members,
// the training feed for a sector's detectors.
func (s *Simulator) Baseline(n int) []telemetry.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	samples := make([]telemetry.Sample, n)
	for i := range samples {
		samples[i] = s.normalLocked(s.pickLocked(""))
	}
	return samples
}

// Attack generates n samples shaped like the named attack, cycling
// through the fleet so every device takes a share of the hits.
func (s *Simulator) Attack(attackType string, n int) ([]telemetry.Sample, error) {
	fn, ok := s.profile.attacks[attackType]
	if !ok {
		return nil, apperrors.BadRequest(fmt.Sprintf(
			"unknown attack type %q for sector %s, valid: %v",
			attackType, s.profile.sector, s.AttackTypes()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	samples := make([]telemetry.Sample, n)
	for i := range samples {
		sample := s.normalLocked(s.devices[i%len(s.devices)])
		fn(s.rng, &sample)
		if sample.Labels == nil {
			sample.Labels = map[string]string{}
		}
		sample.Labels["anomaly_injected"] = attackType
		samples[i] = sample
	}
	return samples, nil
}

func (s *Simulator) pickLocked(deviceID string) *device {
	if deviceID == "" {
		return s.devices[s.rng.Intn(len(s.devices))]
	}
	for _, d := range s.devices {
		if d.asset.ID == deviceID {
			return d
		}
	}
	return s.devices[0]
}

func (s *Simulator) normalLocked(d *device) telemetry.Sample {
	features := map[string]float64{
		"cpu_usage":            uniform(s.rng, 20, 80),
		"memory_usage":         uniform(s.rng, 30, 70),
		"network_traffic_mbps": uniform(s.rng, 10, 100),
		"disk_io_ops":          float64(intRange(s.rng, 100, 1000)),
	}
	labels := map[string]string{"location": d.asset.Location}
	s.profile.metrics(s.rng, d, features, labels)

	return telemetry.Sample{
		Timestamp: time.Now(),
		AssetID:   d.asset.ID,
		AssetType: d.asset.Type,
		Sector:    s.profile.sector,
		Features:  features,
		Labels:    labels,
	}
}

// Randomness helpers shared by the sector profiles. intRange is
// inclusive on both ends.

func uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

func intRange(r *rand.Rand, lo, hi int) int {
	return lo + r.Intn(hi-lo+1)
}

func choice(r *rand.Rand, options []string) string {
	return options[r.Intn(len(options))]
}

// addNoise jitters a value by up to noisePercent of itself, floored
// at zero.
func addNoise(r *rand.Rand, value, noisePercent float64) float64 {
	noise := value * (noisePercent / 100) * uniform(r, -1, 1)
	if value+noise < 0 {
		return 0
	}
	return value + noise
}

func pickFloat(r *rand.Rand, a, b float64) float64 {
	if r.Intn(2) == 0 {
		return a
	}
	return b
}
