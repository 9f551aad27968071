package services

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/config"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/asset"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/engine"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/simulator"
)

func newTestFleetService(t *testing.T, historySize int) (*FleetService, *fakeClock) {
	t.Helper()
	log := testLogger()
	sim, err := simulator.New(telemetry.SectorHealthcare, 3, 42)
	if err != nil {
		t.Fatalf("simulator.New: %v", err)
	}
	sims := map[telemetry.Sector]*simulator.Simulator{
		telemetry.SectorHealthcare: sim,
	}
	engines := map[telemetry.Sector]*engine.Engine{
		telemetry.SectorHealthcare: engine.New(telemetry.SectorHealthcare, config.DetectionConfig{}, log),
	}
	alerts := NewAlertService(config.AlertingConfig{QuietPeriod: time.Minute}, nil, nil, log)
	pipe := NewPipelineService(engines, sims, alerts, nil, nil, false, 200, log)

	svc := NewFleetService(sims, pipe, historySize, nil, log)
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc.now = clock.Now
	return svc, clock
}

func registeredPump(id string) *asset.Asset {
	return &asset.Asset{
		ID:        id,
		Type:      "infusion_pump",
		Sector:    telemetry.SectorHealthcare,
		Location:  "ward-3",
		IPAddress: "10.1.2.3",
	}
}

func TestRegister_GeneratesIDAndDefaults(t *testing.T) {
	svc, clock := newTestFleetService(t, 5)

	a, err := svc.Register(context.Background(), registeredPump(""))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if matched := regexp.MustCompile(`^HEA-REG-[0-9a-f]{8}$`).MatchString(a.ID); !matched {
		t.Errorf("generated ID = %q, want HEA-REG-xxxxxxxx", a.ID)
	}
	if a.Status != asset.StatusActive {
		t.Errorf("Status = %q, want %q", a.Status, asset.StatusActive)
	}
	if a.IsSimulated {
		t.Error("registered device marked as simulated")
	}
	if !a.RegisteredAt.Equal(clock.Now()) {
		t.Errorf("RegisteredAt = %v, want %v", a.RegisteredAt, clock.Now())
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestFleetService(t, 5)

	tests := []struct {
		name  string
		asset *asset.Asset
	}{
		{"missing type", &asset.Asset{Sector: telemetry.SectorHealthcare}},
		{"unknown sector", &asset.Asset{Type: "infusion_pump", Sector: "finance"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tt.asset); !apperrors.IsCode(err, apperrors.ErrCodeBadRequest) {
				t.Errorf("Register(%s) error = %v, want bad request", tt.name, err)
			}
		})
	}
}

func TestRegister_DuplicateConflict(t *testing.T) {
	svc, _ := newTestFleetService(t, 5)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registeredPump("HEA-REG-fixed001")); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(ctx, registeredPump("HEA-REG-fixed001")); !apperrors.IsCode(err, apperrors.ErrCodeConflict) {
		t.Errorf("second Register error = %v, want conflict", err)
	}
}

func TestDeregister(t *testing.T) {
	svc, _ := newTestFleetService(t, 5)
	ctx := context.Background()

	if err := svc.Deregister(ctx, "nope"); !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("Deregister(unknown) error = %v, want not found", err)
	}

	a, err := svc.Register(ctx, registeredPump(""))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	svc.RecordSample(ctx, telemetry.Sample{
		AssetID: a.ID, Sector: telemetry.SectorHealthcare,
		Features: map[string]float64{"cpu_usage": 40},
	})

	if err := svc.Deregister(ctx, a.ID); err != nil {
		t.Fatalf("Deregister: %v", err)
	}
	if _, err := svc.GetByID(ctx, a.ID); !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("GetByID after deregister error = %v, want not found", err)
	}
	if _, err := svc.History(ctx, a.ID); !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("History after deregister error = %v, want not found", err)
	}
	if got := svc.ListRegistered(ctx); len(got) != 0 {
		t.Errorf("ListRegistered after deregister = %d assets, want 0", len(got))
	}
}

func TestGetByID_FindsSimulatedDevice(t *testing.T) {
	svc, _ := newTestFleetService(t, 5)

	a, err := svc.GetByID(context.Background(), "HC-0001")
	if err != nil {
		t.Fatalf("GetByID(HC-0001): %v", err)
	}
	if !a.IsSimulated {
		t.Error("simulated fleet member not marked as simulated")
	}
	if a.Sector != telemetry.SectorHealthcare {
		t.Errorf("Sector = %q, want healthcare", a.Sector)
	}
}

func TestListAll_AndBySector(t *testing.T) {
	svc, _ := newTestFleetService(t, 5)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registeredPump("HEA-REG-aaaa0001")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	tractor := &asset.Asset{ID: "AGR-REG-bbbb0001", Type: "soil_sensor", Sector: telemetry.SectorAgriculture}
	if _, err := svc.Register(ctx, tractor); err != nil {
		t.Fatalf("Register agriculture: %v", err)
	}

	all := svc.ListAll(ctx)
	if len(all) != 5 {
		t.Fatalf("ListAll = %d assets, want 5 (3 simulated + 2 registered)", len(all))
	}
	if !all[0].IsSimulated || all[len(all)-1].IsSimulated {
		t.Error("ListAll should put simulated fleets before registered devices")
	}

	hc := svc.ListBySector(ctx, telemetry.SectorHealthcare)
	if len(hc) != 4 {
		t.Fatalf("ListBySector(healthcare) = %d assets, want 4", len(hc))
	}
	for _, a := range hc {
		if a.Sector != telemetry.SectorHealthcare {
			t.Errorf("ListBySector leaked %s from sector %s", a.ID, a.Sector)
		}
	}
	if ag := svc.ListBySector(ctx, telemetry.SectorAgriculture); len(ag) != 1 || ag[0].ID != tractor.ID {
		t.Errorf("ListBySector(agriculture) = %v, want just %s", ag, tractor.ID)
	}
}

func TestHistory_RingKeepsNewestOldestFirst(t *testing.T) {
	svc, _ := newTestFleetService(t, 3)
	ctx := context.Background()

	a, err := svc.Register(ctx, registeredPump(""))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	empty, err := svc.History(ctx, a.ID)
	if err != nil {
		t.Fatalf("History before samples: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("History before samples = %d entries, want 0", len(empty))
	}

	for i := 0; i < 5; i++ {
		svc.RecordSample(ctx, telemetry.Sample{
			AssetID: a.ID, Sector: telemetry.SectorHealthcare,
			Features: map[string]float64{"seq": float64(i)},
		})
	}

	got, err := svc.History(ctx, a.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("History = %d entries, want ring size 3", len(got))
	}
	for i, want := range []float64{2, 3, 4} {
		if got[i].Features["seq"] != want {
			t.Errorf("History[%d].seq = %v, want %v (oldest first)", i, got[i].Features["seq"], want)
		}
	}

	if _, err := svc.History(ctx, "ghost"); !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("History(unknown) error = %v, want not found", err)
	}
}

func TestRecordSample_StampsLastSeen(t *testing.T) {
	svc, clock := newTestFleetService(t, 5)
	ctx := context.Background()

	a, err := svc.Register(ctx, registeredPump(""))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	clock.Advance(42 * time.Second)
	svc.RecordSample(ctx, telemetry.Sample{
		AssetID: a.ID, Sector: telemetry.SectorHealthcare,
		Features: map[string]float64{"cpu_usage": 12},
	})

	got, err := svc.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	want := clock.Now().UTC().Format(time.RFC3339)
	if got.Metadata["last_seen"] != want {
		t.Errorf("last_seen = %q, want %q", got.Metadata["last_seen"], want)
	}
}

type fakeFleetSink struct {
	states  []*asset.Asset
	batches []int
}

func (f *fakeFleetSink) PublishAssetState(ctx context.Context, a *asset.Asset) {
	f.states = append(f.states, a)
}

func (f *fakeFleetSink) PublishTelemetry(ctx context.Context, sector telemetry.Sector, samples []telemetry.Sample) {
	f.batches = append(f.batches, len(samples))
}

func TestEventSink_SeesRegistryChanges(t *testing.T) {
	svc, _ := newTestFleetService(t, 5)
	sink := &fakeFleetSink{}
	svc.SetEventSink(sink)
	ctx := context.Background()

	a, err := svc.Register(ctx, registeredPump("HC-0300"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	svc.RecordSample(ctx, telemetry.Sample{
		AssetID: a.ID, Sector: telemetry.SectorHealthcare,
		Features: map[string]float64{"cpu_usage": 12},
	})
	// History for an unregistered (simulated) device is tracked but
	// publishes no state change.
	svc.RecordSample(ctx, telemetry.Sample{
		AssetID: "HC-0001", Sector: telemetry.SectorHealthcare,
		Features: map[string]float64{"cpu_usage": 12},
	})
	if err := svc.Deregister(ctx, a.ID); err != nil {
		t.Fatalf("Deregister: %v", err)
	}

	if len(sink.states) != 3 {
		t.Fatalf("published %d state changes, want 3", len(sink.states))
	}
	if sink.states[0].Status != asset.StatusActive {
		t.Errorf("register published status %q, want active", sink.states[0].Status)
	}
	if sink.states[1].Metadata["last_seen"] == "" {
		t.Error("sample publish missing last_seen")
	}
	if sink.states[2].Status != asset.StatusRemoved {
		t.Errorf("deregister published status %q, want removed", sink.states[2].Status)
	}
}

func TestEventSink_StreamsIngestedTelemetry(t *testing.T) {
	svc, _ := newTestFleetService(t, 5)
	sink := &fakeFleetSink{}
	svc.SetEventSink(sink)
	ctx := context.Background()

	// The sector is untrained, so the batch is stored and streamed but
	// not scored.
	res, err := svc.Ingest(ctx, []telemetry.Sample{
		{AssetID: "HC-0001", Sector: telemetry.SectorHealthcare, Features: map[string]float64{"cpu_usage": 30}},
		{AssetID: "HC-0002", Sector: telemetry.SectorHealthcare, Features: map[string]float64{"cpu_usage": 35}},
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(res.Verdicts) != 0 {
		t.Errorf("untrained sector produced %d verdicts", len(res.Verdicts))
	}
	if len(sink.batches) != 1 || sink.batches[0] != 2 {
		t.Errorf("streamed batches = %v, want [2]", sink.batches)
	}
}

func TestIngest(t *testing.T) {
	svc, _ := newTestFleetService(t, 10)
	ctx := context.Background()

	push := func(n int) []telemetry.Sample {
		samples := make([]telemetry.Sample, n)
		for i := range samples {
			samples[i] = telemetry.Sample{
				AssetID:   fmt.Sprintf("edge-%d", i),
				AssetType: "gateway",
				Sector:    telemetry.SectorHealthcare,
				Features:  map[string]float64{"cpu_usage": 40 + float64(i), "memory_usage": 50},
				Timestamp: time.Now().UTC(),
			}
		}
		return samples
	}

	// Before training the batch is stored but never scored.
	res, err := svc.Ingest(ctx, push(3))
	if err != nil {
		t.Fatalf("Ingest untrained: %v", err)
	}
	if len(res.Verdicts) != 0 || res.Anomalies != 0 {
		t.Errorf("untrained Ingest scored samples: %+v", res)
	}
	if hist, _ := svc.History(ctx, "edge-0"); len(hist) != 1 {
		t.Errorf("untrained Ingest did not record history, got %d entries", len(hist))
	}

	if _, err := svc.pipeline.Train(ctx, telemetry.SectorHealthcare, 120, "test"); err != nil {
		t.Fatalf("Train: %v", err)
	}

	res, err = svc.Ingest(ctx, push(3))
	if err != nil {
		t.Fatalf("Ingest trained: %v", err)
	}
	if len(res.Verdicts) != 3 {
		t.Errorf("trained Ingest verdicts = %d, want 3", len(res.Verdicts))
	}
	if hist, _ := svc.History(ctx, "edge-0"); len(hist) != 2 {
		t.Errorf("history after two ingests = %d entries, want 2", len(hist))
	}

	bad := []telemetry.Sample{{AssetID: "x", Sector: "finance"}}
	if _, err := svc.Ingest(ctx, bad); !apperrors.IsCode(err, apperrors.ErrCodeBadRequest) {
		t.Errorf("Ingest(unknown sector) error = %v, want bad request", err)
	}
}

func TestSectorSamples(t *testing.T) {
	svc, _ := newTestFleetService(t, 5)
	ctx := context.Background()

	samples, err := svc.SectorSamples(ctx, telemetry.SectorHealthcare, 0)
	if err != nil {
		t.Fatalf("SectorSamples: %v", err)
	}
	if len(samples) != 10 {
		t.Errorf("default sample count = %d, want 10", len(samples))
	}
	if _, err := svc.SectorSamples(ctx, telemetry.SectorUrban, 5); !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("SectorSamples(unprovisioned sector) error = %v, want not found", err)
	}
}
