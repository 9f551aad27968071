package worker

import (
	"testing"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
)

func TestRetrainerRunCoversEverySector(t *testing.T) {
	pipeline := &fakePipeline{}
	r := NewRetrainer(pipeline, "", 0, testLogger())

	r.run()

	calls := pipeline.trainCalls()
	sectors := telemetry.Sectors()
	if len(calls) != len(sectors) {
		t.Fatalf("training calls = %d, want %d", len(calls), len(sectors))
	}
	for i, sector := range sectors {
		if calls[i].sector != sector {
			t.Errorf("call %d sector = %s, want %s", i, calls[i].sector, sector)
		}
		if calls[i].trigger != "scheduled" || calls[i].samples != 500 {
			t.Errorf("call %d = %+v, want scheduled/500", i, calls[i])
		}
	}
}

func TestRetrainerKeepsGoingWhenOneSectorFails(t *testing.T) {
	pipeline := &fakePipeline{fail: map[telemetry.Sector]bool{telemetry.SectorHealthcare: true}}
	r := NewRetrainer(pipeline, "", 0, testLogger())

	r.run()

	if got := len(pipeline.trainCalls()); got != len(telemetry.Sectors()) {
		t.Errorf("training calls = %d, want all sectors attempted", got)
	}
}

func TestRetrainerFiresOnSchedule(t *testing.T) {
	pipeline := &fakePipeline{}
	r := NewRetrainer(pipeline, "@every 25ms", 10, testLogger())

	if err := r.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer r.Stop()

	deadline := time.After(2 * time.Second)
	for len(pipeline.trainCalls()) == 0 {
		select {
		case <-deadline:
			t.Fatal("scheduler never fired")
		case <-time.After(10 * time.Millisecond):
		}
	}

	calls := pipeline.trainCalls()
	if calls[0].trigger != "scheduled" || calls[0].samples != 10 {
		t.Errorf("scheduled call = %+v", calls[0])
	}
}

func TestRetrainerRejectsBadSchedule(t *testing.T) {
	r := NewRetrainer(&fakePipeline{}, "when the moon is full", 10, testLogger())
	if err := r.Start(); err == nil {
		t.Fatal("expected schedule parse error")
	}
}

func TestRetrainerStopBeforeStartIsSafe(t *testing.T) {
	NewRetrainer(&fakePipeline{}, "", 0, testLogger()).Stop()
}
