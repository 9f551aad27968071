package simulator

import (
	"math"
	"testing"
)

// Every catalog entry must name attack types its sector simulator can
// actually generate, otherwise exercises would emit mislabeled normal
// telemetry.
func TestScenarios_AttackTypesResolvable(t *testing.T) {
	for _, sc := range Scenarios() {
		sim, err := New(sc.Sector, 5, 1)
		if err != nil {
			t.Fatalf("New(%s) error = %v", sc.Sector, err)
		}
		for _, at := range sc.AttackTypes {
			if _, err := sim.Attack(at, 1); err != nil {
				t.Errorf("scenario %s: attack type %q not supported by %s simulator: %v",
					sc.Key, at, sc.Sector, err)
			}
		}
		if len(sc.MitreTactics) == 0 {
			t.Errorf("scenario %s has no MITRE tactics", sc.Key)
		}
		if sc.Duration <= 0 {
			t.Errorf("scenario %s duration = %d, want > 0", sc.Key, sc.Duration)
		}
	}
}

func TestScenario_Samples(t *testing.T) {
	tests := []struct {
		intensity string
		want      int
	}{
		{"low", 10},
		{"medium", 25},
		{"high", 50},
		{"critical", 100},
		{"unheard_of", 25},
	}
	for _, tt := range tests {
		t.Run(tt.intensity, func(t *testing.T) {
			s := Scenario{Intensity: tt.intensity}
			if got := s.Samples(); got != tt.want {
				t.Errorf("Samples() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMitreCoverage(t *testing.T) {
	if got := MitreCoverage(7); math.Abs(got-50) > 1e-9 {
		t.Errorf("MitreCoverage(7) = %v, want 50", got)
	}
	if got := MitreCoverage(0); got != 0 {
		t.Errorf("MitreCoverage(0) = %v, want 0", got)
	}
}

func TestFindScenario(t *testing.T) {
	sc, ok := FindScenario("water_scada_attack")
	if !ok {
		t.Fatal("FindScenario(water_scada_attack) not found")
	}
	if sc.Name != "Water Treatment SCADA Attack" {
		t.Errorf("Name = %q, want %q", sc.Name, "Water Treatment SCADA Attack")
	}
	if _, ok := FindScenario("nope"); ok {
		t.Error("FindScenario(nope) = found, want miss")
	}
}
