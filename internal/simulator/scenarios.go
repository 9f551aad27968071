package simulator

import (
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
)

// Scenario is a scripted red-team exercise: a sequence of attack types
// run against one sector at a given intensity. MITRE tactic tags let
// reports roll up framework coverage.
type Scenario struct {
	Key          string           `json:"scenario_name"`
	Name         string           `json:"description"`
	Sector       telemetry.Sector `json:"sector"`
	AttackTypes  []string         `json:"attack_types"`
	Duration     int              `json:"duration_seconds"`
	Intensity    string           `json:"intensity"`
	MitreTactics []string         `json:"mitre_tactics"`
}

// Samples maps intensity to the number of attack samples a run
// generates.
func (s Scenario) Samples() int {
	switch s.Intensity {
	case "low":
		return 10
	case "medium":
		return 25
	case "high":
		return 50
	case "critical":
		return 100
	default:
		return 25
	}
}

// mitreTacticCount is the number of tactics in the ATT&CK framework,
// the denominator for coverage percentages.
const mitreTacticCount = 14

// MitreCoverage converts a tactic set size to a framework percentage.
func MitreCoverage(tactics int) float64 {
	return float64(tactics) / mitreTacticCount * 100
}

// Scenarios returns the predefined exercise catalog in a stable order.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Key:          "healthcare_ransomware",
			Name:         "Hospital Ransomware Attack",
			Sector:       telemetry.SectorHealthcare,
			AttackTypes:  []string{"ransomware", "unauthorized_access"},
			Duration:     120,
			Intensity:    "high",
			MitreTactics: []string{"TA0001", "TA0040", "TA0009"},
		},
		{
			Key:          "medical_device_hijack",
			Name:         "Medical Device Hijacking",
			Sector:       telemetry.SectorHealthcare,
			AttackTypes:  []string{"device_tampering", "unauthorized_access"},
			Duration:     60,
			Intensity:    "critical",
			MitreTactics: []string{"TA0040", "TA0006"},
		},
		{
			Key:          "patient_data_theft",
			Name:         "Patient Data Exfiltration",
			Sector:       telemetry.SectorHealthcare,
			AttackTypes:  []string{"data_exfiltration", "insider_threat"},
			Duration:     90,
			Intensity:    "high",
			MitreTactics: []string{"TA0010", "TA0009"},
		},
		{
			Key:          "irrigation_sabotage",
			Name:         "Irrigation System Sabotage",
			Sector:       telemetry.SectorAgriculture,
			AttackTypes:  []string{"sensor_tampering", "irrigation_manipulation"},
			Duration:     60,
			Intensity:    "high",
			MitreTactics: []string{"TA0040"},
		},
		{
			Key:          "drone_gps_spoofing",
			Name:         "Agricultural Drone GPS Spoofing",
			Sector:       telemetry.SectorAgriculture,
			AttackTypes:  []string{"gps_spoofing"},
			Duration:     45,
			Intensity:    "medium",
			MitreTactics: []string{"TA0040"},
		},
		{
			Key:          "weather_data_poisoning",
			Name:         "Weather Data Poisoning Attack",
			Sector:       telemetry.SectorAgriculture,
			AttackTypes:  []string{"sensor_tampering"},
			Duration:     60,
			Intensity:    "medium",
			MitreTactics: []string{"TA0040"},
		},
		{
			Key:          "water_scada_attack",
			Name:         "Water Treatment SCADA Attack",
			Sector:       telemetry.SectorUrban,
			AttackTypes:  []string{"scada_attack"},
			Duration:     90,
			Intensity:    "critical",
			MitreTactics: []string{"TA0040", "TA0002"},
		},
		{
			Key:          "traffic_manipulation",
			Name:         "Traffic Control System Manipulation",
			Sector:       telemetry.SectorUrban,
			AttackTypes:  []string{"scada_attack", "traffic_manipulation"},
			Duration:     60,
			Intensity:    "high",
			MitreTactics: []string{"TA0040"},
		},
		{
			Key:          "smart_grid_attack",
			Name:         "Smart Grid Destabilization",
			Sector:       telemetry.SectorUrban,
			AttackTypes:  []string{"scada_attack", "power_grid_attack"},
			Duration:     120,
			Intensity:    "critical",
			MitreTactics: []string{"TA0040"},
		},
		{
			Key:          "emergency_dos",
			Name:         "Emergency Services DoS",
			Sector:       telemetry.SectorUrban,
			AttackTypes:  []string{"emergency_system_dos"},
			Duration:     60,
			Intensity:    "critical",
			MitreTactics: []string{"TA0040"},
		},
	}
}

// FindScenario looks up a catalog entry by key.
func FindScenario(key string) (Scenario, bool) {
	for _, s := range Scenarios() {
		if s.Key == key {
			return s, true
		}
	}
	return Scenario{}, false
}
