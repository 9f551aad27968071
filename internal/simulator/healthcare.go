package simulator

import (
	"fmt"
	"math/rand"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
)

func healthcareProfile() *profile {
	return &profile{
		sector:   telemetry.SectorHealthcare,
		idPrefix: "HC",
		deviceTypes: []string{
			"infusion_pump",
			"patient_monitor",
			"mri_machine",
			"ct_scanner",
			"ehr_server",
			"pacs_system",
			"ventilator",
			"ecg_monitor",
		},
		locations: []string{"ICU", "ER", "Surgery", "Radiology", "Ward-A", "Ward-B"},
		firmware: func(r *rand.Rand) string {
			return fmt.Sprintf("%d.%d.%d", intRange(r, 1, 5), intRange(r, 0, 9), intRange(r, 0, 20))
		},
		metrics: healthcareMetrics,
		attacks: map[string]attackFunc{
			"unauthorized_access": func(r *rand.Rand, s *telemetry.Sample) {
				s.Features["authentication_failure"] = float64(intRange(r, 50, 200))
				s.Features["failed_logins"] = float64(intRange(r, 20, 100))
				s.Features["cpu_usage"] = uniform(r, 85, 98)
			},
			"data_exfiltration": func(r *rand.Rand, s *telemetry.Sample) {
				s.Features["network_traffic_mbps"] = uniform(r, 200, 500)
				s.Features["data_access_count"] = float64(intRange(r, 5000, 10000))
				s.Features["database_connections"] = float64(intRange(r, 80, 150))
			},
			"device_tampering": func(r *rand.Rand, s *telemetry.Sample) {
				if _, ok := s.Features["flow_rate"]; ok {
					s.Features["flow_rate"] = addNoise(r, 150, 20)
					s.Features["alarm_count"] = float64(intRange(r, 10, 30))
				}
				if _, ok := s.Features["heart_rate"]; ok {
					if r.Intn(2) == 0 {
						s.Features["heart_rate"] = uniform(r, 30, 40)
					} else {
						s.Features["heart_rate"] = uniform(r, 150, 200)
					}
				}
			},
			"ransomware": func(r *rand.Rand, s *telemetry.Sample) {
				s.Features["disk_io_ops"] = float64(intRange(r, 5000, 15000))
				s.Features["cpu_usage"] = uniform(r, 95, 99)
				s.Features["memory_usage"] = uniform(r, 90, 99)
				s.Features["file_encryption_events"] = float64(intRange(r, 1000, 5000))
			},
			"dos_attack": func(r *rand.Rand, s *telemetry.Sample) {
				s.Features["api_calls"] = float64(intRange(r, 5000, 20000))
				s.Features["active_sessions"] = float64(intRange(r, 500, 2000))
				s.Features["cpu_usage"] = uniform(r, 98, 100)
				s.Features["network_traffic_mbps"] = uniform(r, 500, 1000)
			},
			"insider_threat": func(r *rand.Rand, s *telemetry.Sample) {
				s.Features["data_access_count"] = float64(intRange(r, 2000, 5000))
				s.Features["query_rate"] = float64(intRange(r, 1000, 3000))
				if s.Labels == nil {
					s.Labels = map[string]string{}
				}
				s.Labels["unusual_hour_access"] = "true"
			},
		},
	}
}

func healthcareMetrics(r *rand.Rand, d *device, features map[string]float64, labels map[string]string) {
	switch d.asset.Type {
	case "infusion_pump", "ventilator":
		features["flow_rate"] = addNoise(r, 50.0, 3)
		features["pressure"] = addNoise(r, 20.0, 2)
		features["alarm_count"] = float64(intRange(r, 0, 2))
	case "patient_monitor", "ecg_monitor":
		features["heart_rate"] = addNoise(r, 75.0, 10)
		features["blood_pressure_systolic"] = addNoise(r, 120.0, 5)
		features["blood_pressure_diastolic"] = addNoise(r, 80.0, 5)
		features["oxygen_saturation"] = addNoise(r, 98.0, 1)
	case "mri_machine", "ct_scanner":
		features["scan_count"] = float64(intRange(r, 0, 5))
		if d.asset.Type == "ct_scanner" {
			features["radiation_dose"] = addNoise(r, 100.0, 10)
		} else {
			features["radiation_dose"] = 0
		}
		features["queue_length"] = float64(intRange(r, 0, 10))
	case "ehr_server", "pacs_system":
		features["active_sessions"] = float64(intRange(r, 10, 100))
		features["query_rate"] = float64(intRange(r, 50, 500))
		features["database_connections"] = float64(intRange(r, 5, 50))
		features["failed_logins"] = float64(intRange(r, 0, 3))
		features["data_access_count"] = float64(intRange(r, 100, 1000))
	}

	features["authentication_success"] = float64(intRange(r, 5, 20))
	features["authentication_failure"] = float64(intRange(r, 0, 2))
	features["api_calls"] = float64(intRange(r, 50, 200))
}
