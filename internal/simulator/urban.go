package simulator

import (
	"fmt"
	"math/rand"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
)

func urbanProfile() *profile {
	return &profile{
		sector:   telemetry.SectorUrban,
		idPrefix: "URB",
		deviceTypes: []string{
			"traffic_controller",
			"water_treatment_scada",
			"power_grid_monitor",
			"smart_streetlight",
			"emergency_system",
			"subway_controller",
			"smart_meter",
			"waste_management",
		},
		locations: []string{"Zone-A", "Zone-B", "Downtown", "Suburbs", "Industrial"},
		firmware: func(r *rand.Rand) string {
			return fmt.Sprintf("%d.%d.%d", intRange(r, 2, 6), intRange(r, 0, 12), intRange(r, 0, 25))
		},
		metrics: urbanMetrics,
		attacks: map[string]attackFunc{
			"scada_attack": func(r *rand.Rand, s *telemetry.Sample) {
				if _, ok := s.Features["pump_pressure"]; ok {
					s.Features["pump_pressure"] = uniform(r, 150, 200)
					s.Features["chlorine_level"] = uniform(r, 10, 20)
					s.Labels["pump_status"] = "running"
				}
				if _, ok := s.Features["voltage"]; ok {
					s.Features["voltage"] = uniform(r, 180, 280)
					s.Features["frequency"] = uniform(r, 45, 55)
				}
			},
			"traffic_manipulation": func(r *rand.Rand, s *telemetry.Sample) {
				if _, ok := s.Features["signal_timing"]; ok {
					s.Features["signal_timing"] = pickFloat(r, 5.0, 200.0)
					s.Features["emergency_override_count"] = float64(intRange(r, 50, 200))
					s.Features["congestion_level"] = uniform(r, 90, 100)
				}
			},
			"power_grid_attack": func(r *rand.Rand, s *telemetry.Sample) {
				if _, ok := s.Features["voltage"]; ok {
					s.Features["voltage"] = uniform(r, 150, 300)
					s.Features["current"] = uniform(r, 300, 500)
					s.Features["frequency"] = uniform(r, 40, 60)
					s.Features["transformer_temperature"] = uniform(r, 100, 150)
				}
			},
			"water_contamination": func(r *rand.Rand, s *telemetry.Sample) {
				if _, ok := s.Features["chlorine_level"]; ok {
					s.Features["chlorine_level"] = pickFloat(r, 0.1, 15.0)
					s.Features["ph_level"] = uniform(r, 4.0, 11.0)
					s.Features["turbidity"] = uniform(r, 5.0, 20.0)
				}
			},
			"subway_disruption": func(r *rand.Rand, s *telemetry.Sample) {
				if _, ok := s.Features["trains_active"]; ok {
					s.Features["trains_active"] = float64(intRange(r, 0, 5))
					s.Features["average_delay"] = uniform(r, 30, 120)
					s.Features["door_malfunctions"] = float64(intRange(r, 20, 50))
					s.Labels["signal_system_status"] = "failure"
				}
			},
			"smart_meter_tampering": func(r *rand.Rand, s *telemetry.Sample) {
				if _, ok := s.Features["energy_usage"]; ok {
					s.Features["energy_usage"] = uniform(r, 0, 2)
					s.Features["voltage_quality"] = uniform(r, 100, 280)
					s.Features["meter_health"] = uniform(r, 20, 50)
				}
			},
			"emergency_system_dos": func(r *rand.Rand, s *telemetry.Sample) {
				if _, ok := s.Features["911_calls"]; ok {
					s.Features["911_calls"] = float64(intRange(r, 500, 2000))
					s.Features["dispatch_time"] = uniform(r, 30, 60)
					s.Features["active_incidents"] = float64(intRange(r, 100, 500))
				}
				s.Features["cpu_usage"] = uniform(r, 98, 100)
				s.Features["network_traffic_mbps"] = uniform(r, 800, 1200)
			},
			"ransomware_city": func(r *rand.Rand, s *telemetry.Sample) {
				s.Features["disk_io_ops"] = float64(intRange(r, 10000, 30000))
				s.Features["cpu_usage"] = uniform(r, 95, 100)
				s.Features["memory_usage"] = uniform(r, 95, 100)
				s.Features["uptime_percentage"] = uniform(r, 50, 70)
				s.Features["error_count"] = float64(intRange(r, 100, 500))
			},
			"streetlight_network_breach": func(r *rand.Rand, s *telemetry.Sample) {
				if _, ok := s.Features["light_intensity"]; ok {
					s.Features["light_intensity"] = pickFloat(r, 0, 100)
					s.Features["energy_consumption"] = uniform(r, 200, 400)
				}
			},
		},
	}
}

func urbanMetrics(r *rand.Rand, d *device, features map[string]float64, labels map[string]string) {
	labels["criticality"] = d.asset.Metadata["criticality"]

	switch d.asset.Type {
	case "traffic_controller":
		features["active_signals"] = float64(intRange(r, 8, 16))
		features["vehicle_count"] = float64(intRange(r, 100, 500))
		features["average_speed"] = addNoise(r, 45.0, 10)
		features["congestion_level"] = uniform(r, 20, 60)
		features["signal_timing"] = addNoise(r, 60.0, 5)
		features["emergency_override_count"] = float64(intRange(r, 0, 2))
	case "water_treatment_scada":
		features["water_flow_rate"] = addNoise(r, 1000.0, 5)
		features["chlorine_level"] = addNoise(r, 2.0, 10)
		features["ph_level"] = addNoise(r, 7.5, 2)
		features["turbidity"] = addNoise(r, 0.5, 10)
		features["pump_pressure"] = addNoise(r, 80.0, 5)
		features["tank_level"] = addNoise(r, 75.0, 5)
		labels["pump_status"] = choice(r, []string{"running", "standby"})
	case "power_grid_monitor":
		features["voltage"] = addNoise(r, 230.0, 2)
		features["current"] = addNoise(r, 150.0, 5)
		features["frequency"] = addNoise(r, 50.0, 0.5)
		features["power_factor"] = addNoise(r, 0.95, 2)
		features["load_percentage"] = addNoise(r, 65.0, 10)
		features["transformer_temperature"] = addNoise(r, 60.0, 5)
	case "smart_streetlight":
		features["light_intensity"] = float64(intRange(r, 60, 100))
		features["energy_consumption"] = addNoise(r, 50.0, 5)
		features["operating_hours"] = float64(intRange(r, 10, 14))
		features["bulb_health"] = uniform(r, 80, 100)
		labels["motion_detected"] = choice(r, []string{"true", "false"})
	case "emergency_system":
		features["911_calls"] = float64(intRange(r, 5, 20))
		features["dispatch_time"] = addNoise(r, 3.0, 10)
		features["active_incidents"] = float64(intRange(r, 2, 10))
		features["response_units_available"] = float64(intRange(r, 15, 30))
		features["system_uptime"] = uniform(r, 99.5, 100.0)
	case "subway_controller":
		features["trains_active"] = float64(intRange(r, 20, 40))
		features["average_delay"] = addNoise(r, 2.0, 50)
		features["passenger_count"] = float64(intRange(r, 5000, 15000))
		features["door_malfunctions"] = float64(intRange(r, 0, 2))
		features["track_temperature"] = addNoise(r, 25.0, 10)
		labels["signal_system_status"] = "operational"
	case "smart_meter":
		features["energy_usage"] = addNoise(r, 15.0, 10)
		features["peak_demand"] = addNoise(r, 3.5, 10)
		features["voltage_quality"] = addNoise(r, 230.0, 3)
		features["power_outages"] = float64(intRange(r, 0, 1))
		features["meter_health"] = uniform(r, 95, 100)
	case "waste_management":
		features["bin_fill_level"] = addNoise(r, 45.0, 15)
		features["compaction_cycles"] = float64(intRange(r, 5, 15))
		features["temperature"] = addNoise(r, 35.0, 10)
		features["odor_level"] = uniform(r, 20, 50)
		labels["collection_route_active"] = choice(r, []string{"true", "false"})
	}

	features["uptime_percentage"] = uniform(r, 99.0, 100.0)
	features["error_count"] = float64(intRange(r, 0, 3))
	features["maintenance_due_days"] = float64(intRange(r, 10, 90))
	features["network_latency_ms"] = uniform(r, 5.0, 30.0)
	features["packet_loss_percent"] = 0.0
}
