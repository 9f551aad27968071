package simulator

import (
	"fmt"
	"math/rand"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
)

func agricultureProfile() *profile {
	return &profile{
		sector:   telemetry.SectorAgriculture,
		idPrefix: "AG",
		deviceTypes: []string{
			"soil_moisture_sensor",
			"weather_station",
			"irrigation_controller",
			"drone",
			"livestock_tracker",
			"grain_silo_monitor",
			"greenhouse_controller",
			"fertilizer_dispenser",
		},
		locations: []string{"Field-A", "Field-B", "Greenhouse-1", "Barn", "Storage"},
		firmware: func(r *rand.Rand) string {
			return fmt.Sprintf("%d.%d.%d", intRange(r, 1, 3), intRange(r, 0, 9), intRange(r, 0, 15))
		},
		metrics: agricultureMetrics,
		attacks: map[string]attackFunc{
			"sensor_tampering": func(r *rand.Rand, s *telemetry.Sample) {
				if _, ok := s.Features["soil_moisture"]; ok {
					s.Features["soil_moisture"] = pickFloat(r, 5.0, 95.0)
				}
				if _, ok := s.Features["temperature"]; ok {
					s.Features["temperature"] = uniform(r, -10, 50)
				}
				s.Features["data_packets_lost"] = float64(intRange(r, 50, 200))
			},
			"gps_spoofing": func(r *rand.Rand, s *telemetry.Sample) {
				if _, ok := s.Features["gps_latitude"]; ok {
					s.Features["gps_latitude"] = uniform(r, -90, 90)
					s.Features["gps_longitude"] = uniform(r, -180, 180)
					s.Features["altitude"] = uniform(r, -100, 1000)
				}
			},
			"irrigation_manipulation": func(r *rand.Rand, s *telemetry.Sample) {
				if _, ok := s.Features["water_flow_rate"]; ok {
					s.Features["water_flow_rate"] = uniform(r, 500, 1000)
					s.Features["total_water_used"] = float64(intRange(r, 50000, 100000))
					s.Labels["valve_status"] = "open"
				}
			},
			"weather_data_poisoning": func(r *rand.Rand, s *telemetry.Sample) {
				if _, ok := s.Features["temperature"]; ok {
					s.Features["temperature"] = uniform(r, -20, 50)
					s.Features["rainfall"] = uniform(r, 100, 500)
					s.Features["wind_speed"] = uniform(r, 150, 300)
				}
			},
			"fertilizer_overdose": func(r *rand.Rand, s *telemetry.Sample) {
				if _, ok := s.Features["nitrogen_level"]; ok {
					s.Features["nitrogen_level"] = uniform(r, 1000, 3000)
					s.Features["dispense_rate"] = uniform(r, 100, 200)
				}
			},
			"livestock_tracking_disruption": func(r *rand.Rand, s *telemetry.Sample) {
				if _, ok := s.Features["animal_count"]; ok {
					s.Features["animal_count"] = float64(intRange(r, 0, 20))
					s.Features["average_temperature"] = uniform(r, 30, 45)
					s.Features["movement_activity"] = uniform(r, 0, 10)
				}
			},
			"communication_jamming": func(r *rand.Rand, s *telemetry.Sample) {
				s.Features["signal_strength"] = float64(intRange(r, -120, -100))
				s.Features["data_packets_lost"] = float64(intRange(r, 150, 300))
				s.Features["network_traffic_mbps"] = uniform(r, 0.1, 1.0)
			},
			"battery_drain_attack": func(r *rand.Rand, s *telemetry.Sample) {
				s.Features["battery_level"] = uniform(r, 1, 10)
				s.Features["cpu_usage"] = uniform(r, 95, 100)
				s.Features["data_packets_sent"] = float64(intRange(r, 5000, 10000))
			},
		},
	}
}

func agricultureMetrics(r *rand.Rand, d *device, features map[string]float64, labels map[string]string) {
	features["battery_level"] = addNoise(r, d.battery, 2)

	switch d.asset.Type {
	case "soil_moisture_sensor":
		features["soil_moisture"] = addNoise(r, 45.0, 5)
		features["soil_temperature"] = addNoise(r, 22.0, 3)
		features["soil_ph"] = addNoise(r, 6.5, 2)
		features["electrical_conductivity"] = addNoise(r, 2.0, 5)
	case "weather_station":
		features["temperature"] = addNoise(r, 25.0, 10)
		features["humidity"] = addNoise(r, 60.0, 10)
		features["wind_speed"] = addNoise(r, 15.0, 20)
		features["rainfall"] = addNoise(r, 0.5, 50)
		features["barometric_pressure"] = addNoise(r, 1013.0, 1)
	case "irrigation_controller":
		features["water_flow_rate"] = addNoise(r, 100.0, 5)
		features["water_pressure"] = addNoise(r, 40.0, 3)
		features["total_water_used"] = float64(intRange(r, 1000, 5000))
		labels["valve_status"] = choice(r, []string{"open", "closed", "partial"})
	case "drone":
		features["gps_latitude"] = addNoise(r, 40.7128, 0.01)
		features["gps_longitude"] = -addNoise(r, 74.0060, 0.01)
		features["altitude"] = addNoise(r, 50.0, 10)
		features["flight_time"] = float64(intRange(r, 10, 45))
		features["images_captured"] = float64(intRange(r, 50, 200))
	case "livestock_tracker":
		features["animal_count"] = float64(intRange(r, 45, 55))
		features["average_temperature"] = addNoise(r, 38.5, 1)
		features["movement_activity"] = uniform(r, 20, 80)
		features["feeding_events"] = float64(intRange(r, 2, 6))
	case "grain_silo_monitor":
		features["fill_level"] = addNoise(r, 70.0, 5)
		features["grain_temperature"] = addNoise(r, 15.0, 3)
		features["grain_moisture"] = addNoise(r, 12.0, 2)
		labels["ventilation_status"] = choice(r, []string{"on", "off"})
	case "greenhouse_controller":
		features["internal_temperature"] = addNoise(r, 24.0, 3)
		features["internal_humidity"] = addNoise(r, 70.0, 5)
		features["co2_level"] = addNoise(r, 800.0, 10)
		features["light_intensity"] = addNoise(r, 50000.0, 10)
		features["ventilation_speed"] = float64(intRange(r, 30, 70))
	case "fertilizer_dispenser":
		features["nitrogen_level"] = addNoise(r, 150.0, 5)
		features["phosphorus_level"] = addNoise(r, 50.0, 5)
		features["potassium_level"] = addNoise(r, 200.0, 5)
		features["dispense_rate"] = addNoise(r, 10.0, 3)
	}

	features["signal_strength"] = float64(intRange(r, -80, -40))
	features["data_packets_sent"] = float64(intRange(r, 50, 200))
	features["data_packets_lost"] = float64(intRange(r, 0, 5))
}
