package dto

import (
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/detection"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
)

// Banner is the root endpoint's product identification.
type Banner struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// HealthStatus is the lightweight liveness payload.
type HealthStatus struct {
	Status           string             `json:"status"`
	Timestamp        time.Time          `json:"timestamp"`
	MonitoringActive bool               `json:"monitoring_active"`
	Sectors          []telemetry.Sector `json:"sectors"`
}

// SystemFlags reports which background activities are running.
type SystemFlags struct {
	MonitoringActive bool `json:"monitoring_active"`
	TrainingActive   bool `json:"training_active"`
}

// AlertRollup summarizes the alert lifecycle for the status page.
type AlertRollup struct {
	Active     int            `json:"active"`
	Total      int            `json:"total"`
	BySeverity map[string]int `json:"by_severity"`
}

// ResponseRollup summarizes response execution for the status page.
type ResponseRollup struct {
	Total       int     `json:"total"`
	Pending     int     `json:"pending"`
	SuccessRate float64 `json:"success_rate"`
}

// ComponentStatus reports one infrastructure dependency.
type ComponentStatus struct {
	Connected bool   `json:"connected"`
	Detail    string `json:"detail,omitempty"`
}

// SystemStatus is the full operational picture returned by
// GET /system/status.
type SystemStatus struct {
	Status         string                     `json:"status"`
	Timestamp      time.Time                  `json:"timestamp"`
	System         SystemFlags                `json:"system"`
	Devices        map[string]int             `json:"devices"`
	Models         []detection.EngineStatus   `json:"models"`
	Alerts         AlertRollup                `json:"alerts"`
	Responses      ResponseRollup             `json:"responses"`
	Infrastructure map[string]ComponentStatus `json:"infrastructure"`
}
