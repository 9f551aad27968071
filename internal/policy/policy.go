// Package policy decides which response actions an alert warrants.
// Decisions are table-driven by (sector, asset_type, severity), with
// operator-supplied HCL rules layered into the sector stage.
package policy

import (
	"strings"
	"sync"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/config"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/alert"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/detection"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/response"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
)

// Asset classes with hardcoded handling. Life-critical medical devices
// are never auto-isolated; SCADA heads page operators instead of being
// touched.
var (
	lifeCriticalTypes = map[string]bool{
		"infusion_pump":   true,
		"ventilator":      true,
		"patient_monitor": true,
	}
	scadaTypes = map[string]bool{
		"water_treatment_scada": true,
		"power_grid_monitor":    true,
	}
)

// Engine turns alerts into planned response actions.
type Engine struct {
	mu    sync.RWMutex
	cfg   config.ResponseConfig
	log   *logger.Logger
	rules []Rule
}

// New builds a policy engine, loading operator rules from
// cfg.PolicyFile when set. A broken policy file fails construction
// rather than silently running without the operator's rules.
func New(cfg config.ResponseConfig, log *logger.Logger) (*Engine, error) {
	e := &Engine{cfg: cfg, log: log.Component("policy")}
	if cfg.PolicyFile != "" {
		rules, err := LoadRules(cfg.PolicyFile)
		if err != nil {
			return nil, err
		}
		e.rules = rules
		e.log.Infof("loaded %d policy rules from %s", len(rules), cfg.PolicyFile)
	}
	return e, nil
}

// Plan returns the ordered action list for an alert: state capture
// first for Tier0/Tier1, then sector-specific actions (built-in tables
// plus operator rules), then the severity fallback when the sector
// stage produced nothing. Actions are specs only; the executor
// materializes and runs them.
func (e *Engine) Plan(a *alert.Alert, features map[string]float64) []response.Spec {
	var actions []response.Spec

	if a.Severity == detection.SeverityCritical || a.Severity == detection.SeverityHigh {
		actions = append(actions, response.Spec{
			ActionType:       response.ActionSnapshotSystem,
			Target:           a.AssetID,
			Reason:           "Pre-response system snapshot",
			RequiresApproval: false,
		})
	}

	var sector []response.Spec
	switch a.Sector {
	case telemetry.SectorHealthcare:
		sector = e.healthcareActions(a, features)
	case telemetry.SectorAgriculture:
		sector = e.agricultureActions(a, features)
	case telemetry.SectorUrban:
		sector = e.urbanActions(a)
	}
	for _, r := range e.rules {
		if r.matches(a, features) {
			sector = append(sector, r.spec(a))
		}
	}
	actions = append(actions, sector...)

	if len(sector) == 0 {
		actions = append(actions, e.fallbackActions(a)...)
	}
	return actions
}

func (e *Engine) healthcareActions(a *alert.Alert, features map[string]float64) []response.Spec {
	var actions []response.Spec

	if lifeCriticalTypes[a.AssetType] {
		actions = append(actions, response.Spec{
			ActionType:       response.ActionNotifyAdmin,
			Target:           "clinical_engineering",
			Reason:           "Life-critical device anomaly - manual intervention required",
			Priority:         "urgent",
			RequiresApproval: false,
		})
	} else if a.Severity == detection.SeverityCritical || a.Severity == detection.SeverityHigh {
		actions = append(actions, response.Spec{
			ActionType:       response.ActionQuarantine,
			Target:           a.AssetID,
			Reason:           "Isolate compromised healthcare device",
			RequiresApproval: true,
		})
	}

	if features["network_traffic_mbps"] > 200 {
		actions = append(actions, response.Spec{
			ActionType:       response.ActionRateLimit,
			Target:           a.AssetID,
			Reason:           "Potential data exfiltration detected",
			RequiresApproval: false,
		})
	}
	return actions
}

func (e *Engine) agricultureActions(a *alert.Alert, features map[string]float64) []response.Spec {
	var actions []response.Spec

	switch a.AssetType {
	case "irrigation_controller":
		if a.Severity == detection.SeverityCritical || a.Severity == detection.SeverityHigh {
			actions = append(actions, response.Spec{
				ActionType:       response.ActionServiceRestart,
				Target:           a.AssetID,
				Reason:           "Reset irrigation controller to safe defaults",
				RequiresApproval: true,
			})
		}
	case "drone":
		if hasGPSFeature(features) {
			actions = append(actions, response.Spec{
				ActionType:       response.ActionIsolateDevice,
				Target:           a.AssetID,
				Reason:           "GPS anomaly detected - ground drone",
				RequiresApproval: false,
			})
		}
	case "fertilizer_dispenser":
		if a.Severity == detection.SeverityCritical {
			actions = append(actions, response.Spec{
				ActionType:       response.ActionServiceRestart,
				Target:           a.AssetID,
				Reason:           "Chemical system anomaly - safety shutdown",
				RequiresApproval: false,
			})
		}
	}
	return actions
}

func (e *Engine) urbanActions(a *alert.Alert) []response.Spec {
	var actions []response.Spec

	switch {
	case scadaTypes[a.AssetType]:
		actions = append(actions, response.Spec{
			ActionType:       response.ActionNotifyAdmin,
			Target:           "scada_operators",
			Reason:           "Critical infrastructure anomaly - operator intervention required",
			Priority:         "critical",
			RequiresApproval: false,
		})
		if a.Severity == detection.SeverityCritical {
			actions = append(actions, response.Spec{
				ActionType:       response.ActionSnapshotSystem,
				Target:           a.AssetID,
				Reason:           "Forensic capture before response",
				RequiresApproval: false,
			})
		}
	case a.AssetType == "traffic_controller":
		if a.Severity == detection.SeverityCritical {
			actions = append(actions, response.Spec{
				ActionType:       response.ActionServiceRestart,
				Target:           a.AssetID,
				Reason:           "Reset to failsafe timing",
				RequiresApproval: true,
			})
		}
	case a.AssetType == "emergency_system":
		actions = append(actions, response.Spec{
			ActionType:       response.ActionNotifyAdmin,
			Target:           "emergency_management",
			Reason:           "Emergency system compromised",
			Priority:         "critical",
			RequiresApproval: false,
		})
	}
	return actions
}

// fallbackActions covers severities the sector stage left unhandled.
func (e *Engine) fallbackActions(a *alert.Alert) []response.Spec {
	approveP0, approveP1 := e.ApprovalRequirements()
	switch a.Severity {
	case detection.SeverityCritical:
		return []response.Spec{
			{
				ActionType:       response.ActionIsolateDevice,
				Target:           a.AssetID,
				Reason:           "Critical threat detected",
				RequiresApproval: approveP0,
			},
			{
				ActionType:       response.ActionNotifyAdmin,
				Target:           "security_team",
				Reason:           "Critical alert requires immediate attention",
				RequiresApproval: false,
			},
		}
	case detection.SeverityHigh:
		return []response.Spec{
			{
				ActionType:       response.ActionRateLimit,
				Target:           a.AssetID,
				Reason:           "High-severity threat mitigation",
				RequiresApproval: approveP1,
			},
		}
	}
	return nil
}

// ApprovalRequirements returns the human-approval gates for the two
// top severity tiers.
func (e *Engine) ApprovalRequirements() (p0, p1 bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg.RequireApprovalP0, e.cfg.RequireApprovalP1
}

// SetApprovalRequirements changes the approval gates for actions
// planned after the call. Already parked actions keep their gate.
func (e *Engine) SetApprovalRequirements(p0, p1 bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.RequireApprovalP0 = p0
	e.cfg.RequireApprovalP1 = p1
}

func hasGPSFeature(features map[string]float64) bool {
	for name := range features {
		if strings.Contains(name, "gps") {
			return true
		}
	}
	return false
}
