package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/config"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/detection"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/response"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
)

const samplePolicy = `
rule "exfil_block" {
  sector            = "healthcare"
  asset_types       = ["ehr_server", "pacs_system"]
  min_severity      = "P1"
  feature           = "network_traffic_mbps"
  threshold         = 200
  action            = "block_ip"
  reason            = "Block suspected exfiltration path"
  priority          = "high"
  requires_approval = true
}

rule "meter_watch" {
  sector = "urban"
  action = "notify_admin"
  target = "metering_team"
  reason = "Smart meter anomaly review"
}
`

func TestParseRules(t *testing.T) {
	rules, err := ParseRules([]byte(samplePolicy), "policies.hcl")
	if err != nil {
		t.Fatalf("ParseRules() error = %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("ParseRules() returned %d rules, want 2", len(rules))
	}

	r := rules[0]
	if r.Name != "exfil_block" || r.Sector != telemetry.SectorHealthcare {
		t.Errorf("rule = %+v, want exfil_block for healthcare", r)
	}
	if r.MinSeverity != detection.SeverityHigh {
		t.Errorf("MinSeverity = %s, want P1", r.MinSeverity)
	}
	if r.Threshold != 200 || r.Feature != "network_traffic_mbps" {
		t.Errorf("feature gate = %s > %v, want network_traffic_mbps > 200", r.Feature, r.Threshold)
	}
	if !r.RequiresApproval || r.Action != response.ActionBlockIP {
		t.Errorf("rule action = %+v, want approval-gated block_ip", r)
	}

	// Defaults: target resolves to the asset, any severity matches.
	if rules[1].Target != "metering_team" {
		t.Errorf("Target = %s, want metering_team", rules[1].Target)
	}
	if rules[1].MinSeverity != detection.SeverityInfo {
		t.Errorf("MinSeverity default = %s, want P4", rules[1].MinSeverity)
	}
}

func TestParseRules_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown action",
			content: `rule "x" {
  sector = "urban"
  action = "reboot_planet"
  reason = "r"
}`,
		},
		{
			name: "missing sector",
			content: `rule "x" {
  action = "block_ip"
  reason = "r"
}`,
		},
		{
			name: "missing reason",
			content: `rule "x" {
  sector = "urban"
  action = "block_ip"
}`,
		},
		{
			name: "unknown attribute",
			content: `rule "x" {
  sector     = "urban"
  action     = "block_ip"
  reason     = "r"
  frobnicate = true
}`,
		},
		{
			name: "unsupported block",
			content: `table "x" {
  sector = "urban"
}`,
		},
		{
			name: "unknown severity",
			content: `rule "x" {
  sector       = "urban"
  min_severity = "P9"
  action       = "block_ip"
  reason       = "r"
}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRules([]byte(tt.content), "policies.hcl"); err == nil {
				t.Error("ParseRules() error = nil, want parse failure")
			}
		})
	}
}

func TestRuleMatching(t *testing.T) {
	rules, err := ParseRules([]byte(samplePolicy), "policies.hcl")
	if err != nil {
		t.Fatalf("ParseRules() error = %v", err)
	}
	exfil := rules[0]

	tests := []struct {
		name     string
		sector   telemetry.Sector
		asset    string
		severity detection.Severity
		features map[string]float64
		want     bool
	}{
		{
			name:     "matches gated rule",
			sector:   telemetry.SectorHealthcare,
			asset:    "ehr_server",
			severity: detection.SeverityCritical,
			features: map[string]float64{"network_traffic_mbps": 500},
			want:     true,
		},
		{
			name:     "wrong sector",
			sector:   telemetry.SectorUrban,
			asset:    "ehr_server",
			severity: detection.SeverityCritical,
			features: map[string]float64{"network_traffic_mbps": 500},
			want:     false,
		},
		{
			name:     "asset type not listed",
			sector:   telemetry.SectorHealthcare,
			asset:    "mri_machine",
			severity: detection.SeverityCritical,
			features: map[string]float64{"network_traffic_mbps": 500},
			want:     false,
		},
		{
			name:     "not severe enough",
			sector:   telemetry.SectorHealthcare,
			asset:    "ehr_server",
			severity: detection.SeverityMedium,
			features: map[string]float64{"network_traffic_mbps": 500},
			want:     false,
		},
		{
			name:     "feature below threshold",
			sector:   telemetry.SectorHealthcare,
			asset:    "ehr_server",
			severity: detection.SeverityCritical,
			features: map[string]float64{"network_traffic_mbps": 120},
			want:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAlert(tt.sector, tt.asset, tt.severity)
			if got := exfil.matches(a, tt.features); got != tt.want {
				t.Errorf("matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlan_OperatorRuleSuppressesFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.hcl")
	if err := os.WriteFile(path, []byte(samplePolicy), 0o644); err != nil {
		t.Fatalf("writing policy file: %v", err)
	}

	e, err := New(config.ResponseConfig{
		RequireApprovalP0: true,
		RequireApprovalP1: true,
		PolicyFile:        path,
	}, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// smart_meter P0 normally falls back to isolate; the operator rule
	// covers it in the sector stage instead.
	a := testAlert(telemetry.SectorUrban, "smart_meter", detection.SeverityCritical)
	specs := e.Plan(a, nil)

	if countAction(specs, response.ActionNotifyAdmin) != 1 {
		t.Fatalf("Plan() = %+v, want operator notify rule to fire", specs)
	}
	if countAction(specs, response.ActionIsolateDevice) != 0 {
		t.Error("fallback isolate fired despite operator rule coverage")
	}
	for _, s := range specs {
		if s.ActionType == response.ActionNotifyAdmin && s.Target != "metering_team" {
			t.Errorf("notify target = %s, want metering_team", s.Target)
		}
	}
}

func TestNew_BrokenPolicyFileFailsFast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.hcl")
	if err := os.WriteFile(path, []byte(`rule "x" { sector = `), 0o644); err != nil {
		t.Fatalf("writing policy file: %v", err)
	}

	if _, err := New(config.ResponseConfig{PolicyFile: path}, testLogger()); err == nil {
		t.Error("New() error = nil, want failure on unparseable policy file")
	}
}
