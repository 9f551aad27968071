package policy

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/alert"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/detection"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/response"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
)

// Rule is one operator-defined response rule parsed from the policy
// file. Rules run in the sector stage, so a matching rule also
// suppresses the severity fallback for its alert.
//
//	rule "exfil_block" {
//	  sector            = "healthcare"
//	  asset_types       = ["ehr_server", "pacs_system"]
//	  min_severity      = "P1"
//	  feature           = "network_traffic_mbps"
//	  threshold         = 200
//	  action            = "block_ip"
//	  target            = "asset"
//	  reason            = "Block suspected exfiltration path"
//	  requires_approval = true
//	}
type Rule struct {
	Name             string
	Sector           telemetry.Sector
	AssetTypes       []string // empty matches any type
	MinSeverity      detection.Severity
	Feature          string // optional numeric gate
	Threshold        float64
	Action           string
	Target           string // "asset" resolves to the alert's asset id
	Reason           string
	Priority         string
	RequiresApproval bool
}

var validActions = map[string]bool{
	response.ActionIsolateDevice:     true,
	response.ActionBlockIP:           true,
	response.ActionRateLimit:         true,
	response.ActionRotateCredentials: true,
	response.ActionServiceRestart:    true,
	response.ActionSnapshotSystem:    true,
	response.ActionQuarantine:        true,
	response.ActionNotifyAdmin:       true,
}

// LoadRules parses the operator policy file.
func LoadRules(path string) ([]Rule, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return ParseRules(content, path)
}

// ParseRules parses HCL policy content.
func ParseRules(content []byte, filename string) ([]Rule, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("policy parsing failed: %s", diags.Error())
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("unexpected policy body type")
	}

	var rules []Rule
	for _, block := range body.Blocks {
		if block.Type != "rule" {
			return nil, fmt.Errorf("unsupported block type %q in %s", block.Type, filename)
		}
		if len(block.Labels) != 1 {
			return nil, fmt.Errorf("rule block requires a name label")
		}
		rule, err := parseRuleBlock(block)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", block.Labels[0], err)
		}
		rules = append(rules, *rule)
	}
	return rules, nil
}

func parseRuleBlock(block *hclsyntax.Block) (*Rule, error) {
	rule := &Rule{
		Name:        block.Labels[0],
		MinSeverity: detection.SeverityInfo,
		Target:      "asset",
	}

	for name, attr := range block.Body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("attribute %s: %s", name, diags.Error())
		}

		switch name {
		case "sector":
			sector, ok := telemetry.ParseSector(attrString(val))
			if !ok {
				return nil, fmt.Errorf("unknown sector %q", attrString(val))
			}
			rule.Sector = sector
		case "asset_types":
			rule.AssetTypes = attrStringList(val)
		case "min_severity":
			sev, ok := detection.ParseSeverity(attrString(val))
			if !ok {
				return nil, fmt.Errorf("unknown severity %q", attrString(val))
			}
			rule.MinSeverity = sev
		case "feature":
			rule.Feature = attrString(val)
		case "threshold":
			rule.Threshold = attrFloat(val)
		case "action":
			rule.Action = attrString(val)
		case "target":
			rule.Target = attrString(val)
		case "reason":
			rule.Reason = attrString(val)
		case "priority":
			rule.Priority = attrString(val)
		case "requires_approval":
			rule.RequiresApproval = attrBool(val)
		default:
			return nil, fmt.Errorf("unknown attribute %q", name)
		}
	}

	if rule.Sector == "" {
		return nil, fmt.Errorf("sector is required")
	}
	if !validActions[rule.Action] {
		return nil, fmt.Errorf("unknown action %q", rule.Action)
	}
	if rule.Reason == "" {
		return nil, fmt.Errorf("reason is required")
	}
	return rule, nil
}

func (r *Rule) matches(a *alert.Alert, features map[string]float64) bool {
	if a.Sector != r.Sector {
		return false
	}
	if len(r.AssetTypes) > 0 && !contains(r.AssetTypes, a.AssetType) {
		return false
	}
	if a.Severity.Rank() > r.MinSeverity.Rank() {
		return false
	}
	if r.Feature != "" && features[r.Feature] <= r.Threshold {
		return false
	}
	return true
}

func (r *Rule) spec(a *alert.Alert) response.Spec {
	target := r.Target
	if target == "asset" {
		target = a.AssetID
	}
	return response.Spec{
		ActionType:       r.Action,
		Target:           target,
		Reason:           r.Reason,
		Priority:         r.Priority,
		RequiresApproval: r.RequiresApproval,
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func attrString(val cty.Value) string {
	if val.IsNull() || val.Type() != cty.String {
		return ""
	}
	return strings.TrimSpace(val.AsString())
}

func attrFloat(val cty.Value) float64 {
	if val.IsNull() || val.Type() != cty.Number {
		return 0
	}
	f, _ := val.AsBigFloat().Float64()
	return f
}

func attrBool(val cty.Value) bool {
	if val.IsNull() || val.Type() != cty.Bool {
		return false
	}
	return val.True()
}

func attrStringList(val cty.Value) []string {
	if val.IsNull() {
		return nil
	}
	ty := val.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return nil
	}
	out := make([]string, 0, val.LengthInt())
	iter := val.ElementIterator()
	for iter.Next() {
		_, v := iter.Element()
		if v.Type() == cty.String && !v.IsNull() {
			out = append(out, v.AsString())
		}
	}
	return out
}
