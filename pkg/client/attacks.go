package client

import (
	"context"
	"fmt"
	"net/url"
)

// AttackService handles red-team simulation API calls
type AttackService struct {
	client *Client
}

// SimulateAttackRequest generates attack telemetry and runs it through
// detection
type SimulateAttackRequest struct {
	Sector     string `json:"sector"`      // healthcare, agriculture, urban
	AttackType string `json:"attack_type"` // sector-specific, see Scenarios
	NumSamples int    `json:"num_samples,omitempty"`
}

// Simulate injects synthetic attack telemetry and reports how much of
// it detection caught
func (s *AttackService) Simulate(ctx context.Context, req SimulateAttackRequest) (*SimulationResult, error) {
	var result SimulationResult
	if err := s.client.doRequest(ctx, "POST", "/api/v1/attacks/simulate", req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Scenarios retrieves the red-team scenario catalog
func (s *AttackService) Scenarios(ctx context.Context) ([]Scenario, error) {
	var scenarios []Scenario
	if err := s.client.doRequest(ctx, "GET", "/api/v1/attacks/scenarios", nil, &scenarios); err != nil {
		return nil, err
	}

	return scenarios, nil
}

// RunScenario executes one cataloged scenario end to end
func (s *AttackService) RunScenario(ctx context.Context, name string) (*ScenarioResult, error) {
	path := fmt.Sprintf("/api/v1/attacks/scenarios/%s/run", url.PathEscape(name))

	var result ScenarioResult
	if err := s.client.doRequest(ctx, "POST", path, nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Report retrieves MITRE coverage across every scenario executed so
// far
func (s *AttackService) Report(ctx context.Context) (*RedTeamReport, error) {
	var report RedTeamReport
	if err := s.client.doRequest(ctx, "GET", "/api/v1/attacks/report", nil, &report); err != nil {
		return nil, err
	}

	return &report, nil
}
