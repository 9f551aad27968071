package client

import "context"

// SettingsService handles runtime settings API calls
type SettingsService struct {
	client *Client
}

// SettingsUpdate is a partial settings change; nil fields keep their
// current values
type SettingsUpdate struct {
	QuietPeriodSeconds     *int  `json:"quiet_period_seconds,omitempty"`
	AutoResponseEnabled    *bool `json:"auto_response_enabled,omitempty"`
	RequireApprovalP0      *bool `json:"require_approval_p0,omitempty"`
	RequireApprovalP1      *bool `json:"require_approval_p1,omitempty"`
	MonitorIntervalSeconds *int  `json:"monitor_interval_seconds,omitempty"`
	RetrainSamples         *int  `json:"retrain_samples,omitempty"`
}

// Get retrieves the current operating settings
func (s *SettingsService) Get(ctx context.Context) (*Settings, error) {
	var settings Settings
	if err := s.client.doRequest(ctx, "GET", "/api/v1/admin/settings", nil, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

// Update applies a partial settings change and returns the resulting
// settings
func (s *SettingsService) Update(ctx context.Context, update SettingsUpdate) (*Settings, error) {
	var settings Settings
	if err := s.client.doRequest(ctx, "PUT", "/api/v1/admin/settings", update, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}
