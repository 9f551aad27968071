package client

import (
	"context"
	"fmt"
	"strconv"
)

// AssetService handles fleet management API calls
type AssetService struct {
	client *Client
}

// RegisterAssetRequest enrolls a physical device into the fleet
type RegisterAssetRequest struct {
	AssetID         string            `json:"asset_id,omitempty"` // generated when empty
	AssetType       string            `json:"asset_type"`
	Sector          string            `json:"sector"`
	Location        string            `json:"location,omitempty"`
	IPAddress       string            `json:"ip_address,omitempty"`
	FirmwareVersion string            `json:"firmware_version,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// ingestMetricsRequest pushes device telemetry through detection
type ingestMetricsRequest struct {
	Samples []Sample `json:"samples"`
}

// Register enrolls a physical device into the fleet
func (s *AssetService) Register(ctx context.Context, req RegisterAssetRequest) (*Asset, error) {
	var asset Asset
	if err := s.client.doRequest(ctx, "POST", "/api/v1/assets", req, &asset); err != nil {
		return nil, err
	}

	return &asset, nil
}

// List retrieves externally registered devices
func (s *AssetService) List(ctx context.Context) ([]Asset, error) {
	var assets []Asset
	if err := s.client.doRequest(ctx, "GET", "/api/v1/assets", nil, &assets); err != nil {
		return nil, err
	}

	return assets, nil
}

// ListAll retrieves the simulated fleets plus registered devices
func (s *AssetService) ListAll(ctx context.Context) ([]Asset, error) {
	var assets []Asset
	if err := s.client.doRequest(ctx, "GET", "/api/v1/assets/all", nil, &assets); err != nil {
		return nil, err
	}

	return assets, nil
}

// BySector retrieves one sector's devices, simulated fleet first
func (s *AssetService) BySector(ctx context.Context, sector string) ([]Asset, error) {
	path := fmt.Sprintf("/api/v1/sectors/%s/assets", sector)

	var assets []Asset
	if err := s.client.doRequest(ctx, "GET", path, nil, &assets); err != nil {
		return nil, err
	}

	return assets, nil
}

// SectorMetrics retrieves freshly sampled normal telemetry for a
// sector's simulated fleet. numSamples <= 0 uses the server default.
func (s *AssetService) SectorMetrics(ctx context.Context, sector string, numSamples int) ([]Sample, error) {
	path := fmt.Sprintf("/api/v1/sectors/%s/metrics", sector)
	if numSamples > 0 {
		path += "?samples=" + strconv.Itoa(numSamples)
	}

	var samples []Sample
	if err := s.client.doRequest(ctx, "GET", path, nil, &samples); err != nil {
		return nil, err
	}

	return samples, nil
}

// Ingest pushes device telemetry through storage and detection
func (s *AssetService) Ingest(ctx context.Context, samples []Sample) (*DetectResult, error) {
	req := ingestMetricsRequest{Samples: samples}

	var result DetectResult
	if err := s.client.doRequest(ctx, "POST", "/api/v1/assets/metrics", req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// History retrieves a device's recent telemetry, oldest first
func (s *AssetService) History(ctx context.Context, id string) ([]Sample, error) {
	path := fmt.Sprintf("/api/v1/assets/%s/history", id)

	var samples []Sample
	if err := s.client.doRequest(ctx, "GET", path, nil, &samples); err != nil {
		return nil, err
	}

	return samples, nil
}

// Deregister removes a registered device from the fleet
func (s *AssetService) Deregister(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/v1/assets/%s", id)
	return s.client.doRequest(ctx, "DELETE", path, nil, nil)
}
