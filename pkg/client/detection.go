package client

import (
	"context"
	"fmt"
	"strconv"
)

// DetectionService handles model training and scoring API calls
type DetectionService struct {
	client *Client
}

// detectRequest scores a telemetry batch against a sector's models
type detectRequest struct {
	Samples []Sample `json:"samples"`
}

// Train fits a sector's detectors on generated baseline telemetry.
// numSamples <= 0 uses the server default.
func (s *DetectionService) Train(ctx context.Context, sector string, numSamples int) (*TrainingResult, error) {
	path := fmt.Sprintf("/api/v1/train/%s", sector)
	if numSamples > 0 {
		path += "?num_samples=" + strconv.Itoa(numSamples)
	}

	var result TrainingResult
	if err := s.client.doRequest(ctx, "POST", path, nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Detect scores a telemetry batch and reports the verdicts plus any
// alerts and response actions they raised
func (s *DetectionService) Detect(ctx context.Context, sector string, samples []Sample) (*DetectResult, error) {
	path := fmt.Sprintf("/api/v1/detect/%s", sector)
	req := detectRequest{Samples: samples}

	var result DetectResult
	if err := s.client.doRequest(ctx, "POST", path, req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
