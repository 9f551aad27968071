package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// AlertService handles alert lifecycle API calls
type AlertService struct {
	client *Client
}

// AlertListOptions contains options for listing active alerts
type AlertListOptions struct {
	Severity string // P0..P4
	Sector   string // healthcare, agriculture, urban
	Limit    int
}

// acknowledgeAlertRequest marks an alert as being worked
type acknowledgeAlertRequest struct {
	AcknowledgedBy string `json:"acknowledged_by"`
}

// resolveAlertRequest closes an alert with optional notes
type resolveAlertRequest struct {
	ResolvedBy string `json:"resolved_by"`
	Notes      string `json:"notes,omitempty"`
}

// List retrieves active alerts, newest first
func (s *AlertService) List(ctx context.Context, opts *AlertListOptions) ([]Alert, error) {
	query := url.Values{}

	if opts != nil {
		if opts.Severity != "" {
			query.Set("severity", opts.Severity)
		}
		if opts.Sector != "" {
			query.Set("sector", opts.Sector)
		}
		if opts.Limit > 0 {
			query.Set("limit", strconv.Itoa(opts.Limit))
		}
	}

	path := "/api/v1/alerts"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var alerts []Alert
	if err := s.client.doRequest(ctx, "GET", path, nil, &alerts); err != nil {
		return nil, err
	}

	return alerts, nil
}

// Acknowledged retrieves alerts someone is already working, newest
// first
func (s *AlertService) Acknowledged(ctx context.Context, limit int) ([]Alert, error) {
	path := "/api/v1/alerts/acknowledged"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var alerts []Alert
	if err := s.client.doRequest(ctx, "GET", path, nil, &alerts); err != nil {
		return nil, err
	}

	return alerts, nil
}

// Acknowledge marks an alert as being worked
func (s *AlertService) Acknowledge(ctx context.Context, id, acknowledgedBy string) (*Alert, error) {
	path := fmt.Sprintf("/api/v1/alerts/%s/acknowledge", id)
	req := acknowledgeAlertRequest{AcknowledgedBy: acknowledgedBy}

	var alert Alert
	if err := s.client.doRequest(ctx, "POST", path, req, &alert); err != nil {
		return nil, err
	}

	return &alert, nil
}

// Resolve closes an alert with optional resolution notes
func (s *AlertService) Resolve(ctx context.Context, id, resolvedBy, notes string) (*Alert, error) {
	path := fmt.Sprintf("/api/v1/alerts/%s/resolve", id)
	req := resolveAlertRequest{ResolvedBy: resolvedBy, Notes: notes}

	var alert Alert
	if err := s.client.doRequest(ctx, "POST", path, req, &alert); err != nil {
		return nil, err
	}

	return &alert, nil
}

// Statistics retrieves the alert lifecycle rollup
func (s *AlertService) Statistics(ctx context.Context) (*AlertStats, error) {
	var stats AlertStats
	if err := s.client.doRequest(ctx, "GET", "/api/v1/alerts/statistics", nil, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}
