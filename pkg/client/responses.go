package client

import (
	"context"
	"fmt"
	"strconv"
)

// ResponseService handles response action API calls
type ResponseService struct {
	client *Client
}

// approveActionRequest releases a parked action
type approveActionRequest struct {
	ApprovedBy string `json:"approved_by"`
}

// List retrieves executed actions, newest first
func (s *ResponseService) List(ctx context.Context, limit int) ([]Action, error) {
	path := "/api/v1/responses"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var actions []Action
	if err := s.client.doRequest(ctx, "GET", path, nil, &actions); err != nil {
		return nil, err
	}

	return actions, nil
}

// Pending retrieves actions parked for human approval, oldest first
func (s *ResponseService) Pending(ctx context.Context) ([]Action, error) {
	var actions []Action
	if err := s.client.doRequest(ctx, "GET", "/api/v1/responses/pending", nil, &actions); err != nil {
		return nil, err
	}

	return actions, nil
}

// Approve releases a parked action and runs it
func (s *ResponseService) Approve(ctx context.Context, id, approvedBy string) (*Action, error) {
	path := fmt.Sprintf("/api/v1/responses/%s/approve", id)
	req := approveActionRequest{ApprovedBy: approvedBy}

	var action Action
	if err := s.client.doRequest(ctx, "POST", path, req, &action); err != nil {
		return nil, err
	}

	return &action, nil
}

// Rollback reverses a completed action
func (s *ResponseService) Rollback(ctx context.Context, id string) (*Action, error) {
	path := fmt.Sprintf("/api/v1/responses/%s/rollback", id)

	var action Action
	if err := s.client.doRequest(ctx, "POST", path, nil, &action); err != nil {
		return nil, err
	}

	return &action, nil
}

// Statistics retrieves the response execution rollup
func (s *ResponseService) Statistics(ctx context.Context) (*ResponseStats, error) {
	var stats ResponseStats
	if err := s.client.doRequest(ctx, "GET", "/api/v1/responses/statistics", nil, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}
