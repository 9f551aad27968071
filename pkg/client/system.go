package client

import "context"

// Health checks the health of the API
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var health HealthStatus
	if err := c.doRequest(ctx, "GET", "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Ping is a simple connectivity test
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Health(ctx)
	return err
}

// Banner retrieves the API's product identification
func (c *Client) Banner(ctx context.Context) (*Banner, error) {
	var banner Banner
	if err := c.doRequest(ctx, "GET", "/", nil, &banner); err != nil {
		return nil, err
	}
	return &banner, nil
}

// Status retrieves the aggregated operational snapshot
func (c *Client) Status(ctx context.Context) (*SystemStatus, error) {
	var status SystemStatus
	if err := c.doRequest(ctx, "GET", "/api/v1/system/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
