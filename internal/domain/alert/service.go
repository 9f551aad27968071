package alert

import (
	"context"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/detection"
)

// Service defines the interface for the alert lifecycle
type Service interface {
	// CreateFromVerdict raises or updates an alert for an anomalous
	// verdict. Returns the affected alert and whether it was newly
	// created. Non-anomalous verdicts return (nil, false).
	CreateFromVerdict(ctx context.Context, v detection.Verdict) (*Alert, bool)

	// GetByID retrieves an alert by ID
	GetByID(ctx context.Context, id string) (*Alert, error)

	// Acknowledge marks an alert as seen by an operator
	Acknowledge(ctx context.Context, id, user string) (*Alert, error)

	// Resolve closes an alert permanently
	Resolve(ctx context.Context, id, user, notes string) (*Alert, error)

	// AttachResponse links an executed response action to an alert
	AttachResponse(ctx context.Context, alertID, actionID string) error

	// ListActive lists unresolved, unacknowledged alerts, newest first
	ListActive(ctx context.Context, filter Filter) []*Alert

	// ListAcknowledged lists acknowledged alerts, most recently
	// acknowledged first
	ListAcknowledged(ctx context.Context, limit int) []*Alert

	// Statistics returns the lifecycle rollup
	Statistics(ctx context.Context) Stats
}
