package alert

import "context"

// Repository defines the persistence mirror for alerts. The in-memory
// lifecycle index is the source of truth; implementations only need to
// keep a durable trail, so writes are upserts and reads serve cold
// starts and offline inspection, never the hot path.
type Repository interface {
	// Save inserts or updates an alert by ID
	Save(ctx context.Context, alert *Alert) error

	// GetByID retrieves an alert by ID
	GetByID(ctx context.Context, id string) (*Alert, error)

	// List retrieves alerts most recent first
	List(ctx context.Context, limit int) ([]*Alert, error)
}
