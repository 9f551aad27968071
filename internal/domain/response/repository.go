package response

import "context"

// Repository defines the persistence mirror for response actions.
// Same contract as the alert mirror: upsert-only trail off the hot path.
type Repository interface {
	// Save inserts or updates an action by ID
	Save(ctx context.Context, action *Action) error

	// GetByID retrieves an action by ID
	GetByID(ctx context.Context, id string) (*Action, error)

	// List retrieves actions most recent first
	List(ctx context.Context, limit int) ([]*Action, error)
}
