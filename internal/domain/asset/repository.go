package asset

import "context"

// Repository defines the persistence mirror for registered assets.
type Repository interface {
	// Save inserts or updates an asset by ID
	Save(ctx context.Context, a *Asset) error

	// Delete removes an asset by ID
	Delete(ctx context.Context, id string) error

	// List retrieves all stored assets
	List(ctx context.Context) ([]*Asset, error)
}
