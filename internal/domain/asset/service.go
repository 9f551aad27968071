package asset

import (
	"context"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
)

// Service defines the interface for the fleet registry
type Service interface {
	// Register adds an externally managed asset to the fleet
	Register(ctx context.Context, a *Asset) (*Asset, error)

	// Deregister removes a registered asset
	Deregister(ctx context.Context, id string) error

	// GetByID retrieves an asset by ID
	GetByID(ctx context.Context, id string) (*Asset, error)

	// ListRegistered lists externally registered assets
	ListRegistered(ctx context.Context) []*Asset

	// ListAll lists simulated and registered assets
	ListAll(ctx context.Context) []*Asset

	// ListBySector lists assets in one sector
	ListBySector(ctx context.Context, sector telemetry.Sector) []*Asset

	// History returns an asset's recent telemetry ring, oldest first
	History(ctx context.Context, id string) ([]telemetry.Sample, error)

	// RecordSample appends a sample to an asset's history ring
	RecordSample(ctx context.Context, sample telemetry.Sample)
}
