package asset

import (
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
)

// Asset is a monitored device, either spawned by a sector simulator or
// registered externally with a routable address.
type Asset struct {
	ID              string            `json:"asset_id"`
	Type            string            `json:"asset_type"`
	Sector          telemetry.Sector  `json:"sector"`
	Location        string            `json:"location"`
	IPAddress       string            `json:"ip_address,omitempty"`
	FirmwareVersion string            `json:"firmware_version,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	Status          string            `json:"status"`
	RegisteredAt    time.Time         `json:"registered_at"`
	IsSimulated     bool              `json:"is_simulated"`
}

// Clone returns a copy safe to hand across goroutines; the metadata
// map is duplicated, not shared.
func (a *Asset) Clone() *Asset {
	out := *a
	if a.Metadata != nil {
		out.Metadata = make(map[string]string, len(a.Metadata))
		for k, v := range a.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}

// Asset status
const (
	StatusActive  = "active"
	StatusRemoved = "removed"
)
