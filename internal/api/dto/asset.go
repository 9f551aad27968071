package dto

import "github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"

// RegisterAssetRequest enrolls a physical device into the fleet. An
// empty asset_id gets a generated sector-prefixed one.
type RegisterAssetRequest struct {
	AssetID         string            `json:"asset_id,omitempty"`
	AssetType       string            `json:"asset_type" validate:"required"`
	Sector          string            `json:"sector" validate:"required,oneof=healthcare agriculture urban"`
	Location        string            `json:"location,omitempty"`
	IPAddress       string            `json:"ip_address,omitempty" validate:"omitempty,ip"`
	FirmwareVersion string            `json:"firmware_version,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// IngestMetricsRequest pushes device telemetry into the pipeline.
type IngestMetricsRequest struct {
	Samples []telemetry.Sample `json:"samples" validate:"required,min=1"`
}
