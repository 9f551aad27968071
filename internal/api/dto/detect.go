package dto

import "github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"

// DetectRequest scores a telemetry batch against a sector's models.
type DetectRequest struct {
	Samples []telemetry.Sample `json:"samples" validate:"required,min=1"`
}

// SimulateAttackRequest generates attack telemetry and runs it through
// detection.
type SimulateAttackRequest struct {
	Sector     string `json:"sector" validate:"required,oneof=healthcare agriculture urban"`
	AttackType string `json:"attack_type" validate:"required"`
	NumSamples int    `json:"num_samples,omitempty" validate:"omitempty,min=1,max=1000"`
}
