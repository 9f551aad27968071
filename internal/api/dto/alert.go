package dto

// AcknowledgeAlertRequest marks an alert as being worked.
type AcknowledgeAlertRequest struct {
	AcknowledgedBy string `json:"acknowledged_by" validate:"required"`
}

// ResolveAlertRequest closes an alert with optional notes.
type ResolveAlertRequest struct {
	ResolvedBy string `json:"resolved_by" validate:"required"`
	Notes      string `json:"notes,omitempty"`
}
