package dto

// ApproveActionRequest releases a parked response action.
type ApproveActionRequest struct {
	ApprovedBy string `json:"approved_by" validate:"required"`
}
