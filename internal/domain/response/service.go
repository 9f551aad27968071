package response

import "context"

// Service defines the interface for response execution
type Service interface {
	// Execute instantiates a planned action and runs it unless it
	// requires approval, in which case it is parked pending.
	Execute(ctx context.Context, spec Spec, alertID string) (*Action, error)

	// Approve releases a parked action and executes it
	Approve(ctx context.Context, id, approver string) (*Action, error)

	// Rollback reverts a completed action exactly once
	Rollback(ctx context.Context, id string) (*Action, error)

	// GetByID retrieves an action by ID
	GetByID(ctx context.Context, id string) (*Action, error)

	// History lists executed and parked actions, newest first
	History(ctx context.Context, limit int) []*Action

	// PendingApprovals lists actions awaiting approval
	PendingApprovals(ctx context.Context) []*Action

	// Statistics returns the execution rollup
	Statistics(ctx context.Context) Stats
}
