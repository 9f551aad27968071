package response

import "time"

// Action is one automated response to an alert, tracked through its
// whole lifecycle.
type Action struct {
	ID               string     `json:"response_id"`
	AlertID          string     `json:"alert_id"`
	ActionType       string     `json:"action"`
	Target           string     `json:"target"`
	Reason           string     `json:"reason"`
	Priority         string     `json:"priority,omitempty"`
	RequiresApproval bool       `json:"requires_approval"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	ApprovedBy       string     `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	ExecutedAt       *time.Time `json:"executed_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	RolledBackAt     *time.Time `json:"rolled_back_at,omitempty"`
	Success          bool       `json:"success"`
	Output           string     `json:"output,omitempty"`
}

// Clone returns a deep copy. The executor hands clones to callers so
// reads never race with lifecycle transitions under its lock.
func (a *Action) Clone() *Action {
	out := *a
	out.ApprovedAt = cloneTime(a.ApprovedAt)
	out.ExecutedAt = cloneTime(a.ExecutedAt)
	out.CompletedAt = cloneTime(a.CompletedAt)
	out.RolledBackAt = cloneTime(a.RolledBackAt)
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Action types
const (
	ActionIsolateDevice     = "isolate_device"
	ActionBlockIP           = "block_ip"
	ActionRateLimit         = "rate_limit"
	ActionRotateCredentials = "rotate_credentials"
	ActionServiceRestart    = "service_restart"
	ActionSnapshotSystem    = "snapshot_system"
	ActionQuarantine        = "quarantine"
	ActionNotifyAdmin       = "notify_admin"
)

// Action status. pending → approved → executing → completed | failed;
// completed → rolled_back is the only transition out of a final state
// and is itself terminal.
const (
	StatusPending    = "pending"
	StatusApproved   = "approved"
	StatusExecuting  = "executing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusRolledBack = "rolled_back"
)

// Spec is a planned action produced by the policy engine, not yet
// instantiated as an Action.
type Spec struct {
	ActionType       string `json:"action"`
	Target           string `json:"target"`
	Reason           string `json:"reason"`
	Priority         string `json:"priority,omitempty"`
	RequiresApproval bool   `json:"requires_approval"`
}

// Stats is the response execution rollup.
type Stats struct {
	Total                    int            `json:"total_responses"`
	Completed                int            `json:"completed"`
	Failed                   int            `json:"failed"`
	PendingApproval          int            `json:"pending_approval"`
	SuccessRate              float64        `json:"success_rate"`
	MeanExecutionTimeSeconds float64        `json:"mean_execution_time_seconds"`
	ActionCounts             map[string]int `json:"action_counts"`
}
