package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/response"
	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/metrics"
)

// ResponseService implements response.Service. Every planned action is
// assigned an ID and indexed before anything runs; approval-gated
// actions park in the pending index until released. Effects run with
// the lock dropped so a slow one never stalls the pipeline.
type ResponseService struct {
	mu      sync.Mutex
	actions map[string]*response.Action
	order   []string                    // creation order, oldest first
	pending map[string]*response.Action // approval-pending index

	targets *targetRegistry
	repo    response.Repository
	events  ResponseEvents
	logger  *logger.Logger
	now     func() time.Time
}

var _ response.Service = (*ResponseService)(nil)

// NewResponseService creates a new response executor. repo may be nil,
// disabling the durable mirror.
func NewResponseService(repo response.Repository, log *logger.Logger) *ResponseService {
	return &ResponseService{
		actions: make(map[string]*response.Action),
		pending: make(map[string]*response.Action),
		targets: newTargetRegistry(),
		repo:    repo,
		logger:  log.Component("responses"),
		now:     time.Now,
	}
}

// SetEventSink attaches the lifecycle event fan-out. Attach before
// serving traffic; the field is read without the service lock.
func (s *ResponseService) SetEventSink(sink ResponseEvents) {
	s.events = sink
}

// Execute instantiates a planned action and runs it. Actions requiring
// approval are parked pending and returned immediately; the effect only
// fires once an operator approves.
func (s *ResponseService) Execute(ctx context.Context, spec response.Spec, alertID string) (*response.Action, error) {
	a := &response.Action{
		ID:               uuid.NewString(),
		AlertID:          alertID,
		ActionType:       spec.ActionType,
		Target:           spec.Target,
		Reason:           spec.Reason,
		Priority:         spec.Priority,
		RequiresApproval: spec.RequiresApproval,
		Status:           response.StatusPending,
		CreatedAt:        s.now(),
	}

	s.mu.Lock()
	s.actions[a.ID] = a
	s.order = append(s.order, a.ID)
	if a.RequiresApproval {
		s.pending[a.ID] = a
		metrics.SetPendingApprovals(float64(len(s.pending)))
		out := a.Clone()
		s.mu.Unlock()

		s.logger.WithFields(map[string]interface{}{
			"response_id": out.ID,
			"alert_id":    alertID,
			"action":      out.ActionType,
			"target":      out.Target,
		}).Info("Response action parked for approval")
		s.mirror(ctx, out)
		return out, nil
	}
	s.mu.Unlock()

	return s.run(ctx, a)
}

// Approve releases a parked action and executes it. Only actions in the
// pending-approval index can be approved; anything else is NotFound.
func (s *ResponseService) Approve(ctx context.Context, id, approver string) (*response.Action, error) {
	s.mu.Lock()
	a, ok := s.pending[id]
	if !ok {
		s.mu.Unlock()
		return nil, apperrors.NotFound("pending response action")
	}
	now := s.now()
	a.Status = response.StatusApproved
	a.ApprovedBy = approver
	a.ApprovedAt = &now
	delete(s.pending, id)
	metrics.SetPendingApprovals(float64(len(s.pending)))
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"response_id": id,
		"approver":    approver,
	}).Info("Response action approved")
	return s.run(ctx, a)
}

// Rollback reverts a completed action exactly once. The compensating
// effect releases any containment hold on the target; the action record
// keeps its original output.
func (s *ResponseService) Rollback(ctx context.Context, id string) (*response.Action, error) {
	s.mu.Lock()
	a, ok := s.actions[id]
	if !ok {
		s.mu.Unlock()
		return nil, apperrors.NotFound("response action")
	}
	if a.Status != response.StatusCompleted {
		s.mu.Unlock()
		return nil, apperrors.InvalidState(
			fmt.Sprintf("cannot roll back action in status %s, only completed actions are reversible", a.Status))
	}
	now := s.now()
	a.Status = response.StatusRolledBack
	a.RolledBackAt = &now
	out := a.Clone()
	s.mu.Unlock()

	s.targets.release(out.ActionType, out.Target)
	s.logger.WithFields(map[string]interface{}{
		"response_id": out.ID,
		"action":      out.ActionType,
		"target":      out.Target,
	}).Info("Response action rolled back")
	s.mirror(ctx, out)
	return out, nil
}

// GetByID retrieves an action by ID
func (s *ResponseService) GetByID(ctx context.Context, id string) (*response.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.actions[id]
	if !ok {
		return nil, apperrors.NotFound("response action")
	}
	return a.Clone(), nil
}

// History lists actions newest first, parked ones included.
func (s *ResponseService) History(ctx context.Context, limit int) []*response.Action {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*response.Action, 0)
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.actions[s.order[i]].Clone())
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// PendingApprovals lists parked actions, oldest first so operators see
// the longest-waiting ones on top.
func (s *ResponseService) PendingApprovals(ctx context.Context) []*response.Action {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*response.Action, 0, len(s.pending))
	for _, a := range s.pending {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Statistics returns the execution rollup.
func (s *ResponseService) Statistics(ctx context.Context) response.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := response.Stats{
		Total:           len(s.actions),
		PendingApproval: len(s.pending),
		ActionCounts:    make(map[string]int),
	}
	var execTotal float64
	var execN int
	for _, a := range s.actions {
		stats.ActionCounts[a.ActionType]++
		switch a.Status {
		case response.StatusCompleted:
			stats.Completed++
		case response.StatusFailed:
			stats.Failed++
		}
		if a.ExecutedAt != nil && a.CompletedAt != nil {
			execTotal += a.CompletedAt.Sub(*a.ExecutedAt).Seconds()
			execN++
		}
	}
	if done := stats.Completed + stats.Failed; done > 0 {
		stats.SuccessRate = float64(stats.Completed) / float64(done)
	}
	if execN > 0 {
		stats.MeanExecutionTimeSeconds = execTotal / float64(execN)
	}
	return stats
}

// Held reports whether a containment hold is currently in place for the
// given action type and target.
func (s *ResponseService) Held(actionType, target string) bool {
	return s.targets.held(actionType, target)
}

// run drives an action through executing to its final status. The
// effect itself runs without the service lock held.
func (s *ResponseService) run(ctx context.Context, a *response.Action) (*response.Action, error) {
	s.mu.Lock()
	execT := s.now()
	a.Status = response.StatusExecuting
	a.ExecutedAt = &execT
	s.mu.Unlock()

	output, err := s.effect(a.ActionType, a.Target)

	s.mu.Lock()
	done := s.now()
	a.CompletedAt = &done
	if err != nil {
		a.Status = response.StatusFailed
		a.Success = false
		a.Output = err.Error()
	} else {
		a.Status = response.StatusCompleted
		a.Success = true
		a.Output = output
	}
	out := a.Clone()
	s.mu.Unlock()

	metrics.RecordResponseAction(out.ActionType, out.Status, done.Sub(execT))
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"response_id": out.ID,
			"action":      out.ActionType,
			"target":      out.Target,
		}).WithError(err).Error("Response action failed")
	} else {
		s.logger.WithFields(map[string]interface{}{
			"response_id": out.ID,
			"action":      out.ActionType,
			"target":      out.Target,
		}).Info("Response action completed")
	}
	s.mirror(ctx, out)
	return out, nil
}

// effect performs the named action against the target. Containment
// actions register a hold so rollback can release it later.
func (s *ResponseService) effect(actionType, target string) (string, error) {
	switch actionType {
	case response.ActionIsolateDevice:
		s.targets.acquire(actionType, target)
		return fmt.Sprintf("Device %s isolated successfully. Network access revoked.", target), nil
	case response.ActionBlockIP:
		s.targets.acquire(actionType, target)
		return fmt.Sprintf("IP %s blocked at firewall level.", target), nil
	case response.ActionRateLimit:
		s.targets.acquire(actionType, target)
		return fmt.Sprintf("Rate limit applied to %s: 100 req/min", target), nil
	case response.ActionRotateCredentials:
		return fmt.Sprintf("Credentials rotated for %s. New credentials issued.", target), nil
	case response.ActionServiceRestart:
		return fmt.Sprintf("Service on %s restarted successfully.", target), nil
	case response.ActionSnapshotSystem:
		return fmt.Sprintf("Snapshot snap_%d created for %s", s.now().Unix(), target), nil
	case response.ActionQuarantine:
		s.targets.acquire(actionType, target)
		return fmt.Sprintf("Device %s moved to quarantine VLAN.", target), nil
	case response.ActionNotifyAdmin:
		return fmt.Sprintf("Notification sent to %s", target), nil
	default:
		return "", fmt.Errorf("unknown action type: %s", actionType)
	}
}

// mirror distributes a settled action snapshot: a lifecycle event to
// the sink and a durable copy to the trail. Failures are logged and
// swallowed.
func (s *ResponseService) mirror(ctx context.Context, a *response.Action) {
	if s.events != nil {
		s.events.PublishResponse(ctx, "response_"+a.Status, a)
	}
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, a); err != nil {
		s.logger.ErrorWithErr(err, "Failed to mirror response action")
	}
}

// targetRegistry tracks which targets are currently under a containment
// measure. Acquiring an already held target is idempotent; rollback
// releases the hold.
type targetRegistry struct {
	mu   sync.Mutex
	hold map[string]bool
}

func newTargetRegistry() *targetRegistry {
	return &targetRegistry{hold: make(map[string]bool)}
}

func (r *targetRegistry) acquire(actionType, target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hold[actionType+":"+target] = true
}

func (r *targetRegistry) release(actionType, target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.hold, actionType+":"+target)
}

func (r *targetRegistry) held(actionType, target string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hold[actionType+":"+target]
}
