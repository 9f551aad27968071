package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/api/dto"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/response"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
)

// parkAction plants one action awaiting human approval.
func parkAction(t *testing.T, stack *apiStack) *response.Action {
	t.Helper()
	act, err := stack.responses.Execute(context.Background(), response.Spec{
		ActionType:       response.ActionIsolateDevice,
		Target:           "HC-0001",
		Reason:           "anomalous traffic burst",
		RequiresApproval: true,
	}, "alert-1")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return act
}

// runAction executes one action straight through.
func runAction(t *testing.T, stack *apiStack) *response.Action {
	t.Helper()
	act, err := stack.responses.Execute(context.Background(), response.Spec{
		ActionType: response.ActionBlockIP,
		Target:     "203.0.113.9",
		Reason:     "port scan origin",
	}, "alert-2")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return act
}

func TestResponseHandler_ListAndPending(t *testing.T) {
	stack := newAPIStack(t)
	parkAction(t, stack)
	runAction(t, stack)
	handler := NewResponseHandler(stack.responses, stack.logger, stack.validator)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/responses", nil)
	rr := httptest.NewRecorder()
	handler.List(rr, req)
	wantStatus(t, rr, http.StatusOK)

	env := decodeEnvelope(t, rr)
	var actions []response.Action
	if err := json.Unmarshal(env.Data, &actions); err != nil {
		t.Fatalf("decode action list: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("got %d actions, want 2", len(actions))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/responses/pending", nil)
	rr = httptest.NewRecorder()
	handler.Pending(rr, req)
	wantStatus(t, rr, http.StatusOK)

	env = decodeEnvelope(t, rr)
	var pending []response.Action
	if err := json.Unmarshal(env.Data, &pending); err != nil {
		t.Fatalf("decode pending list: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("got %d pending actions, want 1", len(pending))
	}
	if pending[0].Status != response.StatusPending {
		t.Errorf("status = %q, want %q", pending[0].Status, response.StatusPending)
	}
}

func TestResponseHandler_Approve(t *testing.T) {
	stack := newAPIStack(t)
	parked := parkAction(t, stack)
	handler := NewResponseHandler(stack.responses, stack.logger, stack.validator)

	tests := []struct {
		name           string
		actionID       string
		body           interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "missing approved_by",
			actionID:       parked.ID,
			body:           dto.ApproveActionRequest{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   errors.ErrCodeValidation,
		},
		{
			name:           "unknown action",
			actionID:       "resp-missing",
			body:           dto.ApproveActionRequest{ApprovedBy: "soc-lead"},
			expectedStatus: http.StatusNotFound,
			expectedCode:   errors.ErrCodeNotFound,
		},
		{
			name:           "approve parked action",
			actionID:       parked.ID,
			body:           dto.ApproveActionRequest{ApprovedBy: "soc-lead"},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/responses/"+tt.actionID+"/approve", jsonBody(t, tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = withURLParams(req, map[string]string{"id": tt.actionID})
			rr := httptest.NewRecorder()

			handler.Approve(rr, req)

			wantStatus(t, rr, tt.expectedStatus)
			if tt.expectedCode != "" {
				wantErrorCode(t, rr, tt.expectedCode)
				return
			}
			env := decodeEnvelope(t, rr)
			var act response.Action
			if err := json.Unmarshal(env.Data, &act); err != nil {
				t.Fatalf("decode approved action: %v", err)
			}
			if act.Status != response.StatusCompleted {
				t.Errorf("status = %q, want %q", act.Status, response.StatusCompleted)
			}
			if act.ApprovedBy != "soc-lead" {
				t.Errorf("approved_by = %q, want soc-lead", act.ApprovedBy)
			}
		})
	}
}

func TestResponseHandler_Rollback(t *testing.T) {
	stack := newAPIStack(t)
	done := runAction(t, stack)
	handler := NewResponseHandler(stack.responses, stack.logger, stack.validator)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/responses/"+done.ID+"/rollback", nil)
	req = withURLParams(req, map[string]string{"id": done.ID})
	rr := httptest.NewRecorder()

	handler.Rollback(rr, req)
	wantStatus(t, rr, http.StatusOK)

	env := decodeEnvelope(t, rr)
	var act response.Action
	if err := json.Unmarshal(env.Data, &act); err != nil {
		t.Fatalf("decode rolled back action: %v", err)
	}
	if act.Status != response.StatusRolledBack {
		t.Errorf("status = %q, want %q", act.Status, response.StatusRolledBack)
	}

	// A second rollback must be refused.
	rr = httptest.NewRecorder()
	handler.Rollback(rr, req)
	wantStatus(t, rr, http.StatusConflict)
	wantErrorCode(t, rr, errors.ErrCodeInvalidState)
}

func TestResponseHandler_Statistics(t *testing.T) {
	stack := newAPIStack(t)
	runAction(t, stack)
	parkAction(t, stack)
	handler := NewResponseHandler(stack.responses, stack.logger, stack.validator)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/responses/statistics", nil)
	rr := httptest.NewRecorder()

	handler.Statistics(rr, req)
	wantStatus(t, rr, http.StatusOK)

	env := decodeEnvelope(t, rr)
	var stats response.Stats
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Total != 2 {
		t.Errorf("total = %d, want 2", stats.Total)
	}
	if stats.PendingApproval != 1 {
		t.Errorf("pending_approval = %d, want 1", stats.PendingApproval)
	}
	if stats.Completed != 1 {
		t.Errorf("completed = %d, want 1", stats.Completed)
	}
}
