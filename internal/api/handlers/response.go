package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/api/dto"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/utils"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/validator"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/services"
)

// ResponseHandler exposes the automated response trail and its
// approval workflow.
type ResponseHandler struct {
	responses *services.ResponseService
	logger    *logger.Logger
	validator *validator.Validator
}

func NewResponseHandler(responses *services.ResponseService, log *logger.Logger, val *validator.Validator) *ResponseHandler {
	return &ResponseHandler{responses: responses, logger: log, validator: val}
}

// List returns executed actions, newest first.
func (h *ResponseHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := utils.ParseLimit(r, utils.DefaultListLimit)
	utils.WriteSuccess(w, http.StatusOK, h.responses.History(r.Context(), limit))
}

// Pending returns actions parked for human approval, oldest first.
func (h *ResponseHandler) Pending(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, h.responses.PendingApprovals(r.Context()))
}

// Statistics returns the execution rollup.
func (h *ResponseHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, h.responses.Statistics(r.Context()))
}

// Approve releases a parked action and runs it.
func (h *ResponseHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req dto.ApproveActionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	act, err := h.responses.Approve(r.Context(), chi.URLParam(r, "id"), req.ApprovedBy)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, act)
}

// Rollback reverses a completed action.
func (h *ResponseHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	act, err := h.responses.Rollback(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, act)
}
