package handler

import (
	"encoding/json"
	"net/http"

	"blood-donor-service/internal/delivery/dto"
	"blood-donor-service/internal/usecase"
	"blood-donor-service/pkg/response"
	"blood-donor-service/pkg/validator"

	"github.com/google/uuid"
)

type BloodRequestHandler struct {
	batchUsecase   usecase.RequestBatchUsecase
	requestUsecase usecase.BloodRequestUsecase
	validator      *validator.CustomValidator
}

func NewBloodRequestHandler(
	batchUsecase usecase.RequestBatchUsecase,
	requestUsecase usecase.BloodRequestUsecase,
	validator *validator.CustomValidator,
) *BloodRequestHandler {
	return &BloodRequestHandler{
		batchUsecase:   batchUsecase,
		requestUsecase: requestUsecase,
		validator:      validator,
	}
}

// CreateBatch dispatches a new request to every matching donor
// @Summary Create request batch
// @Description Stores the request template and creates one pending request per matching donor
// @Tags Hospital
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateRequestBatchRequest true "Batch"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /hospital/batches [post]
func (h *BloodRequestHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	var req dto.CreateRequestBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.batchUsecase.CreateRequestBatch(r.Context(), subject, &req)
	if err != nil {
		writeError(w, err, "Failed to create blood requests")
		return
	}

	response.Success(w, http.StatusCreated, "Blood requests dispatched", result)
}

func (h *BloodRequestHandler) RetryDispatch(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	batchID, ok := pathUUID(w, r, "id", "batch")
	if !ok {
		return
	}

	var req dto.RetryDispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.batchUsecase.RetryDispatch(r.Context(), subject, batchID, &req)
	if err != nil {
		writeError(w, err, "Failed to retry dispatch")
		return
	}

	response.Success(w, http.StatusOK, "Dispatch retried", result)
}

func (h *BloodRequestHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	requests, err := h.requestUsecase.ListReceivedRequests(r.Context(), subject, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err, "Failed to get blood requests")
		return
	}

	response.Success(w, http.StatusOK, "Blood requests retrieved successfully", requests)
}

func (h *BloodRequestHandler) ListSent(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	var batchID *uuid.UUID
	if raw := query.Get("batch_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid batch ID", nil)
			return
		}
		batchID = &id
	}

	requests, err := h.requestUsecase.ListSentRequests(r.Context(), subject, query.Get("status"), batchID)
	if err != nil {
		writeError(w, err, "Failed to get blood requests")
		return
	}

	response.Success(w, http.StatusOK, "Blood requests retrieved successfully", requests)
}

func (h *BloodRequestHandler) Summary(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	summary, err := h.requestUsecase.GetRequestSummary(r.Context(), subject)
	if err != nil {
		writeError(w, err, "Failed to get request summary")
		return
	}

	response.Success(w, http.StatusOK, "Request summary retrieved successfully", summary)
}

// Accept records the donor's acceptance; the hospital is notified
// @Summary Accept blood request
// @Tags Donor
// @Security BearerAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /donor/requests/{id}/accept [post]
func (h *BloodRequestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	requestID, ok := pathUUID(w, r, "id", "request")
	if !ok {
		return
	}

	request, err := h.requestUsecase.AcceptRequest(r.Context(), subject, requestID)
	if err != nil {
		writeError(w, err, "Failed to accept blood request")
		return
	}

	response.Success(w, http.StatusOK, "Blood request accepted", request)
}

func (h *BloodRequestHandler) Decline(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	requestID, ok := pathUUID(w, r, "id", "request")
	if !ok {
		return
	}

	request, err := h.requestUsecase.DeclineRequest(r.Context(), subject, requestID)
	if err != nil {
		writeError(w, err, "Failed to decline blood request")
		return
	}

	response.Success(w, http.StatusOK, "Blood request declined", request)
}

func (h *BloodRequestHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	requestID, ok := pathUUID(w, r, "id", "request")
	if !ok {
		return
	}

	request, err := h.requestUsecase.CancelRequest(r.Context(), subject, requestID)
	if err != nil {
		writeError(w, err, "Failed to cancel blood request")
		return
	}

	response.Success(w, http.StatusOK, "Blood request cancelled", request)
}

// CancelMany cancels the listed requests that are still pending
func (h *BloodRequestHandler) CancelMany(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	var req dto.CancelRequestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.requestUsecase.CancelRequests(r.Context(), subject, &req)
	if err != nil {
		writeError(w, err, "Failed to cancel blood requests")
		return
	}

	response.Success(w, http.StatusOK, "Blood requests cancelled", result)
}
