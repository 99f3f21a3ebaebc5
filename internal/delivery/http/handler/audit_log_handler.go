package handler

import (
	"net/http"
	"strconv"

	"blood-donor-service/internal/usecase"
	"blood-donor-service/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

// ListActivity returns the caller's own audit trail, newest first
func (h *AuditLogHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.Error(w, http.StatusBadRequest, "Invalid limit", nil)
			return
		}
		limit = parsed
	}

	activity, err := h.auditLogUsecase.ListActivity(r.Context(), subject, limit)
	if err != nil {
		writeError(w, err, "Failed to get activity")
		return
	}

	response.Success(w, http.StatusOK, "Activity retrieved successfully", activity)
}
