package handler

import (
	"errors"
	"net/http"
	"time"

	"blood-donor-service/internal/delivery/http/middleware"
	"blood-donor-service/internal/domain/entity"
	"blood-donor-service/internal/domain/repository"
	"blood-donor-service/internal/service"
	"blood-donor-service/internal/usecase"
	"blood-donor-service/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RetryAfter is advertised when the donor directory cannot be reached
const RetryAfter = 5 * time.Second

var (
	badRequestErrors = []error{
		usecase.ErrInvalidDateFormat,
		usecase.ErrLastDonationInFuture,
		usecase.ErrInvalidBloodGroup,
		usecase.ErrInvalidHealthStatus,
		usecase.ErrInvalidUnitsRequired,
		usecase.ErrNoDonorsToRetry,
		usecase.ErrInvalidStatusFilter,
	}
	forbiddenErrors = []error{
		usecase.ErrForbiddenRole,
		usecase.ErrRequestNotOwned,
		usecase.ErrNotificationNotOwned,
	}
	notFoundErrors = []error{
		usecase.ErrDonorProfileNotFound,
		usecase.ErrHospitalProfileNotFound,
		usecase.ErrRequestNotFound,
		usecase.ErrBatchNotFound,
		usecase.ErrNotificationNotFound,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeError maps a usecase error onto the response envelope. Unknown errors
// become a 500 carrying fallback, never the error text.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case isAny(err, badRequestErrors):
		response.BadRequest(w, err.Error())
	case isAny(err, forbiddenErrors):
		response.Forbidden(w, err.Error())
	case isAny(err, notFoundErrors):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrRequestConflict):
		response.Conflict(w, err.Error())
	case errors.Is(err, repository.ErrDuplicateKey):
		response.Conflict(w, "Resource was changed concurrently, please retry")
	case errors.Is(err, service.ErrDirectoryUnavailable):
		response.ServiceUnavailable(w, "Donor directory is temporarily unavailable", RetryAfter)
	default:
		response.InternalServerError(w, fallback)
	}
}

func subjectFrom(w http.ResponseWriter, r *http.Request) (entity.Subject, bool) {
	subject, ok := middleware.GetSubjectFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
	}
	return subject, ok
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}
