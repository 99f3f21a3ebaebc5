package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateRequestBatchRequest struct {
	BloodGroup    string `json:"blood_group" validate:"required,bloodgroup"`
	UnitsRequired int    `json:"units_required" validate:"required,gte=1,lte=100"`
}

type RetryDispatchRequest struct {
	DonorIDs []string `json:"donor_ids" validate:"required,min=1,max=500,dive,required,max=128"`
}

type CancelRequestsRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1,max=500"`
}

// Response DTOs

type BloodRequestResponse struct {
	ID            uuid.UUID               `json:"id"`
	BatchID       uuid.UUID               `json:"batch_id"`
	HospitalID    string                  `json:"hospital_id"`
	DonorID       string                  `json:"donor_id"`
	DonorName     string                  `json:"donor_name"`
	BloodGroup    string                  `json:"blood_group"`
	UnitsRequired int                     `json:"units_required"`
	Hospital      HospitalContactResponse `json:"hospital"`
	Status        string                  `json:"status"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
	AcceptedAt    *time.Time              `json:"accepted_at,omitempty"`
	DeclinedAt    *time.Time              `json:"declined_at,omitempty"`
	CancelledAt   *time.Time              `json:"cancelled_at,omitempty"`
}

type BloodRequestListResponse struct {
	Requests []BloodRequestResponse `json:"requests"`
	Total    int                    `json:"total"`
}

type DispatchFailureResponse struct {
	DonorID string `json:"donor_id"`
	Error   string `json:"error"`
}

// DispatchResultResponse reports per-donor outcomes of one fan-out
type DispatchResultResponse struct {
	BatchID uuid.UUID                 `json:"batch_id"`
	Created []BloodRequestResponse    `json:"created"`
	Failed  []DispatchFailureResponse `json:"failed"`
}

type CancelRequestsResponse struct {
	Cancelled []uuid.UUID `json:"cancelled"`
	Skipped   []uuid.UUID `json:"skipped"`
}

type RequestSummaryResponse struct {
	Pending   int64 `json:"pending"`
	Accepted  int64 `json:"accepted"`
	Declined  int64 `json:"declined"`
	Cancelled int64 `json:"cancelled"`
	Total     int64 `json:"total"`
}
