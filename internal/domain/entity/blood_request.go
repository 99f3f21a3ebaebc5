package entity

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus represents the lifecycle state of a blood request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusDeclined  RequestStatus = "declined"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// RequestStatuses lists every status in lifecycle order
var RequestStatuses = []RequestStatus{
	RequestStatusPending,
	RequestStatusAccepted,
	RequestStatusDeclined,
	RequestStatusCancelled,
}

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusDeclined, RequestStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusAccepted || s == RequestStatusDeclined || s == RequestStatusCancelled
}

// CanTransition reports whether from -> to is a defined lifecycle edge.
// Every edge starts at pending.
func CanTransition(from, to RequestStatus) bool {
	return from == RequestStatusPending && to.IsTerminal()
}

// RequestBatch is the hospital's request template. Its ID together with a
// donor ID is the natural key of a dispatched BloodRequest.
type RequestBatch struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	HospitalID    string          `gorm:"type:varchar(128);not null;index" json:"hospital_id"`
	BloodGroup    BloodGroup      `gorm:"type:varchar(3);not null" json:"blood_group"`
	UnitsRequired int             `gorm:"not null" json:"units_required"`
	Hospital      HospitalContact `gorm:"embedded;embeddedPrefix:hospital_" json:"hospital"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
}

func (RequestBatch) TableName() string {
	return "request_batches"
}

// BloodRequest is one hospital-to-one-donor ask with its own lifecycle
type BloodRequest struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BatchID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_blood_requests_batch_donor,priority:1" json:"batch_id"`
	HospitalID    string          `gorm:"type:varchar(128);not null;index" json:"hospital_id"`
	DonorID       string          `gorm:"type:varchar(128);not null;uniqueIndex:uq_blood_requests_batch_donor,priority:2;index" json:"donor_id"`
	DonorName     string          `gorm:"type:varchar(255)" json:"donor_name"`
	BloodGroup    BloodGroup      `gorm:"type:varchar(3);not null" json:"blood_group"`
	UnitsRequired int             `gorm:"not null" json:"units_required"`
	Hospital      HospitalContact `gorm:"embedded;embeddedPrefix:hospital_" json:"hospital"`
	Status        RequestStatus   `gorm:"type:varchar(16);not null;index" json:"status"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	AcceptedAt    *time.Time      `json:"accepted_at,omitempty"`
	DeclinedAt    *time.Time      `json:"declined_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
}

func (BloodRequest) TableName() string {
	return "blood_requests"
}

// IsPending checks if request still awaits a decision
func (r *BloodRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// IsAccepted checks if donor accepted the request
func (r *BloodRequest) IsAccepted() bool {
	return r.Status == RequestStatusAccepted
}

// ApplyTransition sets status and the matching timestamp. The caller is
// responsible for the pending guard.
func (r *BloodRequest) ApplyTransition(to RequestStatus, at time.Time) {
	r.Status = to
	switch to {
	case RequestStatusAccepted:
		r.AcceptedAt = &at
	case RequestStatusDeclined:
		r.DeclinedAt = &at
	case RequestStatusCancelled:
		r.CancelledAt = &at
	}
}

// RequestFilter narrows request listings. Zero values mean no filter.
type RequestFilter struct {
	Status  RequestStatus
	BatchID *uuid.UUID
}
