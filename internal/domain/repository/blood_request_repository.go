package repository

import (
	"context"
	"time"

	"blood-donor-service/internal/domain/entity"

	"github.com/google/uuid"
)

type RequestBatchRepository interface {
	Create(ctx context.Context, batch *entity.RequestBatch) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RequestBatch, error)
}

type BloodRequestRepository interface {
	// CreateIfAbsent inserts the request unless a row for the same
	// (batch_id, donor_id) exists. It returns the stored row and whether
	// this call created it.
	CreateIfAbsent(ctx context.Context, request *entity.BloodRequest) (*entity.BloodRequest, bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.BloodRequest, error)
	FindByDonorID(ctx context.Context, donorID string, filter entity.RequestFilter) ([]entity.BloodRequest, error)
	FindByHospitalID(ctx context.Context, hospitalID string, filter entity.RequestFilter) ([]entity.BloodRequest, error)
	CountByStatus(ctx context.Context, hospitalID string) (map[entity.RequestStatus]int64, error)
	// TransitionFromPending moves a request to a terminal status only if it
	// is still pending at write time. Returns affected rows: 1 = applied,
	// 0 = missing or no longer pending.
	TransitionFromPending(ctx context.Context, id uuid.UUID, to entity.RequestStatus, at time.Time) (int64, error)
	// CancelPending cancels the hospital's requests among ids that are still
	// pending and returns the rows it cancelled, in their new state.
	CancelPending(ctx context.Context, hospitalID string, ids []uuid.UUID, at time.Time) ([]entity.BloodRequest, error)
}
