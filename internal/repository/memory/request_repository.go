package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"blood-donor-service/internal/domain/entity"
	domainRepo "blood-donor-service/internal/domain/repository"

	"github.com/google/uuid"
)

type requestBatchRepository struct {
	mu      sync.RWMutex
	batches map[uuid.UUID]entity.RequestBatch
}

func NewRequestBatchRepository() domainRepo.RequestBatchRepository {
	return &requestBatchRepository{batches: make(map[uuid.UUID]entity.RequestBatch)}
}

func (r *requestBatchRepository) Create(ctx context.Context, batch *entity.RequestBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.batches[batch.ID]; ok {
		return fmt.Errorf("%w: request_batches_pkey", domainRepo.ErrDuplicateKey)
	}
	r.batches[batch.ID] = *batch
	return nil
}

func (r *requestBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RequestBatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.batches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

type batchDonorKey struct {
	batchID uuid.UUID
	donorID string
}

type bloodRequestRepository struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]entity.BloodRequest
	byBatch  map[batchDonorKey]uuid.UUID
}

func NewBloodRequestRepository() domainRepo.BloodRequestRepository {
	return &bloodRequestRepository{
		requests: make(map[uuid.UUID]entity.BloodRequest),
		byBatch:  make(map[batchDonorKey]uuid.UUID),
	}
}

func cloneRequest(r entity.BloodRequest) entity.BloodRequest {
	r.AcceptedAt = cloneTime(r.AcceptedAt)
	r.DeclinedAt = cloneTime(r.DeclinedAt)
	r.CancelledAt = cloneTime(r.CancelledAt)
	return r
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func (r *bloodRequestRepository) CreateIfAbsent(ctx context.Context, request *entity.BloodRequest) (*entity.BloodRequest, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := batchDonorKey{batchID: request.BatchID, donorID: request.DonorID}
	if id, ok := r.byBatch[key]; ok {
		existing := cloneRequest(r.requests[id])
		return &existing, false, nil
	}
	if _, ok := r.requests[request.ID]; ok {
		return nil, false, fmt.Errorf("%w: blood_requests_pkey", domainRepo.ErrDuplicateKey)
	}
	if request.UpdatedAt.IsZero() {
		request.UpdatedAt = request.CreatedAt
	}

	r.requests[request.ID] = cloneRequest(*request)
	r.byBatch[key] = request.ID
	return request, true, nil
}

func (r *bloodRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BloodRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	c := cloneRequest(req)
	return &c, nil
}

func (r *bloodRequestRepository) FindByDonorID(ctx context.Context, donorID string, filter entity.RequestFilter) ([]entity.BloodRequest, error) {
	return r.find(func(req *entity.BloodRequest) bool { return req.DonorID == donorID }, filter), nil
}

func (r *bloodRequestRepository) FindByHospitalID(ctx context.Context, hospitalID string, filter entity.RequestFilter) ([]entity.BloodRequest, error) {
	return r.find(func(req *entity.BloodRequest) bool { return req.HospitalID == hospitalID }, filter), nil
}

// find returns matching requests newest first
func (r *bloodRequestRepository) find(owner func(*entity.BloodRequest) bool, filter entity.RequestFilter) []entity.BloodRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entity.BloodRequest, 0)
	for _, req := range r.requests {
		if !owner(&req) {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.BatchID != nil && req.BatchID != *filter.BatchID {
			continue
		}
		result = append(result, cloneRequest(req))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].DonorID < result[j].DonorID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (r *bloodRequestRepository) CountByStatus(ctx context.Context, hospitalID string) (map[entity.RequestStatus]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[entity.RequestStatus]int64, len(entity.RequestStatuses))
	for _, s := range entity.RequestStatuses {
		counts[s] = 0
	}
	for _, req := range r.requests {
		if req.HospitalID == hospitalID {
			counts[req.Status]++
		}
	}
	return counts, nil
}

func (r *bloodRequestRepository) TransitionFromPending(ctx context.Context, id uuid.UUID, to entity.RequestStatus, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok || !req.IsPending() {
		return 0, nil
	}
	req.ApplyTransition(to, at)
	req.UpdatedAt = at
	r.requests[id] = req
	return 1, nil
}

func (r *bloodRequestRepository) CancelPending(ctx context.Context, hospitalID string, ids []uuid.UUID, at time.Time) ([]entity.BloodRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cancelled := make([]entity.BloodRequest, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		req, ok := r.requests[id]
		if !ok || req.HospitalID != hospitalID || !req.IsPending() {
			continue
		}
		req.ApplyTransition(entity.RequestStatusCancelled, at)
		req.UpdatedAt = at
		r.requests[id] = req
		cancelled = append(cancelled, cloneRequest(req))
	}
	return cancelled, nil
}
