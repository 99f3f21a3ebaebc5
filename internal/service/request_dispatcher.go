package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"blood-donor-service/internal/domain/entity"
	"blood-donor-service/internal/domain/repository"
	"blood-donor-service/internal/infrastructure/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

const (
	DispatchOutcomeCreated  = "created"
	DispatchOutcomeExisting = "existing"
	DispatchOutcomeFailed   = "failed"
)

// DispatchFailure is a donor whose request could not be written
type DispatchFailure struct {
	DonorID string
	Err     error
}

// DispatchResult lists requests that exist for the batch after this call
// (newly created or already present) and the donors that still need a retry.
// Inserted holds the ids of rows this call wrote.
type DispatchResult struct {
	Created  []entity.BloodRequest
	Failed   []DispatchFailure
	Inserted []uuid.UUID
}

type dispatchOutcome struct {
	request *entity.BloodRequest
	created bool
	donorID string
	err     error
}

// RequestDispatcher materializes one pending BloodRequest per matched donor.
// Writes are independent: one donor failing never affects another, and
// (batch, donor) uniqueness makes a re-run safe.
type RequestDispatcher struct {
	log         *logrus.Logger
	requestRepo repository.BloodRequestRepository
	metrics     *metrics.Metrics
	maxWorkers  int
	now         func() time.Time
}

func NewRequestDispatcher(
	log *logrus.Logger,
	requestRepo repository.BloodRequestRepository,
	m *metrics.Metrics,
	maxWorkers int,
	now func() time.Time,
) *RequestDispatcher {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if now == nil {
		now = time.Now
	}
	return &RequestDispatcher{
		log:         log,
		requestRepo: requestRepo,
		metrics:     m,
		maxWorkers:  maxWorkers,
		now:         now,
	}
}

// Dispatch fans the batch out to donors on a bounded pool and collects every
// per-donor outcome. Results are ordered by donor id.
func (d *RequestDispatcher) Dispatch(ctx context.Context, batch *entity.RequestBatch, donors []entity.DonorProfile) DispatchResult {
	start := time.Now()
	defer func() { d.metrics.ObserveDispatchLatency(time.Since(start)) }()

	p := pool.NewWithResults[dispatchOutcome]().WithMaxGoroutines(d.maxWorkers)

	seen := make(map[string]struct{}, len(donors))
	for i := range donors {
		donor := donors[i]
		if _, dup := seen[donor.DonorID]; dup {
			continue
		}
		seen[donor.DonorID] = struct{}{}

		p.Go(func() dispatchOutcome {
			return d.dispatchOne(ctx, batch, &donor)
		})
	}
	outcomes := p.Wait()

	result := DispatchResult{
		Created:  make([]entity.BloodRequest, 0, len(outcomes)),
		Failed:   make([]DispatchFailure, 0),
		Inserted: make([]uuid.UUID, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		if o.err != nil {
			d.metrics.IncrementDispatch(DispatchOutcomeFailed)
			result.Failed = append(result.Failed, DispatchFailure{DonorID: o.donorID, Err: o.err})
			continue
		}
		if o.created {
			result.Inserted = append(result.Inserted, o.request.ID)
			d.metrics.IncrementDispatch(DispatchOutcomeCreated)
		} else {
			d.metrics.IncrementDispatch(DispatchOutcomeExisting)
		}
		result.Created = append(result.Created, *o.request)
	}

	sort.Slice(result.Created, func(i, j int) bool { return result.Created[i].DonorID < result.Created[j].DonorID })
	sort.Slice(result.Failed, func(i, j int) bool { return result.Failed[i].DonorID < result.Failed[j].DonorID })

	d.log.WithFields(logrus.Fields{
		"batch_id": batch.ID,
		"created":  len(result.Created),
		"inserted": len(result.Inserted),
		"failed":   len(result.Failed),
	}).Info("Request batch dispatched")

	return result
}

// dispatchOne never returns an error to the pool; failures travel in the outcome
func (d *RequestDispatcher) dispatchOne(ctx context.Context, batch *entity.RequestBatch, donor *entity.DonorProfile) dispatchOutcome {
	if err := ctx.Err(); err != nil {
		return dispatchOutcome{donorID: donor.DonorID, err: err}
	}

	now := d.now()
	request := &entity.BloodRequest{
		ID:            uuid.New(),
		BatchID:       batch.ID,
		HospitalID:    batch.HospitalID,
		DonorID:       donor.DonorID,
		DonorName:     donor.Name,
		BloodGroup:    batch.BloodGroup,
		UnitsRequired: batch.UnitsRequired,
		Hospital:      batch.Hospital,
		Status:        entity.RequestStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	stored, created, err := d.requestRepo.CreateIfAbsent(ctx, request)
	if err != nil {
		d.log.Warnf("Failed to dispatch batch %s to donor %s: %+v", batch.ID, donor.DonorID, err)
		return dispatchOutcome{donorID: donor.DonorID, err: fmt.Errorf("create request: %w", err)}
	}
	return dispatchOutcome{request: stored, created: created, donorID: donor.DonorID}
}
