package usecase

import (
	"context"
	"errors"
	"time"

	"blood-donor-service/internal/converter"
	"blood-donor-service/internal/delivery/dto"
	"blood-donor-service/internal/domain/entity"
	"blood-donor-service/internal/domain/repository"
	"blood-donor-service/internal/infrastructure/metrics"
	"blood-donor-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrBatchNotFound         = errors.New("request batch not found")
	ErrInvalidUnitsRequired  = errors.New("units required must be greater than zero")
	ErrDonorNoLongerMatching = errors.New("donor no longer matches the request")
	ErrNoDonorsToRetry       = errors.New("at least one donor id is required to retry")
)

type RequestBatchUsecase interface {
	FindDonors(ctx context.Context, subject entity.Subject, bloodGroup string) (*dto.DonorListResponse, error)
	CreateRequestBatch(ctx context.Context, subject entity.Subject, req *dto.CreateRequestBatchRequest) (*dto.DispatchResultResponse, error)
	RetryDispatch(ctx context.Context, subject entity.Subject, batchID uuid.UUID, req *dto.RetryDispatchRequest) (*dto.DispatchResultResponse, error)
}

type requestBatchUsecase struct {
	log          *logrus.Logger
	hospitalRepo repository.HospitalProfileRepository
	batchRepo    repository.RequestBatchRepository
	directory    *service.DonorDirectory
	dispatcher   *service.RequestDispatcher
	auditService service.AuditService
	events       *eventPublisher
	maxDonors    int
	now          func() time.Time
}

func NewRequestBatchUsecase(
	log *logrus.Logger,
	hospitalRepo repository.HospitalProfileRepository,
	batchRepo repository.RequestBatchRepository,
	directory *service.DonorDirectory,
	dispatcher *service.RequestDispatcher,
	auditService service.AuditService,
	eventBus service.EventBus,
	m *metrics.Metrics,
	maxDonors int,
	now func() time.Time,
) RequestBatchUsecase {
	if now == nil {
		now = time.Now
	}
	return &requestBatchUsecase{
		log:          log,
		hospitalRepo: hospitalRepo,
		batchRepo:    batchRepo,
		directory:    directory,
		dispatcher:   dispatcher,
		auditService: auditService,
		events:       newEventPublisher(log, eventBus, m),
		maxDonors:    maxDonors,
		now:          now,
	}
}

// FindDonors is the hospital-facing directory query
func (u *requestBatchUsecase) FindDonors(ctx context.Context, subject entity.Subject, bloodGroup string) (*dto.DonorListResponse, error) {
	if err := requireHospital(subject); err != nil {
		return nil, err
	}

	group := entity.BloodGroup(bloodGroup)
	if !group.IsValid() {
		return nil, ErrInvalidBloodGroup
	}

	donors, err := u.directory.Query(ctx, group, nil, u.maxDonors)
	if err != nil {
		return nil, err
	}

	return &dto.DonorListResponse{
		Donors: converter.DonorsToSummaries(donors),
		Total:  len(donors),
	}, nil
}

// CreateRequestBatch stores the request template and fans it out to every
// donor currently matching its blood group.
//
// Flow:
// 1. Resolve the hospital contact block that every request copies
// 2. Query the directory (a store outage fails here, before any write)
// 3. Persist the batch
// 4. Dispatch; per-donor failures are reported, not returned as an error
func (u *requestBatchUsecase) CreateRequestBatch(ctx context.Context, subject entity.Subject, req *dto.CreateRequestBatchRequest) (*dto.DispatchResultResponse, error) {
	if err := requireHospital(subject); err != nil {
		return nil, err
	}

	bloodGroup := entity.BloodGroup(req.BloodGroup)
	if !bloodGroup.IsValid() {
		return nil, ErrInvalidBloodGroup
	}
	if req.UnitsRequired <= 0 {
		return nil, ErrInvalidUnitsRequired
	}

	// Step 1
	hospital, err := u.hospitalRepo.FindByID(ctx, subject.ID)
	if err != nil {
		u.log.Warnf("Failed to find hospital profile %s: %+v", subject.ID, err)
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalProfileNotFound
	}

	// Step 2
	donors, err := u.directory.Query(ctx, bloodGroup, nil, u.maxDonors)
	if err != nil {
		return nil, err
	}

	// Step 3
	batch := &entity.RequestBatch{
		ID:            uuid.New(),
		HospitalID:    subject.ID,
		BloodGroup:    bloodGroup,
		UnitsRequired: req.UnitsRequired,
		Hospital:      hospital.Contact(),
		CreatedAt:     u.now(),
	}
	if err := u.batchRepo.Create(ctx, batch); err != nil {
		u.log.Warnf("Failed to create request batch for hospital %s: %+v", subject.ID, err)
		return nil, err
	}

	// Step 4
	result := u.dispatcher.Dispatch(ctx, batch, donors)
	u.afterDispatch(ctx, subject, batch, result)

	return dispatchResultToResponse(batch.ID, result), nil
}

// RetryDispatch re-runs the fan-out for the given donors. Rows that already
// exist are returned as they are; donors that stopped matching are reported
// as failed.
func (u *requestBatchUsecase) RetryDispatch(ctx context.Context, subject entity.Subject, batchID uuid.UUID, req *dto.RetryDispatchRequest) (*dto.DispatchResultResponse, error) {
	if err := requireHospital(subject); err != nil {
		return nil, err
	}
	// an empty list would widen the directory query to every current match
	if req == nil || len(req.DonorIDs) == 0 {
		return nil, ErrNoDonorsToRetry
	}

	batch, err := u.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		u.log.Warnf("Failed to find request batch %s: %+v", batchID, err)
		return nil, err
	}
	if batch == nil || batch.HospitalID != subject.ID {
		return nil, ErrBatchNotFound
	}

	donors, err := u.directory.Query(ctx, batch.BloodGroup, req.DonorIDs, u.maxDonors)
	if err != nil {
		return nil, err
	}

	result := u.dispatcher.Dispatch(ctx, batch, donors)

	matched := make(map[string]struct{}, len(donors))
	for i := range donors {
		matched[donors[i].DonorID] = struct{}{}
	}
	reported := make(map[string]struct{}, len(req.DonorIDs))
	for _, donorID := range req.DonorIDs {
		if _, ok := matched[donorID]; ok {
			continue
		}
		if _, dup := reported[donorID]; dup {
			continue
		}
		reported[donorID] = struct{}{}
		result.Failed = append(result.Failed, service.DispatchFailure{DonorID: donorID, Err: ErrDonorNoLongerMatching})
	}

	u.afterDispatch(ctx, subject, batch, result)

	return dispatchResultToResponse(batch.ID, result), nil
}

// afterDispatch records the audit entry and tells each newly asked donor
func (u *requestBatchUsecase) afterDispatch(ctx context.Context, subject entity.Subject, batch *entity.RequestBatch, result service.DispatchResult) {
	_ = u.auditService.LogCreate(ctx, subject.ID, entity.AuditActionBatchDispatch, "request_batch", batch.ID.String(), map[string]interface{}{
		"blood_group":    batch.BloodGroup,
		"units_required": batch.UnitsRequired,
		"created":        len(result.Created),
		"inserted":       len(result.Inserted),
		"failed":         len(result.Failed),
	})

	if len(result.Inserted) == 0 {
		return
	}

	inserted := make(map[uuid.UUID]struct{}, len(result.Inserted))
	for _, id := range result.Inserted {
		inserted[id] = struct{}{}
	}

	at := u.now()
	events := make([]entity.Event, 0, len(result.Inserted))
	for i := range result.Created {
		request := &result.Created[i]
		if _, ok := inserted[request.ID]; !ok {
			continue
		}
		if event, ok := u.events.event(entity.EventRequestReceived, request.DonorID, converter.BloodRequestToResponse(request), at); ok {
			events = append(events, event)
		}
	}
	u.events.publish(ctx, events...)
}

func dispatchResultToResponse(batchID uuid.UUID, result service.DispatchResult) *dto.DispatchResultResponse {
	failed := make([]dto.DispatchFailureResponse, len(result.Failed))
	for i, f := range result.Failed {
		message := "failed to create request"
		if errors.Is(f.Err, ErrDonorNoLongerMatching) {
			message = f.Err.Error()
		}
		failed[i] = dto.DispatchFailureResponse{DonorID: f.DonorID, Error: message}
	}

	return &dto.DispatchResultResponse{
		BatchID: batchID,
		Created: converter.BloodRequestsToResponses(result.Created),
		Failed:  failed,
	}
}
