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
	ErrRequestNotFound     = errors.New("blood request not found")
	ErrRequestNotOwned     = errors.New("blood request does not belong to you")
	ErrRequestConflict     = errors.New("blood request is no longer pending")
	ErrInvalidStatusFilter = errors.New("invalid request status filter")
)

const (
	transitionApplied  = "applied"
	transitionConflict = "conflict"
)

type BloodRequestUsecase interface {
	AcceptRequest(ctx context.Context, subject entity.Subject, requestID uuid.UUID) (*dto.BloodRequestResponse, error)
	DeclineRequest(ctx context.Context, subject entity.Subject, requestID uuid.UUID) (*dto.BloodRequestResponse, error)
	CancelRequest(ctx context.Context, subject entity.Subject, requestID uuid.UUID) (*dto.BloodRequestResponse, error)
	CancelRequests(ctx context.Context, subject entity.Subject, req *dto.CancelRequestsRequest) (*dto.CancelRequestsResponse, error)
	ListReceivedRequests(ctx context.Context, subject entity.Subject, status string) (*dto.BloodRequestListResponse, error)
	ListSentRequests(ctx context.Context, subject entity.Subject, status string, batchID *uuid.UUID) (*dto.BloodRequestListResponse, error)
	GetRequestSummary(ctx context.Context, subject entity.Subject) (*dto.RequestSummaryResponse, error)
}

type bloodRequestUsecase struct {
	log          *logrus.Logger
	requestRepo  repository.BloodRequestRepository
	emitter      *service.NotificationEmitter
	auditService service.AuditService
	events       *eventPublisher
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewBloodRequestUsecase(
	log *logrus.Logger,
	requestRepo repository.BloodRequestRepository,
	emitter *service.NotificationEmitter,
	auditService service.AuditService,
	eventBus service.EventBus,
	m *metrics.Metrics,
	now func() time.Time,
) BloodRequestUsecase {
	if now == nil {
		now = time.Now
	}
	return &bloodRequestUsecase{
		log:          log,
		requestRepo:  requestRepo,
		emitter:      emitter,
		auditService: auditService,
		events:       newEventPublisher(log, eventBus, m),
		metrics:      m,
		now:          now,
	}
}

// AcceptRequest moves the donor's pending request to accepted and writes the
// hospital notification. A notification failure is logged; the accept stands.
func (u *bloodRequestUsecase) AcceptRequest(ctx context.Context, subject entity.Subject, requestID uuid.UUID) (*dto.BloodRequestResponse, error) {
	if err := requireDonor(subject); err != nil {
		return nil, err
	}

	request, err := u.transition(ctx, subject, requestID, entity.RequestStatusAccepted)
	if err != nil {
		return nil, err
	}

	notification, err := u.emitter.EmitAccepted(ctx, request, *request.AcceptedAt)
	if err != nil {
		u.metrics.IncrementNotificationFailure()
		u.log.WithFields(logrus.Fields{
			"request_id":  request.ID,
			"hospital_id": request.HospitalID,
		}).Errorf("Failed to emit acceptance notification: %+v", err)
	} else {
		u.events.publishOne(ctx, entity.EventNotificationCreated, request.HospitalID,
			converter.NotificationToResponse(notification), notification.CreatedAt)
	}

	return converter.BloodRequestToResponse(request), nil
}

func (u *bloodRequestUsecase) DeclineRequest(ctx context.Context, subject entity.Subject, requestID uuid.UUID) (*dto.BloodRequestResponse, error) {
	if err := requireDonor(subject); err != nil {
		return nil, err
	}

	request, err := u.transition(ctx, subject, requestID, entity.RequestStatusDeclined)
	if err != nil {
		return nil, err
	}
	return converter.BloodRequestToResponse(request), nil
}

func (u *bloodRequestUsecase) CancelRequest(ctx context.Context, subject entity.Subject, requestID uuid.UUID) (*dto.BloodRequestResponse, error) {
	if err := requireHospital(subject); err != nil {
		return nil, err
	}

	request, err := u.transition(ctx, subject, requestID, entity.RequestStatusCancelled)
	if err != nil {
		return nil, err
	}
	return converter.BloodRequestToResponse(request), nil
}

// CancelRequests cancels every listed request the hospital owns that is still
// pending. Everything else is reported as skipped and left untouched.
func (u *bloodRequestUsecase) CancelRequests(ctx context.Context, subject entity.Subject, req *dto.CancelRequestsRequest) (*dto.CancelRequestsResponse, error) {
	if err := requireHospital(subject); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	seen := make(map[uuid.UUID]struct{}, len(req.IDs))
	for _, id := range req.IDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	at := u.now()
	cancelled, err := u.requestRepo.CancelPending(ctx, subject.ID, ids, at)
	if err != nil {
		u.log.Warnf("Failed to cancel requests for hospital %s: %+v", subject.ID, err)
		return nil, err
	}

	byID := make(map[uuid.UUID]*entity.BloodRequest, len(cancelled))
	for i := range cancelled {
		byID[cancelled[i].ID] = &cancelled[i]
	}

	response := &dto.CancelRequestsResponse{
		Cancelled: make([]uuid.UUID, 0, len(cancelled)),
		Skipped:   make([]uuid.UUID, 0, len(ids)-len(cancelled)),
	}
	events := make([]entity.Event, 0, len(cancelled))
	for _, id := range ids {
		request, ok := byID[id]
		if !ok {
			response.Skipped = append(response.Skipped, id)
			continue
		}
		response.Cancelled = append(response.Cancelled, id)
		u.metrics.IncrementTransition(string(entity.RequestStatusCancelled), transitionApplied)
		_ = u.auditService.LogUpdate(ctx, subject.ID, entity.AuditActionRequestCancel, "blood_request", id.String(),
			statusValue(entity.RequestStatusPending), statusValue(entity.RequestStatusCancelled))
		if event, ok := u.events.event(entity.EventRequestCancelled, request.DonorID, converter.BloodRequestToResponse(request), at); ok {
			events = append(events, event)
		}
	}
	u.events.publish(ctx, events...)

	u.log.WithFields(logrus.Fields{
		"hospital_id": subject.ID,
		"cancelled":   len(response.Cancelled),
		"skipped":     len(response.Skipped),
	}).Info("Blood requests cancelled")

	return response, nil
}

// transition applies one lifecycle edge for the owning side. Ownership is
// checked on a read; the pending guard is enforced by the conditional write,
// so a concurrent decision surfaces as ErrRequestConflict.
func (u *bloodRequestUsecase) transition(ctx context.Context, subject entity.Subject, requestID uuid.UUID, to entity.RequestStatus) (*entity.BloodRequest, error) {
	request, err := u.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		u.log.Warnf("Failed to find blood request %s: %+v", requestID, err)
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	owner := request.DonorID
	if to == entity.RequestStatusCancelled {
		owner = request.HospitalID
	}
	if owner != subject.ID {
		return nil, ErrRequestNotOwned
	}

	if !entity.CanTransition(request.Status, to) {
		u.metrics.IncrementTransition(string(to), transitionConflict)
		return nil, ErrRequestConflict
	}

	at := u.now()
	affected, err := u.requestRepo.TransitionFromPending(ctx, requestID, to, at)
	if err != nil {
		u.log.Warnf("Failed to move blood request %s to %s: %+v", requestID, to, err)
		return nil, err
	}
	if affected == 0 {
		u.metrics.IncrementTransition(string(to), transitionConflict)
		return nil, ErrRequestConflict
	}

	previous := request.Status
	request.ApplyTransition(to, at)
	request.UpdatedAt = at

	u.metrics.IncrementTransition(string(to), transitionApplied)
	_ = u.auditService.LogUpdate(ctx, subject.ID, auditActionFor(to), "blood_request", requestID.String(),
		statusValue(previous), statusValue(to))

	// the other party hears about the decision
	recipient := request.HospitalID
	if to == entity.RequestStatusCancelled {
		recipient = request.DonorID
	}
	u.events.publishOne(ctx, eventTypeFor(to), recipient, converter.BloodRequestToResponse(request), at)

	u.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"status":     to,
		"actor":      subject.ID,
	}).Info("Blood request transitioned")

	return request, nil
}

func (u *bloodRequestUsecase) ListReceivedRequests(ctx context.Context, subject entity.Subject, status string) (*dto.BloodRequestListResponse, error) {
	if err := requireDonor(subject); err != nil {
		return nil, err
	}

	filter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}

	requests, err := u.requestRepo.FindByDonorID(ctx, subject.ID, filter)
	if err != nil {
		u.log.Warnf("Failed to find requests for donor %s: %+v", subject.ID, err)
		return nil, err
	}

	return &dto.BloodRequestListResponse{
		Requests: converter.BloodRequestsToResponses(requests),
		Total:    len(requests),
	}, nil
}

func (u *bloodRequestUsecase) ListSentRequests(ctx context.Context, subject entity.Subject, status string, batchID *uuid.UUID) (*dto.BloodRequestListResponse, error) {
	if err := requireHospital(subject); err != nil {
		return nil, err
	}

	filter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	filter.BatchID = batchID

	requests, err := u.requestRepo.FindByHospitalID(ctx, subject.ID, filter)
	if err != nil {
		u.log.Warnf("Failed to find requests for hospital %s: %+v", subject.ID, err)
		return nil, err
	}

	return &dto.BloodRequestListResponse{
		Requests: converter.BloodRequestsToResponses(requests),
		Total:    len(requests),
	}, nil
}

// GetRequestSummary counts the hospital's live requests per status
func (u *bloodRequestUsecase) GetRequestSummary(ctx context.Context, subject entity.Subject) (*dto.RequestSummaryResponse, error) {
	if err := requireHospital(subject); err != nil {
		return nil, err
	}

	counts, err := u.requestRepo.CountByStatus(ctx, subject.ID)
	if err != nil {
		u.log.Warnf("Failed to count requests for hospital %s: %+v", subject.ID, err)
		return nil, err
	}

	summary := &dto.RequestSummaryResponse{
		Pending:   counts[entity.RequestStatusPending],
		Accepted:  counts[entity.RequestStatusAccepted],
		Declined:  counts[entity.RequestStatusDeclined],
		Cancelled: counts[entity.RequestStatusCancelled],
	}
	summary.Total = summary.Pending + summary.Accepted + summary.Declined + summary.Cancelled
	return summary, nil
}

func parseStatusFilter(status string) (entity.RequestFilter, error) {
	if status == "" {
		return entity.RequestFilter{}, nil
	}
	s := entity.RequestStatus(status)
	if !s.IsValid() {
		return entity.RequestFilter{}, ErrInvalidStatusFilter
	}
	return entity.RequestFilter{Status: s}, nil
}

func statusValue(status entity.RequestStatus) map[string]interface{} {
	return map[string]interface{}{"status": status}
}

func auditActionFor(to entity.RequestStatus) string {
	switch to {
	case entity.RequestStatusAccepted:
		return entity.AuditActionRequestAccept
	case entity.RequestStatusDeclined:
		return entity.AuditActionRequestDecline
	default:
		return entity.AuditActionRequestCancel
	}
}

func eventTypeFor(to entity.RequestStatus) entity.EventType {
	switch to {
	case entity.RequestStatusAccepted:
		return entity.EventRequestAccepted
	case entity.RequestStatusDeclined:
		return entity.EventRequestDeclined
	default:
		return entity.EventRequestCancelled
	}
}
