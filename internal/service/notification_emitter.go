package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blood-donor-service/internal/domain/entity"
	"blood-donor-service/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

var ErrDonorSnapshotUnavailable = errors.New("donor profile unavailable for snapshot")

// NotificationEmitter writes the hospital-facing contact snapshot for an
// accepted request. It makes a single attempt.
type NotificationEmitter struct {
	log              *logrus.Logger
	donorRepo        repository.DonorProfileRepository
	notificationRepo repository.NotificationRepository
}

func NewNotificationEmitter(
	log *logrus.Logger,
	donorRepo repository.DonorProfileRepository,
	notificationRepo repository.NotificationRepository,
) *NotificationEmitter {
	return &NotificationEmitter{
		log:              log,
		donorRepo:        donorRepo,
		notificationRepo: notificationRepo,
	}
}

// EmitAccepted snapshots the donor's current contact fields into a new
// Notification addressed to request.HospitalID
func (e *NotificationEmitter) EmitAccepted(ctx context.Context, request *entity.BloodRequest, at time.Time) (*entity.Notification, error) {
	donor, err := e.donorRepo.FindByID(ctx, request.DonorID)
	if err != nil {
		return nil, fmt.Errorf("load donor %s: %w", request.DonorID, err)
	}
	if donor == nil {
		return nil, fmt.Errorf("%w: %s", ErrDonorSnapshotUnavailable, request.DonorID)
	}

	notification := entity.NewAcceptedNotification(request, donor, at)
	if err := e.notificationRepo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("create notification for request %s: %w", request.ID, err)
	}

	e.log.WithFields(logrus.Fields{
		"notification_id": notification.ID,
		"request_id":      request.ID,
		"hospital_id":     request.HospitalID,
	}).Info("Acceptance notification created")

	return notification, nil
}
