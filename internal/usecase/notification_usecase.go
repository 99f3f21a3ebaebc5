package usecase

import (
	"context"
	"errors"
	"time"

	"blood-donor-service/internal/converter"
	"blood-donor-service/internal/delivery/dto"
	"blood-donor-service/internal/domain/entity"
	"blood-donor-service/internal/domain/repository"
	"blood-donor-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotificationNotOwned = errors.New("notification does not belong to you")
)

type NotificationUsecase interface {
	ListNotifications(ctx context.Context, subject entity.Subject, unreadOnly bool) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, subject entity.Subject, notificationID uuid.UUID) (*dto.NotificationResponse, error)
	AcknowledgeDonor(ctx context.Context, subject entity.Subject, notificationID uuid.UUID) (*dto.NotificationResponse, error)
}

type notificationUsecase struct {
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
	auditService     service.AuditService
	now              func() time.Time
}

func NewNotificationUsecase(
	log *logrus.Logger,
	notificationRepo repository.NotificationRepository,
	auditService service.AuditService,
	now func() time.Time,
) NotificationUsecase {
	if now == nil {
		now = time.Now
	}
	return &notificationUsecase{
		log:              log,
		notificationRepo: notificationRepo,
		auditService:     auditService,
		now:              now,
	}
}

func (u *notificationUsecase) ListNotifications(ctx context.Context, subject entity.Subject, unreadOnly bool) (*dto.NotificationListResponse, error) {
	if err := requireHospital(subject); err != nil {
		return nil, err
	}

	notifications, err := u.notificationRepo.FindByHospitalID(ctx, subject.ID, unreadOnly)
	if err != nil {
		u.log.Warnf("Failed to find notifications for hospital %s: %+v", subject.ID, err)
		return nil, err
	}

	unread := 0
	for i := range notifications {
		if !notifications[i].Read {
			unread++
		}
	}

	return &dto.NotificationListResponse{
		Notifications: converter.NotificationsToResponses(notifications),
		Total:         len(notifications),
		Unread:        unread,
	}, nil
}

// MarkRead is idempotent; a second call returns the notification unchanged
func (u *notificationUsecase) MarkRead(ctx context.Context, subject entity.Subject, notificationID uuid.UUID) (*dto.NotificationResponse, error) {
	return u.flip(ctx, subject, notificationID, entity.AuditActionNotificationRead, u.notificationRepo.MarkRead)
}

// AcknowledgeDonor records that the hospital took the donor up. It never
// changes the request's status.
func (u *notificationUsecase) AcknowledgeDonor(ctx context.Context, subject entity.Subject, notificationID uuid.UUID) (*dto.NotificationResponse, error) {
	return u.flip(ctx, subject, notificationID, entity.AuditActionNotificationAcknowledge, u.notificationRepo.Acknowledge)
}

func (u *notificationUsecase) flip(
	ctx context.Context,
	subject entity.Subject,
	notificationID uuid.UUID,
	action string,
	update func(ctx context.Context, id uuid.UUID, at time.Time) (int64, error),
) (*dto.NotificationResponse, error) {
	if err := requireHospital(subject); err != nil {
		return nil, err
	}

	notification, err := u.loadOwned(ctx, subject, notificationID)
	if err != nil {
		return nil, err
	}

	affected, err := update(ctx, notificationID, u.now())
	if err != nil {
		u.log.Warnf("Failed to update notification %s: %+v", notificationID, err)
		return nil, err
	}

	if affected > 0 {
		_ = u.auditService.LogUpdate(ctx, subject.ID, action, "notification", notificationID.String(), nil, map[string]interface{}{"action": action})
		if notification, err = u.loadOwned(ctx, subject, notificationID); err != nil {
			return nil, err
		}
	}

	return converter.NotificationToResponse(notification), nil
}

func (u *notificationUsecase) loadOwned(ctx context.Context, subject entity.Subject, notificationID uuid.UUID) (*entity.Notification, error) {
	notification, err := u.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		u.log.Warnf("Failed to find notification %s: %+v", notificationID, err)
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	if notification.HospitalID != subject.ID {
		return nil, ErrNotificationNotOwned
	}
	return notification, nil
}
