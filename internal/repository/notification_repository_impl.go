package repository

import (
	"context"
	"errors"
	"time"

	"blood-donor-service/internal/domain/entity"
	domainRepo "blood-donor-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) domainRepo.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	return translateError(r.db.WithContext(ctx).Create(notification).Error)
}

func (r *notificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	var notification entity.Notification
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) FindByHospitalID(ctx context.Context, hospitalID string, unreadOnly bool) ([]entity.Notification, error) {
	var notifications []entity.Notification
	query := r.db.WithContext(ctx).Where("hospital_id = ?", hospitalID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead sets the read flag once; repeated calls affect zero rows
func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) Acknowledge(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("id = ? AND hospital_accepted = ?", id, false).
		Updates(map[string]interface{}{"hospital_accepted": true, "hospital_accepted_at": at})
	return result.RowsAffected, result.Error
}
