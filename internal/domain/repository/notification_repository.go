package repository

import (
	"context"
	"time"

	"blood-donor-service/internal/domain/entity"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error)
	FindByHospitalID(ctx context.Context, hospitalID string, unreadOnly bool) ([]entity.Notification, error)
	// MarkRead and Acknowledge only touch their own flag and timestamp
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (int64, error)
	Acknowledge(ctx context.Context, id uuid.UUID, at time.Time) (int64, error)
}
