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

type notificationRepository struct {
	mu            sync.RWMutex
	notifications map[uuid.UUID]entity.Notification
	byRequest     map[uuid.UUID]uuid.UUID
}

func NewNotificationRepository() domainRepo.NotificationRepository {
	return &notificationRepository{
		notifications: make(map[uuid.UUID]entity.Notification),
		byRequest:     make(map[uuid.UUID]uuid.UUID),
	}
}

func cloneNotification(n entity.Notification) entity.Notification {
	n.ReadAt = cloneTime(n.ReadAt)
	n.HospitalAcceptedAt = cloneTime(n.HospitalAcceptedAt)
	return n
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notifications[notification.ID]; ok {
		return fmt.Errorf("%w: notifications_pkey", domainRepo.ErrDuplicateKey)
	}
	if _, ok := r.byRequest[notification.RequestID]; ok {
		return fmt.Errorf("%w: idx_notifications_request_id", domainRepo.ErrDuplicateKey)
	}
	r.notifications[notification.ID] = cloneNotification(*notification)
	r.byRequest[notification.RequestID] = notification.ID
	return nil
}

func (r *notificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifications[id]
	if !ok {
		return nil, nil
	}
	c := cloneNotification(n)
	return &c, nil
}

func (r *notificationRepository) FindByHospitalID(ctx context.Context, hospitalID string, unreadOnly bool) ([]entity.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entity.Notification, 0)
	for _, n := range r.notifications {
		if n.HospitalID != hospitalID || (unreadOnly && n.Read) {
			continue
		}
		result = append(result, cloneNotification(n))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok || n.Read {
		return 0, nil
	}
	n.Read = true
	n.ReadAt = &at
	r.notifications[id] = n
	return 1, nil
}

func (r *notificationRepository) Acknowledge(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok || n.HospitalAccepted {
		return 0, nil
	}
	n.HospitalAccepted = true
	n.HospitalAcceptedAt = &at
	r.notifications[id] = n
	return 1, nil
}
