package repository

import (
	"context"

	"blood-donor-service/internal/domain/entity"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	FindByActor(ctx context.Context, actorID string, limit int) ([]entity.AuditLog, error)
}
