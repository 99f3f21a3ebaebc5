package memory

import (
	"context"
	"sync"
	"time"

	"blood-donor-service/internal/domain/entity"
	domainRepo "blood-donor-service/internal/domain/repository"
)

type auditLogRepository struct {
	mu     sync.RWMutex
	logs   []entity.AuditLog
	nextID int64
}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	log.ID = r.nextID
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	r.logs = append(r.logs, *log)
	return nil
}

// FindByActor returns newest first
func (r *auditLogRepository) FindByActor(ctx context.Context, actorID string, limit int) ([]entity.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	logs := make([]entity.AuditLog, 0)
	for i := len(r.logs) - 1; i >= 0; i-- {
		if r.logs[i].ActorID != actorID {
			continue
		}
		logs = append(logs, r.logs[i])
		if limit > 0 && len(logs) == limit {
			break
		}
	}
	return logs, nil
}
