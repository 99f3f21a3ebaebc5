package usecase

import (
	"context"

	"blood-donor-service/internal/converter"
	"blood-donor-service/internal/delivery/dto"
	"blood-donor-service/internal/domain/entity"
	"blood-donor-service/internal/service"

	"github.com/sirupsen/logrus"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 200
)

type AuditLogUsecase interface {
	ListActivity(ctx context.Context, subject entity.Subject, limit int) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	log          *logrus.Logger
	auditService service.AuditService
}

func NewAuditLogUsecase(
	log *logrus.Logger,
	auditService service.AuditService,
) AuditLogUsecase {
	return &auditLogUsecase{
		log:          log,
		auditService: auditService,
	}
}

// ListActivity returns the subject's own audit trail, newest first
func (u *auditLogUsecase) ListActivity(ctx context.Context, subject entity.Subject, limit int) (*dto.AuditLogListResponse, error) {
	if subject.ID == "" {
		return nil, ErrForbiddenRole
	}

	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}

	logs, err := u.auditService.ListByActor(ctx, subject.ID, limit)
	if err != nil {
		u.log.Warnf("Failed to find audit logs for %s: %+v", subject.ID, err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}
