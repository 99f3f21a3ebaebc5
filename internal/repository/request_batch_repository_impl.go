package repository

import (
	"context"
	"errors"

	"blood-donor-service/internal/domain/entity"
	domainRepo "blood-donor-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type requestBatchRepository struct {
	db *gorm.DB
}

func NewRequestBatchRepository(db *gorm.DB) domainRepo.RequestBatchRepository {
	return &requestBatchRepository{db: db}
}

func (r *requestBatchRepository) Create(ctx context.Context, batch *entity.RequestBatch) error {
	return translateError(r.db.WithContext(ctx).Create(batch).Error)
}

func (r *requestBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RequestBatch, error) {
	var batch entity.RequestBatch
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}
