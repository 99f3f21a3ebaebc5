package repository

import (
	"context"
	"errors"

	"blood-donor-service/internal/domain/entity"
	domainRepo "blood-donor-service/internal/domain/repository"

	"gorm.io/gorm"
)

type hospitalProfileRepository struct {
	db *gorm.DB
}

func NewHospitalProfileRepository(db *gorm.DB) domainRepo.HospitalProfileRepository {
	return &hospitalProfileRepository{db: db}
}

func (r *hospitalProfileRepository) Create(ctx context.Context, profile *entity.HospitalProfile) error {
	return translateError(r.db.WithContext(ctx).Create(profile).Error)
}

func (r *hospitalProfileRepository) FindByID(ctx context.Context, hospitalID string) (*entity.HospitalProfile, error) {
	var profile entity.HospitalProfile
	err := r.db.WithContext(ctx).Where("hospital_id = ?", hospitalID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *hospitalProfileRepository) Update(ctx context.Context, profile *entity.HospitalProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
