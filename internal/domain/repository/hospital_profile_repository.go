package repository

import (
	"context"

	"blood-donor-service/internal/domain/entity"
)

type HospitalProfileRepository interface {
	Create(ctx context.Context, profile *entity.HospitalProfile) error
	FindByID(ctx context.Context, hospitalID string) (*entity.HospitalProfile, error)
	Update(ctx context.Context, profile *entity.HospitalProfile) error
}
