package repository

import (
	"context"
	"time"

	"blood-donor-service/internal/domain/entity"
)

type DonorProfileRepository interface {
	Create(ctx context.Context, profile *entity.DonorProfile) error
	FindByID(ctx context.Context, donorID string) (*entity.DonorProfile, error)
	Update(ctx context.Context, profile *entity.DonorProfile) error
	UpdateAvailability(ctx context.Context, donorID string, isAvailable bool) (int64, error)
	UpdateEligibility(ctx context.Context, donorID string, isEligible bool, reasons []string, checkedAt time.Time) (int64, error)
	// FindMatching returns eligible, available donors of the given blood group.
	// When donorIDs is non-empty the result is restricted to those donors.
	FindMatching(ctx context.Context, bloodGroup entity.BloodGroup, donorIDs []string, limit int) ([]entity.DonorProfile, error)
}
