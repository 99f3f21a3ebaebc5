package repository

import (
	"context"
	"errors"
	"time"

	"blood-donor-service/internal/domain/entity"
	domainRepo "blood-donor-service/internal/domain/repository"

	"gorm.io/gorm"
)

type donorProfileRepository struct {
	db *gorm.DB
}

func NewDonorProfileRepository(db *gorm.DB) domainRepo.DonorProfileRepository {
	return &donorProfileRepository{db: db}
}

func (r *donorProfileRepository) Create(ctx context.Context, profile *entity.DonorProfile) error {
	return translateError(r.db.WithContext(ctx).Create(profile).Error)
}

func (r *donorProfileRepository) FindByID(ctx context.Context, donorID string) (*entity.DonorProfile, error) {
	var profile entity.DonorProfile
	err := r.db.WithContext(ctx).Where("donor_id = ?", donorID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// profileColumns are the columns a profile save owns. is_available has its
// own writer and is never part of a save.
var profileColumns = []string{
	"name", "phone", "email", "blood_group", "age", "weight", "health_condition",
	"hemoglobin", "last_donation_date", "city", "state", "country", "pincode",
	"is_eligible", "eligibility_reasons", "eligibility_checked_at", "updated_at",
}

func (r *donorProfileRepository) Update(ctx context.Context, profile *entity.DonorProfile) error {
	return r.db.WithContext(ctx).Model(&entity.DonorProfile{}).
		Where("donor_id = ?", profile.DonorID).
		Select(profileColumns).
		Updates(profile).Error
}

func (r *donorProfileRepository) UpdateAvailability(ctx context.Context, donorID string, isAvailable bool) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.DonorProfile{}).
		Where("donor_id = ?", donorID).
		Update("is_available", isAvailable)
	return result.RowsAffected, result.Error
}

func (r *donorProfileRepository) UpdateEligibility(ctx context.Context, donorID string, isEligible bool, reasons []string, checkedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.DonorProfile{}).
		Where("donor_id = ?", donorID).
		Updates(map[string]interface{}{
			"is_eligible":            isEligible,
			"eligibility_reasons":    entity.StringList(reasons),
			"eligibility_checked_at": checkedAt,
		})
	return result.RowsAffected, result.Error
}

// FindMatching is the directory read: blood group plus both flags, as persisted
func (r *donorProfileRepository) FindMatching(ctx context.Context, bloodGroup entity.BloodGroup, donorIDs []string, limit int) ([]entity.DonorProfile, error) {
	var donors []entity.DonorProfile
	query := r.db.WithContext(ctx).
		Where("blood_group = ? AND is_eligible = ? AND is_available = ?", string(bloodGroup), true, true)

	if len(donorIDs) > 0 {
		query = query.Where("donor_id IN ?", donorIDs)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Order("donor_id ASC").Find(&donors).Error; err != nil {
		return nil, err
	}
	return donors, nil
}
