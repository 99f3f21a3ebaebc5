package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blood-donor-service/internal/converter"
	"blood-donor-service/internal/delivery/dto"
	"blood-donor-service/internal/domain/entity"
	"blood-donor-service/internal/domain/repository"
	"blood-donor-service/internal/infrastructure/metrics"
	"blood-donor-service/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrDonorProfileNotFound = errors.New("donor profile not found")
	ErrInvalidDateFormat    = errors.New("last donation date must use the YYYY-MM-DD format")
	ErrLastDonationInFuture = errors.New("last donation date cannot be in the future")
	ErrInvalidBloodGroup    = errors.New("invalid blood group")
	ErrInvalidHealthStatus  = errors.New("invalid health condition")
)

type DonorProfileUsecase interface {
	SaveProfile(ctx context.Context, subject entity.Subject, req *dto.SaveDonorProfileRequest) (*dto.DonorProfileResponse, error)
	GetProfile(ctx context.Context, subject entity.Subject) (*dto.DonorProfileResponse, error)
	SetAvailability(ctx context.Context, subject entity.Subject, isAvailable bool) (*dto.DonorProfileResponse, error)
	RecheckEligibility(ctx context.Context, subject entity.Subject) (*dto.DonorProfileResponse, error)
}

type donorProfileUsecase struct {
	log          *logrus.Logger
	donorRepo    repository.DonorProfileRepository
	evaluator    *service.EligibilityEvaluator
	auditService service.AuditService
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewDonorProfileUsecase(
	log *logrus.Logger,
	donorRepo repository.DonorProfileRepository,
	evaluator *service.EligibilityEvaluator,
	auditService service.AuditService,
	m *metrics.Metrics,
	now func() time.Time,
) DonorProfileUsecase {
	if now == nil {
		now = time.Now
	}
	return &donorProfileUsecase{
		log:          log,
		donorRepo:    donorRepo,
		evaluator:    evaluator,
		auditService: auditService,
		metrics:      m,
		now:          now,
	}
}

// SaveProfile creates or replaces the donor's profile. Eligibility is
// recomputed on every save; availability is kept on update.
func (u *donorProfileUsecase) SaveProfile(ctx context.Context, subject entity.Subject, req *dto.SaveDonorProfileRequest) (*dto.DonorProfileResponse, error) {
	if err := requireDonor(subject); err != nil {
		return nil, err
	}

	bloodGroup := entity.BloodGroup(req.BloodGroup)
	if !bloodGroup.IsValid() {
		return nil, ErrInvalidBloodGroup
	}
	healthCondition := entity.HealthCondition(req.HealthCondition)
	if !healthCondition.IsValid() {
		return nil, ErrInvalidHealthStatus
	}

	lastDonation, err := u.parseLastDonationDate(req.LastDonationDate)
	if err != nil {
		return nil, err
	}

	existing, err := u.donorRepo.FindByID(ctx, subject.ID)
	if err != nil {
		u.log.Warnf("Failed to find donor profile %s: %+v", subject.ID, err)
		return nil, err
	}

	profile := &entity.DonorProfile{
		DonorID:          subject.ID,
		Name:             req.Name,
		Phone:            req.Phone,
		Email:            req.Email,
		BloodGroup:       bloodGroup,
		Age:              req.Age,
		Weight:           req.Weight,
		HealthCondition:  healthCondition,
		LastDonationDate: lastDonation,
		City:             req.City,
		State:            req.State,
		Country:          req.Country,
		Pincode:          req.Pincode,
		IsAvailable:      true,
	}
	if req.Hemoglobin != nil {
		hb := req.Hemoglobin.Round(1)
		profile.Hemoglobin = &hb
	}

	result := u.evaluator.Evaluate(profile)
	profile.ApplyEligibility(result.IsEligible, result.Reasons, result.CheckedAt)

	if existing == nil {
		err := u.donorRepo.Create(ctx, profile)
		switch {
		case err == nil:
			_ = u.auditService.LogCreate(ctx, subject.ID, entity.AuditActionDonorProfileSave, "donor_profile", subject.ID, converter.DonorProfileToResponse(profile))
		case errors.Is(err, repository.ErrDuplicateKey):
			// a concurrent first save won; apply this one as an update
			existing, err = u.donorRepo.FindByID(ctx, subject.ID)
			if err != nil {
				u.log.Warnf("Failed to reload donor profile %s after duplicate create: %+v", subject.ID, err)
				return nil, err
			}
			if existing == nil {
				return nil, fmt.Errorf("donor profile %s: %w", subject.ID, repository.ErrDuplicateKey)
			}
		default:
			u.log.Warnf("Failed to create donor profile %s: %+v", subject.ID, err)
			return nil, err
		}
	}

	if existing != nil {
		profile.CreatedAt = existing.CreatedAt
		if err := u.donorRepo.Update(ctx, profile); err != nil {
			u.log.Warnf("Failed to update donor profile %s: %+v", subject.ID, err)
			return nil, err
		}
		// availability is owned by SetAvailability; report what is stored
		stored, err := u.donorRepo.FindByID(ctx, subject.ID)
		if err != nil {
			u.log.Warnf("Failed to reload donor profile %s: %+v", subject.ID, err)
			return nil, err
		}
		if stored != nil {
			profile = stored
		}
		_ = u.auditService.LogUpdate(ctx, subject.ID, entity.AuditActionDonorProfileSave, "donor_profile", subject.ID,
			converter.DonorProfileToResponse(existing), converter.DonorProfileToResponse(profile))
	}

	u.metrics.IncrementEligibility(result.IsEligible)
	u.log.WithFields(logrus.Fields{
		"donor_id":    subject.ID,
		"is_eligible": result.IsEligible,
		"reasons":     len(result.Reasons),
	}).Info("Donor profile saved")

	return converter.DonorProfileToResponse(profile), nil
}

func (u *donorProfileUsecase) GetProfile(ctx context.Context, subject entity.Subject) (*dto.DonorProfileResponse, error) {
	profile, err := u.loadProfile(ctx, subject)
	if err != nil {
		return nil, err
	}
	return converter.DonorProfileToResponse(profile), nil
}

// SetAvailability flips the donor toggle without re-evaluating eligibility
func (u *donorProfileUsecase) SetAvailability(ctx context.Context, subject entity.Subject, isAvailable bool) (*dto.DonorProfileResponse, error) {
	profile, err := u.loadProfile(ctx, subject)
	if err != nil {
		return nil, err
	}

	affected, err := u.donorRepo.UpdateAvailability(ctx, subject.ID, isAvailable)
	if err != nil {
		u.log.Warnf("Failed to update availability for donor %s: %+v", subject.ID, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrDonorProfileNotFound
	}

	_ = u.auditService.LogUpdate(ctx, subject.ID, entity.AuditActionDonorAvailability, "donor_profile", subject.ID,
		map[string]interface{}{"is_available": profile.IsAvailable},
		map[string]interface{}{"is_available": isAvailable})

	profile.IsAvailable = isAvailable
	return converter.DonorProfileToResponse(profile), nil
}

// RecheckEligibility re-runs the rules on the stored profile; the donation
// gap rule depends on the evaluation date
func (u *donorProfileUsecase) RecheckEligibility(ctx context.Context, subject entity.Subject) (*dto.DonorProfileResponse, error) {
	profile, err := u.loadProfile(ctx, subject)
	if err != nil {
		return nil, err
	}

	previous := map[string]interface{}{
		"is_eligible":         profile.IsEligible,
		"eligibility_reasons": []string(profile.EligibilityReasons),
	}

	result := u.evaluator.Evaluate(profile)
	affected, err := u.donorRepo.UpdateEligibility(ctx, subject.ID, result.IsEligible, result.Reasons, result.CheckedAt)
	if err != nil {
		u.log.Warnf("Failed to update eligibility for donor %s: %+v", subject.ID, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrDonorProfileNotFound
	}
	profile.ApplyEligibility(result.IsEligible, result.Reasons, result.CheckedAt)

	_ = u.auditService.LogUpdate(ctx, subject.ID, entity.AuditActionDonorEligibility, "donor_profile", subject.ID, previous,
		map[string]interface{}{
			"is_eligible":         result.IsEligible,
			"eligibility_reasons": result.Reasons,
		})
	u.metrics.IncrementEligibility(result.IsEligible)

	return converter.DonorProfileToResponse(profile), nil
}

func (u *donorProfileUsecase) loadProfile(ctx context.Context, subject entity.Subject) (*entity.DonorProfile, error) {
	if err := requireDonor(subject); err != nil {
		return nil, err
	}

	profile, err := u.donorRepo.FindByID(ctx, subject.ID)
	if err != nil {
		u.log.Warnf("Failed to find donor profile %s: %+v", subject.ID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDonorProfileNotFound
	}
	return profile, nil
}

// parseLastDonationDate accepts a calendar date no later than today (UTC)
func (u *donorProfileUsecase) parseLastDonationDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}

	date, err := time.ParseInLocation(converter.DateLayout, *value, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDateFormat, *value)
	}

	now := u.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.After(today) {
		return nil, ErrLastDonationInFuture
	}
	return &date, nil
}
