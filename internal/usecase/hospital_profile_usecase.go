package usecase

import (
	"context"
	"errors"

	"blood-donor-service/internal/converter"
	"blood-donor-service/internal/delivery/dto"
	"blood-donor-service/internal/domain/entity"
	"blood-donor-service/internal/domain/repository"
	"blood-donor-service/internal/service"

	"github.com/sirupsen/logrus"
)

var ErrHospitalProfileNotFound = errors.New("hospital profile not found")

type HospitalProfileUsecase interface {
	SaveProfile(ctx context.Context, subject entity.Subject, req *dto.SaveHospitalProfileRequest) (*dto.HospitalProfileResponse, error)
	GetProfile(ctx context.Context, subject entity.Subject) (*dto.HospitalProfileResponse, error)
}

type hospitalProfileUsecase struct {
	log          *logrus.Logger
	hospitalRepo repository.HospitalProfileRepository
	auditService service.AuditService
}

func NewHospitalProfileUsecase(
	log *logrus.Logger,
	hospitalRepo repository.HospitalProfileRepository,
	auditService service.AuditService,
) HospitalProfileUsecase {
	return &hospitalProfileUsecase{
		log:          log,
		hospitalRepo: hospitalRepo,
		auditService: auditService,
	}
}

// SaveProfile creates or replaces the hospital's contact details. Requests
// already dispatched keep the contact block they were created with.
func (u *hospitalProfileUsecase) SaveProfile(ctx context.Context, subject entity.Subject, req *dto.SaveHospitalProfileRequest) (*dto.HospitalProfileResponse, error) {
	if err := requireHospital(subject); err != nil {
		return nil, err
	}

	existing, err := u.hospitalRepo.FindByID(ctx, subject.ID)
	if err != nil {
		u.log.Warnf("Failed to find hospital profile %s: %+v", subject.ID, err)
		return nil, err
	}

	profile := &entity.HospitalProfile{
		HospitalID: subject.ID,
		Name:       req.HospitalName,
		Address:    req.Address,
		Phone:      req.Phone,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		Pincode:    req.Pincode,
		Email:      req.Email,
	}

	if existing == nil {
		if err := u.hospitalRepo.Create(ctx, profile); err != nil {
			u.log.Warnf("Failed to create hospital profile %s: %+v", subject.ID, err)
			return nil, err
		}
		_ = u.auditService.LogCreate(ctx, subject.ID, entity.AuditActionHospitalProfileSave, "hospital_profile", subject.ID, converter.HospitalProfileToResponse(profile))
	} else {
		profile.CreatedAt = existing.CreatedAt
		if err := u.hospitalRepo.Update(ctx, profile); err != nil {
			u.log.Warnf("Failed to update hospital profile %s: %+v", subject.ID, err)
			return nil, err
		}
		_ = u.auditService.LogUpdate(ctx, subject.ID, entity.AuditActionHospitalProfileSave, "hospital_profile", subject.ID,
			converter.HospitalProfileToResponse(existing), converter.HospitalProfileToResponse(profile))
	}

	u.log.WithField("hospital_id", subject.ID).Info("Hospital profile saved")

	return converter.HospitalProfileToResponse(profile), nil
}

func (u *hospitalProfileUsecase) GetProfile(ctx context.Context, subject entity.Subject) (*dto.HospitalProfileResponse, error) {
	if err := requireHospital(subject); err != nil {
		return nil, err
	}

	profile, err := u.hospitalRepo.FindByID(ctx, subject.ID)
	if err != nil {
		u.log.Warnf("Failed to find hospital profile %s: %+v", subject.ID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrHospitalProfileNotFound
	}

	return converter.HospitalProfileToResponse(profile), nil
}
