package converter

import (
	"blood-donor-service/internal/delivery/dto"
	"blood-donor-service/internal/domain/entity"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// DonorProfileToResponse converts a DonorProfile entity to DonorProfileResponse DTO
func DonorProfileToResponse(profile *entity.DonorProfile) *dto.DonorProfileResponse {
	if profile == nil {
		return nil
	}

	response := &dto.DonorProfileResponse{
		DonorID:              profile.DonorID,
		Name:                 profile.Name,
		Phone:                profile.Phone,
		Email:                profile.Email,
		BloodGroup:           string(profile.BloodGroup),
		Age:                  profile.Age,
		Weight:               profile.Weight,
		HealthCondition:      string(profile.HealthCondition),
		Hemoglobin:           profile.Hemoglobin,
		City:                 profile.City,
		State:                profile.State,
		Country:              profile.Country,
		Pincode:              profile.Pincode,
		IsEligible:           profile.IsEligible,
		EligibilityReasons:   append([]string{}, profile.EligibilityReasons...),
		EligibilityCheckedAt: profile.EligibilityCheckedAt,
		IsAvailable:          profile.IsAvailable,
		CreatedAt:            profile.CreatedAt,
		UpdatedAt:            profile.UpdatedAt,
	}

	if profile.LastDonationDate != nil {
		date := profile.LastDonationDate.Format(DateLayout)
		response.LastDonationDate = &date
	}

	return response
}

// DonorToSummary converts a DonorProfile entity to the directory view
func DonorToSummary(profile *entity.DonorProfile) dto.DonorSummaryResponse {
	return dto.DonorSummaryResponse{
		DonorID:    profile.DonorID,
		Name:       profile.Name,
		Phone:      profile.Phone,
		BloodGroup: string(profile.BloodGroup),
		Age:        profile.Age,
		Weight:     profile.Weight,
		City:       profile.City,
		State:      profile.State,
		Country:    profile.Country,
	}
}

func DonorsToSummaries(profiles []entity.DonorProfile) []dto.DonorSummaryResponse {
	responses := make([]dto.DonorSummaryResponse, len(profiles))
	for i := range profiles {
		responses[i] = DonorToSummary(&profiles[i])
	}
	return responses
}
