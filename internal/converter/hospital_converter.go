package converter

import (
	"blood-donor-service/internal/delivery/dto"
	"blood-donor-service/internal/domain/entity"
)

// HospitalProfileToResponse converts a HospitalProfile entity to HospitalProfileResponse DTO
func HospitalProfileToResponse(profile *entity.HospitalProfile) *dto.HospitalProfileResponse {
	if profile == nil {
		return nil
	}

	return &dto.HospitalProfileResponse{
		HospitalID:   profile.HospitalID,
		HospitalName: profile.Name,
		Address:      profile.Address,
		Phone:        profile.Phone,
		City:         profile.City,
		State:        profile.State,
		Country:      profile.Country,
		Pincode:      profile.Pincode,
		Email:        profile.Email,
		CreatedAt:    profile.CreatedAt,
		UpdatedAt:    profile.UpdatedAt,
	}
}

func HospitalContactToResponse(contact entity.HospitalContact) dto.HospitalContactResponse {
	return dto.HospitalContactResponse{
		Name:    contact.Name,
		Address: contact.Address,
		Phone:   contact.Phone,
		City:    contact.City,
		State:   contact.State,
		Country: contact.Country,
		Pincode: contact.Pincode,
	}
}
