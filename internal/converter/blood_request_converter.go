package converter

import (
	"blood-donor-service/internal/delivery/dto"
	"blood-donor-service/internal/domain/entity"
)

// BloodRequestToResponse converts a BloodRequest entity to BloodRequestResponse DTO
func BloodRequestToResponse(request *entity.BloodRequest) *dto.BloodRequestResponse {
	if request == nil {
		return nil
	}

	return &dto.BloodRequestResponse{
		ID:            request.ID,
		BatchID:       request.BatchID,
		HospitalID:    request.HospitalID,
		DonorID:       request.DonorID,
		DonorName:     request.DonorName,
		BloodGroup:    string(request.BloodGroup),
		UnitsRequired: request.UnitsRequired,
		Hospital:      HospitalContactToResponse(request.Hospital),
		Status:        string(request.Status),
		CreatedAt:     request.CreatedAt,
		UpdatedAt:     request.UpdatedAt,
		AcceptedAt:    request.AcceptedAt,
		DeclinedAt:    request.DeclinedAt,
		CancelledAt:   request.CancelledAt,
	}
}

// BloodRequestsToResponses converts a slice of BloodRequest entities to slice of BloodRequestResponse DTOs
func BloodRequestsToResponses(requests []entity.BloodRequest) []dto.BloodRequestResponse {
	responses := make([]dto.BloodRequestResponse, len(requests))
	for i := range requests {
		responses[i] = *BloodRequestToResponse(&requests[i])
	}
	return responses
}
