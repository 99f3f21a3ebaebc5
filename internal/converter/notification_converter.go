package converter

import (
	"blood-donor-service/internal/delivery/dto"
	"blood-donor-service/internal/domain/entity"
)

// NotificationToResponse converts a Notification entity to NotificationResponse DTO
func NotificationToResponse(notification *entity.Notification) *dto.NotificationResponse {
	if notification == nil {
		return nil
	}

	return &dto.NotificationResponse{
		ID:         notification.ID,
		HospitalID: notification.HospitalID,
		DonorID:    notification.DonorID,
		RequestID:  notification.RequestID,
		Type:       notification.Type,
		Message:    notification.Message,
		DonorDetails: dto.DonorDetailsResponse{
			Name:       notification.Donor.Name,
			Phone:      notification.Donor.Phone,
			BloodGroup: string(notification.Donor.BloodGroup),
			Age:        notification.Donor.Age,
			Weight:     notification.Donor.Weight,
			City:       notification.Donor.City,
			State:      notification.Donor.State,
		},
		Read:               notification.Read,
		ReadAt:             notification.ReadAt,
		HospitalAccepted:   notification.HospitalAccepted,
		HospitalAcceptedAt: notification.HospitalAcceptedAt,
		CreatedAt:          notification.CreatedAt,
	}
}

// NotificationsToResponses converts a slice of Notification entities to slice of NotificationResponse DTOs
func NotificationsToResponses(notifications []entity.Notification) []dto.NotificationResponse {
	responses := make([]dto.NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = *NotificationToResponse(&notifications[i])
	}
	return responses
}
