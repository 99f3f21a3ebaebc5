package dto

import (
	"time"

	"github.com/google/uuid"
)

// Response DTOs

type DonorDetailsResponse struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	BloodGroup string `json:"blood_group"`
	Age        int    `json:"age"`
	Weight     int    `json:"weight"`
	City       string `json:"city"`
	State      string `json:"state"`
}

type NotificationResponse struct {
	ID                 uuid.UUID            `json:"id"`
	HospitalID         string               `json:"hospital_id"`
	DonorID            string               `json:"donor_id"`
	RequestID          uuid.UUID            `json:"request_id"`
	Type               string               `json:"type"`
	Message            string               `json:"message"`
	DonorDetails       DonorDetailsResponse `json:"donor_details"`
	Read               bool                 `json:"read"`
	ReadAt             *time.Time           `json:"read_at,omitempty"`
	HospitalAccepted   bool                 `json:"hospital_accepted"`
	HospitalAcceptedAt *time.Time           `json:"hospital_accepted_at,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	Unread        int                    `json:"unread"`
}
