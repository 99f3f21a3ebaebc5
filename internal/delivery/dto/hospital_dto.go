package dto

import "time"

// Request DTOs

type SaveHospitalProfileRequest struct {
	HospitalName string `json:"hospital_name" validate:"required,max=255"`
	Address      string `json:"address" validate:"required"`
	Phone        string `json:"phone" validate:"required,max=32"`
	City         string `json:"city" validate:"required,max=100"`
	State        string `json:"state" validate:"required,max=100"`
	Country      string `json:"country" validate:"omitempty,max=100"`
	Pincode      string `json:"pincode" validate:"omitempty,max=20"`
	Email        string `json:"email" validate:"omitempty,email,max=255"`
}

// Response DTOs

type HospitalProfileResponse struct {
	HospitalID   string    `json:"hospital_id"`
	HospitalName string    `json:"hospital_name"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	Pincode      string    `json:"pincode,omitempty"`
	Email        string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type HospitalContactResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Pincode string `json:"pincode,omitempty"`
}
