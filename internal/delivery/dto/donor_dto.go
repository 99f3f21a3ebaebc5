package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type SaveDonorProfileRequest struct {
	Name             string           `json:"name" validate:"required,max=255"`
	Phone            string           `json:"phone" validate:"required,max=32"`
	Email            string           `json:"email" validate:"omitempty,email,max=255"`
	BloodGroup       string           `json:"blood_group" validate:"required,bloodgroup"`
	Age              int              `json:"age" validate:"required,gte=1,lte=120"`
	Weight           int              `json:"weight" validate:"required,gte=1,lte=500"`
	HealthCondition  string           `json:"health_condition" validate:"required,oneof=healthy minor_illness chronic_condition on_medication recent_surgery"`
	Hemoglobin       *decimal.Decimal `json:"hemoglobin" validate:"omitempty,gt=0,lte=25"`
	LastDonationDate *string          `json:"last_donation_date" validate:"omitempty,datetime=2006-01-02"`
	City             string           `json:"city" validate:"required,max=100"`
	State            string           `json:"state" validate:"required,max=100"`
	Country          string           `json:"country" validate:"omitempty,max=100"`
	Pincode          string           `json:"pincode" validate:"omitempty,max=20"`
}

type SetAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

// Response DTOs

type DonorProfileResponse struct {
	DonorID              string           `json:"donor_id"`
	Name                 string           `json:"name"`
	Phone                string           `json:"phone"`
	Email                string           `json:"email,omitempty"`
	BloodGroup           string           `json:"blood_group"`
	Age                  int              `json:"age"`
	Weight               int              `json:"weight"`
	HealthCondition      string           `json:"health_condition"`
	Hemoglobin           *decimal.Decimal `json:"hemoglobin,omitempty"`
	LastDonationDate     *string          `json:"last_donation_date,omitempty"`
	City                 string           `json:"city"`
	State                string           `json:"state"`
	Country              string           `json:"country"`
	Pincode              string           `json:"pincode,omitempty"`
	IsEligible           bool             `json:"is_eligible"`
	EligibilityReasons   []string         `json:"eligibility_reasons"`
	EligibilityCheckedAt time.Time        `json:"eligibility_checked_at"`
	IsAvailable          bool             `json:"is_available"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// DonorSummaryResponse is the directory view of a donor shown to hospitals
type DonorSummaryResponse struct {
	DonorID    string `json:"donor_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	BloodGroup string `json:"blood_group"`
	Age        int    `json:"age"`
	Weight     int    `json:"weight"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
}

type DonorListResponse struct {
	Donors []DonorSummaryResponse `json:"donors"`
	Total  int                    `json:"total"`
}
