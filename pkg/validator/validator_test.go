package validator

import (
	"testing"

	"blood-donor-service/internal/delivery/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDonor() dto.SaveDonorProfileRequest {
	return dto.SaveDonorProfileRequest{
		Name:            "Asha",
		Phone:           "555-0101",
		BloodGroup:      "O+",
		Age:             30,
		Weight:          60,
		HealthCondition: "healthy",
		City:            "Pune",
		State:           "MH",
	}
}

func TestValidate_DonorProfile(t *testing.T) {
	v := NewValidator()

	t.Run("valid", func(t *testing.T) {
		req := validDonor()
		hb := decimal.RequireFromString("13.2")
		date := "2025-01-31"
		req.Hemoglobin = &hb
		req.LastDonationDate = &date

		assert.NoError(t, v.Validate(&req))
	})

	t.Run("underage is not a validation error", func(t *testing.T) {
		req := validDonor()
		req.Age = 16

		assert.NoError(t, v.Validate(&req))
	})

	t.Run("unknown blood group", func(t *testing.T) {
		req := validDonor()
		req.BloodGroup = "C+"

		err := v.Validate(&req)
		require.Error(t, err)
		errs := v.FormatValidationErrors(err)
		assert.Equal(t, "blood_group must be one of: A+, A-, B+, B-, AB+, AB-, O+, O-", errs["blood_group"])
	})

	t.Run("unknown health condition", func(t *testing.T) {
		req := validDonor()
		req.HealthCondition = "great"

		errs := v.FormatValidationErrors(v.Validate(&req))
		assert.Contains(t, errs["health_condition"], "must be one of: healthy, minor_illness")
	})

	t.Run("hemoglobin out of range", func(t *testing.T) {
		req := validDonor()
		hb := decimal.RequireFromString("31.5")
		req.Hemoglobin = &hb

		errs := v.FormatValidationErrors(v.Validate(&req))
		assert.Equal(t, "hemoglobin must be less than or equal to 25", errs["hemoglobin"])

		zero := decimal.Zero
		req.Hemoglobin = &zero
		errs = v.FormatValidationErrors(v.Validate(&req))
		assert.Equal(t, "hemoglobin must be greater than 0", errs["hemoglobin"])
	})

	t.Run("malformed date", func(t *testing.T) {
		req := validDonor()
		date := "31/01/2025"
		req.LastDonationDate = &date

		errs := v.FormatValidationErrors(v.Validate(&req))
		assert.Equal(t, "last_donation_date must be a date in YYYY-MM-DD format", errs["last_donation_date"])
	})

	t.Run("missing fields", func(t *testing.T) {
		req := dto.SaveDonorProfileRequest{}

		errs := v.FormatValidationErrors(v.Validate(&req))
		assert.Equal(t, "name is required", errs["name"])
		assert.Equal(t, "blood_group is required", errs["blood_group"])
		assert.Equal(t, "age is required", errs["age"])
	})
}

func TestValidate_Availability(t *testing.T) {
	v := NewValidator()

	errs := v.FormatValidationErrors(v.Validate(&dto.SetAvailabilityRequest{}))
	assert.Equal(t, "is_available is required", errs["is_available"])

	no := false
	assert.NoError(t, v.Validate(&dto.SetAvailabilityRequest{IsAvailable: &no}))
}

func TestValidate_RequestBatch(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&dto.CreateRequestBatchRequest{BloodGroup: "AB-", UnitsRequired: 2}))

	errs := v.FormatValidationErrors(v.Validate(&dto.CreateRequestBatchRequest{BloodGroup: "AB-", UnitsRequired: 101}))
	assert.Equal(t, "units_required must be less than or equal to 100", errs["units_required"])

	errs = v.FormatValidationErrors(v.Validate(&dto.RetryDispatchRequest{DonorIDs: []string{}}))
	assert.Equal(t, "donor_ids must be at least 1 items", errs["donor_ids"])
}

func TestFormatValidationErrors_NonValidationError(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.FormatValidationErrors(assert.AnError))
}
