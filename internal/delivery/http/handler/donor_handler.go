package handler

import (
	"encoding/json"
	"net/http"

	"blood-donor-service/internal/delivery/dto"
	"blood-donor-service/internal/usecase"
	"blood-donor-service/pkg/response"
	"blood-donor-service/pkg/validator"
)

type DonorHandler struct {
	donorUsecase usecase.DonorProfileUsecase
	validator    *validator.CustomValidator
}

func NewDonorHandler(donorUsecase usecase.DonorProfileUsecase, validator *validator.CustomValidator) *DonorHandler {
	return &DonorHandler{
		donorUsecase: donorUsecase,
		validator:    validator,
	}
}

// SaveProfile creates or replaces the caller's donor profile
// @Summary Save donor profile
// @Description Stores the profile and re-evaluates eligibility
// @Tags Donor
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SaveDonorProfileRequest true "Donor profile"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /donor/profile [put]
func (h *DonorHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	var req dto.SaveDonorProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	profile, err := h.donorUsecase.SaveProfile(r.Context(), subject, &req)
	if err != nil {
		writeError(w, err, "Failed to save donor profile")
		return
	}

	response.Success(w, http.StatusOK, "Donor profile saved successfully", profile)
}

func (h *DonorHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	profile, err := h.donorUsecase.GetProfile(r.Context(), subject)
	if err != nil {
		writeError(w, err, "Failed to get donor profile")
		return
	}

	response.Success(w, http.StatusOK, "Donor profile retrieved successfully", profile)
}

func (h *DonorHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	var req dto.SetAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	profile, err := h.donorUsecase.SetAvailability(r.Context(), subject, *req.IsAvailable)
	if err != nil {
		writeError(w, err, "Failed to update availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability updated successfully", profile)
}

// RecheckEligibility re-runs the eligibility rules as of today
func (h *DonorHandler) RecheckEligibility(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	profile, err := h.donorUsecase.RecheckEligibility(r.Context(), subject)
	if err != nil {
		writeError(w, err, "Failed to check eligibility")
		return
	}

	response.Success(w, http.StatusOK, "Eligibility checked successfully", profile)
}
