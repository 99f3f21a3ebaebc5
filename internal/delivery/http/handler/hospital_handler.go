package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"blood-donor-service/internal/delivery/dto"
	"blood-donor-service/internal/usecase"
	"blood-donor-service/pkg/response"
	"blood-donor-service/pkg/validator"
)

type HospitalHandler struct {
	hospitalUsecase usecase.HospitalProfileUsecase
	batchUsecase    usecase.RequestBatchUsecase
	validator       *validator.CustomValidator
}

func NewHospitalHandler(
	hospitalUsecase usecase.HospitalProfileUsecase,
	batchUsecase usecase.RequestBatchUsecase,
	validator *validator.CustomValidator,
) *HospitalHandler {
	return &HospitalHandler{
		hospitalUsecase: hospitalUsecase,
		batchUsecase:    batchUsecase,
		validator:       validator,
	}
}

func (h *HospitalHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	var req dto.SaveHospitalProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	profile, err := h.hospitalUsecase.SaveProfile(r.Context(), subject, &req)
	if err != nil {
		writeError(w, err, "Failed to save hospital profile")
		return
	}

	response.Success(w, http.StatusOK, "Hospital profile saved successfully", profile)
}

func (h *HospitalHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	profile, err := h.hospitalUsecase.GetProfile(r.Context(), subject)
	if err != nil {
		writeError(w, err, "Failed to get hospital profile")
		return
	}

	response.Success(w, http.StatusOK, "Hospital profile retrieved successfully", profile)
}

// FindDonors lists eligible, available donors of one blood group
// @Summary Find donors
// @Tags Hospital
// @Security BearerAuth
// @Produce json
// @Param blood_group query string true "Blood group, e.g. O+"
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /hospital/donors [get]
func (h *HospitalHandler) FindDonors(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	// an unencoded "O+" arrives as "O "
	bloodGroup := strings.ReplaceAll(r.URL.Query().Get("blood_group"), " ", "+")
	if bloodGroup == "" {
		response.ValidationError(w, map[string]string{"blood_group": "blood_group is required"})
		return
	}

	donors, err := h.batchUsecase.FindDonors(r.Context(), subject, bloodGroup)
	if err != nil {
		writeError(w, err, "Failed to find donors")
		return
	}

	response.Success(w, http.StatusOK, "Donors retrieved successfully", donors)
}
