package usecase

import (
	"errors"

	"blood-donor-service/internal/domain/entity"
)

var ErrForbiddenRole = errors.New("operation not permitted for this role")

func requireDonor(subject entity.Subject) error {
	if subject.ID == "" || !subject.IsDonor() {
		return ErrForbiddenRole
	}
	return nil
}

func requireHospital(subject entity.Subject) error {
	if subject.ID == "" || !subject.IsHospital() {
		return ErrForbiddenRole
	}
	return nil
}
