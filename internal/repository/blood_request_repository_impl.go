package repository

import (
	"context"
	"errors"
	"time"

	"blood-donor-service/internal/domain/entity"
	domainRepo "blood-donor-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type bloodRequestRepository struct {
	db *gorm.DB
}

func NewBloodRequestRepository(db *gorm.DB) domainRepo.BloodRequestRepository {
	return &bloodRequestRepository{db: db}
}

// CreateIfAbsent relies on uq_blood_requests_batch_donor so a retried
// dispatch never produces a second request for the same donor.
func (r *bloodRequestRepository) CreateIfAbsent(ctx context.Context, request *entity.BloodRequest) (*entity.BloodRequest, bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "batch_id"}, {Name: "donor_id"}},
			DoNothing: true,
		}).
		Create(request)
	if result.Error != nil {
		return nil, false, translateError(result.Error)
	}
	if result.RowsAffected == 1 {
		return request, true, nil
	}

	var existing entity.BloodRequest
	err := r.db.WithContext(ctx).
		Where("batch_id = ? AND donor_id = ?", request.BatchID, request.DonorID).
		First(&existing).Error
	if err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *bloodRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BloodRequest, error) {
	var request entity.BloodRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *bloodRequestRepository) FindByDonorID(ctx context.Context, donorID string, filter entity.RequestFilter) ([]entity.BloodRequest, error) {
	var requests []entity.BloodRequest
	query := applyRequestFilter(r.db.WithContext(ctx).Where("donor_id = ?", donorID), filter)
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *bloodRequestRepository) FindByHospitalID(ctx context.Context, hospitalID string, filter entity.RequestFilter) ([]entity.BloodRequest, error) {
	var requests []entity.BloodRequest
	query := applyRequestFilter(r.db.WithContext(ctx).Where("hospital_id = ?", hospitalID), filter)
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func applyRequestFilter(query *gorm.DB, filter entity.RequestFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.BatchID != nil {
		query = query.Where("batch_id = ?", *filter.BatchID)
	}
	return query
}

func (r *bloodRequestRepository) CountByStatus(ctx context.Context, hospitalID string) (map[entity.RequestStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&entity.BloodRequest{}).
		Select("status, COUNT(*) AS count").
		Where("hospital_id = ?", hospitalID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.RequestStatus]int64, len(entity.RequestStatuses))
	for _, s := range entity.RequestStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[entity.RequestStatus(row.Status)] = row.Count
	}
	return counts, nil
}

// TransitionFromPending is the only write path for decisions. The status
// guard in the WHERE clause makes concurrent accept/decline/cancel race-safe.
func (r *bloodRequestRepository) TransitionFromPending(ctx context.Context, id uuid.UUID, to entity.RequestStatus, at time.Time) (int64, error) {
	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": at,
	}
	switch to {
	case entity.RequestStatusAccepted:
		updates["accepted_at"] = at
	case entity.RequestStatusDeclined:
		updates["declined_at"] = at
	case entity.RequestStatusCancelled:
		updates["cancelled_at"] = at
	}

	result := r.db.WithContext(ctx).Model(&entity.BloodRequest{}).
		Where("id = ? AND status = ?", id, string(entity.RequestStatusPending)).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *bloodRequestRepository) CancelPending(ctx context.Context, hospitalID string, ids []uuid.UUID, at time.Time) ([]entity.BloodRequest, error) {
	if len(ids) == 0 {
		return []entity.BloodRequest{}, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	var cancelled []entity.BloodRequest
	err := r.db.WithContext(ctx).Raw(
		`UPDATE blood_requests
		 SET status = ?, cancelled_at = ?, updated_at = ?
		 WHERE hospital_id = ? AND id IN ? AND status = ?
		 RETURNING *`,
		string(entity.RequestStatusCancelled), at, at,
		hospitalID, idStrings, string(entity.RequestStatusPending),
	).Scan(&cancelled).Error
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}
