package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"blood-donor-service/internal/domain/entity"
	domainRepo "blood-donor-service/internal/domain/repository"
)

type hospitalProfileRepository struct {
	mu        sync.RWMutex
	hospitals map[string]entity.HospitalProfile
}

func NewHospitalProfileRepository() domainRepo.HospitalProfileRepository {
	return &hospitalProfileRepository{hospitals: make(map[string]entity.HospitalProfile)}
}

func (r *hospitalProfileRepository) Create(ctx context.Context, profile *entity.HospitalProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.hospitals[profile.HospitalID]; ok {
		return fmt.Errorf("%w: hospital_profiles_pkey", domainRepo.ErrDuplicateKey)
	}
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	r.hospitals[profile.HospitalID] = *profile
	return nil
}

func (r *hospitalProfileRepository) FindByID(ctx context.Context, hospitalID string) (*entity.HospitalProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.hospitals[hospitalID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *hospitalProfileRepository) Update(ctx context.Context, profile *entity.HospitalProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile.UpdatedAt = time.Now()
	r.hospitals[profile.HospitalID] = *profile
	return nil
}
