package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"blood-donor-service/internal/domain/entity"
	domainRepo "blood-donor-service/internal/domain/repository"
)

type donorProfileRepository struct {
	mu     sync.RWMutex
	donors map[string]entity.DonorProfile
	now    func() time.Time
}

func NewDonorProfileRepository() domainRepo.DonorProfileRepository {
	return &donorProfileRepository{
		donors: make(map[string]entity.DonorProfile),
		now:    time.Now,
	}
}

func cloneDonor(p entity.DonorProfile) entity.DonorProfile {
	if p.Hemoglobin != nil {
		hb := *p.Hemoglobin
		p.Hemoglobin = &hb
	}
	if p.LastDonationDate != nil {
		d := *p.LastDonationDate
		p.LastDonationDate = &d
	}
	p.EligibilityReasons = append(entity.StringList{}, p.EligibilityReasons...)
	return p
}

func (r *donorProfileRepository) Create(ctx context.Context, profile *entity.DonorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.donors[profile.DonorID]; ok {
		return fmt.Errorf("%w: donor_profiles_pkey", domainRepo.ErrDuplicateKey)
	}
	now := r.now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	r.donors[profile.DonorID] = cloneDonor(*profile)
	return nil
}

func (r *donorProfileRepository) FindByID(ctx context.Context, donorID string) (*entity.DonorProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.donors[donorID]
	if !ok {
		return nil, nil
	}
	c := cloneDonor(p)
	return &c, nil
}

func (r *donorProfileRepository) Update(ctx context.Context, profile *entity.DonorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.donors[profile.DonorID]
	if !ok {
		return nil
	}
	updated := cloneDonor(*profile)
	updated.IsAvailable = stored.IsAvailable
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = r.now()
	r.donors[profile.DonorID] = updated
	profile.UpdatedAt = updated.UpdatedAt
	return nil
}

func (r *donorProfileRepository) UpdateAvailability(ctx context.Context, donorID string, isAvailable bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.donors[donorID]
	if !ok {
		return 0, nil
	}
	p.IsAvailable = isAvailable
	p.UpdatedAt = r.now()
	r.donors[donorID] = p
	return 1, nil
}

func (r *donorProfileRepository) UpdateEligibility(ctx context.Context, donorID string, isEligible bool, reasons []string, checkedAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.donors[donorID]
	if !ok {
		return 0, nil
	}
	p.ApplyEligibility(isEligible, reasons, checkedAt)
	p.UpdatedAt = r.now()
	r.donors[donorID] = p
	return 1, nil
}

func (r *donorProfileRepository) FindMatching(ctx context.Context, bloodGroup entity.BloodGroup, donorIDs []string, limit int) ([]entity.DonorProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var wanted map[string]struct{}
	if len(donorIDs) > 0 {
		wanted = make(map[string]struct{}, len(donorIDs))
		for _, id := range donorIDs {
			wanted[id] = struct{}{}
		}
	}

	donors := make([]entity.DonorProfile, 0)
	for id, p := range r.donors {
		if wanted != nil {
			if _, ok := wanted[id]; !ok {
				continue
			}
		}
		if p.Matches(bloodGroup) {
			donors = append(donors, cloneDonor(p))
		}
	}

	sort.Slice(donors, func(i, j int) bool { return donors[i].DonorID < donors[j].DonorID })
	if limit > 0 && len(donors) > limit {
		donors = donors[:limit]
	}
	return donors, nil
}
