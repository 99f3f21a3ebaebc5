package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"blood-donor-service/internal/domain/entity"
	"blood-donor-service/internal/domain/repository"

	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("connection refused")

// flakyRequestRepo fails CreateIfAbsent a set number of times per donor
type flakyRequestRepo struct {
	repository.BloodRequestRepository

	mu      sync.Mutex
	failFor map[string]int
}

func (f *flakyRequestRepo) CreateIfAbsent(ctx context.Context, request *entity.BloodRequest) (*entity.BloodRequest, bool, error) {
	f.mu.Lock()
	if f.failFor[request.DonorID] > 0 {
		f.failFor[request.DonorID]--
		f.mu.Unlock()
		return nil, false, errStoreDown
	}
	f.mu.Unlock()
	return f.BloodRequestRepository.CreateIfAbsent(ctx, request)
}

type brokenDonorRepo struct {
	repository.DonorProfileRepository
}

func (brokenDonorRepo) FindMatching(ctx context.Context, bloodGroup entity.BloodGroup, donorIDs []string, limit int) ([]entity.DonorProfile, error) {
	return nil, errStoreDown
}

func addDonor(t *testing.T, repo repository.DonorProfileRepository, id string, bg entity.BloodGroup, eligible, available bool) *entity.DonorProfile {
	t.Helper()
	profile := &entity.DonorProfile{
		DonorID:            id,
		Name:               "Donor " + id,
		Phone:              "555-" + id,
		BloodGroup:         bg,
		Age:                30,
		Weight:             60,
		HealthCondition:    entity.HealthConditionHealthy,
		City:               "Pune",
		State:              "MH",
		IsEligible:         eligible,
		IsAvailable:        available,
		EligibilityReasons: entity.StringList{},
	}
	require.NoError(t, repo.Create(context.Background(), profile))
	return profile
}
