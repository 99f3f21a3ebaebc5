package service

import (
	"context"
	"errors"
	"fmt"

	"blood-donor-service/internal/domain/entity"
	"blood-donor-service/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// ErrDirectoryUnavailable marks a transient store failure; the query is safe to retry
var ErrDirectoryUnavailable = errors.New("donor directory is temporarily unavailable")

// DonorDirectory resolves the current match set for a blood group straight
// from the store. Nothing is cached.
type DonorDirectory struct {
	log       *logrus.Logger
	donorRepo repository.DonorProfileRepository
}

func NewDonorDirectory(log *logrus.Logger, donorRepo repository.DonorProfileRepository) *DonorDirectory {
	return &DonorDirectory{
		log:       log,
		donorRepo: donorRepo,
	}
}

// Query returns donors of bloodGroup that are eligible and available as
// persisted. donorIDs, when set, restricts the candidates; limit <= 0 means
// no limit.
func (d *DonorDirectory) Query(ctx context.Context, bloodGroup entity.BloodGroup, donorIDs []string, limit int) ([]entity.DonorProfile, error) {
	donors, err := d.donorRepo.FindMatching(ctx, bloodGroup, donorIDs, limit)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		d.log.Warnf("Failed to query donors for blood group %s: %+v", bloodGroup, err)
		return nil, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}

	matched := donors[:0]
	for i := range donors {
		if donors[i].Matches(bloodGroup) {
			matched = append(matched, donors[i])
		}
	}
	return matched, nil
}
