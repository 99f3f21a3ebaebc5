package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"blood-donor-service/internal/delivery/dto"
	"blood-donor-service/internal/domain/entity"
	"blood-donor-service/internal/domain/repository"
	"blood-donor-service/internal/infrastructure/metrics"
	"blood-donor-service/internal/repository/memory"
	"blood-donor-service/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var (
	fixtureStart = time.Date(2025, 8, 20, 10, 0, 0, 0, time.UTC)
	errStoreDown = errors.New("connection refused")
)

// fixture wires every usecase over in-memory stores and a controllable clock
type fixture struct {
	mu  sync.Mutex
	now time.Time

	log     *logrus.Logger
	metrics *metrics.Metrics
	bus     *service.MemoryEventBus

	donorRepo        repository.DonorProfileRepository
	hospitalRepo     repository.HospitalProfileRepository
	batchRepo        repository.RequestBatchRepository
	requestRepo      repository.BloodRequestRepository
	notificationRepo repository.NotificationRepository
	auditRepo        repository.AuditLogRepository

	donors        DonorProfileUsecase
	hospitals     HospitalProfileUsecase
	batches       RequestBatchUsecase
	requests      BloodRequestUsecase
	notifications NotificationUsecase
	activity      AuditLogUsecase
}

type fixtureOption func(f *fixture)

func withRequestRepo(wrap func(repository.BloodRequestRepository) repository.BloodRequestRepository) fixtureOption {
	return func(f *fixture) { f.requestRepo = wrap(f.requestRepo) }
}

func withNotificationRepo(repo repository.NotificationRepository) fixtureOption {
	return func(f *fixture) { f.notificationRepo = repo }
}

func withDonorRepo(wrap func(repository.DonorProfileRepository) repository.DonorProfileRepository) fixtureOption {
	return func(f *fixture) { f.donorRepo = wrap(f.donorRepo) }
}

func newFixture(opts ...fixtureOption) *fixture {
	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &fixture{
		now:              fixtureStart,
		log:              log,
		metrics:          metrics.New(prometheus.NewRegistry()),
		bus:              service.NewMemoryEventBus(log),
		donorRepo:        memory.NewDonorProfileRepository(),
		hospitalRepo:     memory.NewHospitalProfileRepository(),
		batchRepo:        memory.NewRequestBatchRepository(),
		requestRepo:      memory.NewBloodRequestRepository(),
		notificationRepo: memory.NewNotificationRepository(),
		auditRepo:        memory.NewAuditLogRepository(),
	}
	for _, opt := range opts {
		opt(f)
	}

	auditService := service.NewAuditService(log, f.auditRepo)
	evaluator := service.NewEligibilityEvaluator(f.clock)
	directory := service.NewDonorDirectory(log, f.donorRepo)
	dispatcher := service.NewRequestDispatcher(log, f.requestRepo, f.metrics, 4, f.clock)
	emitter := service.NewNotificationEmitter(log, f.donorRepo, f.notificationRepo)

	f.donors = NewDonorProfileUsecase(log, f.donorRepo, evaluator, auditService, f.metrics, f.clock)
	f.hospitals = NewHospitalProfileUsecase(log, f.hospitalRepo, auditService)
	f.batches = NewRequestBatchUsecase(log, f.hospitalRepo, f.batchRepo, directory, dispatcher, auditService, f.bus, f.metrics, 200, f.clock)
	f.requests = NewBloodRequestUsecase(log, f.requestRepo, emitter, auditService, f.bus, f.metrics, f.clock)
	f.notifications = NewNotificationUsecase(log, f.notificationRepo, auditService, f.clock)
	f.activity = NewAuditLogUsecase(log, auditService)

	return f
}

func (f *fixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func donor(id string) entity.Subject {
	return entity.Subject{ID: id, Role: entity.RoleDonor}
}

func hospital(id string) entity.Subject {
	return entity.Subject{ID: id, Role: entity.RoleHospital}
}

func healthyDonorRequest(name string, bloodGroup entity.BloodGroup) *dto.SaveDonorProfileRequest {
	return &dto.SaveDonorProfileRequest{
		Name:            name,
		Phone:           "555-" + name,
		Email:           name + "@example.com",
		BloodGroup:      string(bloodGroup),
		Age:             30,
		Weight:          60,
		HealthCondition: string(entity.HealthConditionHealthy),
		City:            "Pune",
		State:           "MH",
		Country:         "IN",
	}
}

func hospitalRequest(name string) *dto.SaveHospitalProfileRequest {
	return &dto.SaveHospitalProfileRequest{
		HospitalName: name,
		Address:      "1 Main St",
		Phone:        "555-0100",
		City:         "Pune",
		State:        "MH",
		Country:      "IN",
	}
}

func (f *fixture) mustDonor(t *testing.T, id string, bloodGroup entity.BloodGroup) *dto.DonorProfileResponse {
	t.Helper()
	resp, err := f.donors.SaveProfile(context.Background(), donor(id), healthyDonorRequest(id, bloodGroup))
	require.NoError(t, err)
	return resp
}

func (f *fixture) mustHospital(t *testing.T, id string) {
	t.Helper()
	_, err := f.hospitals.SaveProfile(context.Background(), hospital(id), hospitalRequest("Hospital "+id))
	require.NoError(t, err)
}

// flakyRequestRepo fails CreateIfAbsent a set number of times per donor
type flakyRequestRepo struct {
	repository.BloodRequestRepository

	mu      sync.Mutex
	failFor map[string]int
}

func (r *flakyRequestRepo) CreateIfAbsent(ctx context.Context, request *entity.BloodRequest) (*entity.BloodRequest, bool, error) {
	r.mu.Lock()
	if r.failFor[request.DonorID] > 0 {
		r.failFor[request.DonorID]--
		r.mu.Unlock()
		return nil, false, errStoreDown
	}
	r.mu.Unlock()
	return r.BloodRequestRepository.CreateIfAbsent(ctx, request)
}

type failingNotificationRepo struct {
	repository.NotificationRepository
}

func (failingNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	return errStoreDown
}

type unreachableDirectoryRepo struct {
	repository.DonorProfileRepository
}

func (unreachableDirectoryRepo) FindMatching(ctx context.Context, bloodGroup entity.BloodGroup, donorIDs []string, limit int) ([]entity.DonorProfile, error) {
	return nil, errStoreDown
}

// togglingDonorRepo flips availability off right before the next Update lands
type togglingDonorRepo struct {
	repository.DonorProfileRepository

	mu    sync.Mutex
	armed bool
}

func (r *togglingDonorRepo) Update(ctx context.Context, profile *entity.DonorProfile) error {
	r.mu.Lock()
	armed := r.armed
	r.armed = false
	r.mu.Unlock()
	if armed {
		if _, err := r.DonorProfileRepository.UpdateAvailability(ctx, profile.DonorID, false); err != nil {
			return err
		}
	}
	return r.DonorProfileRepository.Update(ctx, profile)
}

// staleReadDonorRepo answers "not found" for the next lookup, as a reader
// that lost a race with a concurrent first save would see
type staleReadDonorRepo struct {
	repository.DonorProfileRepository

	mu   sync.Mutex
	hide int
}

func (r *staleReadDonorRepo) FindByID(ctx context.Context, donorID string) (*entity.DonorProfile, error) {
	r.mu.Lock()
	if r.hide > 0 {
		r.hide--
		r.mu.Unlock()
		return nil, nil
	}
	r.mu.Unlock()
	return r.DonorProfileRepository.FindByID(ctx, donorID)
}
