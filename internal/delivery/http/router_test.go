package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blood-donor-service/config"
	"blood-donor-service/internal/delivery/http/handler"
	"blood-donor-service/internal/delivery/http/middleware"
	"blood-donor-service/internal/domain/entity"
	"blood-donor-service/internal/domain/repository"
	"blood-donor-service/internal/infrastructure/metrics"
	"blood-donor-service/internal/repository/memory"
	"blood-donor-service/internal/service"
	"blood-donor-service/internal/usecase"
	"blood-donor-service/pkg/jwt"
	"blood-donor-service/pkg/response"
	"blood-donor-service/pkg/validator"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

type testServer struct {
	t       *testing.T
	handler http.Handler
	bus     *service.MemoryEventBus
}

func newTestServer(t *testing.T, donorRepo repository.DonorProfileRepository) *testServer {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	bus := service.NewMemoryEventBus(log)
	t.Cleanup(bus.Stop)

	if donorRepo == nil {
		donorRepo = memory.NewDonorProfileRepository()
	}
	hospitalRepo := memory.NewHospitalProfileRepository()
	batchRepo := memory.NewRequestBatchRepository()
	requestRepo := memory.NewBloodRequestRepository()
	notificationRepo := memory.NewNotificationRepository()
	auditService := service.NewAuditService(log, memory.NewAuditLogRepository())

	directory := service.NewDonorDirectory(log, donorRepo)
	dispatcher := service.NewRequestDispatcher(log, requestRepo, m, 4, nil)
	emitter := service.NewNotificationEmitter(log, donorRepo, notificationRepo)

	donorUsecase := usecase.NewDonorProfileUsecase(log, donorRepo, service.NewEligibilityEvaluator(nil), auditService, m, nil)
	hospitalUsecase := usecase.NewHospitalProfileUsecase(log, hospitalRepo, auditService)
	batchUsecase := usecase.NewRequestBatchUsecase(log, hospitalRepo, batchRepo, directory, dispatcher, auditService, bus, m, 200, nil)
	requestUsecase := usecase.NewBloodRequestUsecase(log, requestRepo, emitter, auditService, bus, m, nil)
	notificationUsecase := usecase.NewNotificationUsecase(log, notificationRepo, auditService, nil)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, auditService)

	v := validator.NewValidator()
	router := NewRouter(
		handler.NewDonorHandler(donorUsecase, v),
		handler.NewHospitalHandler(hospitalUsecase, batchUsecase, v),
		handler.NewBloodRequestHandler(batchUsecase, requestUsecase, v),
		handler.NewNotificationHandler(notificationUsecase),
		handler.NewEventHandler(bus, log),
		handler.NewAuditLogHandler(auditLogUsecase),
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		middleware.NewAuthMiddleware(jwt.NewJWTService(config.IdPConfig{Secret: testSecret}), log),
		middleware.NewCORSMiddleware(),
		middleware.NewLoggingMiddleware(log),
	)

	return &testServer{t: t, handler: router.Setup(), bus: bus}
}

func token(t *testing.T, subject, role string) string {
	t.Helper()
	claims := jwt.Claims{
		Role: role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// envelope mirrors response.Response with a typed data payload
type envelope[T any] struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    T                 `json:"data"`
	Error   map[string]string `json:"error"`
}

func (s *testServer) do(method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeAs[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func donorProfileBody(name, bloodGroup string) map[string]interface{} {
	return map[string]interface{}{
		"name":             name,
		"phone":            "555-0101",
		"blood_group":      bloodGroup,
		"age":              29,
		"weight":           62,
		"health_condition": "healthy",
		"hemoglobin":       "13.4",
		"city":             "Pune",
		"state":            "MH",
		"country":          "IN",
	}
}

func hospitalProfileBody(name string) map[string]interface{} {
	return map[string]interface{}{
		"hospital_name": name,
		"address":       "1 Main St",
		"phone":         "555-0100",
		"city":          "Pune",
		"state":         "MH",
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthAndRoles(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/api/v1/donor/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/donor/profile", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/donor/profile", token(t, "h1", entity.RoleHospital), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/hospital/profile", token(t, "d1", entity.RoleDonor), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/donor/profile", token(t, "d1", entity.RoleDonor), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDonorProfileEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	d1 := token(t, "d1", entity.RoleDonor)

	body := donorProfileBody("Asha", "B+")
	body["last_donation_date"] = "2999-01-01"
	rec := s.do(http.MethodPut, "/api/v1/donor/profile", d1, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body = donorProfileBody("Asha", "B+")
	body["age"] = 17
	rec = s.do(http.MethodPut, "/api/v1/donor/profile", d1, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decodeAs[map[string]interface{}](t, rec)
	assert.Equal(t, false, saved.Data["is_eligible"])
	assert.Equal(t, []interface{}{"Age must be between 18-65 years"}, saved.Data["eligibility_reasons"])
	assert.Equal(t, true, saved.Data["is_available"])

	body = donorProfileBody("Asha", "B+")
	body["blood_group"] = "Q+"
	rec = s.do(http.MethodPut, "/api/v1/donor/profile", d1, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	invalid := decodeAs[interface{}](t, rec)
	assert.Contains(t, invalid.Error, "blood_group")

	rec = s.do(http.MethodPatch, "/api/v1/donor/profile/availability", d1, map[string]bool{"is_available": false})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeAs[map[string]interface{}](t, rec).Data["is_available"])

	rec = s.do(http.MethodPatch, "/api/v1/donor/profile/availability", d1, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/donor/profile/eligibility", d1, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	h1 := token(t, "h1", entity.RoleHospital)
	d1 := token(t, "d1", entity.RoleDonor)
	d2 := token(t, "d2", entity.RoleDonor)

	rec := s.do(http.MethodPost, "/api/v1/hospital/batches", h1, map[string]interface{}{"blood_group": "A+", "units_required": 2})
	assert.Equal(t, http.StatusNotFound, rec.Code, "dispatch needs a hospital profile")

	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/v1/hospital/profile", h1, hospitalProfileBody("City Hospital")).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/v1/donor/profile", d1, donorProfileBody("Asha", "A+")).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/v1/donor/profile", d2, donorProfileBody("Ravi", "A+")).Code)

	rec = s.do(http.MethodGet, "/api/v1/hospital/donors?blood_group=A%2B", h1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decodeAs[map[string]interface{}](t, rec).Data["total"])

	rec = s.do(http.MethodPost, "/api/v1/hospital/batches", h1, map[string]interface{}{"blood_group": "A+", "units_required": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	dispatched := decodeAs[struct {
		BatchID string `json:"batch_id"`
		Created []struct {
			ID      string `json:"id"`
			DonorID string `json:"donor_id"`
			Status  string `json:"status"`
		} `json:"created"`
	}](t, rec)
	require.Len(t, dispatched.Data.Created, 2)
	ids := map[string]string{}
	for _, c := range dispatched.Data.Created {
		assert.Equal(t, "pending", c.Status)
		ids[c.DonorID] = c.ID
	}

	rec = s.do(http.MethodPost, "/api/v1/donor/requests/"+ids["d1"]+"/accept", d2, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/donor/requests/not-a-uuid/accept", d1, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/donor/requests/"+ids["d1"]+"/accept", d1, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/donor/requests/"+ids["d1"]+"/decline", d1, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/hospital/requests/cancel", h1, map[string]interface{}{"ids": []string{ids["d1"], ids["d2"]}})
	require.Equal(t, http.StatusOK, rec.Code)
	cancelled := decodeAs[map[string][]string](t, rec)
	assert.Equal(t, []string{ids["d2"]}, cancelled.Data["cancelled"])
	assert.Equal(t, []string{ids["d1"]}, cancelled.Data["skipped"])

	rec = s.do(http.MethodGet, "/api/v1/hospital/requests/summary", h1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeAs[map[string]float64](t, rec)
	assert.Equal(t, float64(1), summary.Data["accepted"])
	assert.Equal(t, float64(1), summary.Data["cancelled"])
	assert.Equal(t, float64(0), summary.Data["pending"])

	rec = s.do(http.MethodGet, "/api/v1/hospital/requests?status=bogus", h1, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/hospital/requests?batch_id="+dispatched.Data.BatchID+"&status=accepted", h1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeAs[map[string]interface{}](t, rec).Data["total"])

	rec = s.do(http.MethodGet, "/api/v1/donor/requests?status=accepted", d1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeAs[map[string]interface{}](t, rec).Data["total"])

	rec = s.do(http.MethodGet, "/api/v1/hospital/notifications?unread=true", h1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notifications := decodeAs[struct {
		Notifications []struct {
			ID           string            `json:"id"`
			DonorDetails map[string]interface{} `json:"donor_details"`
		} `json:"notifications"`
		Unread int `json:"unread"`
	}](t, rec)
	require.Len(t, notifications.Data.Notifications, 1)
	assert.Equal(t, 1, notifications.Data.Unread)
	notificationID := notifications.Data.Notifications[0].ID

	rec = s.do(http.MethodPost, "/api/v1/hospital/notifications/"+notificationID+"/read", h1, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodPost, "/api/v1/hospital/notifications/"+notificationID+"/acknowledge", h1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeAs[map[string]interface{}](t, rec).Data["hospital_accepted"])

	rec = s.do(http.MethodGet, "/api/v1/hospital/notifications?unread=maybe", h1, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/me/activity?limit=2", h1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decodeAs[map[string]interface{}](t, rec).Data["total"])
}

func TestDirectoryOutageIsServiceUnavailable(t *testing.T) {
	s := newTestServer(t, downDonorRepo{DonorProfileRepository: memory.NewDonorProfileRepository()})
	h1 := token(t, "h1", entity.RoleHospital)
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/v1/hospital/profile", h1, hospitalProfileBody("City Hospital")).Code)

	rec := s.do(http.MethodPost, "/api/v1/hospital/batches", h1, map[string]interface{}{"blood_group": "O-", "units_required": 1})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("Retry-After"))
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
}

type downDonorRepo struct {
	repository.DonorProfileRepository
}

func (downDonorRepo) FindMatching(ctx context.Context, bloodGroup entity.BloodGroup, donorIDs []string, limit int) ([]entity.DonorProfile, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestEventStream(t *testing.T) {
	s := newTestServer(t, nil)
	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token(t, "d9", entity.RoleDonor))

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", line)

	event, err := entity.NewEvent(entity.EventRequestCancelled, "d9", map[string]string{"id": uuid.NewString()}, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.bus.Publish(ctx, event))

	var lines []string
	for len(lines) < 2 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if line == "\n" {
			continue
		}
		lines = append(lines, line)
	}
	assert.Equal(t, "event: request.cancelled\n", lines[0])
	assert.Contains(t, lines[1], `"subject_id":"d9"`)
}
