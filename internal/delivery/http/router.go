package http

import (
	"net/http"

	"blood-donor-service/internal/delivery/http/handler"
	"blood-donor-service/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	donorHandler        *handler.DonorHandler
	hospitalHandler     *handler.HospitalHandler
	requestHandler      *handler.BloodRequestHandler
	notificationHandler *handler.NotificationHandler
	eventHandler        *handler.EventHandler
	auditLogHandler     *handler.AuditLogHandler
	metricsHandler      http.Handler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	loggingMiddleware   *middleware.LoggingMiddleware
}

func NewRouter(
	donorHandler *handler.DonorHandler,
	hospitalHandler *handler.HospitalHandler,
	requestHandler *handler.BloodRequestHandler,
	notificationHandler *handler.NotificationHandler,
	eventHandler *handler.EventHandler,
	auditLogHandler *handler.AuditLogHandler,
	metricsHandler http.Handler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		donorHandler:        donorHandler,
		hospitalHandler:     hospitalHandler,
		requestHandler:      requestHandler,
		notificationHandler: notificationHandler,
		eventHandler:        eventHandler,
		auditLogHandler:     auditLogHandler,
		metricsHandler:      metricsHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		loggingMiddleware:   loggingMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// Prometheus scrape endpoint
	if r.metricsHandler != nil {
		r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Any authenticated caller
	authenticated := api.NewRoute().Subrouter()
	authenticated.Use(r.authMiddleware.Authenticate)
	authenticated.HandleFunc("/events", r.eventHandler.Stream).Methods(http.MethodGet)
	authenticated.HandleFunc("/me/activity", r.auditLogHandler.ListActivity).Methods(http.MethodGet)

	// Donor routes
	donor := api.PathPrefix("/donor").Subrouter()
	donor.Use(r.authMiddleware.Authenticate)
	donor.Use(middleware.RequireDonor)
	donor.HandleFunc("/profile", r.donorHandler.SaveProfile).Methods(http.MethodPut)
	donor.HandleFunc("/profile", r.donorHandler.GetProfile).Methods(http.MethodGet)
	donor.HandleFunc("/profile/availability", r.donorHandler.SetAvailability).Methods(http.MethodPatch)
	donor.HandleFunc("/profile/eligibility", r.donorHandler.RecheckEligibility).Methods(http.MethodPost)
	donor.HandleFunc("/requests", r.requestHandler.ListReceived).Methods(http.MethodGet)
	donor.HandleFunc("/requests/{id}/accept", r.requestHandler.Accept).Methods(http.MethodPost)
	donor.HandleFunc("/requests/{id}/decline", r.requestHandler.Decline).Methods(http.MethodPost)

	// Hospital routes
	hospital := api.PathPrefix("/hospital").Subrouter()
	hospital.Use(r.authMiddleware.Authenticate)
	hospital.Use(middleware.RequireHospital)
	hospital.HandleFunc("/profile", r.hospitalHandler.SaveProfile).Methods(http.MethodPut)
	hospital.HandleFunc("/profile", r.hospitalHandler.GetProfile).Methods(http.MethodGet)
	hospital.HandleFunc("/donors", r.hospitalHandler.FindDonors).Methods(http.MethodGet)

	// Batches and requests (hospital)
	hospital.HandleFunc("/batches", r.requestHandler.CreateBatch).Methods(http.MethodPost)
	hospital.HandleFunc("/batches/{id}/retry", r.requestHandler.RetryDispatch).Methods(http.MethodPost)
	hospital.HandleFunc("/requests", r.requestHandler.ListSent).Methods(http.MethodGet)
	hospital.HandleFunc("/requests/summary", r.requestHandler.Summary).Methods(http.MethodGet)
	hospital.HandleFunc("/requests/cancel", r.requestHandler.CancelMany).Methods(http.MethodPost)
	hospital.HandleFunc("/requests/{id}/cancel", r.requestHandler.Cancel).Methods(http.MethodPost)

	// Notifications (hospital)
	hospital.HandleFunc("/notifications", r.notificationHandler.List).Methods(http.MethodGet)
	hospital.HandleFunc("/notifications/{id}/read", r.notificationHandler.MarkRead).Methods(http.MethodPost)
	hospital.HandleFunc("/notifications/{id}/acknowledge", r.notificationHandler.Acknowledge).Methods(http.MethodPost)

	// Add CORS and request logging middleware
	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(r.loggingMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
