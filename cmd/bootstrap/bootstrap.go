package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blood-donor-service/config"
	deliveryHttp "blood-donor-service/internal/delivery/http"
	"blood-donor-service/internal/delivery/http/handler"
	"blood-donor-service/internal/delivery/http/middleware"
	domainRepo "blood-donor-service/internal/domain/repository"
	"blood-donor-service/internal/infrastructure/cache"
	"blood-donor-service/internal/infrastructure/database"
	"blood-donor-service/internal/infrastructure/metrics"
	"blood-donor-service/internal/repository"
	"blood-donor-service/internal/repository/memory"
	"blood-donor-service/internal/service"
	"blood-donor-service/internal/usecase"
	"blood-donor-service/pkg/jwt"
	"blood-donor-service/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	EventBus    service.EventBus
	Server      *http.Server
}

// repositories is one storage backend's set of repositories
type repositories struct {
	donor        domainRepo.DonorProfileRepository
	hospital     domainRepo.HospitalProfileRepository
	batch        domainRepo.RequestBatchRepository
	request      domainRepo.BloodRequestRepository
	notification domainRepo.NotificationRepository
	audit        domainRepo.AuditLogRepository
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	log := logrus.StandardLogger()

	// Initialize storage
	repos, err := app.initializeStore(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	// Initialize event bus
	if err := app.initializeEventBus(cfg, log); err != nil {
		app.Close()
		return nil, err
	}

	// Initialize all layers
	app.Server = initializeServer(cfg, log, repos, app.EventBus)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Unknown log level %q, using info", level)
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

func (app *App) initializeStore(cfg *config.Config) (*repositories, error) {
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		logrus.Warn("Using in-memory store, data is lost on restart")
		return &repositories{
			donor:        memory.NewDonorProfileRepository(),
			hospital:     memory.NewHospitalProfileRepository(),
			batch:        memory.NewRequestBatchRepository(),
			request:      memory.NewBloodRequestRepository(),
			notification: memory.NewNotificationRepository(),
			audit:        memory.NewAuditLogRepository(),
		}, nil
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.IsDevelopment())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logrus.Info("Database migrations applied")
	}

	return &repositories{
		donor:        repository.NewDonorProfileRepository(db),
		hospital:     repository.NewHospitalProfileRepository(db),
		batch:        repository.NewRequestBatchRepository(db),
		request:      repository.NewBloodRequestRepository(db),
		notification: repository.NewNotificationRepository(db),
		audit:        repository.NewAuditLogRepository(db),
	}, nil
}

func (app *App) initializeEventBus(cfg *config.Config, log *logrus.Logger) error {
	if cfg.App.EventsDriver == config.EventsDriverMemory {
		app.EventBus = service.NewMemoryEventBus(log)
		return nil
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	app.EventBus = service.NewRedisEventBus(redisClient, log)
	logrus.Info("Redis connected successfully")
	return nil
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, repos *repositories, eventBus service.EventBus) *http.Server {
	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.IdP)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize services
	auditService := service.NewAuditService(log, repos.audit)
	evaluator := service.NewEligibilityEvaluator(nil)
	directory := service.NewDonorDirectory(log, repos.donor)
	dispatcher := service.NewRequestDispatcher(log, repos.request, m, cfg.Dispatch.MaxWorkers, nil)
	emitter := service.NewNotificationEmitter(log, repos.donor, repos.notification)

	// Initialize usecases
	donorProfileUsecase := usecase.NewDonorProfileUsecase(log, repos.donor, evaluator, auditService, m, nil)
	hospitalProfileUsecase := usecase.NewHospitalProfileUsecase(log, repos.hospital, auditService)
	requestBatchUsecase := usecase.NewRequestBatchUsecase(log, repos.hospital, repos.batch, directory, dispatcher, auditService, eventBus, m, cfg.Dispatch.MaxDonors, nil)
	bloodRequestUsecase := usecase.NewBloodRequestUsecase(log, repos.request, emitter, auditService, eventBus, m, nil)
	notificationUsecase := usecase.NewNotificationUsecase(log, repos.notification, auditService, nil)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, auditService)

	// Initialize handlers
	donorHandler := handler.NewDonorHandler(donorProfileUsecase, customValidator)
	hospitalHandler := handler.NewHospitalHandler(hospitalProfileUsecase, requestBatchUsecase, customValidator)
	requestHandler := handler.NewBloodRequestHandler(requestBatchUsecase, bloodRequestUsecase, customValidator)
	notificationHandler := handler.NewNotificationHandler(notificationUsecase)
	eventHandler := handler.NewEventHandler(eventBus, log)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)
	corsMiddleware := middleware.NewCORSMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		donorHandler,
		hospitalHandler,
		requestHandler,
		notificationHandler,
		eventHandler,
		auditLogHandler,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
	)
	httpRouter := router.Setup()

	// Create server; no write timeout so event streams stay open
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close event feeds first so streaming handlers return before Shutdown waits on them
	if app.EventBus != nil {
		app.EventBus.Stop()
	}

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (event bus, database, redis)
func (app *App) Close() {
	if app.EventBus != nil {
		app.EventBus.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
