package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patient-portal/config"
	deliveryHttp "patient-portal/internal/delivery/http"
	"patient-portal/internal/delivery/http/handler"
	"patient-portal/internal/delivery/http/middleware"
	"patient-portal/internal/delivery/view"
	domainRepo "patient-portal/internal/domain/repository"
	"patient-portal/internal/infrastructure/broker"
	"patient-portal/internal/infrastructure/database"
	"patient-portal/internal/repository"
	"patient-portal/internal/service"
	"patient-portal/internal/usecase"
	"patient-portal/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	RedisClient *redis.Client
	Notifier    *service.ChangeNotifier
	Repository  domainRepo.PatientRepository
	Controller  *view.Controller
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized. A
// database that fails to come up does not abort startup; the failure is
// served through the status banner and the health endpoint instead.
func New() (*App, error) {
	app := &App{}
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	app.Log = setupLogger(cfg.App.LogLevel)
	app.Log.Info("Configuration loaded successfully")

	engine, err := database.NewEngine(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to select database engine: %w", err)
	}

	// Initialize change notifier
	app.Notifier = app.startNotifier(ctx)

	// Initialize repository
	app.Repository = repository.NewPatientRepository(engine, app.Notifier, app.Log)
	if err := app.Repository.Initialize(ctx); err != nil {
		app.Log.Warnf("Continuing with %s database unavailable", engine.Name())
	}

	patientUsecase := usecase.NewPatientUsecase(app.Log, app.Repository)

	// Initial view load
	controller, err := view.NewController(patientUsecase, app.Notifier, app.Log, view.DefaultNoticeDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize views: %w", err)
	}
	controller.Start()
	app.Controller = controller

	app.Server = app.initializeServer(patientUsecase)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	return logrus.StandardLogger()
}

// startNotifier connects the configured transport. Without one, or when
// Redis is unreachable, the instance runs standalone.
func (app *App) startNotifier(ctx context.Context) *service.ChangeNotifier {
	if app.Config.Notifier.Transport != config.TransportRedis {
		app.Log.Info("Cross-instance sync disabled")
		return service.NewChangeNotifier(service.NewNoopTransport(), app.Log)
	}

	redisClient, err := broker.NewRedisClient(ctx, app.Config.Redis, app.Log)
	if err != nil {
		app.Log.Warnf("Cross-instance sync unavailable: %+v", err)
		return service.NewChangeNotifier(service.NewNoopTransport(), app.Log)
	}

	transport := service.NewRedisTransport(redisClient, app.Config.Notifier.Channel, app.Log)
	notifier := service.NewChangeNotifier(transport, app.Log)
	if err := notifier.Start(ctx); err != nil {
		app.Log.Warnf("Failed to subscribe to %s: %+v", app.Config.Notifier.Channel, err)
		notifier.Stop()
		redisClient.Close()
		return service.NewChangeNotifier(service.NewNoopTransport(), app.Log)
	}

	app.RedisClient = redisClient
	app.Log.Infof("Cross-instance sync enabled on channel %s", app.Config.Notifier.Channel)
	return notifier
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(patientUsecase usecase.PatientUsecase) *http.Server {
	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize handlers
	patientHandler := handler.NewPatientHandler(patientUsecase, customValidator, app.Controller, app.Notifier.InstanceID())
	viewHandler := handler.NewViewHandler(app.Controller, patientUsecase, customValidator, app.Log)
	liveHandler := handler.NewLiveHandler(app.Controller, app.Log)

	// Initialize middleware
	corsMiddleware := middleware.NewCORSMiddleware()
	loggerMiddleware := middleware.NewLoggerMiddleware(app.Log)

	// Initialize router
	router := deliveryHttp.NewRouter(patientHandler, viewHandler, liveHandler, corsMiddleware, loggerMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", app.Config.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
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

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close stops live views and the notifier, then closes the database and
// Redis connections.
func (app *App) Close() {
	if app.Controller != nil {
		app.Controller.Stop()
	}

	if app.Notifier != nil {
		if err := app.Notifier.Stop(); err != nil {
			app.Log.Warnf("Failed to stop change notifier: %+v", err)
		}
	}

	// Close database connection
	if app.Repository != nil {
		if err := app.Repository.Close(); err != nil {
			app.Log.Warnf("Failed to close database: %+v", err)
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
