package app

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"salespulse/internal/config"
	apierrors "salespulse/internal/errors"
	"salespulse/internal/exporter"
	"salespulse/internal/files"
	"salespulse/internal/infrastructure"
	customMiddleware "salespulse/internal/middleware"
	"salespulse/internal/sales"
	"salespulse/internal/services"
	handlers "salespulse/internal/transport/http"
	"salespulse/internal/validation"
	"salespulse/internal/workbook"
)

var (
	// Version is set at link time with -ldflags "-X salespulse/internal/app.Version=..."
	Version = "dev"
	// BuildTime is set at compile time
	BuildTime = time.Now().Format(time.RFC3339)
	// BuildID is a unique identifier for this build
	BuildID = generateBuildID()
)

func generateBuildID() string {
	h := sha256.New()
	h.Write([]byte(Version))
	h.Write([]byte(time.Now().Format("2006-01-02")))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	Paths         *config.Paths
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Loader        *workbook.Loader
	Services      *ServiceContainer
	ErrorHandler  *apierrors.ErrorHandler
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Dashboard *services.DashboardService
	Health    *services.HealthService
	Exporter  *exporter.Exporter
}

// New loads the configuration at configPath (see config.Load), initializes
// the global logger and builds the application.
func New(ctx context.Context, configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return NewWithConfig(ctx, cfg, logger)
}

// NewWithConfig builds the application from an already loaded configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", config.AppName),
		slog.String("version", Version),
		slog.String("variant", cfg.Dashboard.Variant))

	paths := cfg.GetPaths()
	logger.InfoContext(ctx, "Ensuring required directories exist")
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry, Version), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		Paths:         paths,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Level == "debug"),
	}

	if err := app.initializeServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// ResolveWorkbookLocation returns the configured workbook location, or the
// newest workbook in the data directory when none is configured.
func ResolveWorkbookLocation(cfg *config.Config, paths *config.Paths) (string, error) {
	if loc := strings.TrimSpace(cfg.Workbook.Location); loc != "" {
		if strings.HasPrefix(strings.ToLower(loc), workbook.SheetsScheme) || filepath.IsAbs(loc) || config.FileExists(loc) {
			return loc, nil
		}
		return filepath.Join(paths.ExecutableDir, loc), nil
	}

	latest, err := files.NewDiscovery(paths.DataDir).LatestWorkbook(".")
	if err != nil {
		return "", fmt.Errorf("no workbook location configured (set %s_WORKBOOK_LOCATION): %w", config.EnvPrefix, err)
	}
	return latest.Path, nil
}

// SourceOptions maps the workbook section onto loader options.
func SourceOptions(cfg *config.Config) workbook.SourceOptions {
	return workbook.SourceOptions{
		CredentialsFile: cfg.Workbook.CredentialsFile,
		APIKey:          cfg.Workbook.APIKey,
		Endpoint:        cfg.Workbook.Endpoint,
	}
}

// OpenWorkbook resolves, validates and opens the configured workbook.
// Local files must be readable .xlsx or .xlsm packages.
func OpenWorkbook(ctx context.Context, cfg *config.Config, paths *config.Paths, logger *slog.Logger) (workbook.Source, error) {
	location, err := ResolveWorkbookLocation(cfg, paths)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(strings.ToLower(location), workbook.SheetsScheme) {
		if err := validation.NewFileValidator(logger).ValidateWorkbookFile(location); err != nil {
			return nil, err
		}
	}

	source, err := workbook.OpenSource(ctx, location, SourceOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", location, err)
	}
	return source, nil
}

// initializeServices opens the workbook and builds the services
func (a *Application) initializeServices(ctx context.Context) error {
	source, err := OpenWorkbook(ctx, a.Config, a.Paths, a.Logger)
	if err != nil {
		return err
	}

	wbMetrics, err := workbook.NewMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create workbook metrics: %w", err)
	}
	a.Loader = workbook.NewLoader(source, workbook.NewCache(wbMetrics), wbMetrics, a.Logger)

	dashboard := services.NewDashboardService(a.Config, a.Loader, a.Logger)

	health := services.NewHealthService(
		services.BuildInfo{Version: Version, BuildTime: BuildTime, BuildID: BuildID},
		a.Paths.DataDir,
		a.Loader,
		[]string{a.Config.SalesSheet(), a.Config.Workbook.ClientSheet},
		a.Logger,
	)

	a.Services = &ServiceContainer{
		Dashboard: dashboard,
		Health:    health,
		Exporter:  exporter.New(a.Logger),
	}

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID → RealIP → OTel → metrics → Recoverer → headers → CORS → rate limit
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
	if err != nil {
		a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
	} else {
		r.Use(otelMiddleware.Handler)
	}
	r.Use(customMiddleware.BusinessMetricsMiddleware(a.Metrics))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.DefaultSecureHeaders().Handler)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.setupAPIRoutes(r)

	// Prometheus scrape endpoint, outside the API timeout.
	r.With(customMiddleware.StructuredLogger(a.Logger)).
		Handle(config.MetricsEndpoint, handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.ErrorHandler))

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	errorMiddleware := apierrors.NewErrorMiddleware(a.ErrorHandler, a.Logger)
	validation := customMiddleware.NewValidationMiddleware(a.Logger, a.ErrorHandler)

	r.Route(config.APIBasePath, func(r chi.Router) {
		r.Use(errorMiddleware.Handler)
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		r.Use(validation.ValidateRequest)

		handlers.NewHealthHandler(a.Services.Health, a.Logger).Register(r)

		dashboardHandler := handlers.NewDashboardHandler(
			a.Services.Dashboard,
			a.Services.Exporter,
			validation,
			a.Logger,
			a.ErrorHandler,
		)
		r.Mount("/", dashboardHandler.Routes())
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the application
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", Version),
		slog.String("address", a.Server.Addr),
		slog.String("workbook", a.Loader.SourceID()),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "Server stopped")
	}

	return a.Stop(context.Background())
}

// performStartupHealthCheck checks that the output directories are writable
// and warms the cache with the sheets the dashboard reads, so schema
// problems show up in the startup log.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	var warnings []string

	fv := validation.NewFileValidator(a.Logger)
	for _, dir := range []string{a.Paths.DataDir, a.Paths.ExportsDir, a.Paths.LogsDir} {
		if err := fv.ValidateOutputDirectory(dir); err != nil {
			warnings = append(warnings, err.Error())
		}
	}

	if _, err := a.Services.Dashboard.Records(ctx, noCriteria); err != nil {
		warnings = append(warnings, fmt.Sprintf("sales sheet %q: %v", a.Config.SalesSheet(), err))
	}
	if _, err := a.Services.Dashboard.KeyAccounts(ctx); err != nil {
		warnings = append(warnings, fmt.Sprintf("client sheet %q: %v", a.Config.Workbook.ClientSheet, err))
	}

	if len(warnings) > 0 {
		return fmt.Errorf("startup health check warnings: %s", strings.Join(warnings, "; "))
	}

	a.Logger.InfoContext(ctx, "Startup health check passed")
	return nil
}

var noCriteria = sales.PeriodCriteria{}
