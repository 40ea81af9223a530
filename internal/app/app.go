package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/campaignbridge/campaignbridge/config"
	"github.com/campaignbridge/campaignbridge/internal/database"
	"github.com/campaignbridge/campaignbridge/internal/domain"
	apphttp "github.com/campaignbridge/campaignbridge/internal/http"
	"github.com/campaignbridge/campaignbridge/internal/http/middleware"
	"github.com/campaignbridge/campaignbridge/internal/repository"
	"github.com/campaignbridge/campaignbridge/internal/service"
	"github.com/campaignbridge/campaignbridge/pkg/blocks"
	"github.com/campaignbridge/campaignbridge/pkg/logger"
)

// App assembles configuration, storage, services and HTTP handlers.
type App struct {
	config *config.Config
	logger logger.Logger
	db     *sql.DB
	mux    *http.ServeMux
	server *http.Server

	mockDB bool

	// Repositories
	templateRepo domain.TemplateRepository
	postRepo     domain.PostRepository
	campaignRepo domain.CampaignRepository

	// Services
	templateService *service.TemplateService
	campaignService *service.CampaignService
	emailSender     domain.EmailSender

	serverMu sync.Mutex
}

// AppOption allows customizing the app for testing
type AppOption func(*App)

// WithMockDB injects a database handle instead of opening a real connection
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
		a.mockDB = true
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

func NewApp(cfg *config.Config, opts ...AppOption) *App {
	a := &App{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logger.NewLoggerWithLevel(cfg.LogLevel)
	}

	return a
}

func (a *App) InitDB() error {
	if a.mockDB {
		return nil
	}

	db, err := database.ConnectToDatabase(&a.config.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.InitializeDatabase(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	a.db = db
	return nil
}

func (a *App) InitRepositories() error {
	if a.db == nil {
		return fmt.Errorf("database not initialized")
	}

	a.templateRepo = repository.NewTemplateRepository(a.db)
	a.postRepo = repository.NewPostRepository(a.db)
	a.campaignRepo = repository.NewCampaignRepository(a.db)

	return nil
}

func (a *App) InitServices() error {
	sender, err := service.NewEmailSender(a.config.Provider, a.logger)
	if err != nil {
		return fmt.Errorf("failed to configure email provider: %w", err)
	}
	a.emailSender = sender

	structure := blocks.StructureOptions{
		EmailWidth:      a.config.Email.Width,
		MaxWidth:        a.config.Email.MaxWidth,
		BackgroundColor: a.config.Email.BackgroundColor,
		TextColor:       a.config.Email.TextColor,
		FontFamily:      a.config.Email.FontFamily,
	}

	a.templateService = service.NewTemplateService(
		a.templateRepo,
		a.postRepo,
		a.logger,
		structure,
		a.config.Debug,
	)

	a.campaignService = service.NewCampaignService(
		a.campaignRepo,
		a.templateService,
		a.emailSender,
		a.logger,
		a.config.Email.FromEmail,
		a.config.Email.FromName,
	)

	return nil
}

func (a *App) InitHandlers() error {
	apphttp.NewRootHandler(a.logger, a.config.Version).RegisterRoutes(a.mux)
	apphttp.NewTemplateHandler(a.templateService, a.logger).RegisterRoutes(a.mux)
	apphttp.NewCampaignHandler(a.campaignService, a.logger).RegisterRoutes(a.mux)
	apphttp.NewPostHandler(a.postRepo, a.logger).RegisterRoutes(a.mux)

	return nil
}

// Initialize runs all init phases in order
func (a *App) Initialize() error {
	if err := a.InitDB(); err != nil {
		return err
	}
	if err := a.InitRepositories(); err != nil {
		return err
	}
	if err := a.InitServices(); err != nil {
		return err
	}
	if err := a.InitHandlers(); err != nil {
		return err
	}
	return nil
}

func (a *App) Start() error {
	handler := middleware.CORSMiddleware(a.mux)

	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.logger.WithField("address", addr).Info(fmt.Sprintf("Server starting on %s", addr))

	a.serverMu.Lock()
	a.server = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := a.server
	a.serverMu.Unlock()

	return server.ListenAndServe()
}

// Shutdown gracefully shuts down the server and closes resources
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown...")

	a.serverMu.Lock()
	server := a.server
	a.serverMu.Unlock()

	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
	}

	if a.db != nil && !a.mockDB {
		if err := a.db.Close(); err != nil {
			a.logger.WithField("error", err.Error()).Error("Failed to close database connection")
		}
	}

	a.logger.Info("Shutdown complete")
	return nil
}

func (a *App) GetConfig() *config.Config {
	return a.config
}

func (a *App) GetLogger() logger.Logger {
	return a.logger
}

func (a *App) GetMux() *http.ServeMux {
	return a.mux
}

func (a *App) GetDB() *sql.DB {
	return a.db
}

func (a *App) GetTemplateService() domain.TemplateService {
	return a.templateService
}

func (a *App) GetCampaignService() domain.CampaignService {
	return a.campaignService
}
