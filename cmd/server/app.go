package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/DusanM998/ToDoApplication/internal/config"
	"github.com/DusanM998/ToDoApplication/internal/platform/email"
	"github.com/DusanM998/ToDoApplication/internal/platform/imagestore"
	"github.com/DusanM998/ToDoApplication/internal/platform/postgres"
	"github.com/DusanM998/ToDoApplication/internal/service"
	"github.com/DusanM998/ToDoApplication/internal/service/auth"
	"github.com/DusanM998/ToDoApplication/internal/store"
	"github.com/DusanM998/ToDoApplication/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore

	jwtService  auth.JWTService
	authService service.AuthService
	taskService service.TaskService

	sweeper *task.Sweeper
}

// newApplication creates a new application instance with all dependencies
// initialized.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes)

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	sender := email.NewSMTPSender(cfg.Email, logger)
	images := imagestore.NewHTTPStore(cfg.ImageStore, logger)

	app.authService = service.NewAuthService(
		app.userStore,
		db,
		app.jwtService,
		auth.NewBcryptHasher(0),
		auth.NewBcryptVerifier(),
		sender,
		images,
		cfg.Auth,
		cfg.Email,
		logger,
	)

	app.taskService = service.NewTaskService(app.taskStore, app.userStore, db, logger)

	sweeperCfg := task.DefaultSweeperConfig()
	if cfg.Sweep.IntervalHours > 0 {
		sweeperCfg.Interval = time.Duration(cfg.Sweep.IntervalHours) * time.Hour
	}
	app.sweeper = task.NewSweeper(app.taskService, sweeperCfg, logger)
	app.sweeper.Start()
	logger.Info("overdue sweeper started", "interval", sweeperCfg.Interval)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.sweeper != nil {
		app.sweeper.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
