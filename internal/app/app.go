package app

import (
	"context"

	"roomlog/config"
	"roomlog/internal/controllers"
	"roomlog/internal/database"
	"roomlog/internal/handlers/middleware"
	"roomlog/internal/jobs"
	"roomlog/internal/repositories"
	"roomlog/internal/services"
	"roomlog/pkg/logger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Config      config.Config
	Repos       repositories.Repository
	Services    services.Service
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	app, err := NewWithDatabase(config, db)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Er("failed to close database", closeErr)
		}
		return &App{}, err
	}

	return app, nil
}

// NewWithDatabase wires repositories, services, controllers and middleware on top of
// an opened database.
func NewWithDatabase(config config.Config, db database.DB) (*App, error) {
	log := logger.New("app").Function("NewWithDatabase")

	repos := repositories.New(db)

	svc, err := services.New(db, config, repos)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	if err := jobs.RegisterAllJobs(svc.Scheduler, config, svc); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	app := &App{
		Database:    db,
		Config:      config,
		Repos:       repos,
		Services:    svc,
		Controllers: controllers.New(svc, repos, db),
		Middleware:  middleware.New(db.SQL, config, svc.Auth, repos.User),
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Auth,
		a.Services.TagParty,
		a.Services.ThemeStats,
		a.Controllers.Auth,
		a.Controllers.Store,
		a.Controllers.Record,
		a.Controllers.Review,
		a.Repos.User,
		a.Repos.Record,
		a.Repos.Tag,
		a.Repos.Review,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

// StartScheduler is a no-op when no job was registered.
func (a *App) StartScheduler(ctx context.Context) error {
	if a.Services.Scheduler == nil {
		return nil
	}
	return a.Services.Scheduler.Start(ctx)
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
