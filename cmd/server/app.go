package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/cors"
	"github.com/jerehe1/folio/internal/cache"
	"github.com/jerehe1/folio/internal/handlers"
	"github.com/jerehe1/folio/internal/middleware"
	"github.com/jerehe1/folio/internal/models"
	"github.com/jerehe1/folio/internal/repositories"
	mongorepo "github.com/jerehe1/folio/internal/repositories/mongodb"
	surrealrepo "github.com/jerehe1/folio/internal/repositories/surrealdb"
	"github.com/jerehe1/folio/internal/services"
	"github.com/jerehe1/folio/pkg/config"
	"github.com/jerehe1/folio/pkg/database"
	"github.com/jerehe1/folio/pkg/logger"
)

// app holds the wired services shared by every subcommand.
type app struct {
	cfg       *config.Config
	db        *sql.DB
	closers   []func(context.Context) error
	overrides services.OverrideStore

	auth       *services.AuthService
	projects   *services.ProjectService
	overrideSv *services.OverrideService
	posts      *services.PostService
	export     *services.ExportService
	screenshot *services.ScreenshotService
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := &app{cfg: cfg, db: db}
	a.closers = append(a.closers, func(context.Context) error { return db.Close() })

	if err := a.openOverrideStore(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	source, err := services.NewGitHubSource(cfg.GitHub)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("configuring GitHub client: %w", err)
	}

	shots := cache.NewTTL[models.ScreenshotRequest, []byte](cfg.Screenshot.CacheTTL)

	a.auth = services.NewAuthService(repositories.NewUserRepository(db), cfg.Auth)
	a.projects = services.NewProjectService(source, a.overrides, cfg.GitHub, cfg.Screenshot.PlaceholderURL)
	a.overrideSv = services.NewOverrideService(a.overrides)
	a.posts = services.NewPostService(repositories.NewPostRepository(db))
	a.export = services.NewExportService(a.overrides)
	a.screenshot = services.NewScreenshotService(services.NewHTTPRenderer(cfg.Screenshot), shots, cfg.Screenshot)

	return a, nil
}

func (a *app) openOverrideStore(ctx context.Context) error {
	cfg := a.cfg.Database

	switch cfg.OverrideStore {
	case config.StoreMongoDB:
		client, err := database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, client.Disconnect)

		repo := mongorepo.NewOverrideRepository(client.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("creating override indexes: %w", err)
		}
		a.overrides = repo
	case config.StoreSurreal:
		db, err := database.ConnectSurreal(ctx, database.SurrealOptions{
			URL:       cfg.SurrealURL,
			Namespace: cfg.SurrealNS,
			Database:  cfg.SurrealDB,
			Username:  cfg.SurrealUser,
			Password:  cfg.SurrealPass,
		})
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db.Close)

		repo := surrealrepo.NewOverrideRepository(db)
		if err := repo.InitSchema(ctx); err != nil {
			return fmt.Errorf("defining override schema: %w", err)
		}
		a.overrides = repo
	default:
		a.overrides = repositories.NewOverrideRepository(a.db)
	}

	logger.WithField("store", cfg.OverrideStore).Info("Override store ready")
	return nil
}

// Close releases connections in reverse order of acquisition.
func (a *app) Close(ctx context.Context) error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

// Handler builds the HTTP handler tree wrapped in CORS.
func (a *app) Handler() http.Handler {
	secureCookie := strings.HasPrefix(a.cfg.Server.PublicBaseURL, "https://")
	limiter := middleware.NewLoginLimiter(a.cfg.Auth.LoginMaxAttempts, a.cfg.Auth.LoginWindow)

	router := handlers.NewRouter(handlers.Handlers{
		Project:    handlers.NewProjectHandler(a.projects, a.overrideSv, a.export, a.cfg.Server.PublicBaseURL),
		Screenshot: handlers.NewScreenshotHandler(a.screenshot, a.cfg.Screenshot.CacheTTL),
		Auth:       handlers.NewAuthHandler(a.auth, limiter, a.cfg.Auth.TokenTTL, secureCookie),
		Blog:       handlers.NewBlogHandler(a.posts),
		Health:     handlers.NewHealthHandler(),
		NotFound:   handlers.NewNotFoundHandler(),
	}, a.auth)

	return corsHandler(a.cfg.Server.AllowedOrigins)(router)
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	wildcard := false
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Cache"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	})
}
