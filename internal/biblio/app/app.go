package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aussiebroadwan/biblio/internal/biblio/cache"
	httpapi "github.com/aussiebroadwan/biblio/internal/biblio/http"
	"github.com/aussiebroadwan/biblio/internal/biblio/iam"
	"github.com/aussiebroadwan/biblio/internal/biblio/service"
	"github.com/aussiebroadwan/biblio/internal/biblio/store"
	"github.com/aussiebroadwan/biblio/internal/biblio/store/drivers/sqlite"
	"github.com/aussiebroadwan/biblio/pkg/cryptox"
	"github.com/aussiebroadwan/biblio/pkg/httpx"
	"github.com/aussiebroadwan/biblio/pkg/jwtx"
	"github.com/aussiebroadwan/biblio/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the store, the session cache and the HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	cache  cache.Cache
	tokens *jwtx.HS256
	hasher cryptox.PasswordHasher

	// Services
	authService      *service.AuthenticationService
	usersService     *service.UsersService
	companiesService *service.CompaniesService
	rolesService     *service.RolesService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "biblio",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initTokens(); err != nil {
		return nil, err
	}
	if err := app.initHasher(); err != nil {
		return nil, err
	}
	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initCache(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	if err := app.initHTTP(); err != nil {
		_ = app.cache.Close()
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Handler exposes the routed HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("biblio starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains the HTTP server, then closes the cache and the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down biblio...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	var errs []error
	if err := app.cache.Close(); err != nil {
		app.logger.Error("error closing cache", "error", err)
		errs = append(errs, err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		errs = append(errs, err)
	}

	app.logger.Info("biblio stopped")
	return errors.Join(errs...)
}

// initTokens builds the HS256 codec. In dev without JWT_SECRET a random
// secret is used, so tokens do not survive a restart.
func (app *Application) initTokens() error {
	secret := app.cfg.JWTSecret
	if secret == "" {
		generated, err := cryptox.GenerateToken(cryptox.TokenSize512)
		if err != nil {
			return fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		secret = generated
		app.logger.Warn("JWT_SECRET not set, using an ephemeral secret")
	}

	tokens, err := jwtx.NewHS256(jwtx.HS256Config{
		Secret:   []byte(secret),
		Issuer:   app.cfg.JWTIssuer,
		Audience: app.cfg.JWTAudience,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.tokens = tokens
	return nil
}

// initHasher selects the hashing algorithm for new passwords. Stored hashes
// of either algorithm still verify; a bcrypt deployment reads an existing
// pepper file so earlier argon2 hashes keep working.
func (app *Application) initHasher() error {
	loadPepper := cryptox.LoadOrCreatePepper
	if name := strings.TrimSpace(app.cfg.PasswordHasher); name == "" || strings.EqualFold(name, cryptox.HasherBcrypt) {
		loadPepper = cryptox.ReadPepper
	}
	pepper, err := loadPepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}

	hasher, err := cryptox.NewPasswordHasher(app.cfg.PasswordHasher, pepper)
	if err != nil {
		return err
	}
	app.hasher = hasher
	return nil
}

// initDatabase opens the database and applies migrations
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initCache connects to Redis. An unreachable cache fails start-up, since
// no request can be authenticated without it.
func (app *Application) initCache() error {
	c := cache.NewRedis(cache.Config{
		Host:     app.cfg.CacheHost,
		Port:     app.cfg.CachePort,
		Password: app.cfg.CachePassword,
		DB:       app.cfg.CacheDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return fmt.Errorf("failed to connect to cache: %w", err)
	}

	app.cache = c
	app.logger.Info("cache connected", "host", app.cfg.CacheHost, "port", app.cfg.CachePort)
	return nil
}

func (app *Application) initServices() {
	app.authService = &service.AuthenticationService{
		Store:      app.db,
		Cache:      app.cache,
		Hasher:     app.hasher,
		Tokens:     app.tokens,
		AccessTTL:  app.cfg.AccessTokenTTL,
		RefreshTTL: app.cfg.RefreshTokenTTL,
	}
	app.usersService = &service.UsersService{
		Store:  app.db,
		Hasher: app.hasher,
		Cache:  app.cache,
	}
	app.companiesService = &service.CompaniesService{Store: app.db}
	app.rolesService = &service.RolesService{Store: app.db}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	limits := app.cfg.RateLimits
	trusted, err := httpx.ParseTrustedProxies(app.cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}
	limits.TrustedProxies = trusted

	router := httpapi.NewRouter(
		app.db,
		app.cache,
		&iam.AccessGuard{Tokens: app.tokens, Cache: app.cache},
		limits,
		BuildVersion,
		app.logger,
	)

	router.AuthenticationService = app.authService
	router.UsersService = app.usersService
	router.CompaniesService = app.companiesService
	router.RolesService = app.rolesService
	router.SecureCookies = app.cfg.CookieSecure
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
