// Package server wires the application together: configuration, database,
// migrations, services, and the HTTP server, with graceful shutdown on OS
// signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/shelfwise/auth-service/internal/logging"
	"github.com/shelfwise/auth-service/internal/password"
	"github.com/shelfwise/auth-service/internal/server/config"
	"github.com/shelfwise/auth-service/internal/server/httpapi"
	"github.com/shelfwise/auth-service/internal/server/repositories/repomanager"
	"github.com/shelfwise/auth-service/internal/server/services"
	"github.com/shelfwise/auth-service/internal/server/token"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	codec, err := token.NewCodec([]byte(cfg.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("token codec error: %w", err)
	}

	verifier := password.NewBcryptVerifier(repos.Users(db))
	refreshTokens := services.NewRefreshTokenManager(db, repos, cfg.RefreshTokenValidityDuration)
	auth := services.NewAuthService(db, repos, codec, verifier, refreshTokens, cfg.AccessTokenValidityDuration)

	authenticator := httpapi.NewRequestAuthenticator(codec, repos.Users(db), logger)
	handler := httpapi.NewAuthHandler(auth, logger, cfg.SecureCookies)
	router := httpapi.NewRouter(authenticator, handler, logger)
	srv := httpapi.NewServer(cfg.EndpointAddrHTTP, router, logger)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err.Error())
	}
}
