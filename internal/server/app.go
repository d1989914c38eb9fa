// Package server initializes and runs the auth backend. It wires storage,
// the token issuer and the TOTP engine into the user service, handles
// graceful shutdown, and starts the HTTP server for the protocol surface.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/streamly/authd/internal/logging"
	"github.com/streamly/authd/internal/server/auth"
	"github.com/streamly/authd/internal/server/config"
	"github.com/streamly/authd/internal/server/shared/db"
	"github.com/streamly/authd/internal/server/users"

	hs "github.com/streamly/authd/internal/server/http"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *users.Service
	tokenIssuer *auth.TokenIssuer
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	m, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	tokens := auth.NewTokenIssuer(c.SecretKey, c.SessionTokenValidity, c.MFAChallengeValidity)
	totp := auth.NewTOTPEngine(c.TOTPIssuer)
	us := users.NewService(m.Users(), tokens, totp)

	return &App{config: c, logger: logger, userService: us, tokenIssuer: tokens}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := hs.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.tokenIssuer, app.config.CORSAllowedOrigins)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
