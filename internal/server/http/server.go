// Package http binds the authentication protocol to its HTTP JSON surface
// under /api/auth, mirroring the envelope the frontend expects.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/streamly/authd/internal/logging"
	"github.com/streamly/authd/internal/server/auth"
	"github.com/streamly/authd/internal/server/users"
)

type HTTPServer struct {
	address        string
	logger         logging.Logger
	handler        *Handler
	allowedOrigins []string
}

func NewHTTPServer(a string, l logging.Logger, us *users.Service, tokens *auth.TokenIssuer, allowedOrigins []string) (*HTTPServer, error) {
	return &HTTPServer{
		address:        a,
		logger:         l.With("module", "http_server"),
		handler:        NewHandler(us, tokens, l),
		allowedOrigins: allowedOrigins,
	}, nil
}

func (s *HTTPServer) Run(ctx context.Context) error {

	router := mux.NewRouter()
	s.handler.Register(router)

	c := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	srv := &http.Server{
		Addr:              s.address,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
