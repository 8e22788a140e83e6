package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"dipbuyer/config"
	"dipbuyer/internal/app"
	"dipbuyer/internal/logger"
)

// newServer builds the monitoring HTTP server around the configured router.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func newServer(router http.Handler, port string) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// main is the entry point of the dipbuyer application.
//
// It runs two long-lived components under a shared context:
//   - the buyback loop, polling price and executing dip buys.
//   - the monitoring HTTP API exposing loop state and the journal.
//
// SIGINT/SIGTERM cancels the context; the loop stops at the next cycle
// boundary and the server drains in-flight requests before exiting.
//
// Flags:
//   - --port: Port for the monitoring API. Defaults to value from config (SERVER_PORT).
func main() {
	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize logger (pretty console by default, JSON via LOG_PRETTY=false)
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	port := flag.String("port", config.AppConfig.Server.Port, "Port for the monitoring API")
	flag.Parse()

	bot, router, cleanup, err := app.InitializeApp()
	if err != nil {
		logger.L().Fatal().Err(err).Msg("app init error")
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := newServer(router, *port)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return bot.Run(ctx)
	})

	g.Go(func() error {
		logger.L().Info().Str("port", *port).Msg("monitoring server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.L().Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.L().Fatal().Err(err).Msg("exited with error")
	}
	logger.L().Info().Msg("exited gracefully")
}
