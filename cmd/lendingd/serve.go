package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-go/config"
	"github.com/AntonStoeckl/library-lending-go/lending/httpapi"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
)

func newServeCommand(a *app) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run the expiry sweeper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "create the events table before serving")

	return cmd
}

func (a *app) serve(ctx context.Context, migrate bool) error {
	if a.cfg.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET is required to serve", config.ErrInvalidConfig)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := buildRuntime(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}

	if migrate {
		if err := rt.store.Migrate(ctx); err != nil {
			rt.close()
			return fmt.Errorf("migrating %s event store: %w", a.cfg.DBDriver, err)
		}
	}

	server := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           httpapi.NewServer(rt.service, []byte(a.cfg.JWTSecret), a.logger),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		rt.service.Sweeper().Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		a.logger.InfoContext(ctx, "server started", "addr", a.cfg.HTTPAddr, "driver", a.cfg.DBDriver)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}

		close(serveErr)
	}()

	var runErr error

	select {
	case <-ctx.Done():
		a.logger.InfoContext(ctx, "shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.ErrorContext(shutdownCtx, "server forced to shutdown", "error", err.Error())
	}

	wg.Wait()
	rt.shutdown(shutdownCtx)

	a.logger.InfoContext(shutdownCtx, "server stopped")

	return runErr
}
