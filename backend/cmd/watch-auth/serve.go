package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MoniqueMiko/watch-auth-microservice/backend/internal/router"
	"github.com/MoniqueMiko/watch-auth-microservice/backend/internal/setup"
	"github.com/MoniqueMiko/watch-auth-microservice/backend/internal/transport/natsrpc"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/logger"
)

const (
	shutdownTimeout = 15 * time.Second
	natsAttempts    = 10
)

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the NATS and HTTP transports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg := loadConfig()

	deps, err := setup.SetupDependencies(ctx, cfg)
	if err != nil {
		logger.LogError("failed to initialize dependencies", err)
		return err
	}
	defer deps.Storage.Cleanup()

	if cfg.Public.AutoMigrate {
		if err := deps.Storage.Migrate(); err != nil {
			logger.LogError("auto-migration failed", err)
			return err
		}
	}

	var natsServer *natsrpc.Server
	if cfg.Public.Nats.Url != "" {
		nc, err := natsrpc.Connect(ctx, cfg.Public.Nats.Url, natsAttempts)
		if err != nil {
			logger.LogError("failed to connect to nats", err)
			return err
		}
		natsServer = natsrpc.NewServer(nc, deps.Dispatcher, cfg.Public.Nats.Queue)
		if err := natsServer.Start(); err != nil {
			nc.Close()
			logger.LogError("failed to subscribe", err)
			return err
		}
	} else {
		logger.Log.Warn("nats url not configured, message transport disabled")
	}

	srv := &http.Server{
		Addr:              cfg.Public.Http.Addr,
		Handler:           router.New(deps),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Public.RequestTimeout + 5*time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Log.Info("http server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			logger.LogError("http server failed", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	if natsServer != nil {
		if err := natsServer.Shutdown(shutdownCtx); err != nil {
			logger.LogError("nats shutdown failed", err)
			shutdownErr = errors.Join(shutdownErr, err)
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogError("http shutdown failed", err)
		shutdownErr = errors.Join(shutdownErr, err)
	}

	logger.Log.Info("server stopped")
	return shutdownErr
}
