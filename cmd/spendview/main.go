package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"spendview/internal/amqp"
	"spendview/internal/auth"
	"spendview/internal/cli"
	apphttp "spendview/internal/http"
	"spendview/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)

	cfg := cli.LoadAndValidateConfig(logger)
	loader := cli.SelectLoader(logger, cfg)
	logger.Info("Initialized data source", "data_source", cfg.DataSource)

	// AMQP is optional: without it the refresh button is disabled.
	var publisher apphttp.RefreshPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP refresh publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	var authenticator *auth.Authenticator
	if cfg.AuthEnabled() {
		authenticator = auth.NewAuthenticator(cfg.AuthUsername, cfg.AuthPasswordHash)
		logger.Info("Dashboard auth enabled", "username", cfg.AuthUsername)
	} else {
		logger.Warn("Dashboard auth disabled - no AUTH_PASSWORD_HASH provided")
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:          ":" + cfg.Port,
		Loader:        loader,
		Publisher:     publisher,
		Authenticator: authenticator,
		Sessions:      auth.NewSessionStore(cfg.SessionTTL),
		AuthEnabled:   cfg.AuthEnabled(),
		CacheTTL:      cfg.CacheTTL,
		Logger:        logger,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting spendview server", "port", cfg.Port, "data_source", cfg.DataSource)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
