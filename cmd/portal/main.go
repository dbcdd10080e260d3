package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/go-fee-portal/internal/application/dashboard"
	"github.com/go-fee-portal/internal/application/login"
	"github.com/go-fee-portal/internal/application/navigation"
	"github.com/go-fee-portal/internal/application/otp"
	"github.com/go-fee-portal/internal/application/session"
	"github.com/go-fee-portal/internal/application/splash"
	"github.com/go-fee-portal/internal/config"
	"github.com/go-fee-portal/internal/infrastructure/dynamo"
	"github.com/go-fee-portal/internal/infrastructure/filestore"
	"github.com/go-fee-portal/internal/infrastructure/memory"
	"github.com/go-fee-portal/internal/infrastructure/portal"
	"github.com/go-fee-portal/internal/infrastructure/redisstore"
	"github.com/go-fee-portal/internal/logging"
	"github.com/go-fee-portal/internal/transport/cli"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: .env not loaded: %v", err)
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("session store unavailable", "backend", cfg.SessionBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	client, err := portal.NewClient(cfg.PortalBaseURL, cfg.HTTPTimeout, logger)
	if err != nil {
		logger.Error("invalid portal url", "url", cfg.PortalBaseURL, "error", err)
		os.Exit(1)
	}

	router := navigation.NewRouter(logger)
	sessions := session.NewService(store)

	app := cli.New(cli.Deps{
		Router: router,
		Splash: splash.NewService(splash.ServiceDeps{
			Sessions: sessions, Nav: router, Delay: cfg.SplashDelay, Log: logger,
		}),
		Login: login.NewService(login.ServiceDeps{Portal: client, Nav: router, Log: logger}),
		OTP: otp.NewService(otp.ServiceDeps{
			Portal: client, Sessions: sessions, Nav: router, Log: logger,
		}),
		Dashboard: dashboard.NewService(dashboard.ServiceDeps{
			Portal: client, Sessions: sessions, Nav: router, Log: logger,
		}),
		In:       os.Stdin,
		Out:      os.Stdout,
		Password: cli.TerminalPassword(os.Stdin),
		Log:      logger,
	})

	if err := app.Run(ctx); err != nil {
		logger.Error("terminated", "error", err)
		closeStore()
		os.Exit(1)
	}
}

// openStore builds the configured session backend. The returned func
// releases its connections.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Store, func(), error) {
	noop := func() {}
	switch cfg.SessionBackend {
	case config.BackendFile:
		return filestore.New(cfg.SessionFile, cfg.SessionKey), noop, nil
	case config.BackendMemory:
		return memory.NewStore(), noop, nil
	case config.BackendRedis:
		client, err := redisstore.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewStore(client, cfg.RedisPrefix, cfg.DeviceID), func() { _ = client.Close() }, nil
	case config.BackendDynamo:
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := dynamo.Bootstrap(ctx, client, cfg.DynamoSessionsTable); err != nil {
			logger.Warn("dynamo bootstrap failed", "table", cfg.DynamoSessionsTable, "error", err)
		}
		return dynamo.NewSessionStore(client, cfg.DynamoSessionsTable, cfg.DeviceID), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
}
