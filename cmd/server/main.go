package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/api"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/app"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/events"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/idempotency"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/diag"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/router"
)

var logger = diag.CreateLogger()

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.WithError(err).Warn(ctx, "Failed to load .env file")
	}

	appCfg, err := app.LoadConfig()
	if err != nil {
		logger.WithError(err).Error(ctx, "Failed to load app config")
		os.Exit(1)
	}

	diag.SetupLoggingSystem(func(setup diag.LoggingSystemSetup) {
		setup.SetLogLevel(appCfg.Log.Level.Value())
	})

	injector := app.BootstrapServices(appCfg)

	if err := injector(func(apiSvc api.API, publisher events.Publisher, store idempotency.Store) error {
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.WithError(err).Warn(ctx, "Failed to close events publisher")
			}
			if err := store.Close(); err != nil {
				logger.WithError(err).Warn(ctx, "Failed to close idempotency store")
			}
		}()
		return router.StartServer(ctx, appCfg.Server.Port.Value(), apiSvc.SetupRoutes)
	}); err != nil {
		logger.WithError(err).Error(ctx, "Server failed")
		os.Exit(1)
	}
	logger.Info(ctx, "Server stopped")
}
