package main

import (
	"context"
	"flag"
	"os"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/app"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/dal"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/diag"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/savings"
)

var logger = diag.CreateLogger()

var cliArgs struct {
	cmd string
}

func init() {
	flag.StringVar(&cliArgs.cmd, "cmd", "", "Command to run. Available commands: setup, seed")
}

func showHelpAndExit() {
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	flag.Parse()
	if cliArgs.cmd == "" {
		showHelpAndExit()
	}
	ctx := context.Background()

	appCfg, err := app.LoadConfig()
	if err != nil {
		logger.WithError(err).Error(ctx, "Failed to load app config")
		os.Exit(1)
	}

	diag.SetupLoggingSystem(func(setup diag.LoggingSystemSetup) {
		setup.SetLogLevel(appCfg.Log.Level.Value())
	})

	injector := app.BootstrapServices(appCfg)

	switch cliArgs.cmd {
	case "setup":
		if err := injector(func(storage dal.Storage) error {
			return storage.Setup(ctx)
		}); err != nil {
			logger.WithError(err).Error(ctx, "Failed to setup storage")
			os.Exit(1)
		}

	case "seed":
		if err := injector(func(storage dal.Storage, accounts savings.Accounts) error {
			if err := storage.Setup(ctx); err != nil {
				return err
			}
			return seed(ctx, accounts)
		}); err != nil {
			logger.WithError(err).Error(ctx, "Failed to seed storage")
			os.Exit(1)
		}

	default:
		flag.PrintDefaults()
		os.Exit(1)
	}
}
