package app

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/dig"

	// Storage drivers
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/evgeny-myasishchev/savings-ledger/config"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/api"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/dal"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/dashboard"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/events"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/idempotency"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/diag"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/savings"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/types"
)

var logger = diag.CreateLogger()

// Injector is a function that will inject desired services
// to a target function
type Injector func(function interface{}) error

func maxAmount(appCfg *config.AppConfig) (decimal.Decimal, error) {
	value := appCfg.Ledger.MaxAmount.Value()
	if value.IsZero() {
		return types.DefaultMaxAmount, nil
	}
	if value.IsNegative() || !types.IsCentPrecise(value) {
		return decimal.Zero, errors.Errorf("Bad ledger max amount: %v", value)
	}
	return value, nil
}

// BootstrapServices setup di container with all app services
func BootstrapServices(appCfg *config.AppConfig) Injector {
	c := dig.New()

	c.Provide(func() (*sql.DB, error) {
		db, err := sql.Open(appCfg.Storage.Driver.Value(), appCfg.Storage.DSN.Value())
		if err != nil {
			return nil, err
		}
		if appCfg.Storage.Driver.Value() == "sqlite3" {
			// sqlite allows a single writer
			db.SetMaxOpenConns(1)
		}
		return db, nil
	})

	c.Provide(func(db *sql.DB) (dal.Storage, error) {
		storage, err := dal.NewSQLStorage(dal.WithSQLDb(db), dal.WithDriver(appCfg.Storage.Driver.Value()))
		if err != nil {
			return nil, err
		}
		if appCfg.Storage.AutoSetup.Value() {
			if err := storage.Setup(context.Background()); err != nil {
				return nil, errors.Wrap(err, "Failed to setup storage")
			}
		}
		return storage, nil
	})

	c.Provide(func() (events.Publisher, error) {
		brokers := appCfg.Events.Brokers.List()
		if len(brokers) == 0 {
			logger.Info(context.Background(), "No event brokers configured, entry events will not be published")
			return events.NewNoopPublisher(), nil
		}
		return events.NewPublisher(events.WithBrokers(brokers, appCfg.Events.Topic.Value()))
	})

	c.Provide(func(storage dal.Storage, publisher events.Publisher) (savings.Ledger, error) {
		max, err := maxAmount(appCfg)
		if err != nil {
			return nil, err
		}
		return savings.NewLedger(
			savings.WithStorage(storage),
			savings.WithMaxAmount(max),
			savings.WithEntryListener(publisher),
		), nil
	})

	c.Provide(func(storage dal.Storage) (savings.Accounts, error) {
		max, err := maxAmount(appCfg)
		if err != nil {
			return nil, err
		}
		return savings.NewAccounts(
			savings.WithAccountsStorage(storage),
			savings.WithMaxOpeningBalance(max),
		), nil
	})

	c.Provide(func(ledger savings.Ledger, accounts savings.Accounts) dashboard.Aggregator {
		return dashboard.NewAggregator(
			dashboard.WithLedger(ledger),
			dashboard.WithAccounts(accounts),
		)
	})

	c.Provide(func() (idempotency.Store, error) {
		return idempotency.OpenBoltStore(appCfg.Idempotency.DBPath.Value())
	})

	c.Provide(func(
		ledger savings.Ledger,
		accounts savings.Accounts,
		aggregator dashboard.Aggregator,
		store idempotency.Store,
	) api.API {
		return api.NewAPI(
			api.WithLedger(ledger),
			api.WithAccounts(accounts),
			api.WithAggregator(aggregator),
			api.WithIdempotencyStore(store),
		)
	})

	return func(function interface{}) error {
		return c.Invoke(function)
	}
}
