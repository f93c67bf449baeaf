package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	uuid "github.com/satori/go.uuid"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/app"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/client"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/diag"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/savings"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/types"
)

var logger = diag.CreateLogger()

var cliArgs struct {
	cmd     string
	account int64
	entry   int64
	amount  string
	note    string
	key     string
	page    int
}

func init() {
	flag.StringVar(&cliArgs.cmd, "cmd", "", "Command to run. Available commands: balance, entries, deposit, withdraw, delete")
	flag.Int64Var(&cliArgs.account, "account", 0, "Account id")
	flag.Int64Var(&cliArgs.entry, "entry", 0, "Entry id to delete")
	flag.StringVar(&cliArgs.amount, "amount", "", "Amount of deposit or withdrawal, like 10.50")
	flag.StringVar(&cliArgs.note, "note", "", "Optional note of an entry")
	flag.StringVar(&cliArgs.key, "key", "", "Idempotency key of an entry. Random if not provided")
	flag.IntVar(&cliArgs.page, "page", 1, "Page of entries to list")

	flag.Parse()
}

func showHelpAndExit() {
	flag.PrintDefaults()
	os.Exit(1)
}

func printJSON(value interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func appendEntry(ctx context.Context, c client.Client, kind savings.EntryKind) error {
	amount, err := types.ParseAmount(cliArgs.amount)
	if err != nil {
		return err
	}
	key := cliArgs.key
	if key == "" {
		key = uuid.NewV4().String()
	}
	entry, err := c.AppendEntry(ctx, savings.NewEntry{
		AccountID: cliArgs.account,
		Kind:      kind,
		Amount:    amount,
		Note:      cliArgs.note,
	}, key)
	if err != nil {
		return err
	}
	return printJSON(entry)
}

func run(ctx context.Context, c client.Client) error {
	switch cliArgs.cmd {
	case "balance":
		balance, err := c.Balance(ctx, cliArgs.account)
		if err != nil {
			return err
		}
		fmt.Println(types.FormatAmount(balance.Balance))
		return nil
	case "entries":
		page, err := c.ListEntries(ctx, client.EntriesQuery{AccountID: cliArgs.account, Page: cliArgs.page})
		if err != nil {
			return err
		}
		for _, entry := range page.Entries {
			fmt.Printf("%v\t%v\t%v\t%v\t%v\n",
				entry.Code,
				entry.CreatedAt.Format("2006-01-02 15:04:05"),
				entry.Kind,
				types.FormatAmount(entry.Amount),
				types.FormatAmount(entry.BalanceAfter),
			)
		}
		fmt.Printf("Page %v, total entries: %v\n", page.Page, page.Total)
		return nil
	case "deposit":
		return appendEntry(ctx, c, savings.Deposit)
	case "withdraw":
		return appendEntry(ctx, c, savings.Withdrawal)
	case "delete":
		if cliArgs.entry == 0 {
			showHelpAndExit()
		}
		return c.DeleteEntry(ctx, cliArgs.entry)
	default:
		showHelpAndExit()
		return nil
	}
}

func main() {
	if cliArgs.cmd == "" || (cliArgs.account == 0 && cliArgs.cmd != "delete") {
		showHelpAndExit()
	}
	ctx := context.Background()

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

	c := client.NewClient(
		appCfg.Client.API.Value(),
		client.WithActor(int64(appCfg.Client.ActorID.Value()), appCfg.Client.ActorRole.Value()),
	)

	if err := run(ctx, c); err != nil {
		logger.WithError(err).Error(ctx, "Command %v failed", cliArgs.cmd)
		os.Exit(1)
	}
}
