package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/diag"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/savings"
)

var sampleAccounts = []savings.NewAccount{
	{
		AccountProfile: savings.AccountProfile{
			Reference:     "2024001",
			Name:          "Alice Johnson",
			Gender:        savings.GenderFemale,
			ClassGrade:    "5A",
			GuardianName:  "Mary Johnson",
			ContactNumber: "+1234567890",
			Status:        savings.AccountActive,
		},
		OpeningBalance: decimal.RequireFromString("50.00"),
	},
	{
		AccountProfile: savings.AccountProfile{
			Reference:     "2024002",
			Name:          "Bob Smith",
			Gender:        savings.GenderMale,
			ClassGrade:    "5A",
			GuardianName:  "Robert Smith Sr.",
			ContactNumber: "+1234567891",
			Status:        savings.AccountActive,
		},
		OpeningBalance: decimal.RequireFromString("75.00"),
	},
	{
		AccountProfile: savings.AccountProfile{
			Reference:     "2024003",
			Name:          "Carol Davis",
			Gender:        savings.GenderFemale,
			ClassGrade:    "6B",
			GuardianName:  "Jennifer Davis",
			ContactNumber: "+1234567892",
			Status:        savings.AccountActive,
		},
		OpeningBalance: decimal.RequireFromString("100.00"),
	},
}

// seed creates sample accounts, existing references are skipped
func seed(ctx context.Context, accounts savings.Accounts) error {
	for _, newAccount := range sampleAccounts {
		account, err := accounts.Create(ctx, newAccount)
		if errors.Is(err, savings.ErrDuplicateReference) {
			logger.Info(ctx, "Account %v already exists", newAccount.Reference)
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "Failed to seed account %v", newAccount.Reference)
		}
		logger.WithData(diag.MsgData{"accountID": account.ID}).Info(ctx, "Seeded account %v", account.Reference)
	}
	return nil
}
