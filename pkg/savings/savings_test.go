package savings

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/dal"
	tst "github.com/evgeny-myasishchev/savings-ledger/pkg/internal/testing"
)

func init() {
	rand.Seed(time.Now().Unix())
}

func newTestStorage() (dal.Storage, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		panic(err)
	}

	// Each connection gets own in memory db
	db.SetMaxOpenConns(1)

	storage, err := dal.NewSQLStorage(dal.WithSQLDb(db), dal.WithDriver("sqlite3"))
	if err != nil {
		panic(err)
	}
	if err := storage.Setup(context.TODO()); err != nil {
		panic(err)
	}
	return storage, func() { db.Close() }
}

type testEnv struct {
	storage  dal.Storage
	clock    *tst.MockNowService
	ledger   Ledger
	accounts Accounts
}

func newTestEnv(opts ...LedgerOpt) (*testEnv, func()) {
	storage, done := newTestStorage()
	clock := tst.NewMockNowService(time.Now().UTC().Truncate(time.Second))
	ledgerOpts := append([]LedgerOpt{WithStorage(storage), WithClock(clock)}, opts...)
	return &testEnv{
		storage:  storage,
		clock:    clock,
		ledger:   NewLedger(ledgerOpts...),
		accounts: NewAccounts(WithAccountsStorage(storage), WithAccountsClock(clock)),
	}, done
}

func amount(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func randomProfile() AccountProfile {
	return AccountProfile{
		Reference:     fmt.Sprint(rand.Intn(1000000000)),
		Name:          faker.Name(),
		Gender:        GenderFemale,
		ClassGrade:    fmt.Sprint(1+rand.Intn(6), "A"),
		Address:       faker.Sentence(),
		GuardianName:  faker.Name(),
		ContactNumber: faker.Phonenumber(),
		Status:        AccountActive,
	}
}

func randomNewAccount(openingBalance string) NewAccount {
	return NewAccount{AccountProfile: randomProfile(), OpeningBalance: amount(openingBalance)}
}

func (env *testEnv) mustCreateAccount(openingBalance string) *Account {
	return env.mustAccount(randomNewAccount(openingBalance))
}

func (env *testEnv) mustAppend(accountID int64, kind EntryKind, value string) *Entry {
	entry, err := env.ledger.AppendEntry(context.TODO(), NewEntry{
		AccountID: accountID,
		Kind:      kind,
		Amount:    amount(value),
		Note:      faker.Sentence(),
		HandledBy: rand.Int63n(100) + 1,
	})
	if err != nil {
		panic(err)
	}
	env.clock.Advance(time.Second)
	return entry
}

func assertBalance(t *testing.T, env *testEnv, accountID int64, want string) bool {
	got, err := env.ledger.CurrentBalance(context.TODO(), accountID)
	if !assert.NoError(t, err) {
		return false
	}
	return assert.True(t, amount(want).Equal(got), "balance: want %v, got %v", want, got)
}

func (env *testEnv) mustAccount(newAccount NewAccount) *Account {
	account, err := env.accounts.Create(context.TODO(), newAccount)
	if err != nil {
		panic(err)
	}
	return account
}
