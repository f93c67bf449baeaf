package dal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/diag"
)

var logger = diag.CreateLogger()

var (
	// ErrNotFound is returned when requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateReference is returned when account reference is already taken
	ErrDuplicateReference = errors.New("duplicate account reference")

	// ErrDuplicateCode is returned when entry code is already taken
	ErrDuplicateCode = errors.New("duplicate entry code")

	// ErrConcurrentUpdate is returned when an entry was appended on top of
	// an entry that is no longer the latest one
	ErrConcurrentUpdate = errors.New("concurrent update of account entries")
)

// AccountDTO is a DTO to store an account
type AccountDTO struct {
	ID             int64
	Reference      string
	Name           string
	Gender         string
	ClassGrade     string
	Address        string
	GuardianName   string
	ContactNumber  string
	Status         string
	OpeningBalance decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EntryDTO is a DTO to store a ledger entry
type EntryDTO struct {
	ID int64

	Code      string
	AccountID int64

	// PrevEntryID is an id of an entry that was the latest when this one
	// was appended. Zero for the first entry of an account
	PrevEntryID  int64
	Kind         string
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Note         string
	HandledBy    int64
	CreatedAt    time.Time

	// Populated when listing
	AccountName      string
	AccountReference string
}

// AccountsQuery filters accounts. Zero values are ignored
type AccountsQuery struct {
	Search     string
	Status     string
	ClassGrade string

	// Limit of zero means no limit
	Limit  int
	Offset int
}

// EntriesQuery filters entries. Zero values are ignored
type EntriesQuery struct {
	AccountID int64
	Kind      string

	// From is inclusive
	From *time.Time

	// To is exclusive
	To *time.Time

	Search string

	// Limit of zero means no limit
	Limit  int
	Offset int
}

// EntryTotalsDTO holds sums of entries grouped by kind
type EntryTotalsDTO struct {
	Deposits    decimal.Decimal
	Withdrawals decimal.Decimal
	Count       int
}

// AccountTx gives access to an account and its entries within a single
// storage transaction. The account row is locked where a driver supports it
type AccountTx interface {
	Account() *AccountDTO
	LatestEntry(ctx context.Context) (*EntryDTO, error)
	HasEntries(ctx context.Context) (bool, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	InsertEntry(ctx context.Context, entry *EntryDTO) error
	DeleteEntry(ctx context.Context, id int64) error
	DeleteAccount(ctx context.Context) error
}

// Storage is a persistance layer
//
//go:generate mockgen -destination=mocks/mock_storage.go -package=mocks -source=storage.go Storage,AccountTx
type Storage interface {
	Setup(ctx context.Context) error

	InsertAccount(ctx context.Context, account *AccountDTO) error
	UpdateAccount(ctx context.Context, account *AccountDTO) error
	GetAccount(ctx context.Context, id int64) (*AccountDTO, error)
	ListAccounts(ctx context.Context, query AccountsQuery) ([]AccountDTO, int, error)
	ClassGrades(ctx context.Context) ([]string, error)

	// LatestEntry returns nil if account has no entries
	LatestEntry(ctx context.Context, accountID int64) (*EntryDTO, error)

	// LatestEntries returns latest entries keyed by account id.
	// Accounts without entries are not included
	LatestEntries(ctx context.Context, accountIDs []int64) (map[int64]*EntryDTO, error)
	GetEntry(ctx context.Context, id int64) (*EntryDTO, error)
	GetEntryByCode(ctx context.Context, code string) (*EntryDTO, error)
	ListEntries(ctx context.Context, query EntriesQuery) ([]EntryDTO, int, error)
	SumEntries(ctx context.Context, query EntriesQuery) (*EntryTotalsDTO, error)

	// WithinAccount runs fn in a transaction bound to the account.
	// Commits if fn returns nil, rolls back otherwise.
	// Returns ErrNotFound if there is no such account
	WithinAccount(ctx context.Context, accountID int64, fn func(tx AccountTx) error) error
}
