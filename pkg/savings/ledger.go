package savings

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/dal"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/diag"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/types"
)

var logger = diag.CreateLogger()

const (
	maxNoteLength    = 500
	maxCodeAttempts  = 5
	minimalAmountStr = "0.01"
)

// Ledger maintains account entries and derives balances from them.
// Balance of an account is a snapshot of its latest entry or the
// opening balance if there are no entries
type Ledger interface {
	GetAccount(ctx context.Context, id int64) (*Account, error)
	CurrentBalance(ctx context.Context, accountID int64) (decimal.Decimal, error)

	// Balances returns current balances of given accounts in the same order
	Balances(ctx context.Context, accounts []Account) ([]AccountBalance, error)

	// AppendEntry validates the entry against current balance and appends it
	AppendEntry(ctx context.Context, newEntry NewEntry) (*Entry, error)

	// DeleteLatestEntry removes the entry only if it is the latest one of the account
	DeleteLatestEntry(ctx context.Context, accountID int64, entryID int64) error

	GetEntry(ctx context.Context, id int64) (*Entry, error)
	GetEntryByCode(ctx context.Context, code string) (*Entry, error)
	ListEntries(ctx context.Context, filter EntryFilter, page Page) (*EntriesPage, error)
	SumEntries(ctx context.Context, filter EntryFilter) (*EntryTotals, error)
}

// EntryListener is notified about committed entry changes
type EntryListener interface {
	EntryRecorded(ctx context.Context, entry *Entry)
	EntryDeleted(ctx context.Context, entry *Entry)
}

type noopListener struct{}

func (noopListener) EntryRecorded(ctx context.Context, entry *Entry) {}

func (noopListener) EntryDeleted(ctx context.Context, entry *Entry) {}

type accountLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func (l *accountLocks) get(accountID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.locks[accountID]; !exists {
		l.locks[accountID] = &sync.Mutex{}
	}
	return l.locks[accountID]
}

type ledger struct {
	storage   dal.Storage
	clock     Clock
	codes     CodeGenerator
	maxAmount decimal.Decimal
	listener  EntryListener
	locks     *accountLocks
}

func balanceOf(account *dal.AccountDTO, latest *dal.EntryDTO) decimal.Decimal {
	if latest == nil {
		return account.OpeningBalance
	}
	return latest.BalanceAfter
}

func (l *ledger) GetAccount(ctx context.Context, id int64) (*Account, error) {
	account, err := l.storage.GetAccount(ctx, id)
	if err != nil {
		return nil, storageError("get account", err, ErrAccountNotFound)
	}
	return accountFromDTO(account), nil
}

func (l *ledger) CurrentBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	account, err := l.storage.GetAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, storageError("get account", err, ErrAccountNotFound)
	}
	latest, err := l.storage.LatestEntry(ctx, accountID)
	if err != nil {
		return decimal.Zero, storageError("get latest entry", err, ErrEntryNotFound)
	}
	return balanceOf(account, latest), nil
}

func latestEntries(ctx context.Context, storage dal.Storage, accountIDs []int64) (map[int64]*dal.EntryDTO, error) {
	latest, err := storage.LatestEntries(ctx, accountIDs)
	if err != nil {
		return nil, storageError("get latest entries", err, ErrEntryNotFound)
	}
	return latest, nil
}

func (l *ledger) Balances(ctx context.Context, accounts []Account) ([]AccountBalance, error) {
	ids := make([]int64, len(accounts))
	for i, account := range accounts {
		ids[i] = account.ID
	}
	latest, err := latestEntries(ctx, l.storage, ids)
	if err != nil {
		return nil, err
	}
	result := make([]AccountBalance, 0, len(accounts))
	for _, account := range accounts {
		balance := account.OpeningBalance
		if entry, ok := latest[account.ID]; ok {
			balance = entry.BalanceAfter
		}
		result = append(result, AccountBalance{Account: account, Balance: balance})
	}
	return result, nil
}

func (l *ledger) validateNewEntry(newEntry NewEntry) error {
	if !newEntry.Kind.Valid() {
		return newValidationError("kind", "must be one of %v, %v", Deposit, Withdrawal)
	}
	if newEntry.Amount.LessThan(decimal.RequireFromString(minimalAmountStr)) {
		return newValidationError("amount", "must be at least %v", minimalAmountStr)
	}
	if newEntry.Amount.GreaterThan(l.maxAmount) {
		return newValidationError("amount", "must not exceed %v", types.FormatAmount(l.maxAmount))
	}
	if !types.IsCentPrecise(newEntry.Amount) {
		return newValidationError("amount", "must have at most %v fractional digits", types.AmountPlaces)
	}
	if utf8.RuneCountInString(newEntry.Note) > maxNoteLength {
		return newValidationError("note", "must not be longer than %v characters", maxNoteLength)
	}
	if newEntry.AccountID <= 0 {
		return newValidationError("accountId", "is required")
	}
	return nil
}

func (l *ledger) uniqueCode(ctx context.Context, tx dal.AccountTx, now time.Time) (string, error) {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code := l.codes.NewCode(now)
		exists, err := tx.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		logger.WithData(diag.MsgData{"code": code, "attempt": attempt}).
			Warn(ctx, "Generated entry code is taken, regenerating")
	}
	return "", errors.Errorf("Failed to generate unique entry code in %v attempts", maxCodeAttempts)
}

func (l *ledger) AppendEntry(ctx context.Context, newEntry NewEntry) (*Entry, error) {
	if err := l.validateNewEntry(newEntry); err != nil {
		logger.WithError(err).Info(ctx, "Rejecting invalid entry")
		return nil, err
	}

	lock := l.locks.get(newEntry.AccountID)
	lock.Lock()
	defer lock.Unlock()

	entry, err := l.insertEntry(ctx, newEntry)
	if err != nil {
		err = storageError("append entry", err, ErrAccountNotFound)
		logger.WithError(err).Info(ctx, "Failed to append %v entry to account %v", newEntry.Kind, newEntry.AccountID)
		return nil, err
	}

	result := entryFromDTO(entry)
	logger.
		WithData(diag.MsgData{"code": result.Code, "balanceAfter": types.FormatAmount(result.BalanceAfter)}).
		Info(ctx, "Appended %v entry to account %v", result.Kind, result.AccountID)
	l.listener.EntryRecorded(ctx, result)
	return result, nil
}

// insertEntry retries with a new transaction if the code was taken
// by a concurrent append that was not visible to the code check.
// Caller must hold the account lock
func (l *ledger) insertEntry(ctx context.Context, newEntry NewEntry) (*dal.EntryDTO, error) {
	var err error
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		var entry *dal.EntryDTO
		entry, err = l.tryInsertEntry(ctx, newEntry)
		if !errors.Is(err, dal.ErrDuplicateCode) {
			return entry, err
		}
		logger.WithData(diag.MsgData{"attempt": attempt}).
			Warn(ctx, "Entry code was taken on insert, retrying")
	}
	return nil, errors.Wrapf(err, "Failed to insert entry in %v attempts", maxCodeAttempts)
}

func (l *ledger) tryInsertEntry(ctx context.Context, newEntry NewEntry) (*dal.EntryDTO, error) {
	var entry *dal.EntryDTO
	err := l.storage.WithinAccount(ctx, newEntry.AccountID, func(tx dal.AccountTx) error {
		latest, err := tx.LatestEntry(ctx)
		if err != nil {
			return err
		}
		before := balanceOf(tx.Account(), latest)
		after := before.Add(newEntry.Amount)
		if newEntry.Kind == Withdrawal {
			after = before.Sub(newEntry.Amount)
			if after.IsNegative() {
				return errors.Wrapf(ErrInsufficientBalance,
					"balance %v is less than %v", types.FormatAmount(before), types.FormatAmount(newEntry.Amount))
			}
		}

		now := l.clock.Now().UTC().Truncate(time.Second)
		code, err := l.uniqueCode(ctx, tx, now)
		if err != nil {
			return err
		}

		entry = &dal.EntryDTO{
			Code:         code,
			AccountID:    newEntry.AccountID,
			Kind:         string(newEntry.Kind),
			Amount:       newEntry.Amount,
			BalanceAfter: after,
			Note:         newEntry.Note,
			HandledBy:    newEntry.HandledBy,
			CreatedAt:    now,
		}
		if latest != nil {
			entry.PrevEntryID = latest.ID
		}
		return tx.InsertEntry(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (l *ledger) DeleteLatestEntry(ctx context.Context, accountID int64, entryID int64) error {
	target, err := l.storage.GetEntry(ctx, entryID)
	if err != nil {
		return storageError("get entry", err, ErrEntryNotFound)
	}
	if target.AccountID != accountID {
		return ErrEntryNotFound
	}

	lock := l.locks.get(accountID)
	lock.Lock()
	defer lock.Unlock()

	var deleted *dal.EntryDTO
	err = l.storage.WithinAccount(ctx, accountID, func(tx dal.AccountTx) error {
		latest, err := tx.LatestEntry(ctx)
		if err != nil {
			return err
		}
		if latest == nil {
			return ErrEntryNotFound
		}
		if latest.ID != entryID {
			return ErrNotLatestEntry
		}
		if err := tx.DeleteEntry(ctx, entryID); err != nil {
			return err
		}
		deleted = latest
		return nil
	})
	if err != nil {
		err = storageError("delete entry", err, ErrAccountNotFound)
		logger.WithError(err).Info(ctx, "Failed to delete entry %v of account %v", entryID, accountID)
		return err
	}

	result := entryFromDTO(deleted)
	logger.WithData(diag.MsgData{"code": result.Code}).Info(ctx, "Deleted latest entry of account %v", accountID)
	l.listener.EntryDeleted(ctx, result)
	return nil
}

func (l *ledger) GetEntry(ctx context.Context, id int64) (*Entry, error) {
	entry, err := l.storage.GetEntry(ctx, id)
	if err != nil {
		return nil, storageError("get entry", err, ErrEntryNotFound)
	}
	return entryFromDTO(entry), nil
}

func (l *ledger) GetEntryByCode(ctx context.Context, code string) (*Entry, error) {
	entry, err := l.storage.GetEntryByCode(ctx, code)
	if err != nil {
		return nil, storageError("get entry", err, ErrEntryNotFound)
	}
	return entryFromDTO(entry), nil
}

func validateEntryFilter(filter EntryFilter) error {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return newValidationError("kind", "must be one of %v, %v", Deposit, Withdrawal)
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return newValidationError("to", "must not be before from")
	}
	return nil
}

func (l *ledger) ListEntries(ctx context.Context, filter EntryFilter, page Page) (*EntriesPage, error) {
	if err := validateEntryFilter(filter); err != nil {
		return nil, err
	}
	page = page.normalize(DefaultEntriesPageSize)
	query := entriesQuery(filter)
	query.Limit = page.Size
	query.Offset = page.offset()
	entries, total, err := l.storage.ListEntries(ctx, query)
	if err != nil {
		return nil, storageError("list entries", err, ErrEntryNotFound)
	}
	result := &EntriesPage{
		Entries:  make([]Entry, 0, len(entries)),
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	}
	for i := range entries {
		result.Entries = append(result.Entries, *entryFromDTO(&entries[i]))
	}
	return result, nil
}

func (l *ledger) SumEntries(ctx context.Context, filter EntryFilter) (*EntryTotals, error) {
	if err := validateEntryFilter(filter); err != nil {
		return nil, err
	}
	totals, err := l.storage.SumEntries(ctx, entriesQuery(filter))
	if err != nil {
		return nil, storageError("sum entries", err, ErrEntryNotFound)
	}
	return &EntryTotals{
		Deposits:    totals.Deposits,
		Withdrawals: totals.Withdrawals,
		Count:       totals.Count,
	}, nil
}

// LedgerOpt is an option of a ledger
type LedgerOpt func(l *ledger)

// WithStorage will init the ledger with storage
func WithStorage(storage dal.Storage) LedgerOpt {
	return func(l *ledger) {
		l.storage = storage
	}
}

// WithClock will init the ledger with a clock used to timestamp entries
func WithClock(clock Clock) LedgerOpt {
	return func(l *ledger) {
		l.clock = clock
	}
}

// WithCodeGenerator will init the ledger with a transaction code generator
func WithCodeGenerator(codes CodeGenerator) LedgerOpt {
	return func(l *ledger) {
		l.codes = codes
	}
}

// WithMaxAmount sets the largest amount of a single entry
func WithMaxAmount(maxAmount decimal.Decimal) LedgerOpt {
	return func(l *ledger) {
		l.maxAmount = maxAmount
	}
}

// WithEntryListener will notify a listener about committed entries
func WithEntryListener(listener EntryListener) LedgerOpt {
	return func(l *ledger) {
		l.listener = listener
	}
}

// NewLedger returns an instance of a ledger
func NewLedger(opts ...LedgerOpt) Ledger {
	l := &ledger{
		clock:     SystemClock,
		maxAmount: types.DefaultMaxAmount,
		listener:  noopListener{},
		locks:     &accountLocks{locks: map[int64]*sync.Mutex{}},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.codes == nil {
		l.codes = NewRandomCodeGenerator(time.Now().UnixNano())
	}
	return Ledger(l)
}
