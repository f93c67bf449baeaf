package savings

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/dal"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/diag"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/types"
)

// Accounts manages savings accounts
type Accounts interface {
	Create(ctx context.Context, newAccount NewAccount) (*Account, error)

	// Update changes profile and status. Opening balance can not be changed
	Update(ctx context.Context, id int64, profile AccountProfile) (*Account, error)

	// Delete removes an account that has no entries
	Delete(ctx context.Context, id int64) error

	Get(ctx context.Context, id int64) (*AccountBalance, error)
	List(ctx context.Context, filter AccountFilter, page Page) (*AccountsPage, error)

	// All returns every account matching the filter, newest first
	All(ctx context.Context, filter AccountFilter) ([]Account, error)
	ClassGrades(ctx context.Context) ([]string, error)
}

type accounts struct {
	storage   dal.Storage
	clock     Clock
	maxAmount decimal.Decimal
}

func checkLength(field string, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return newValidationError(field, "must not be longer than %v characters", max)
	}
	return nil
}

func normalizeProfile(profile AccountProfile) (AccountProfile, error) {
	profile.Reference = strings.TrimSpace(profile.Reference)
	profile.Name = strings.TrimSpace(profile.Name)
	profile.ClassGrade = strings.TrimSpace(profile.ClassGrade)
	if profile.Status == "" {
		profile.Status = AccountActive
	}

	if profile.Reference == "" {
		return profile, newValidationError("reference", "is required")
	}
	if profile.Name == "" {
		return profile, newValidationError("name", "is required")
	}
	if profile.ClassGrade == "" {
		return profile, newValidationError("classGrade", "is required")
	}
	if !profile.Gender.Valid() {
		return profile, newValidationError("gender", "must be one of %v, %v, %v", GenderMale, GenderFemale, GenderOther)
	}
	if !profile.Status.Valid() {
		return profile, newValidationError("status", "must be one of %v, %v", AccountActive, AccountInactive)
	}
	for _, check := range []struct {
		field string
		value string
		max   int
	}{
		{"reference", profile.Reference, 20},
		{"name", profile.Name, 255},
		{"classGrade", profile.ClassGrade, 10},
		{"guardianName", profile.GuardianName, 255},
		{"contactNumber", profile.ContactNumber, 20},
	} {
		if err := checkLength(check.field, check.value, check.max); err != nil {
			return profile, err
		}
	}
	return profile, nil
}

func (a *accounts) now() time.Time {
	return a.clock.Now().UTC().Truncate(time.Second)
}

func (a *accounts) Create(ctx context.Context, newAccount NewAccount) (*Account, error) {
	profile, err := normalizeProfile(newAccount.AccountProfile)
	if err != nil {
		return nil, err
	}
	if newAccount.OpeningBalance.IsNegative() {
		return nil, newValidationError("openingBalance", "must not be negative")
	}
	if newAccount.OpeningBalance.GreaterThan(a.maxAmount) {
		return nil, newValidationError("openingBalance", "must not exceed %v", types.FormatAmount(a.maxAmount))
	}
	if !types.IsCentPrecise(newAccount.OpeningBalance) {
		return nil, newValidationError("openingBalance", "must have at most %v fractional digits", types.AmountPlaces)
	}

	now := a.now()
	dto := &dal.AccountDTO{
		OpeningBalance: newAccount.OpeningBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	applyProfile(dto, profile)
	if err := a.storage.InsertAccount(ctx, dto); err != nil {
		return nil, storageError("create account", err, ErrAccountNotFound)
	}
	logger.WithData(diag.MsgData{"reference": dto.Reference}).Info(ctx, "Account %v created", dto.ID)
	return accountFromDTO(dto), nil
}

func (a *accounts) Update(ctx context.Context, id int64, profile AccountProfile) (*Account, error) {
	profile, err := normalizeProfile(profile)
	if err != nil {
		return nil, err
	}
	dto, err := a.storage.GetAccount(ctx, id)
	if err != nil {
		return nil, storageError("get account", err, ErrAccountNotFound)
	}
	applyProfile(dto, profile)
	dto.UpdatedAt = a.now()
	if err := a.storage.UpdateAccount(ctx, dto); err != nil {
		return nil, storageError("update account", err, ErrAccountNotFound)
	}
	logger.Info(ctx, "Account %v updated", id)
	return accountFromDTO(dto), nil
}

func (a *accounts) Delete(ctx context.Context, id int64) error {
	err := a.storage.WithinAccount(ctx, id, func(tx dal.AccountTx) error {
		hasEntries, err := tx.HasEntries(ctx)
		if err != nil {
			return err
		}
		if hasEntries {
			return ErrAccountHasEntries
		}
		return tx.DeleteAccount(ctx)
	})
	if err != nil {
		return storageError("delete account", err, ErrAccountNotFound)
	}
	logger.Info(ctx, "Account %v deleted", id)
	return nil
}

func (a *accounts) withBalance(ctx context.Context, dto *dal.AccountDTO) (*AccountBalance, error) {
	latest, err := a.storage.LatestEntry(ctx, dto.ID)
	if err != nil {
		return nil, storageError("get latest entry", err, ErrEntryNotFound)
	}
	return &AccountBalance{
		Account: *accountFromDTO(dto),
		Balance: balanceOf(dto, latest),
	}, nil
}

func (a *accounts) Get(ctx context.Context, id int64) (*AccountBalance, error) {
	dto, err := a.storage.GetAccount(ctx, id)
	if err != nil {
		return nil, storageError("get account", err, ErrAccountNotFound)
	}
	return a.withBalance(ctx, dto)
}

func accountsQuery(filter AccountFilter) (dal.AccountsQuery, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return dal.AccountsQuery{}, newValidationError("status", "must be one of %v, %v", AccountActive, AccountInactive)
	}
	return dal.AccountsQuery{
		Search:     filter.Search,
		Status:     string(filter.Status),
		ClassGrade: filter.ClassGrade,
	}, nil
}

func (a *accounts) List(ctx context.Context, filter AccountFilter, page Page) (*AccountsPage, error) {
	query, err := accountsQuery(filter)
	if err != nil {
		return nil, err
	}
	page = page.normalize(DefaultAccountsPageSize)
	query.Limit = page.Size
	query.Offset = page.offset()
	dtos, total, err := a.storage.ListAccounts(ctx, query)
	if err != nil {
		return nil, storageError("list accounts", err, ErrAccountNotFound)
	}
	result := &AccountsPage{
		Accounts: make([]AccountBalance, 0, len(dtos)),
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	}
	ids := make([]int64, len(dtos))
	for i := range dtos {
		ids[i] = dtos[i].ID
	}
	latest, err := latestEntries(ctx, a.storage, ids)
	if err != nil {
		return nil, err
	}
	for i := range dtos {
		result.Accounts = append(result.Accounts, AccountBalance{
			Account: *accountFromDTO(&dtos[i]),
			Balance: balanceOf(&dtos[i], latest[dtos[i].ID]),
		})
	}
	return result, nil
}

func (a *accounts) All(ctx context.Context, filter AccountFilter) ([]Account, error) {
	query, err := accountsQuery(filter)
	if err != nil {
		return nil, err
	}
	dtos, _, err := a.storage.ListAccounts(ctx, query)
	if err != nil {
		return nil, storageError("list accounts", err, ErrAccountNotFound)
	}
	result := make([]Account, 0, len(dtos))
	for i := range dtos {
		result = append(result, *accountFromDTO(&dtos[i]))
	}
	return result, nil
}

func (a *accounts) ClassGrades(ctx context.Context) ([]string, error) {
	grades, err := a.storage.ClassGrades(ctx)
	if err != nil {
		return nil, storageError("list class grades", err, ErrAccountNotFound)
	}
	return grades, nil
}

// AccountsOpt is an option of an accounts service
type AccountsOpt func(a *accounts)

// WithAccountsStorage will init the service with storage
func WithAccountsStorage(storage dal.Storage) AccountsOpt {
	return func(a *accounts) {
		a.storage = storage
	}
}

// WithAccountsClock will init the service with a clock
func WithAccountsClock(clock Clock) AccountsOpt {
	return func(a *accounts) {
		a.clock = clock
	}
}

// WithMaxOpeningBalance sets the largest opening balance
func WithMaxOpeningBalance(maxAmount decimal.Decimal) AccountsOpt {
	return func(a *accounts) {
		a.maxAmount = maxAmount
	}
}

// NewAccounts returns an instance of an accounts service
func NewAccounts(opts ...AccountsOpt) Accounts {
	a := &accounts{
		clock:     SystemClock,
		maxAmount: types.DefaultMaxAmount,
	}
	for _, opt := range opts {
		opt(a)
	}
	return Accounts(a)
}
