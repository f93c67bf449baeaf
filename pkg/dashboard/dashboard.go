package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/diag"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/savings"
)

var logger = diag.CreateLogger()

const (
	staffRecentEntries   = 10
	staffTopAccounts     = 5
	accountRecentEntries = 10
	publicRecentEntries  = 5
)

// Period is a half open [From, To) time range
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// MonthOf returns a calendar month (UTC) containing given time
func MonthOf(now time.Time) Period {
	now = now.UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{From: from, To: from.AddDate(0, 1, 0)}
}

// StatusCounts is a number of accounts per status
type StatusCounts map[savings.AccountStatus]int

// StaffDashboard summarizes all active accounts
type StaffDashboard struct {
	ActiveAccounts int                      `json:"activeAccounts"`
	TotalBalance   decimal.Decimal          `json:"totalBalance"`
	Month          Period                   `json:"month"`
	MonthTotals    savings.EntryTotals      `json:"monthTotals"`
	RecentEntries  []savings.Entry          `json:"recentEntries"`
	TopAccounts    []savings.AccountBalance `json:"topAccounts"`
}

// AccountDashboard summarizes a single account
type AccountDashboard struct {
	Account        savings.Account     `json:"account"`
	CurrentBalance decimal.Decimal     `json:"currentBalance"`
	Month          Period              `json:"month"`
	MonthTotals    savings.EntryTotals `json:"monthTotals"`
	RecentEntries  []savings.Entry     `json:"recentEntries"`
}

// PublicSummary is shown to anonymous visitors
type PublicSummary struct {
	ActiveAccounts     int             `json:"activeAccounts"`
	TotalBalance       decimal.Decimal `json:"totalBalance"`
	RecentEntriesCount int             `json:"recentEntriesCount"`
	RecentEntries      []savings.Entry `json:"recentEntries"`
}

// Aggregator computes read only rollups over accounts and entries
type Aggregator interface {
	TotalBalance(ctx context.Context, accounts []savings.Account) (decimal.Decimal, error)
	CountByStatus(accounts []savings.Account) StatusCounts

	// TopByBalance returns n accounts with the highest balance.
	// Accounts with the same balance are ordered by id
	TopByBalance(ctx context.Context, accounts []savings.Account, n int) ([]savings.AccountBalance, error)
	PeriodTotals(ctx context.Context, accountID int64, period Period) (*savings.EntryTotals, error)

	StaffDashboard(ctx context.Context, now time.Time) (*StaffDashboard, error)
	AccountDashboard(ctx context.Context, accountID int64, now time.Time) (*AccountDashboard, error)
	PublicSummary(ctx context.Context) (*PublicSummary, error)
}

type aggregator struct {
	ledger   savings.Ledger
	accounts savings.Accounts
}

func (a *aggregator) balances(ctx context.Context, accounts []savings.Account) ([]savings.AccountBalance, error) {
	return a.ledger.Balances(ctx, accounts)
}

func sumBalances(balances []savings.AccountBalance) decimal.Decimal {
	total := decimal.Zero
	for _, balance := range balances {
		total = total.Add(balance.Balance)
	}
	return total
}

func topOf(balances []savings.AccountBalance, n int) []savings.AccountBalance {
	sorted := make([]savings.AccountBalance, len(balances))
	copy(sorted, balances)
	sort.SliceStable(sorted, func(i, j int) bool {
		if cmp := sorted[i].Balance.Cmp(sorted[j].Balance); cmp != 0 {
			return cmp > 0
		}
		return sorted[i].ID < sorted[j].ID
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

func (a *aggregator) TotalBalance(ctx context.Context, accounts []savings.Account) (decimal.Decimal, error) {
	balances, err := a.balances(ctx, accounts)
	if err != nil {
		return decimal.Zero, err
	}
	return sumBalances(balances), nil
}

func (a *aggregator) CountByStatus(accounts []savings.Account) StatusCounts {
	counts := StatusCounts{savings.AccountActive: 0, savings.AccountInactive: 0}
	for _, account := range accounts {
		counts[account.Status]++
	}
	return counts
}

func (a *aggregator) TopByBalance(ctx context.Context, accounts []savings.Account, n int) ([]savings.AccountBalance, error) {
	balances, err := a.balances(ctx, accounts)
	if err != nil {
		return nil, err
	}
	return topOf(balances, n), nil
}

func (a *aggregator) PeriodTotals(ctx context.Context, accountID int64, period Period) (*savings.EntryTotals, error) {
	from, to := period.From, period.To
	return a.ledger.SumEntries(ctx, savings.EntryFilter{AccountID: accountID, From: &from, To: &to})
}

func (a *aggregator) recentEntries(ctx context.Context, accountID int64, n int) ([]savings.Entry, error) {
	page, err := a.ledger.ListEntries(ctx, savings.EntryFilter{AccountID: accountID}, savings.Page{Number: 1, Size: n})
	if err != nil {
		return nil, err
	}
	return page.Entries, nil
}

func (a *aggregator) activeBalances(ctx context.Context) ([]savings.AccountBalance, error) {
	active, err := a.accounts.All(ctx, savings.AccountFilter{Status: savings.AccountActive})
	if err != nil {
		return nil, err
	}
	return a.balances(ctx, active)
}

func (a *aggregator) StaffDashboard(ctx context.Context, now time.Time) (*StaffDashboard, error) {
	balances, err := a.activeBalances(ctx)
	if err != nil {
		return nil, err
	}
	month := MonthOf(now)
	totals, err := a.PeriodTotals(ctx, 0, month)
	if err != nil {
		return nil, err
	}
	recent, err := a.recentEntries(ctx, 0, staffRecentEntries)
	if err != nil {
		return nil, err
	}
	logger.WithData(diag.MsgData{"activeAccounts": len(balances)}).Debug(ctx, "Staff dashboard prepared")
	return &StaffDashboard{
		ActiveAccounts: len(balances),
		TotalBalance:   sumBalances(balances),
		Month:          month,
		MonthTotals:    *totals,
		RecentEntries:  recent,
		TopAccounts:    topOf(balances, staffTopAccounts),
	}, nil
}

func (a *aggregator) AccountDashboard(ctx context.Context, accountID int64, now time.Time) (*AccountDashboard, error) {
	account, err := a.ledger.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	balance, err := a.ledger.CurrentBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}
	month := MonthOf(now)
	totals, err := a.PeriodTotals(ctx, accountID, month)
	if err != nil {
		return nil, err
	}
	recent, err := a.recentEntries(ctx, accountID, accountRecentEntries)
	if err != nil {
		return nil, err
	}
	return &AccountDashboard{
		Account:        *account,
		CurrentBalance: balance,
		Month:          month,
		MonthTotals:    *totals,
		RecentEntries:  recent,
	}, nil
}

func (a *aggregator) PublicSummary(ctx context.Context) (*PublicSummary, error) {
	balances, err := a.activeBalances(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := a.recentEntries(ctx, 0, publicRecentEntries)
	if err != nil {
		return nil, err
	}
	return &PublicSummary{
		ActiveAccounts:     len(balances),
		TotalBalance:       sumBalances(balances),
		RecentEntriesCount: len(recent),
		RecentEntries:      recent,
	}, nil
}

// AggregatorOpt is an option of an aggregator
type AggregatorOpt func(a *aggregator)

// WithLedger will init the aggregator with a ledger
func WithLedger(ledger savings.Ledger) AggregatorOpt {
	return func(a *aggregator) {
		a.ledger = ledger
	}
}

// WithAccounts will init the aggregator with accounts service
func WithAccounts(accounts savings.Accounts) AggregatorOpt {
	return func(a *aggregator) {
		a.accounts = accounts
	}
}

// NewAggregator returns an instance of an aggregator
func NewAggregator(opts ...AggregatorOpt) Aggregator {
	a := &aggregator{}
	for _, opt := range opts {
		opt(a)
	}
	return Aggregator(a)
}
