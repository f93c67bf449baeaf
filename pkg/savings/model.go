package savings

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus is a status of an account
type AccountStatus string

// Account statuses
const (
	AccountActive   AccountStatus = "Active"
	AccountInactive AccountStatus = "Inactive"
)

// Valid checks the status is a known one
func (s AccountStatus) Valid() bool {
	return s == AccountActive || s == AccountInactive
}

// Gender of an account holder
type Gender string

// Genders
const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Valid checks the gender is a known one
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// EntryKind is a kind of a ledger entry
type EntryKind string

// Entry kinds
const (
	Deposit    EntryKind = "Deposit"
	Withdrawal EntryKind = "Withdrawal"
)

// Valid checks the kind is a known one
func (k EntryKind) Valid() bool {
	return k == Deposit || k == Withdrawal
}

// Account is a savings account of a student
type Account struct {
	ID             int64           `json:"id"`
	Reference      string          `json:"reference"`
	Name           string          `json:"name"`
	Gender         Gender          `json:"gender"`
	ClassGrade     string          `json:"classGrade"`
	Address        string          `json:"address"`
	GuardianName   string          `json:"guardianName"`
	ContactNumber  string          `json:"contactNumber"`
	Status         AccountStatus   `json:"status"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// AccountProfile holds account fields that may change over time
type AccountProfile struct {
	Reference     string        `json:"reference"`
	Name          string        `json:"name"`
	Gender        Gender        `json:"gender"`
	ClassGrade    string        `json:"classGrade"`
	Address       string        `json:"address"`
	GuardianName  string        `json:"guardianName"`
	ContactNumber string        `json:"contactNumber"`
	Status        AccountStatus `json:"status"`
}

// NewAccount is what is needed to open an account
type NewAccount struct {
	AccountProfile
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// AccountBalance is an account with its derived current balance
type AccountBalance struct {
	Account
	Balance decimal.Decimal `json:"balance"`
}

// AccountFilter filters accounts. Zero values are ignored
type AccountFilter struct {
	Search     string
	Status     AccountStatus
	ClassGrade string
}

// AccountsPage is a page of accounts
type AccountsPage struct {
	Accounts []AccountBalance `json:"accounts"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}

// Entry is an immutable record of a deposit or withdrawal
type Entry struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	AccountID    int64           `json:"accountId"`
	Kind         EntryKind       `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	Note         string          `json:"note"`
	HandledBy    int64           `json:"handledBy"`
	CreatedAt    time.Time       `json:"createdAt"`

	AccountName      string `json:"accountName,omitempty"`
	AccountReference string `json:"accountReference,omitempty"`
}

// NewEntry is a proposed entry to append
type NewEntry struct {
	AccountID int64           `json:"accountId"`
	Kind      EntryKind       `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note"`
	HandledBy int64           `json:"handledBy"`
}

// EntryFilter filters entries. Zero values are ignored
type EntryFilter struct {
	AccountID int64
	Kind      EntryKind

	// From is inclusive
	From *time.Time

	// To is exclusive
	To *time.Time

	Search string
}

// EntriesPage is a page of entries, newest first
type EntriesPage struct {
	Entries  []Entry `json:"entries"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
}

// EntryTotals are sums of entry amounts grouped by kind
type EntryTotals struct {
	Deposits    decimal.Decimal `json:"deposits"`
	Withdrawals decimal.Decimal `json:"withdrawals"`
	Count       int             `json:"count"`
}

// Default page sizes
const (
	DefaultEntriesPageSize  = 15
	DefaultAccountsPageSize = 10
)

// Page bounds
const (
	MaxPageNumber = 100000
	MaxPageSize   = 100
)

// Page selects a page of a list. Number is 1 based
type Page struct {
	Number int
	Size   int
}

func (p Page) normalize(defaultSize int) Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Size < 1 {
		p.Size = defaultSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) offset() int {
	return (p.Number - 1) * p.Size
}
