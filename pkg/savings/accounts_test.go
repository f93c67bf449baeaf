package savings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestAccounts_Create(t *testing.T) {
	type testCase struct {
		name       string
		newAccount func() NewAccount
		wantField  string
	}
	tests := []func() testCase{
		func() testCase {
			return testCase{
				name: "missing reference",
				newAccount: func() NewAccount {
					account := randomNewAccount("0")
					account.Reference = "  "
					return account
				},
				wantField: "reference",
			}
		},
		func() testCase {
			return testCase{
				name: "too long reference",
				newAccount: func() NewAccount {
					account := randomNewAccount("0")
					account.Reference = strings.Repeat("1", 21)
					return account
				},
				wantField: "reference",
			}
		},
		func() testCase {
			return testCase{
				name: "missing name",
				newAccount: func() NewAccount {
					account := randomNewAccount("0")
					account.Name = ""
					return account
				},
				wantField: "name",
			}
		},
		func() testCase {
			return testCase{
				name: "missing class grade",
				newAccount: func() NewAccount {
					account := randomNewAccount("0")
					account.ClassGrade = ""
					return account
				},
				wantField: "classGrade",
			}
		},
		func() testCase {
			return testCase{
				name: "unknown gender",
				newAccount: func() NewAccount {
					account := randomNewAccount("0")
					account.Gender = Gender(faker.Word())
					return account
				},
				wantField: "gender",
			}
		},
		func() testCase {
			return testCase{
				name: "unknown status",
				newAccount: func() NewAccount {
					account := randomNewAccount("0")
					account.Status = "Closed"
					return account
				},
				wantField: "status",
			}
		},
		func() testCase {
			return testCase{
				name: "too long contact number",
				newAccount: func() NewAccount {
					account := randomNewAccount("0")
					account.ContactNumber = strings.Repeat("5", 21)
					return account
				},
				wantField: "contactNumber",
			}
		},
		func() testCase {
			return testCase{
				name:       "negative opening balance",
				newAccount: func() NewAccount { return randomNewAccount("-0.01") },
				wantField:  "openingBalance",
			}
		},
		func() testCase {
			return testCase{
				name:       "opening balance above max",
				newAccount: func() NewAccount { return randomNewAccount("100000000") },
				wantField:  "openingBalance",
			}
		},
		func() testCase {
			return testCase{
				name:       "opening balance with fractions of a cent",
				newAccount: func() NewAccount { return randomNewAccount("1.005") },
				wantField:  "openingBalance",
			}
		},
	}
	for _, tt := range tests {
		tt := tt()
		t.Run(tt.name, func(t *testing.T) {
			env, done := newTestEnv()
			defer done()
			_, err := env.accounts.Create(context.TODO(), tt.newAccount())
			var validationErr *ValidationError
			if assert.True(t, errors.As(err, &validationErr), "unexpected error: %v", err) {
				assert.Equal(t, tt.wantField, validationErr.Field)
			}
			page, err := env.accounts.List(context.TODO(), AccountFilter{}, Page{})
			if assert.NoError(t, err) {
				assert.Equal(t, 0, page.Total)
			}
		})
	}

	t.Run("create with defaults", func(t *testing.T) {
		env, done := newTestEnv()
		defer done()
		newAccount := randomNewAccount("15.50")
		newAccount.Status = ""
		newAccount.Name = " " + newAccount.Name + " "
		account, err := env.accounts.Create(context.TODO(), newAccount)
		if !assert.NoError(t, err) {
			return
		}
		assert.NotZero(t, account.ID)
		assert.Equal(t, AccountActive, account.Status)
		assert.Equal(t, strings.TrimSpace(newAccount.Name), account.Name)
		assert.True(t, env.clock.Now().Equal(account.CreatedAt))
		assert.True(t, env.clock.Now().Equal(account.UpdatedAt))

		got, err := env.accounts.Get(context.TODO(), account.ID)
		if assert.NoError(t, err) {
			assert.Equal(t, account.Reference, got.Reference)
			assert.True(t, amount("15.50").Equal(got.Balance))
		}
	})

	t.Run("duplicate reference", func(t *testing.T) {
		env, done := newTestEnv()
		defer done()
		existing := env.mustCreateAccount("0")
		newAccount := randomNewAccount("0")
		newAccount.Reference = existing.Reference
		_, err := env.accounts.Create(context.TODO(), newAccount)
		assert.Equal(t, ErrDuplicateReference, err)
	})
}

func TestAccounts_Update(t *testing.T) {
	env, done := newTestEnv()
	defer done()
	account := env.mustCreateAccount("20")
	other := env.mustCreateAccount("0")

	t.Run("update profile and status", func(t *testing.T) {
		env.clock.Advance(time.Hour)
		profile := randomProfile()
		profile.Status = AccountInactive
		updated, err := env.accounts.Update(context.TODO(), account.ID, profile)
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, profile.Name, updated.Name)
		assert.Equal(t, AccountInactive, updated.Status)
		assert.True(t, account.OpeningBalance.Equal(updated.OpeningBalance))
		assert.True(t, account.CreatedAt.Equal(updated.CreatedAt))
		assert.True(t, env.clock.Now().Equal(updated.UpdatedAt))

		got, err := env.accounts.Get(context.TODO(), account.ID)
		if assert.NoError(t, err) {
			assert.Equal(t, profile.Reference, got.Reference)
			assert.True(t, amount("20").Equal(got.Balance))
		}
	})

	t.Run("taken reference", func(t *testing.T) {
		profile := randomProfile()
		profile.Reference = other.Reference
		_, err := env.accounts.Update(context.TODO(), account.ID, profile)
		assert.Equal(t, ErrDuplicateReference, err)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := env.accounts.Update(context.TODO(), other.ID+100, randomProfile())
		assert.Equal(t, ErrAccountNotFound, err)
	})

	t.Run("invalid profile", func(t *testing.T) {
		profile := randomProfile()
		profile.Gender = ""
		_, err := env.accounts.Update(context.TODO(), account.ID, profile)
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestAccounts_Delete(t *testing.T) {
	env, done := newTestEnv()
	defer done()

	t.Run("delete account without entries", func(t *testing.T) {
		account := env.mustCreateAccount("10")
		if !assert.NoError(t, env.accounts.Delete(context.TODO(), account.ID)) {
			return
		}
		_, err := env.accounts.Get(context.TODO(), account.ID)
		assert.Equal(t, ErrAccountNotFound, err)
	})

	t.Run("refuse to delete account with entries", func(t *testing.T) {
		account := env.mustCreateAccount("10")
		env.mustAppend(account.ID, Deposit, "1")
		assert.Equal(t, ErrAccountHasEntries, env.accounts.Delete(context.TODO(), account.ID))
		assertBalance(t, env, account.ID, "11")
	})

	t.Run("unknown account", func(t *testing.T) {
		assert.Equal(t, ErrAccountNotFound, env.accounts.Delete(context.TODO(), 100000))
	})
}

func TestAccounts_List(t *testing.T) {
	env, done := newTestEnv()
	defer done()

	created := make([]*Account, 0, 12)
	for i := 0; i < 12; i++ {
		newAccount := randomNewAccount("1.00")
		newAccount.ClassGrade = "3C"
		created = append(created, env.mustAccount(newAccount))
	}
	env.mustAppend(created[11].ID, Deposit, "4.00")
	inactive := randomNewAccount("0")
	inactive.Status = AccountInactive
	inactive.ClassGrade = "1A"
	inactive.Name = "Zed Inactive"
	inactiveAccount := env.mustAccount(inactive)

	t.Run("first page newest first with balances", func(t *testing.T) {
		page, err := env.accounts.List(context.TODO(), AccountFilter{ClassGrade: "3C"}, Page{})
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, 12, page.Total)
		assert.Equal(t, DefaultAccountsPageSize, page.PageSize)
		if assert.Len(t, page.Accounts, DefaultAccountsPageSize) {
			assert.Equal(t, created[11].ID, page.Accounts[0].ID)
			assert.True(t, amount("5.00").Equal(page.Accounts[0].Balance))
			assert.True(t, amount("1.00").Equal(page.Accounts[1].Balance))
		}
	})

	t.Run("second page", func(t *testing.T) {
		page, err := env.accounts.List(context.TODO(), AccountFilter{ClassGrade: "3C"}, Page{Number: 2})
		if !assert.NoError(t, err) {
			return
		}
		if assert.Len(t, page.Accounts, 2) {
			assert.Equal(t, created[1].ID, page.Accounts[0].ID)
			assert.Equal(t, created[0].ID, page.Accounts[1].ID)
		}
	})

	t.Run("by status and search", func(t *testing.T) {
		page, err := env.accounts.List(context.TODO(), AccountFilter{Status: AccountInactive, Search: "zed"}, Page{})
		if !assert.NoError(t, err) {
			return
		}
		if assert.Len(t, page.Accounts, 1) {
			assert.Equal(t, inactiveAccount.ID, page.Accounts[0].ID)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := env.accounts.List(context.TODO(), AccountFilter{Status: "Closed"}, Page{})
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("all accounts", func(t *testing.T) {
		all, err := env.accounts.All(context.TODO(), AccountFilter{Status: AccountActive})
		if assert.NoError(t, err) {
			assert.Len(t, all, 12)
		}
	})

	t.Run("class grades", func(t *testing.T) {
		grades, err := env.accounts.ClassGrades(context.TODO())
		if assert.NoError(t, err) {
			assert.Equal(t, []string{"1A", "3C"}, grades)
		}
	})
}
