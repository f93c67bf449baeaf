package savings

import (
	"testing"

	"github.com/bxcodec/faker/v3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/dal"
)

func Test_storageError(t *testing.T) {
	type testCase struct {
		name  string
		err   error
		check func(t *testing.T, got error)
	}
	tests := []func() testCase{
		func() testCase {
			return testCase{
				name:  "nil",
				check: func(t *testing.T, got error) { assert.NoError(t, got) },
			}
		},
		func() testCase {
			return testCase{
				name:  "not found",
				err:   dal.ErrNotFound,
				check: func(t *testing.T, got error) { assert.Equal(t, ErrEntryNotFound, got) },
			}
		},
		func() testCase {
			return testCase{
				name:  "duplicate reference",
				err:   dal.ErrDuplicateReference,
				check: func(t *testing.T, got error) { assert.Equal(t, ErrDuplicateReference, got) },
			}
		},
		func() testCase {
			return testCase{
				name:  "concurrent update",
				err:   errors.Wrap(dal.ErrConcurrentUpdate, faker.Sentence()),
				check: func(t *testing.T, got error) { assert.Equal(t, ErrConcurrentUpdate, got) },
			}
		},
		func() testCase {
			err := errors.Wrap(ErrInsufficientBalance, faker.Sentence())
			return testCase{
				name:  "domain error as is",
				err:   err,
				check: func(t *testing.T, got error) { assert.Equal(t, err, got) },
			}
		},
		func() testCase {
			err := errors.New(faker.Sentence())
			return testCase{
				name: "anything else",
				err:  err,
				check: func(t *testing.T, got error) {
					var persistenceErr *PersistenceError
					if assert.True(t, errors.As(got, &persistenceErr)) {
						assert.Equal(t, "get entry", persistenceErr.Op)
						assert.Equal(t, err, errors.Cause(persistenceErr.Unwrap()))
					}
					assert.True(t, errors.Is(got, ErrPersistence))
					assert.EqualError(t, got, "Failed to get entry: "+err.Error())
				},
			}
		},
	}
	for _, tt := range tests {
		tt := tt()
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, storageError("get entry", tt.err, ErrEntryNotFound))
		})
	}
}

func TestValidationError(t *testing.T) {
	err := newValidationError("amount", "must be at least %v", "0.01")
	assert.EqualError(t, err, "Validation failed: amount must be at least 0.01")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(ErrAccountNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrNotLatestEntry, ErrNotFound))
}
