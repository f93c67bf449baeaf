package savings

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/dal"
)

var (
	// ErrValidation is matched by every ValidationError
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientBalance is returned when a withdrawal would make the balance negative
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrNotFound is matched by ErrAccountNotFound and ErrEntryNotFound
	ErrNotFound = errors.New("not found")

	// ErrAccountNotFound is returned for unknown accounts
	ErrAccountNotFound error = &notFoundError{msg: "account not found"}

	// ErrEntryNotFound is returned for unknown entries
	ErrEntryNotFound error = &notFoundError{msg: "entry not found"}

	// ErrNotLatestEntry is returned when deleting an entry that is not the latest one
	ErrNotLatestEntry = errors.New("entry is not the latest entry of the account")

	// ErrPersistence is matched by every PersistenceError
	ErrPersistence = errors.New("persistence failure")

	// ErrDuplicateReference is returned when account reference is already taken
	ErrDuplicateReference = errors.New("account reference is already taken")

	// ErrAccountHasEntries is returned when deleting an account that has entries
	ErrAccountHasEntries = errors.New("account has entries")

	// ErrConcurrentUpdate is returned when entries of the account were changed
	// by someone else during the operation
	ErrConcurrentUpdate = errors.New("account entries were changed concurrently")
)

type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string {
	return e.msg
}

func (e *notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError describes a malformed or out of range input value
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Validation failed: %v %v", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrValidation) true
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field string, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a storage failure
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("Failed to %v: %v", e.Op, e.Err)
}

// Unwrap returns the storage error
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrPersistence) true
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

var domainErrors = []error{
	ErrValidation,
	ErrInsufficientBalance,
	ErrNotFound,
	ErrNotLatestEntry,
	ErrPersistence,
	ErrDuplicateReference,
	ErrAccountHasEntries,
	ErrConcurrentUpdate,
}

// storageError translates storage errors to domain ones.
// Domain errors are returned as is
func storageError(op string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	for _, domainErr := range domainErrors {
		if errors.Is(err, domainErr) {
			return err
		}
	}
	switch {
	case errors.Is(err, dal.ErrNotFound):
		return notFound
	case errors.Is(err, dal.ErrDuplicateReference):
		return ErrDuplicateReference
	case errors.Is(err, dal.ErrConcurrentUpdate):
		return ErrConcurrentUpdate
	}
	return &PersistenceError{Op: op, Err: err}
}
