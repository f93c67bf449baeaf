package api

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/router"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/savings"
)

var conflicts = []error{
	savings.ErrNotLatestEntry,
	savings.ErrAccountHasEntries,
	savings.ErrDuplicateReference,
	savings.ErrConcurrentUpdate,
}

// httpError maps domain errors to http ones.
// Unknown errors are reported as internal without details
func httpError(err error) error {
	var httpErr router.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var validationErr *savings.ValidationError
	if errors.As(err, &validationErr) {
		return router.BadRequestError(validationErr.Error())
	}
	if errors.Is(err, savings.ErrNotFound) {
		return router.ResourceNotFoundError(err.Error())
	}
	if errors.Is(err, savings.ErrInsufficientBalance) {
		return router.UnprocessableEntityError(err.Error())
	}
	for _, conflict := range conflicts {
		if errors.Is(err, conflict) {
			return router.ConflictError(conflict.Error())
		}
	}
	return router.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}
