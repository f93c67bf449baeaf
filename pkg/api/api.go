package api

import (
	"net/http"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/dashboard"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/idempotency"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/diag"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/router"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/savings"
)

var logger = diag.CreateLogger()

// API exposes savings ledger over http
type API interface {
	SetupRoutes(r router.Router)
}

type api struct {
	ledger      savings.Ledger
	accounts    savings.Accounts
	aggregator  dashboard.Aggregator
	idempotency idempotency.Store
	clock       savings.Clock
}

// handle maps domain errors to http ones
func (a *api) handle(fn router.ToolkitHandlerFunc) router.ToolkitHandlerFunc {
	return func(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
		err := fn(w, req, h)
		if err == nil {
			return nil
		}
		mapped := httpError(err)
		if mapped.(router.HTTPError).StatusCode == http.StatusInternalServerError {
			logger.WithError(err).Error(req.Context(), "Unexpected failure of %v %v", req.Method, req.URL.Path)
		}
		return mapped
	}
}

func (a *api) ping(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
	return h.WriteJSON(map[string]string{"status": "ok"})
}

func (a *api) SetupRoutes(r router.Router) {
	r.Use(diag.NewRequestIDMiddleware())
	r.Use(diag.NewActorIDMiddleware(ActorIDHeader))
	r.Use(diag.NewLogRequestsMiddleware())

	routes := []struct {
		method  string
		pattern string
		handler router.ToolkitHandlerFunc
	}{
		{"GET", "/v1/healthcheck/ping", a.ping},
		{"GET", "/v1/summary", a.publicSummary},
		{"GET", "/v1/dashboard", a.dashboard},
		{"GET", "/v1/class-grades", a.classGrades},
		{"GET", "/v1/accounts", a.listAccounts},
		{"POST", "/v1/accounts", a.createAccount},
		{"GET", "/v1/accounts/:id", a.getAccount},
		{"PUT", "/v1/accounts/:id", a.updateAccount},
		{"DELETE", "/v1/accounts/:id", a.deleteAccount},
		{"GET", "/v1/accounts/:id/balance", a.accountBalance},
		{"GET", "/v1/entries", a.listEntries},
		{"POST", "/v1/entries", a.appendEntry},
		{"GET", "/v1/entries/:id", a.getEntry},
		{"DELETE", "/v1/entries/:id", a.deleteEntry},
	}
	for _, route := range routes {
		r.Handle(route.method, route.pattern, a.handle(route.handler))
	}
}

// APIOpt is an option of an api
type APIOpt func(a *api)

// WithLedger will init the api with a ledger
func WithLedger(ledger savings.Ledger) APIOpt {
	return func(a *api) {
		a.ledger = ledger
	}
}

// WithAccounts will init the api with an accounts service
func WithAccounts(accounts savings.Accounts) APIOpt {
	return func(a *api) {
		a.accounts = accounts
	}
}

// WithAggregator will init the api with a dashboard aggregator
func WithAggregator(aggregator dashboard.Aggregator) APIOpt {
	return func(a *api) {
		a.aggregator = aggregator
	}
}

// WithIdempotencyStore enables Idempotency-Key support of entry submissions
func WithIdempotencyStore(store idempotency.Store) APIOpt {
	return func(a *api) {
		a.idempotency = store
	}
}

// WithClock will init the api with a clock used for dashboards
func WithClock(clock savings.Clock) APIOpt {
	return func(a *api) {
		a.clock = clock
	}
}

// NewAPI returns an instance of an api
func NewAPI(opts ...APIOpt) API {
	a := &api{clock: savings.SystemClock}
	for _, opt := range opts {
		opt(a)
	}
	return API(a)
}
