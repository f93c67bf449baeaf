package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/diag"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/request"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/savings"
)

var logger = diag.CreateLogger()

const (
	actorIDHeader        = "X-Actor-ID"
	actorRoleHeader      = "X-Actor-Role"
	idempotencyKeyHeader = "Idempotency-Key"
)

// Balance is a current balance of an account
type Balance struct {
	AccountID int64           `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
}

// EntriesQuery selects entries to list
type EntriesQuery struct {
	AccountID int64
	Kind      savings.EntryKind
	From      string
	To        string
	Search    string
	Page      int
}

func (q EntriesQuery) values() url.Values {
	values := url.Values{}
	if q.AccountID != 0 {
		values.Set("account_id", strconv.FormatInt(q.AccountID, 10))
	}
	if q.Kind != "" {
		values.Set("kind", string(q.Kind))
	}
	if q.From != "" {
		values.Set("from", q.From)
	}
	if q.To != "" {
		values.Set("to", q.To)
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	return values
}

// APIError is an error response of the api
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Status     string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%v](%v): %v", e.StatusCode, e.Status, e.Message)
}

// Client is an interface to communicate with savings ledger api
type Client interface {
	GetAccount(ctx context.Context, accountID int64) (*savings.AccountBalance, error)
	Balance(ctx context.Context, accountID int64) (*Balance, error)
	ListEntries(ctx context.Context, query EntriesQuery) (*savings.EntriesPage, error)

	// AppendEntry submits an entry. Optional idempotency key makes it safe to retry
	AppendEntry(ctx context.Context, newEntry savings.NewEntry, idempotencyKey string) (*savings.Entry, error)
	DeleteEntry(ctx context.Context, entryID int64) error
}

type client struct {
	baseURL   string
	actorID   int64
	actorRole string
	sendOpts  []request.SendOpt
}

func (c *client) withActor(factory request.ReqFactory) request.ReqFactory {
	return factory.
		WithHeader(actorIDHeader, strconv.FormatInt(c.actorID, 10)).
		WithHeader(actorRoleHeader, c.actorRole)
}

func apiError(err error) error {
	var httpErr *request.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}
	var apiErr APIError
	if jsonErr := json.Unmarshal(httpErr.Body, &apiErr); jsonErr != nil || apiErr.StatusCode == 0 {
		return err
	}
	return &apiErr
}

func (c *client) getJSON(ctx context.Context, path string, receiver interface{}) error {
	res := request.Do(ctx, c.withActor(request.Get(c.baseURL+path)), c.sendOpts...)
	if err := res.DecodeJSON(receiver); err != nil {
		return apiError(err)
	}
	return nil
}

func (c *client) GetAccount(ctx context.Context, accountID int64) (*savings.AccountBalance, error) {
	var account savings.AccountBalance
	if err := c.getJSON(ctx, fmt.Sprint("/v1/accounts/", accountID), &account); err != nil {
		return nil, errors.Wrapf(err, "Failed to get account %v", accountID)
	}
	return &account, nil
}

func (c *client) Balance(ctx context.Context, accountID int64) (*Balance, error) {
	var balance Balance
	if err := c.getJSON(ctx, fmt.Sprint("/v1/accounts/", accountID, "/balance"), &balance); err != nil {
		return nil, errors.Wrapf(err, "Failed to get balance of account %v", accountID)
	}
	return &balance, nil
}

func (c *client) ListEntries(ctx context.Context, query EntriesQuery) (*savings.EntriesPage, error) {
	path := "/v1/entries"
	if values := query.values(); len(values) > 0 {
		path += "?" + values.Encode()
	}
	var page savings.EntriesPage
	if err := c.getJSON(ctx, path, &page); err != nil {
		return nil, errors.Wrap(err, "Failed to list entries")
	}
	return &page, nil
}

func (c *client) AppendEntry(ctx context.Context, newEntry savings.NewEntry, idempotencyKey string) (*savings.Entry, error) {
	payload := map[string]interface{}{
		"accountId": newEntry.AccountID,
		"kind":      newEntry.Kind,
		"amount":    newEntry.Amount,
		"note":      newEntry.Note,
	}
	req := c.withActor(request.PostJSON(c.baseURL+"/v1/entries", payload))
	if idempotencyKey != "" {
		req = req.WithHeader(idempotencyKeyHeader, idempotencyKey)
	}
	var entry savings.Entry
	if err := request.Do(ctx, req, c.sendOpts...).DecodeJSON(&entry); err != nil {
		return nil, errors.Wrapf(apiError(err), "Failed to append %v entry", newEntry.Kind)
	}
	logger.WithData(diag.MsgData{"code": entry.Code}).Info(ctx, "Appended %v entry to account %v", entry.Kind, entry.AccountID)
	return &entry, nil
}

func (c *client) DeleteEntry(ctx context.Context, entryID int64) error {
	res, err := request.Do(ctx, c.withActor(request.Delete(fmt.Sprint(c.baseURL, "/v1/entries/", entryID))), c.sendOpts...)()
	if err != nil {
		return errors.Wrapf(apiError(err), "Failed to delete entry %v", entryID)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		logger.Warn(ctx, "Unexpected status %v of entry deletion", res.StatusCode)
	}
	return nil
}

// Opt is an option of a client
type Opt func(c *client)

// WithActor will send requests on behalf of a given actor
func WithActor(actorID int64, actorRole string) Opt {
	return func(c *client) {
		c.actorID = actorID
		c.actorRole = actorRole
	}
}

// WithHTTPClient will send requests with a given http client
func WithHTTPClient(httpClient *http.Client) Opt {
	return func(c *client) {
		c.sendOpts = append(c.sendOpts, request.WithClient(httpClient))
	}
}

// NewClient returns an instance of a client for given base url
func NewClient(baseURL string, opts ...Opt) Client {
	c := &client{baseURL: baseURL}
	for _, opt := range opts {
		opt(c)
	}
	return Client(c)
}
