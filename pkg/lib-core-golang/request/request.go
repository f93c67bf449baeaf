package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/diag"
)

var defaultLogger = diag.CreateLogger()

type sendCfg struct {
	logger diag.Logger
	client *http.Client
}

// SendOpt is a send specific option
type SendOpt func(cfg *sendCfg)

func withLogger(logger diag.Logger) SendOpt {
	return func(cfg *sendCfg) {
		cfg.logger = logger
	}
}

// WithClient option to send requests with a given http client
func WithClient(client *http.Client) SendOpt {
	return func(cfg *sendCfg) {
		cfg.client = client
	}
}

// HTTPError is returned when response status is other than 2xx
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("Request failed with status %v: %s", e.StatusCode, e.Body)
}

// NewHTTPErrorFromResponse reads the response body and wraps it with an error
func NewHTTPErrorFromResponse(res *http.Response) error {
	defer res.Body.Close()
	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return errors.Wrapf(err, "Failed to read response body of %v response", res.StatusCode)
	}
	return &HTTPError{StatusCode: res.StatusCode, Body: body}
}

// ReqFactory is a function that creates an instance of a request
type ReqFactory func() (*http.Request, error)

// Get creates a new req factory that creates a get request for given url
func Get(url string) ReqFactory {
	return func() (*http.Request, error) {
		return http.NewRequest("GET", url, nil)
	}
}

// Delete creates a new req factory that creates a delete request for given url
func Delete(url string) ReqFactory {
	return func() (*http.Request, error) {
		return http.NewRequest("DELETE", url, nil)
	}
}

// Post creates a new req factory that creates a post request with given body
func Post(url string, body io.Reader) ReqFactory {
	return func() (*http.Request, error) {
		return http.NewRequest("POST", url, body)
	}
}

// PostJSON creates a new req factory that creates a post request with
// the payload encoded as json
func PostJSON(url string, payload interface{}) ReqFactory {
	return withJSONBody("POST", url, payload)
}

// PutJSON creates a new req factory that creates a put request with
// the payload encoded as json
func PutJSON(url string, payload interface{}) ReqFactory {
	return withJSONBody("PUT", url, payload)
}

func withJSONBody(method string, url string, payload interface{}) ReqFactory {
	return func() (*http.Request, error) {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to marshal request payload")
		}
		req, err := http.NewRequest(method, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("content-type", "application/json")
		return req, nil
	}
}

// WithHeader returns a factory that adds the header to the request
func (f ReqFactory) WithHeader(key string, value string) ReqFactory {
	return func() (*http.Request, error) {
		req, err := f()
		if err != nil {
			return nil, err
		}
		req.Header.Add(key, value)
		return req, nil
	}
}

// ResFactory is a function that holds a request result with a response or error
type ResFactory func() (*http.Response, error)

// ReadAll will read entire body as a byte array
func (f ResFactory) ReadAll() ([]byte, error) {
	res, err := f()
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return ioutil.ReadAll(res.Body)
}

// DecodeJSON will decode response body into the receiver
func (f ResFactory) DecodeJSON(receiver interface{}) error {
	res, err := f()
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(receiver); err != nil {
		return errors.Wrap(err, "Failed to decode response body")
	}
	return nil
}

func newResFactory(res *http.Response, err error) ResFactory {
	var httpErr error
	if err == nil && res.StatusCode >= 300 {
		httpErr = NewHTTPErrorFromResponse(res)
	}
	return func() (*http.Response, error) {
		if err != nil {
			return nil, err
		}
		if httpErr != nil {
			return nil, httpErr
		}
		return res, nil
	}
}

// Do will send the request. Will fail if response status is other than 2xx
func Do(ctx context.Context, factory ReqFactory, opts ...SendOpt) ResFactory {
	cfg := sendCfg{
		logger: defaultLogger,
		client: &http.Client{
			Transport: http.DefaultTransport,
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	req, err := factory()
	if err != nil {
		return newResFactory(nil, err)
	}
	if ctx != nil {
		req = req.WithContext(ctx)
		if requestID := diag.RequestIDValue(ctx); requestID != "" {
			req.Header.Set("x-request-id", requestID)
		}
	}
	cfg.logger.
		WithData(diag.MsgData{"method": req.Method, "url": req.URL.String()}).
		Debug(ctx, "Sending request")
	res, err := cfg.client.Do(req)
	if err != nil {
		cfg.logger.WithError(err).Warn(ctx, "Failed to send %v request", req.Method)
		return newResFactory(nil, err)
	}
	cfg.logger.
		WithData(diag.MsgData{"statusCode": res.StatusCode}).
		Debug(ctx, "Got response")
	return newResFactory(res, nil)
}
