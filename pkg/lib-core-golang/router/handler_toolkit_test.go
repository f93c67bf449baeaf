package router

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bxcodec/faker/v3"
	"github.com/stretchr/testify/assert"

	tst "github.com/evgeny-myasishchev/savings-ledger/pkg/internal/testing"
)

func TestHandlerToolkit(t *testing.T) {
	router := CreateRouter()

	accountID := rand.Int63n(1000) + 1
	want := map[string]interface{}{
		"accountId": float64(accountID),
		"balance":   fmt.Sprintf("%v.%02d", rand.Intn(1000), rand.Intn(100)),
	}

	handlerCalled := false
	router.Handle("GET", "/v1/accounts/:id/balance",
		ToolkitHandlerFunc(func(w http.ResponseWriter, req *http.Request, h HandlerToolkit) error {
			var params struct {
				ID int64 `validate:"min=1"`
			}
			if err := h.BindParams().PathParam("id").Int64(&params.ID).Validate(&params); err != nil {
				return err
			}
			assert.Equal(t, accountID, params.ID)
			handlerCalled = true
			return h.WriteJSON(want)
		}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", fmt.Sprint("/v1/accounts/", accountID, "/balance"), nil))

	assert.True(t, handlerCalled, "handler should have been called")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	got := map[string]interface{}{}
	tst.JSONUnmarshalBuffer(w.Body, &got)
	assert.Equal(t, want, got)
}

func Test_HandlerToolkit_BindPayload(t *testing.T) {
	type entryPayload struct {
		AccountID int64  `json:"accountId" validate:"min=1"`
		Kind      string `json:"kind" validate:"oneof=Deposit Withdrawal"`
		Note      string `json:"note" validate:"max=10"`
	}
	type testCase struct {
		name   string
		body   io.Reader
		assert func(t *testing.T, h HandlerToolkit)
	}
	tests := []func() testCase{
		func() testCase {
			want := map[string]interface{}{
				"note":   faker.Word(),
				"amount": rand.Float64(),
			}
			return testCase{
				name: "bind map",
				body: tst.MustJSONReader(&want),
				assert: func(t *testing.T, h HandlerToolkit) {
					var got map[string]interface{}
					if assert.NoError(t, h.BindPayload(&got)) {
						assert.Equal(t, want, got)
					}
				},
			}
		},
		func() testCase {
			want := entryPayload{
				AccountID: rand.Int63n(1000) + 1,
				Kind:      "Withdrawal",
				Note:      "lunch",
			}
			return testCase{
				name: "bind struct",
				body: tst.MustJSONReader(&want),
				assert: func(t *testing.T, h HandlerToolkit) {
					var got entryPayload
					if assert.NoError(t, h.BindPayload(&got)) {
						assert.Equal(t, want, got)
					}
				},
			}
		},
		func() testCase {
			return testCase{
				name: "malformed json",
				body: strings.NewReader(faker.Word()),
				assert: func(t *testing.T, h HandlerToolkit) {
					var got entryPayload
					err := h.BindPayload(&got)
					var httpErr HTTPError
					if assert.True(t, errors.As(err, &httpErr), "unexpected error: %v", err) {
						assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
						assert.Contains(t, httpErr.Message, "Malformed payload: invalid character")
					}
				},
			}
		},
		func() testCase {
			return testCase{
				name: "empty body",
				body: strings.NewReader(""),
				assert: func(t *testing.T, h HandlerToolkit) {
					var got entryPayload
					assert.Equal(t, BadRequestError("Malformed payload: empty body"), h.BindPayload(&got))
				},
			}
		},
		func() testCase {
			return testCase{
				name: "wrong value type",
				body: strings.NewReader(`{"accountId":"ten"}`),
				assert: func(t *testing.T, h HandlerToolkit) {
					var got entryPayload
					err := h.BindPayload(&got)
					var httpErr HTTPError
					if assert.True(t, errors.As(err, &httpErr)) {
						assert.Contains(t, httpErr.Message, "Malformed payload")
					}
				},
			}
		},
		func() testCase {
			return testCase{
				name: "invalid struct",
				body: tst.MustJSONReader(entryPayload{Kind: "Transfer", Note: "a very long note"}),
				assert: func(t *testing.T, h HandlerToolkit) {
					var got entryPayload
					assert.Equal(t,
						BadRequestError("ValidationFailed: payload properties [AccountID Kind Note] are invalid"),
						h.BindPayload(&got),
					)
				},
			}
		},
	}
	for _, ttFn := range tests {
		tt := ttFn()
		t.Run(tt.name, func(t *testing.T) {
			h := &handlerToolkit{
				request:   httptest.NewRequest("POST", "/", tt.body),
				validator: newStructValidator(),
			}
			tt.assert(t, h)
		})
	}
}

func Test_HandlerToolkit_Write(t *testing.T) {
	type testCase struct {
		name   string
		write  func(h HandlerToolkit) error
		assert func(t *testing.T, recorder *httptest.ResponseRecorder, err error)
	}
	tests := []func() testCase{
		func() testCase {
			payload := map[string]interface{}{"code": "TXN" + faker.Word()}
			return testCase{
				name: "json",
				write: func(h HandlerToolkit) error {
					return h.WriteJSON(payload)
				},
				assert: func(t *testing.T, recorder *httptest.ResponseRecorder, err error) {
					if !assert.NoError(t, err) {
						return
					}
					assert.Equal(t, http.StatusOK, recorder.Code)
					var got map[string]interface{}
					tst.JSONUnmarshalBuffer(recorder.Body, &got)
					assert.Equal(t, payload, got)
				},
			}
		},
		func() testCase {
			headerVal := faker.Word()
			return testCase{
				name: "json with status and custom decorator",
				write: func(h HandlerToolkit) error {
					return h.WriteJSON(map[string]interface{}{}, func(w http.ResponseWriter) error {
						w.Header().Add("x-entry-code", headerVal)
						return nil
					}, h.WithStatus(http.StatusCreated))
				},
				assert: func(t *testing.T, recorder *httptest.ResponseRecorder, err error) {
					if assert.NoError(t, err) {
						assert.Equal(t, http.StatusCreated, recorder.Code)
						assert.Equal(t, headerVal, recorder.Header().Get("x-entry-code"))
						assert.Equal(t, "application/json", recorder.Header().Get("content-type"))
					}
				},
			}
		},
		func() testCase {
			decoratorErr := errors.New(faker.Sentence())
			return testCase{
				name: "decorator error",
				write: func(h HandlerToolkit) error {
					return h.WriteJSON(map[string]interface{}{}, func(w http.ResponseWriter) error {
						return decoratorErr
					})
				},
				assert: func(t *testing.T, recorder *httptest.ResponseRecorder, err error) {
					assert.EqualError(t, err, decoratorErr.Error())
				},
			}
		},
		func() testCase {
			return testCase{
				name: "no content",
				write: func(h HandlerToolkit) error {
					return h.WriteNoContent()
				},
				assert: func(t *testing.T, recorder *httptest.ResponseRecorder, err error) {
					if assert.NoError(t, err) {
						assert.Equal(t, http.StatusNoContent, recorder.Code)
						assert.Empty(t, recorder.Body.String())
					}
				},
			}
		},
	}
	for _, ttFn := range tests {
		tt := ttFn()
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			h := HandlerToolkit(&handlerToolkit{
				request:        httptest.NewRequest("GET", "/", nil),
				responseWriter: recorder,
			})
			tt.assert(t, recorder, tt.write(h))
		})
	}
}
