package testing

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// HTTPErrorPayload is a structure of an error response body
type HTTPErrorPayload struct {
	StatusCode int    `json:"statusCode"`
	Status     string `json:"error"`
	Message    string `json:"message"`
}

// NewHTTPErrorPayload creates an instance of an expected error payload
func NewHTTPErrorPayload(statusCode int, status string, message string) HTTPErrorPayload {
	return HTTPErrorPayload{
		StatusCode: statusCode,
		Status:     status,
		Message:    message,
	}
}

// AssertHTTPErrorResponse asserts the recorder holds a given error response
func AssertHTTPErrorResponse(t *testing.T, want HTTPErrorPayload, recorder *httptest.ResponseRecorder) bool {
	if !assert.Equal(t, want.StatusCode, recorder.Code) {
		return false
	}
	var got HTTPErrorPayload
	if !JSONUnmarshalReader(t, recorder.Body, &got) {
		return false
	}
	return assert.Equal(t, want, got)
}

// AssertHTTPErrorStatus asserts the recorder holds an error response with a given status
// and the message contains a given substring
func AssertHTTPErrorStatus(t *testing.T, statusCode int, messageSubstr string, recorder *httptest.ResponseRecorder) bool {
	if !assert.Equal(t, statusCode, recorder.Code, recorder.Body.String()) {
		return false
	}
	var got HTTPErrorPayload
	if !JSONUnmarshalReader(t, recorder.Body, &got) {
		return false
	}
	return assert.Contains(t, got.Message, messageSubstr)
}
