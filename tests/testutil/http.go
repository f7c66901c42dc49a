package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/erp/posting/internal/interfaces/http/dto"
	"github.com/erp/posting/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// APIResponse is the decoded response envelope with the payload left raw
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

// DataAs decodes the payload into T
func DataAs[T any](t *testing.T, resp APIResponse) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out), "Failed to decode response data")
	return out
}

// APIClient sends requests to an http.Handler within one scope
type APIClient struct {
	handler http.Handler
	scope   *shared.Scope
}

// NewAPIClient creates a client that sends the scope headers of scope
func NewAPIClient(handler http.Handler, scope shared.Scope) *APIClient {
	return &APIClient{handler: handler, scope: &scope}
}

// Unscoped returns a copy of the client that sends no scope headers
func (c *APIClient) Unscoped() *APIClient {
	return &APIClient{handler: c.handler}
}

// WithScope returns a copy of the client that sends scope instead
func (c *APIClient) WithScope(scope shared.Scope) *APIClient {
	return &APIClient{handler: c.handler, scope: &scope}
}

// Do sends a request with body encoded as JSON and returns the recorder
func (c *APIClient) Do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = ToJSONReader(t, body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.scope != nil {
		req.Header.Set(middleware.TenantHeader, c.scope.TenantID.String())
		req.Header.Set(middleware.CompanyHeader, c.scope.CompanyID.String())
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

// Post sends a POST request and decodes the envelope, failing the test on another status
func (c *APIClient) Post(t *testing.T, path string, body any, wantStatus int) APIResponse {
	t.Helper()
	return Decode(t, c.Do(t, http.MethodPost, path, body), wantStatus)
}

// Get sends a GET request and decodes the envelope, failing the test on another status
func (c *APIClient) Get(t *testing.T, path string, wantStatus int) APIResponse {
	t.Helper()
	return Decode(t, c.Do(t, http.MethodGet, path, nil), wantStatus)
}

// Decode checks the status code of w and decodes its envelope
func Decode(t *testing.T, w *httptest.ResponseRecorder, wantStatus int) APIResponse {
	t.Helper()

	require.Equal(t, wantStatus, w.Code, "Unexpected status code: %s", w.Body.String())
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to parse JSON response")
	return resp
}

// AssertErrorCode asserts that resp is a failed envelope with the given code and kind
func AssertErrorCode(t *testing.T, resp APIResponse, code string, kind shared.ErrorKind) {
	t.Helper()

	assert.False(t, resp.Success, "Expected success to be false")
	require.NotNil(t, resp.Error, "Expected error object in response")
	assert.Equal(t, code, resp.Error.Code, "Unexpected error code")
	assert.Equal(t, string(kind), resp.Error.Kind, "Unexpected error kind")
}

// ToJSONReader converts a value to a JSON io.Reader
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}
