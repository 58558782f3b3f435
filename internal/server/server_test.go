package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarian/pkg/config"
	"librarian/pkg/librarian"
	"librarian/pkg/logger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	reg := librarian.NewRegistry(logger.NewTestLogger())
	require.NoError(t, reg.RegisterTool(&librarian.Tool{
		Name:        "echo",
		Description: "echoes its arguments",
		InputSchema: map[string]interface{}{"type": "object"},
		Handler: func(args map[string]interface{}) map[string]interface{} {
			return map[string]interface{}{"success": true, "args": args}
		},
	}))
	require.NoError(t, reg.RegisterResource(&librarian.Resource{
		URI:      "test://doc",
		Name:     "doc",
		MimeType: "application/json",
		Content:  func() (string, error) { return `{"hello": "world"}`, nil },
	}))

	return New(config.DefaultConfig().Server, reg, logger.NewTestLogger())
}

func doRequest(t *testing.T, srv *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return decoded
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestRootEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "librarian", decodeBody(t, rec)["name"])
}

func TestListTools(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/tools", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	tools, ok := decodeBody(t, rec)["tools"].([]interface{})
	require.True(t, ok)
	require.Len(t, tools, 1)

	tool := tools[0].(map[string]interface{})
	assert.Equal(t, "echo", tool["name"])
	assert.NotNil(t, tool["inputSchema"])
}

func TestCallTool(t *testing.T) {
	srv := newTestServer(t)

	body := []byte(`{"message": "hi"}`)
	rec := doRequest(t, srv, http.MethodPost, "/tools/echo", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	decoded := decodeBody(t, rec)
	assert.Equal(t, true, decoded["success"])

	args, ok := decoded["args"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "hi", args["message"])
}

func TestCallToolEmptyBody(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/tools/echo", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
}

func TestCallToolUnknown(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/tools/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "unknown tool")
}

func TestCallToolInvalidJSON(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/tools/echo", []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListResources(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/resources", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	resources, ok := decodeBody(t, rec)["resources"].([]interface{})
	require.True(t, ok)
	require.Len(t, resources, 1)
}

func TestReadResource(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/resources/read?uri=test%3A%2F%2Fdoc", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	decoded := decodeBody(t, rec)
	assert.Equal(t, "test://doc", decoded["uri"])
	assert.Contains(t, decoded["content"], "hello")
}

func TestReadResourceMissingURI(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/resources/read", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReadResourceUnknown(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/resources/read?uri=test%3A%2F%2Fnope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/healthz", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "given-id")
	rec2 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec2, req)
	assert.Equal(t, "given-id", rec2.Header().Get("X-Request-ID"))
}

func TestRecoveryMiddleware(t *testing.T) {
	reg := librarian.NewRegistry(logger.NewTestLogger())
	require.NoError(t, reg.RegisterTool(&librarian.Tool{
		Name:        "boom",
		InputSchema: map[string]interface{}{"type": "object"},
		Handler: func(args map[string]interface{}) map[string]interface{} {
			panic("handler exploded")
		},
	}))
	srv := New(config.DefaultConfig().Server, reg, logger.NewTestLogger())

	rec := doRequest(t, srv, http.MethodPost, "/tools/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
