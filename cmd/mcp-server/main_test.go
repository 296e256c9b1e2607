package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	goroots "github.com/njchilds90/goroots"
	"github.com/njchilds90/goroots/internal/mcpserver"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	return newLimitedMux(t, nil)
}

func newLimitedMux(t *testing.T, limiter *rate.Limiter) *http.ServeMux {
	t.Helper()
	server, err := mcpserver.NewServer(mcpserver.Config{Defaults: goroots.DefaultOptions()})
	require.NoError(t, err)
	return newMux(zap.NewNop(), server, limiter)
}

func TestTool(t *testing.T) {
	mux := newTestMux(t)

	body := `{"tool":"solve","params":{"expr":"x^2 - 2","method":"newton","a":1}}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tool", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Result goroots.SolveResult `json:"result"`
		Error  string              `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Error)
	assert.True(t, resp.Result.Converged)
	assert.Equal(t, 4, resp.Result.Iterations)
}

func TestTool_BadRequests(t *testing.T) {
	mux := newTestMux(t)

	tests := []struct {
		name   string
		method string
		body   string
		code   int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"malformed", http.MethodPost, "{", http.StatusBadRequest},
		{"unknown field", http.MethodPost, `{"tool":"eval","extra":1}`, http.StatusBadRequest},
		{"trailing data", http.MethodPost, `{"tool":"tool_spec"} {}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, "/tool", strings.NewReader(tt.body)))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestSchemaAndHealth(t *testing.T) {
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schema", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bisection"`)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestTool_RateLimited(t *testing.T) {
	// No refill within the test; the burst of 2 is all there is.
	mux := newLimitedMux(t, rate.NewLimiter(rate.Every(time.Hour), 2))

	call := func() int {
		rec := httptest.NewRecorder()
		body := strings.NewReader(`{"tool":"eval","params":{"expr":"x + 1","x":1}}`)
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tool", body))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call())
	assert.Equal(t, http.StatusOK, call())
	assert.Equal(t, http.StatusTooManyRequests, call())
}

func TestMetrics(t *testing.T) {
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"tool":"diff","params":{"expr":"x^2"}}`)
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tool", body))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `goroots_tool_calls_total{outcome="ok",tool="diff"}`)
	assert.Contains(t, rec.Body.String(), `goroots_http_requests_total{method="POST",path="/tool",status="200"}`)
}
