package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goroots "github.com/njchilds90/goroots"
)

func TestRecordSolve(t *testing.T) {
	res, err := goroots.Bisection(goroots.MustParse("x^2 - 2"), 0, 2, goroots.DefaultOptions())
	require.NoError(t, err)

	before := testutil.ToFloat64(solvesTotal.WithLabelValues("bisection", "converged"))
	RecordSolve(res)
	assert.Equal(t, before+1, testutil.ToFloat64(solvesTotal.WithLabelValues("bisection", "converged")))
}

func TestRecordToolCall(t *testing.T) {
	before := testutil.ToFloat64(toolCallsTotal.WithLabelValues("diff", "error"))
	RecordToolCall("diff", true)
	assert.Equal(t, before+1, testutil.ToFloat64(toolCallsTotal.WithLabelValues("diff", "error")))

	before = testutil.ToFloat64(toolCallsTotal.WithLabelValues("other", "error"))
	RecordToolCall("integrate", true)
	assert.Equal(t, before+1, testutil.ToFloat64(toolCallsTotal.WithLabelValues("other", "error")))
}

func TestMiddleware(t *testing.T) {
	h := Middleware("/teapot", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/teapot", "418"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/teapot", "418")))
}

func TestHandler(t *testing.T) {
	RecordRateLimited()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goroots_http_rate_limited_total")
}
