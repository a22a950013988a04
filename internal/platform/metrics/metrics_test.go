package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenewalOutcome(t *testing.T) {
	m := New()
	m.RenewalOutcome("renewed")
	m.RenewalOutcome("renewed")
	m.RenewalOutcome("past_date")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.renewals.WithLabelValues("renewed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renewals.WithLabelValues("past_date")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/v1/books", http.StatusOK, 15*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `locallibrary_http_requests_total{method="GET",route="/v1/books",status="200"} 1`)
}
