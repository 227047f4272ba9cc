package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/civichub/internal/app/system/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveQuery_CountsErrors(t *testing.T) {
	m := metrics.New("test", prometheus.NewRegistry())

	m.ObserveQuery("activity", time.Now(), 3, nil)
	m.ObserveQuery("activity", time.Now(), 3, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueryErrors.WithLabelValues("activity")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.QueryDuration))
}

func TestObserveQuery_NilSafe(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveQuery("activity", time.Now(), 0, nil)
	})
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := metrics.New("test", prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/files/{storageID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/files/"+id, nil))
	}

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/files/{storageID}", "404"))
	assert.Equal(t, 2.0, got)
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	m := metrics.New("test", prometheus.NewRegistry())
	m.ObserveQuery("upcoming_events", time.Now(), 1, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "test_dashboard_query_duration_seconds"))
}
