package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAuthAttempt(t *testing.T) {
	m := New()
	m.AuthAttempt("login", ResultSuccess)
	m.AuthAttempt("login", ResultSuccess)
	m.AuthAttempt("login", ResultDenied)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.authAttempts.WithLabelValues("login", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authAttempts.WithLabelValues("login", ResultDenied)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.AuthAttempt("register", ResultError)
	m.ObserveRequest(http.MethodGet, "/x", 200, time.Millisecond)
	m.CacheLookup(true)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodPost, "/api/auth/login", 200, 10*time.Millisecond)
	m.CacheLookup(false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `youapp_http_requests_total{method="POST",route="/api/auth/login",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), `youapp_profile_cache_lookups_total{result="miss"} 1`)
}
