package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/sales/:id", 200, 15*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/sales/:id", 200, 5*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/sales/:id", 404, time.Millisecond)
	m.AuthFailure("login")
	m.EventPublished("sale.created", nil)
	m.EventPublished("sale.created", errors.New("broker down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/sales/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/sales/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authFailures.WithLabelValues("login")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsPublished.WithLabelValues("sale.created", "error")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.AuthFailure("token")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `joyas_auth_failures_total{stage="token"} 1`)
}
