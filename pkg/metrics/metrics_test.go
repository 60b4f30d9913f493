package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.KokiCredited(5)
	m.KokiCredited(0)
	m.KokiDebited(3)
	m.TicketSold()
	m.TicketSold()
	m.DrawCompleted("rollover")
	m.Scratched(true)
	m.Scratched(false)
	m.RouletteSpin("koki")

	assert.Equal(t, 5.0, testutil.ToFloat64(m.kokiPoints.WithLabelValues("credit")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.kokiPoints.WithLabelValues("debit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ticketsSold))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.draws.WithLabelValues("rollover")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scratches.WithLabelValues("won")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scratches.WithLabelValues("lost")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rouletteSpins.WithLabelValues("koki")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.KokiCredited(1)
		m.KokiDebited(1)
		m.TicketSold()
		m.DrawCompleted("won")
		m.Scratched(true)
		m.RouletteSpin("nothing")
		m.ObserveHTTP("GET", "/health", 200, time.Millisecond)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", "/health", http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `kokifi_http_requests_total{method="GET",path="/health",status="200"} 1`))
	assert.Contains(t, body, "kokifi_http_request_duration_seconds")
}
