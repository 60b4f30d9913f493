// Package metrics exposes Prometheus collectors for the KOKI economy and the
// HTTP layer. All recording methods are safe on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kokifi"

// Metrics holds the application collectors and their registry.
type Metrics struct {
	Registry *prometheus.Registry

	kokiPoints    *prometheus.CounterVec
	ticketsSold   prometheus.Counter
	draws         *prometheus.CounterVec
	scratches     *prometheus.CounterVec
	rouletteSpins *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		kokiPoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "koki_points_total",
			Help:      "KOKI points moved through the ledger.",
		}, []string{"direction"}),
		ticketsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_sold_total",
			Help:      "Lottery tickets sold.",
		}),
		draws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draws_total",
			Help:      "Lottery draws by result.",
		}, []string{"result"}),
		scratches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scratches_total",
			Help:      "KoTickets scratched by outcome.",
		}, []string{"outcome"}),
		rouletteSpins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roulette_spins_total",
			Help:      "Roulette spins by prize kind.",
		}, []string{"prize"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "path"}),
	}
	m.Registry.MustRegister(
		m.kokiPoints,
		m.ticketsSold,
		m.draws,
		m.scratches,
		m.rouletteSpins,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) KokiCredited(amount int64) {
	if m == nil || amount <= 0 {
		return
	}
	m.kokiPoints.WithLabelValues("credit").Add(float64(amount))
}

func (m *Metrics) KokiDebited(amount int64) {
	if m == nil || amount <= 0 {
		return
	}
	m.kokiPoints.WithLabelValues("debit").Add(float64(amount))
}

func (m *Metrics) TicketSold() {
	if m == nil {
		return
	}
	m.ticketsSold.Inc()
}

// DrawCompleted counts a draw; result is "won" or "rollover".
func (m *Metrics) DrawCompleted(result string) {
	if m == nil {
		return
	}
	m.draws.WithLabelValues(result).Inc()
}

func (m *Metrics) Scratched(won bool) {
	if m == nil {
		return
	}
	outcome := "lost"
	if won {
		outcome = "won"
	}
	m.scratches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RouletteSpin(prize string) {
	if m == nil {
		return
	}
	m.rouletteSpins.WithLabelValues(prize).Inc()
}

// ObserveHTTP records one handled request.
func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
