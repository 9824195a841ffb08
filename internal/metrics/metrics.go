package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ward_dashboard"

// Collector holds the dashboard's metrics on its own registry. A nil
// *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	refreshes       *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	staleResponses  prometheus.Counter
	sectionErrors   *prometheus.CounterVec
	mutations       *prometheus.CounterVec
	wardsLoaded     prometheus.Gauge

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Collector{
		registry: reg,
		refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Dashboard read sequences by outcome",
		}, []string{"outcome"}),
		refreshDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a full dashboard read sequence",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		staleResponses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_total",
			Help:      "Read sequences discarded because a newer one was issued",
		}),
		sectionErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "section_errors_total",
			Help:      "Failed section loads",
		}, []string{"section"}),
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Drainage and complaint submissions by outcome",
		}, []string{"form", "outcome"}),
		wardsLoaded: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "wards_loaded",
			Help:      "Number of wards currently held in memory",
		}),
		upstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Requests to the flood API by endpoint and status code",
		}, []string{"endpoint", "code"}),
		upstreamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Latency of requests to the flood API",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) RecordRefresh(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.refreshes.WithLabelValues(outcome).Inc()
	c.refreshDuration.Observe(elapsed.Seconds())
}

func (c *Collector) RecordStale() {
	if c == nil {
		return
	}
	c.staleResponses.Inc()
}

func (c *Collector) RecordSectionError(section string) {
	if c == nil {
		return
	}
	c.sectionErrors.WithLabelValues(section).Inc()
}

func (c *Collector) RecordMutation(form, outcome string) {
	if c == nil {
		return
	}
	c.mutations.WithLabelValues(form, outcome).Inc()
}

func (c *Collector) SetWardsLoaded(n int) {
	if c == nil {
		return
	}
	c.wardsLoaded.Set(float64(n))
}

// ObserveRequest records an outbound call. Status 0 means the request never
// got a response.
func (c *Collector) ObserveRequest(endpoint string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	c.upstreamRequests.WithLabelValues(endpoint, code).Inc()
	c.upstreamDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
