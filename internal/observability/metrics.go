package observability

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/greenur/plantbasics/internal/platform/logger"
)

const namespace = "plantbasics"

// Metrics is nil-safe: every method on a nil *Metrics is a no-op.
type Metrics struct {
	registry *prometheus.Registry

	kgRequests  *prometheus.CounterVec
	kgLatency   *prometheus.HistogramVec
	kgCache     *prometheus.CounterVec
	resolution  *prometheus.CounterVec
	classified  *prometheus.CounterVec
	entries     *prometheus.CounterVec
	lastRun     prometheus.Gauge
	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	v := strings.TrimSpace(os.Getenv("METRICS_ENABLED"))
	if v == "" {
		return false
	}
	return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
}

func Current() *Metrics {
	return instance
}

// Init builds the process-wide metrics set when METRICS_ENABLED is on.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics initialized")
		}
	})
	return instance
}

// NewMetrics builds an independent metrics set on its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		kgRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kg",
			Name:      "requests_total",
			Help:      "Knowledge graph API requests by service, operation and status.",
		}, []string{"service", "op", "status"}),
		kgLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "kg",
			Name:      "request_duration_seconds",
			Help:      "Knowledge graph API latency in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"service", "op"}),
		kgCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kg",
			Name:      "cache_total",
			Help:      "Response cache lookups by service and result.",
		}, []string{"service", "result"}),
		resolution: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "resolution_total",
			Help:      "Name resolution outcomes.",
		}, []string{"outcome"}),
		classified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "classification_total",
			Help:      "Plant type classifications by winning strategy and type.",
		}, []string{"source", "plant_type"}),
		entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "entries_total",
			Help:      "Catalog entries processed by status.",
		}, []string{"status"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed batch.",
		}),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Read API requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Read API latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		m.kgRequests, m.kgLatency, m.kgCache,
		m.resolution, m.classified,
		m.entries, m.lastRun,
		m.apiRequests, m.apiLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveKGRequest(service, op string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.kgRequests.WithLabelValues(orUnknown(service), orUnknown(op), code).Inc()
	m.kgLatency.WithLabelValues(orUnknown(service), orUnknown(op)).Observe(dur.Seconds())
}

func (m *Metrics) ObserveKGCache(service string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.kgCache.WithLabelValues(orUnknown(service), result).Inc()
}

func (m *Metrics) IncResolution(resolved bool) {
	if m == nil {
		return
	}
	outcome := "unresolved"
	if resolved {
		outcome = "resolved"
	}
	m.resolution.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncClassification(source, plantType string) {
	if m == nil {
		return
	}
	m.classified.WithLabelValues(orUnknown(source), orUnknown(plantType)).Inc()
}

func (m *Metrics) IncEntry(status string) {
	if m == nil {
		return
	}
	m.entries.WithLabelValues(orUnknown(status)).Inc()
}

func (m *Metrics) MarkRunFinished(at time.Time) {
	if m == nil {
		return
	}
	m.lastRun.Set(float64(at.Unix()))
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(orUnknown(method), orUnknown(route), orUnknown(status)).Inc()
	m.apiLatency.WithLabelValues(orUnknown(method), orUnknown(route)).Observe(dur.Seconds())
}

// Push sends the registry to a Prometheus pushgateway. Batch runs are too
// short-lived to be scraped.
func (m *Metrics) Push(ctx context.Context, gatewayURL, job string) error {
	if m == nil {
		return nil
	}
	gatewayURL = strings.TrimSpace(gatewayURL)
	if gatewayURL == "" {
		return nil
	}
	if strings.TrimSpace(job) == "" {
		job = namespace
	}
	return push.New(gatewayURL, job).Gatherer(m.registry).PushContext(ctx)
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
