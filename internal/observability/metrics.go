package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the application.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	settlementOutcomes *prometheus.CounterVec
	smsSends           *prometheus.CounterVec
	reportRenders      *prometheus.HistogramVec
}

// NewMetrics initialises the registry and base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "maziwa_http_requests_total",
		Help: "HTTP request count by route and status.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maziwa_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	settlement := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "maziwa_settlement_outcomes_total",
		Help: "Settlement unit-of-work outcomes per weekly run.",
	}, []string{"outcome"})
	sms := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "maziwa_sms_sends_total",
		Help: "SMS dispatch attempts by transport status.",
	}, []string{"status"})
	renders := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maziwa_report_render_duration_seconds",
		Help:    "Report generation duration by report type and format.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type", "format"})
	registry.MustRegister(requests, duration, settlement, sms, renders)
	return &Metrics{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:      requests,
		requestDuration:    duration,
		settlementOutcomes: settlement,
		smsSends:           sms,
		reportRenders:      renders,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveSettlementOutcome counts one settlement unit of work.
func (m *Metrics) ObserveSettlementOutcome(outcome string) {
	if m == nil {
		return
	}
	m.settlementOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveSMSSend counts one transport attempt by reported status.
func (m *Metrics) ObserveSMSSend(status string) {
	if m == nil {
		return
	}
	m.smsSends.WithLabelValues(status).Inc()
}

// ObserveReportRender records one report generation.
func (m *Metrics) ObserveReportRender(reportType, format string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.reportRenders.WithLabelValues(reportType, format).Observe(elapsed.Seconds())
}

// Registerer exposes the registry for custom metric registration.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
