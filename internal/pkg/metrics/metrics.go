package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	EntitlementDecisionsTotal *prometheus.CounterVec
	ChargesTotal              *prometheus.CounterVec
	ChargeRetriesTotal        *prometheus.CounterVec
	StoreCallDuration         *prometheus.HistogramVec
	HTTPRequestsTotal         *prometheus.CounterVec
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		EntitlementDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "metering_entitlement_decisions_total",
				Help: "Entitlement checks by action and result",
			},
			[]string{"action", "result"},
		),
		ChargesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "metering_charges_total",
				Help: "Usage charges by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		ChargeRetriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "metering_charge_retries_total",
				Help: "Charges handed to the retry worker, by source",
			},
			[]string{"source"},
		),
		StoreCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "metering_store_call_duration_seconds",
				Help:    "Entitlement store call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "status"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
	}

	registry.MustRegister(
		m.EntitlementDecisionsTotal,
		m.ChargesTotal,
		m.ChargeRetriesTotal,
		m.StoreCallDuration,
		m.HTTPRequestsTotal,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordDecision(action string, allowed bool) {
	if m == nil {
		return
	}
	result := "denied"
	if allowed {
		result = "allowed"
	}
	m.EntitlementDecisionsTotal.WithLabelValues(action, result).Inc()
}

func (m *Metrics) RecordCharge(action, outcome string) {
	if m == nil {
		return
	}
	m.ChargesTotal.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) RecordRetry(source string) {
	if m == nil {
		return
	}
	m.ChargeRetriesTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveStoreCall(operation string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.StoreCallDuration.WithLabelValues(operation, status).Observe(d.Seconds())
}

func (m *Metrics) RecordHTTPRequest(method, route, status string) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
}
