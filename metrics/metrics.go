// Package metrics provides Prometheus metrics for the polypill API:
//   - HTTP traffic: request totals, latency and in-flight requests
//   - Rate limiting: live token buckets
//   - Regimen activity: medications added, promo applications, interaction
//     warnings, orders placed and active sessions
//   - Catalog: reloads by result and catalog size
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "polypill"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_total",
			Help:      "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_request_in_flight",
			Help:      "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_limiter_buckets_total",
			Help:      "Number of rate limiter buckets (IPs seen in the last few minutes)",
		},
	)

	MedicationsAdded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "medications_added_total",
			Help:      "Add-medication attempts by result",
		},
		[]string{"result"},
	)

	PromoApplications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promo_applications_total",
			Help:      "Promo code applications by result",
		},
		[]string{"result"},
	)

	InteractionWarnings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interaction_warnings_total",
			Help:      "Interaction warnings raised, by severity",
		},
		[]string{"severity"},
	)

	OrdersPlaced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders confirmed",
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory",
		},
	)

	CatalogReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_reloads_total",
			Help:      "Catalog loads by result",
		},
		[]string{"result"},
	)

	CatalogMedications = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_medications",
			Help:      "Medications in the current catalog",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestTotals,
		HTTPRequestDuration,
		HTTPRequestInFlight,
		RateLimiterBucketsTotal,
		MedicationsAdded,
		PromoApplications,
		InteractionWarnings,
		OrdersPlaced,
		ActiveSessions,
		CatalogReloads,
		CatalogMedications,
	)
}
