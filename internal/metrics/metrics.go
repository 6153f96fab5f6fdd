package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shop"

type Metrics struct {
	GatewayOrders *prometheus.CounterVec
	Captures      *prometheus.CounterVec
	Reconciled    *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// main and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		GatewayOrders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "orders", Name: "gateway_orders_total",
			Help: "Gateway orders requested, by result.",
		}, []string{"result"}),
		Captures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "orders", Name: "captures_total",
			Help: "Payment captures, by result.",
		}, []string{"result"}),
		Reconciled: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "payments", Name: "reconciled_total",
			Help: "Abandoned gateway orders resolved by the reconciliation worker, by outcome.",
		}, []string{"outcome"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Nop returns metrics registered on a private registry, for tests and tools.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}
