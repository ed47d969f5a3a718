// Package metrics provides Prometheus instrumentation for the payment
// correlation engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ReservationsTotal counts amount reservation attempts by outcome.
	ReservationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cosmo",
			Name:      "amount_reservations_total",
			Help:      "Amount reservation attempts by outcome (reserved, conflict, exhausted).",
		},
		[]string{"outcome"},
	)

	// SelectionsTotal counts account selections by path taken.
	SelectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cosmo",
			Name:      "account_selections_total",
			Help:      "Receiving-account selections by path (forced, least_used, fallback, default).",
		},
		[]string{"path"},
	)

	// SettlementsTotal counts processed notifications by outcome.
	SettlementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cosmo",
			Name:      "settlements_total",
			Help:      "Payment notifications by settlement outcome (paid, no_session, parse_miss).",
		},
		[]string{"outcome"},
	)

	// SessionsExpiredTotal counts sessions reclaimed by passive expiry.
	SessionsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cosmo",
			Name:      "sessions_expired_total",
			Help:      "Order sessions expired with no matching payment.",
		},
	)

	// DeliveryFailuresTotal counts failed delivery attempts.
	DeliveryFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cosmo",
			Name:      "delivery_failures_total",
			Help:      "Delivery collaborator failures (settlement still completes).",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ReservationsTotal,
		SelectionsTotal,
		SettlementsTotal,
		SessionsExpiredTotal,
		DeliveryFailuresTotal,
	)
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
