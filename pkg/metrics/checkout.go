package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Checkout groups the counters the order placement protocol reports into.
type Checkout struct {
	OrdersPlaced    *prometheus.CounterVec
	Conflicts       prometheus.Counter
	CaptureFailures prometheus.Counter
	Reconciliations prometheus.Counter
}

// NewCheckout registers the checkout metrics on the given registerer.
func NewCheckout(reg prometheus.Registerer) *Checkout {
	factory := promauto.With(reg)
	return &Checkout{
		OrdersPlaced: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adhunik_orders_placed_total",
			Help: "Orders successfully created, by payment mode.",
		}, []string{"mode"}),
		Conflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "adhunik_checkout_conflicts_total",
			Help: "Placement attempts rejected because a painting was already sold.",
		}),
		CaptureFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "adhunik_payment_capture_failures_total",
			Help: "Gateway captures that did not complete.",
		}),
		Reconciliations: factory.NewCounter(prometheus.CounterOpts{
			Name: "adhunik_checkout_reconciliations_total",
			Help: "Captured payments that could not be converted into orders and need manual reconciliation.",
		}),
	}
}
