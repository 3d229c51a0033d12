package payments

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	paymentsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stripe_guide_demo_payments_total",
			Help: "Demo payment creation attempts by mode and outcome.",
		},
		[]string{"mode", "status"},
	)

	paymentAmount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stripe_guide_demo_amount_minor_units_total",
			Help: "Sum of created demo payment amounts in minor currency units.",
		},
		[]string{"currency"},
	)
)
