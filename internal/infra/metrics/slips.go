package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		slipVerifyTotal,
		slipVerifyLatencyMs,
		duplicateSlipsTotal,
	)
}

var (
	slipVerifyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slip_verify_total",
			Help: "Slip verification attempts by outcome (accepted/invalid_receiver/invalid_amount/expired/provider_error).",
		},
		[]string{"outcome"},
	)

	slipVerifyLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "slip_verify_latency_ms",
			Help:    "External slip verification call latency in milliseconds.",
			Buckets: []float64{50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
	)

	duplicateSlipsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "duplicate_slips_total",
			Help: "Uploads rejected because the slip fingerprint was already recorded.",
		},
	)
)

func IncSlipVerify(outcome string) {
	slipVerifyTotal.WithLabelValues(norm(outcome)).Inc()
}

func ObserveSlipVerifyLatency(ms float64) {
	slipVerifyLatencyMs.Observe(ms)
}

func IncDuplicateSlip() {
	duplicateSlipsTotal.Inc()
}
