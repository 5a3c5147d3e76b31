package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		redemptionsTotal,
		codesIssuedTotal,
		purchaseRevenueTotal,
	)
}

var (
	redemptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redemptions_total",
			Help: "Redemption attempts by path (purchase/redeem) and outcome (ok/exhausted/not_found).",
		},
		[]string{"path", "outcome"},
	)

	codesIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codes_issued_total",
			Help: "Newly created codes by quota tier.",
		},
		[]string{"quota"},
	)

	purchaseRevenueTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "purchase_revenue_total",
			Help: "Total verified transfer amount across completed receipts.",
		},
	)
)

func IncRedemption(path, outcome string) {
	redemptionsTotal.WithLabelValues(norm(path), norm(outcome)).Inc()
}

func IncCodeIssued(quota string) {
	codesIssuedTotal.WithLabelValues(quota).Inc()
}

func AddPurchaseRevenue(amount float64) {
	purchaseRevenueTotal.Add(amount)
}
