package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RSILatest = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gorsi_rsi_latest",
			Help: "Most recent RSI value seen by the strategy (by ticker).",
		},
		[]string{"ticker"},
	)

	TargetAllocation = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gorsi_target_allocation",
			Help: "Target weight emitted on the last run (by ticker).",
		},
		[]string{"ticker"},
	)

	Decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gorsi_decisions_total",
			Help: "Total number of strategy runs (by ticker and signal).",
		},
		[]string{"ticker", "signal"},
	)

	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gorsi_orders_submitted_total",
			Help: "Total number of orders submitted by the reference host (by side).",
		},
		[]string{"side"},
	)

	EquityGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gorsi_equity",
			Help: "Current portfolio value of the paper executor.",
		},
	)
)

func init() {
	prometheus.MustRegister(RSILatest, TargetAllocation, Decisions, OrdersSubmitted, EquityGauge)
}
