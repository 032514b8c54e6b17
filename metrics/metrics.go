package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gofx_cycles_total",
			Help: "Total number of completed polling cycles.",
		},
	)

	SymbolErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gofx_symbol_errors_total",
			Help: "Per-symbol processing errors (recoverable tier).",
		},
		[]string{"symbol"},
	)

	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gofx_signals_total",
			Help: "Signals produced by the decision engine, by action.",
		},
		[]string{"action"},
	)

	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gofx_orders_submitted_total",
			Help: "Market orders submitted to the terminal, by result.",
		},
		[]string{"symbol", "result"},
	)

	TrailingModifications = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gofx_trailing_modifications_total",
			Help: "Stop-modification requests issued by the trailing manager.",
		},
	)

	AccountBalance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gofx_account_balance",
			Help: "Account balance observed at startup (not refreshed).",
		},
	)
)

func init() {
	prometheus.MustRegister(
		CyclesTotal,
		SymbolErrors,
		SignalsTotal,
		OrdersSubmitted,
		TrailingModifications,
		AccountBalance,
	)
}
