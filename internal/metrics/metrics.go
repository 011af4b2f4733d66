// Package metrics defines and registers the studio's Prometheus metrics.
// It is the single source of truth for metric names, labels, and help strings.
//
// Metrics live in the default registry and are printed on demand by the CLI;
// nothing is served over the network.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const namespace = "studio"

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingOpsTotal counts booking engine operations.
// Labels:
//   - op: "create", "cancel", "reschedule", "attendance"
//   - outcome: "ok" or a short failure reason (e.g. "class_full", "forbidden")
var BookingOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_operations_total",
		Help:      "Total number of booking operations, by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

// RefundsTotal counts session credits returned on cancellation.
// Label:
//   - reason: "window" (cancelled ahead of the change window) or "admin"
var RefundsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_refunds_total",
		Help:      "Total number of session credits refunded on cancellation.",
	},
	[]string{"reason"},
)

// ── Credit metrics ────────────────────────────────────────────────────────────

// CreditAdjustmentsTotal counts administrative balance changes.
// Label:
//   - kind: "add" or "set"
var CreditAdjustmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credit_adjustments_total",
		Help:      "Total number of administrative session balance adjustments.",
	},
	[]string{"kind"},
)

// ── Command metrics ───────────────────────────────────────────────────────────

// CommandDuration measures one CLI command from parse to output.
// Labels:
//   - command: the command name (e.g. "book")
//   - outcome: "ok" or "error"
var CommandDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "command_duration_seconds",
		Help:      "Duration of CLI commands.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"command", "outcome"},
)

// ── Storage metrics ───────────────────────────────────────────────────────────

// StoreQueryDuration measures single sqlite calls made through storage.TimedDB.
// Label:
//   - op: the wrapped database/sql method (e.g. "ExecContext")
var StoreQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_query_duration_seconds",
		Help:      "Duration of key-value store queries.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	},
	[]string{"op"},
)

// WriteText renders every metric family from g in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
