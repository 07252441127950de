// Package metrics defines and registers the custom Prometheus metrics for
// the CRM Properties API. It is the single source of truth for metric
// names, labels, and help strings. Registration happens at import time via
// promauto against the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// DealStageTransitionsTotal counts accepted stage transitions.
// Label:
//   - stage: the stage the deal moved into (e.g. "won")
var DealStageTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deal_stage_transitions_total",
		Help:      "Total number of accepted deal stage transitions, by target stage.",
	},
	[]string{"stage"},
)

// CSVExportsTotal counts served CSV exports.
// Label:
//   - report: "global_metrics" or "seller_report"
var CSVExportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csv_exports_total",
		Help:      "Total number of CSV report exports, by report kind.",
	},
	[]string{"report"},
)

// SessionsRefreshedTotal counts sliding-session cookie refreshes. Every
// authenticated request refreshes exactly once, so this also approximates
// authenticated traffic.
var SessionsRefreshedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_refreshed_total",
		Help:      "Total number of sliding-session cookie refreshes.",
	},
)
