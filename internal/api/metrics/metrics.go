// Package metrics defines all custom Prometheus metrics for the loan
// management API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register themselves with the default registry at
// package load; the /metrics endpoint is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "loanmanager"

// LoansCreatedTotal counts submitted loan applications.
var LoansCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_created_total",
		Help:      "Total number of loan applications submitted.",
	},
)

// StatusTransitionsTotal counts successful loan status transitions.
// Labels:
//   - from: the status before the transition (e.g. "pending")
//   - to: the status applied (e.g. "verified")
//   - role: the caller's role ("verifier" or "admin")
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of successful loan status transitions.",
	},
	[]string{"from", "to", "role"},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)
