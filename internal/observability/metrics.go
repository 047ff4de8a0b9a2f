package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeGranted = "granted"
	OutcomeDenied  = "denied"
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeBusy    = "busy"
)

var (
	guardDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admin_console",
		Name:      "guard_decisions_total",
		Help:      "Access guard decisions by outcome.",
	}, []string{"outcome"})
	mutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admin_console",
		Name:      "mutations_total",
		Help:      "Create, update and delete attempts by resource, operation and outcome.",
	}, []string{"resource", "operation", "outcome"})
	uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admin_console",
		Name:      "uploads_total",
		Help:      "Media uploads by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(guardDecisions, mutations, uploads)
}

// RecordGuardDecision counts one access decision.
func RecordGuardDecision(granted bool) {
	if granted {
		guardDecisions.WithLabelValues(OutcomeGranted).Inc()
		return
	}
	guardDecisions.WithLabelValues(OutcomeDenied).Inc()
}

// RecordMutation counts one mutation attempt.
func RecordMutation(resource, operation, outcome string) {
	mutations.WithLabelValues(resource, operation, outcome).Inc()
}

// RecordUpload counts one upload attempt.
func RecordUpload(err error) {
	if err != nil {
		uploads.WithLabelValues(OutcomeFailure).Inc()
		return
	}
	uploads.WithLabelValues(OutcomeSuccess).Inc()
}
