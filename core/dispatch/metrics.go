package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	cycleDuration     prometheus.Histogram
	cyclesTotal       prometheus.Counter
	ordersAssigned    *prometheus.CounterVec
	ordersUnassigned  prometheus.Counter
	applyRejections   *prometheus.CounterVec
	resolverDecisions *prometheus.CounterVec
	archiveEmpty      prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Histogram, prometheus.Counter, *prometheus.CounterVec, prometheus.Counter, *prometheus.CounterVec, *prometheus.CounterVec, prometheus.Counter) {
	dur := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatch_cycle_duration_seconds",
			Help:    "Wall time of one dispatch cycle",
			Buckets: prometheus.DefBuckets,
		},
	)
	cycles := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_cycles_total",
			Help: "Number of dispatch cycles run",
		},
	)
	assigned := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_orders_assigned_total",
			Help: "Orders assigned per pass",
		},
		[]string{"pass"},
	)
	unassigned := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_orders_unassigned_total",
			Help: "Ready orders left unassigned after a cycle",
		},
	)
	rejected := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_apply_rejections_total",
			Help: "Assignments refused by the state machine",
		},
		[]string{"code"},
	)
	resolver := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_resolver_decisions_total",
			Help: "Candidate resolver outcomes",
		},
		[]string{"outcome"},
	)
	empty := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_archive_empty_total",
			Help: "Cycles finalized with an empty Pareto archive",
		},
	)
	return dur, cycles, assigned, unassigned, rejected, resolver, empty
}

func init() {
	cycleDuration, cyclesTotal, ordersAssigned, ordersUnassigned, applyRejections, resolverDecisions, archiveEmpty = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers dispatch metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(cycleDuration, cyclesTotal, ordersAssigned, ordersUnassigned, applyRejections, resolverDecisions, archiveEmpty)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	cycleDuration, cyclesTotal, ordersAssigned, ordersUnassigned, applyRejections, resolverDecisions, archiveEmpty = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
