package state

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	transitionsTotal *prometheus.CounterVec
	rejectionsTotal  *prometheus.CounterVec
	onTimeDeliveries prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, *prometheus.CounterVec, prometheus.Counter) {
	trans := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_transitions_total",
			Help: "Number of accepted order lifecycle transitions",
		},
		[]string{"op"},
	)
	rej := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_rejections_total",
			Help: "Number of rejected lifecycle transitions",
		},
		[]string{"op", "code"},
	)
	onTime := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fleet_on_time_deliveries_total",
			Help: "Number of orders delivered at or before their deadline",
		},
	)
	return trans, rej, onTime
}

func init() {
	transitionsTotal, rejectionsTotal, onTimeDeliveries = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers state machine metrics on the provided
// registry. If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(transitionsTotal, rejectionsTotal, onTimeDeliveries)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	transitionsTotal, rejectionsTotal, onTimeDeliveries = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
