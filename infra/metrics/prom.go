package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/nroussel/airdispatch/core/metrics"
)

// PromSink records dispatch events in Prometheus metrics.
type PromSink struct {
	assignments *prometheus.CounterVec
	duration    prometheus.Histogram
	unassigned  prometheus.Gauge
	agents      prometheus.Gauge
	completed   prometheus.Gauge
	cancelled   prometheus.Gauge
	onTime      prometheus.Gauge
}

// NewPromSink registers dispatch metrics on the default Prometheus registerer.
// The Prometheus server is started separately via StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	s.assignments, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_assignments_total",
		Help: "Total number of order-to-agent assignment decisions",
	}, []string{"agent_id", "applied"}))
	if err != nil {
		return nil, err
	}
	s.duration, err = registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_cycle_seconds",
		Help:    "Wall-clock duration of a dispatch cycle",
		Buckets: prometheus.DefBuckets,
	}))
	if err != nil {
		return nil, err
	}
	gauges := []struct {
		dst  *prometheus.Gauge
		name string
		help string
	}{
		{&s.unassigned, "dispatch_unassigned_orders", "Orders left unassigned by the most recent cycle"},
		{&s.agents, "dispatch_fleet_agents", "Number of agents seen by the most recent cycle"},
		{&s.completed, "fleet_orders_completed", "Cumulative delivered orders"},
		{&s.cancelled, "fleet_orders_cancelled", "Cumulative cancelled orders"},
		{&s.onTime, "fleet_orders_on_time", "Cumulative orders delivered before their deadline"},
	}
	for _, g := range gauges {
		*g.dst, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{Name: g.name, Help: g.help}))
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec), nil
		}
		return nil, err
	}
	return c, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Histogram), nil
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Gauge), nil
		}
		return nil, err
	}
	return g, nil
}

// RecordAssignments increments the counter for each assignment decision.
func (s *PromSink) RecordAssignments(recs []coremetrics.AssignmentRecord) error {
	for _, r := range recs {
		s.assignments.WithLabelValues(strconv.Itoa(r.AgentID), strconv.FormatBool(r.Applied)).Inc()
	}
	return nil
}

// RecordCycle observes the cycle duration and updates per-cycle gauges.
func (s *PromSink) RecordCycle(rec coremetrics.CycleRecord) error {
	s.duration.Observe(rec.Duration.Seconds())
	s.unassigned.Set(float64(rec.Unassigned))
	s.agents.Set(float64(rec.Agents))
	return nil
}

// RecordFleetStats updates the cumulative fleet gauges.
func (s *PromSink) RecordFleetStats(rec coremetrics.FleetStatsRecord) error {
	s.completed.Set(float64(rec.Completed))
	s.cancelled.Set(float64(rec.Cancelled))
	s.onTime.Set(float64(rec.OnTime))
	return nil
}
