package metrics

import "time"

// AssignmentRecord represents one order-to-agent assignment decided by a
// dispatch cycle, whether or not the state machine accepted it.
type AssignmentRecord struct {
	CycleID string
	Tick    int
	AgentID int
	OrderID int
	Applied bool
	// Reason holds the rejection code when Applied is false.
	Reason string
	Time   time.Time
}

// CycleRecord summarises one dispatch cycle.
type CycleRecord struct {
	CycleID     string
	Tick        int
	ReadyOrders int
	Agents      int
	Assigned    int
	Applied     int
	Unassigned  int
	Duration    time.Duration
	Time        time.Time
}

// MetricsSink records dispatch results for observability purposes.
type MetricsSink interface {
	RecordAssignments(recs []AssignmentRecord) error
}

// CycleRecorder optionally records per-cycle summaries.
type CycleRecorder interface {
	RecordCycle(rec CycleRecord) error
}

// FleetStatsRecord is a periodic snapshot of fleet-level counters.
type FleetStatsRecord struct {
	Tick      int
	Completed int
	Cancelled int
	OnTime    int
	Time      time.Time
}

// FleetStatsRecorder optionally records fleet statistics snapshots.
type FleetStatsRecorder interface {
	RecordFleetStats(rec FleetStatsRecord) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordAssignments([]AssignmentRecord) error { return nil }

// Ensure NopSink implements CycleRecorder.
func (NopSink) RecordCycle(CycleRecord) error { return nil }

// Ensure NopSink implements FleetStatsRecorder.
func (NopSink) RecordFleetStats(FleetStatsRecord) error { return nil }
