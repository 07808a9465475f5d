package metrics

import coremetrics "github.com/nroussel/airdispatch/core/metrics"

// MultiSink fans out dispatch records to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAssignments forwards the records to all sinks, returning the first error encountered.
func (m *MultiSink) RecordAssignments(recs []coremetrics.AssignmentRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordAssignments(recs); err != nil {
			return err
		}
	}
	return nil
}

// RecordCycle forwards cycle summaries to sinks that support them.
func (m *MultiSink) RecordCycle(rec coremetrics.CycleRecord) error {
	for _, s := range m.Sinks {
		if cr, ok := s.(coremetrics.CycleRecorder); ok {
			if err := cr.RecordCycle(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordFleetStats forwards fleet snapshots to sinks that support them.
func (m *MultiSink) RecordFleetStats(rec coremetrics.FleetStatsRecord) error {
	for _, s := range m.Sinks {
		if fr, ok := s.(coremetrics.FleetStatsRecorder); ok {
			if err := fr.RecordFleetStats(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
