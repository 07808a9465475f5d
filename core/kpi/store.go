package kpi

// Store persists per-agent delivery KPI records.
type Store interface {
	Add(Record) error
	Query(agentID, start, end int) ([]Record, error)
}
