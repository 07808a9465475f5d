package logging

import (
	"context"
	"time"

	"github.com/nroussel/airdispatch/core/model"
)

// LogRecord captures one dispatch cycle decision and its application result.
type LogRecord struct {
	CycleID     string           `json:"cycle_id"`
	Timestamp   time.Time        `json:"timestamp"`
	Tick        int              `json:"tick"`
	ReadyOrders []int            `json:"ready_orders"`
	Agents      []int            `json:"agents"`
	Assignment  model.Assignment `json:"assignment"`
	Applied     map[int]int      `json:"applied"`
	Rejections  map[string]int   `json:"rejections,omitempty"`
	Unassigned  int              `json:"unassigned"`
}

// LogQuery defines filters for retrieving records.
type LogQuery struct {
	Start    time.Time
	End      time.Time
	FromTick int
	ToTick   int
	AgentID  int // 0 matches all agents
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

// matches applies the non-storage filters shared by the store backends.
func (q LogQuery) matches(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.FromTick > 0 && r.Tick < q.FromTick {
		return false
	}
	if q.ToTick > 0 && r.Tick > q.ToTick {
		return false
	}
	if q.AgentID != 0 {
		if _, ok := r.Assignment[q.AgentID]; !ok {
			return false
		}
	}
	return true
}
