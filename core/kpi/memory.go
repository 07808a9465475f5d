package kpi

import (
	"sort"
	"sync"
)

// MemoryStore stores records in memory for testing or lightweight usage.
type MemoryStore struct {
	mu   sync.Mutex
	data map[int]map[int]*Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[int]map[int]*Record{}}
}

// Add inserts or updates the record aggregated by window and agent.
func (s *MemoryStore) Add(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[r.AgentID] == nil {
		s.data[r.AgentID] = map[int]*Record{}
	}
	w := Window(r.Window)
	rec := s.data[r.AgentID][w]
	if rec == nil {
		rec = &Record{AgentID: r.AgentID, Window: w}
		s.data[r.AgentID][w] = rec
	}
	rec.Delivered += r.Delivered
	rec.OnTime += r.OnTime
	rec.Cancelled += r.Cancelled
	return nil
}

// Query returns records with windows between start and end inclusive.
func (s *MemoryStore) Query(agentID, start, end int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start = Window(start)
	end = Window(end)
	var res []Record
	for w, r := range s.data[agentID] {
		if w < start || w > end {
			continue
		}
		res = append(res, *r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Window < res[j].Window })
	return res, nil
}
