package agentstatus

import (
	"sort"
	"sync"
	"time"
)

// LastDispatch summarises the most recent dispatch decision touching an
// agent.
type LastDispatch struct {
	CycleID   string    `json:"cycle_id"`
	Tick      int       `json:"tick"`
	OrderIDs  []int     `json:"order_ids"`
	Timestamp time.Time `json:"timestamp"`
}

// Status captures the current known state of an agent.
type Status struct {
	AgentID              int          `json:"agent_id"`
	CurrentStatus        string       `json:"current_status"`
	CurrentLoad          int          `json:"current_load"`
	LastDispatchDecision LastDispatch `json:"last_dispatch_decision"`
}

// Store keeps per-agent status information.
type Store interface {
	Set(Status)
	List() []Status
	RecordDispatch(id int, dec LastDispatch)
}

// MemoryStore is an in-memory Store implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[int]Status
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[int]Status{}}
}

func (s *MemoryStore) Set(st Status) {
	s.mu.Lock()
	s.data[st.AgentID] = st
	s.mu.Unlock()
}

func (s *MemoryStore) RecordDispatch(id int, dec LastDispatch) {
	s.mu.Lock()
	st := s.data[id]
	st.AgentID = id
	st.LastDispatchDecision = dec
	st.CurrentStatus = "dispatched"
	s.data[id] = st
	s.mu.Unlock()
}

func (s *MemoryStore) List() []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Status, 0, len(s.data))
	for _, st := range s.data {
		res = append(res, st)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].AgentID < res[j].AgentID })
	return res
}
