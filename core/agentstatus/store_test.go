package agentstatus

import (
	"testing"
	"time"
)

func TestMemoryStoreSetAndList(t *testing.T) {
	s := NewMemoryStore()
	s.Set(Status{AgentID: 2, CurrentStatus: "BUSY", CurrentLoad: 1})
	s.Set(Status{AgentID: 1, CurrentStatus: "IDLE"})

	got := s.List()
	if len(got) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(got))
	}
	if got[0].AgentID != 1 || got[1].AgentID != 2 {
		t.Fatalf("list must be sorted by agent id: %+v", got)
	}
	if got[1].CurrentStatus != "BUSY" || got[1].CurrentLoad != 1 {
		t.Fatalf("status fields lost: %+v", got[1])
	}
}

func TestMemoryStoreRecordDispatch(t *testing.T) {
	s := NewMemoryStore()
	dec := LastDispatch{CycleID: "c1", Tick: 5, OrderIDs: []int{3, 4}, Timestamp: time.Now()}
	s.RecordDispatch(7, dec)

	got := s.List()
	if len(got) != 1 {
		t.Fatalf("expected 1 agent, got %d", len(got))
	}
	st := got[0]
	if st.AgentID != 7 || st.CurrentStatus != "dispatched" {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.LastDispatchDecision.CycleID != "c1" || len(st.LastDispatchDecision.OrderIDs) != 2 {
		t.Fatalf("dispatch decision not recorded: %+v", st.LastDispatchDecision)
	}
}

func TestMemoryStoreRecordDispatchKeepsStatus(t *testing.T) {
	s := NewMemoryStore()
	s.Set(Status{AgentID: 1, CurrentLoad: 2})
	s.RecordDispatch(1, LastDispatch{CycleID: "c2", Tick: 10})

	st := s.List()[0]
	if st.CurrentLoad != 2 {
		t.Fatalf("load must survive a dispatch record: %+v", st)
	}
	if st.LastDispatchDecision.Tick != 10 {
		t.Fatalf("decision not updated: %+v", st)
	}
}
