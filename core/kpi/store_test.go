package kpi

import "testing"

func TestMemoryStore_Aggregation(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Add(Record{AgentID: 1, Window: 5, Delivered: 2, OnTime: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add(Record{AgentID: 1, Window: 42, Delivered: 1, Cancelled: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	recs, err := s.Query(1, 0, 99)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected one aggregated record, got %d", len(recs))
	}
	r := recs[0]
	if r.Window != 0 || r.Delivered != 3 || r.OnTime != 1 || r.Cancelled != 1 {
		t.Fatalf("unexpected record: %+v", r)
	}
}

func TestMemoryStore_QueryRange(t *testing.T) {
	s := NewMemoryStore()
	for _, w := range []int{0, 100, 200} {
		if err := s.Add(Record{AgentID: 7, Window: w, Delivered: 1}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	recs, err := s.Query(7, 100, 299)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Window != 100 || recs[1].Window != 200 {
		t.Fatalf("records out of order: %+v", recs)
	}
}

func TestWindowAlignment(t *testing.T) {
	if Window(-5) != 0 {
		t.Fatalf("negative ticks should align to zero")
	}
	if Window(199) != 100 {
		t.Fatalf("misaligned window: %d", Window(199))
	}
}
