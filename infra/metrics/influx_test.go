package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/nroussel/airdispatch/core/metrics"
)

func TestInfluxSink_RecordAssignments(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	now := time.Now()
	rec := coremetrics.AssignmentRecord{
		CycleID: "c1",
		Tick:    7,
		AgentID: 3,
		OrderID: 42,
		Applied: true,
		Time:    now,
	}

	if err := sink.RecordAssignments([]coremetrics.AssignmentRecord{rec}); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("assignment_event").
		AddTag("cycle_id", "c1").
		AddTag("agent_id", "3").
		AddTag("applied", "true").
		AddTag("component", "dispatch_manager").
		AddField("order_id", 42).
		AddField("tick", 7).
		AddField("reason", "").
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if strings.TrimSpace(body) != expected {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestInfluxSink_RecordCycle(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	now := time.Now()
	err := sink.RecordCycle(coremetrics.CycleRecord{
		CycleID:     "c2",
		Tick:        1,
		ReadyOrders: 5,
		Agents:      2,
		Assigned:    4,
		Applied:     3,
		Unassigned:  1,
		Duration:    20 * time.Millisecond,
		Time:        now,
	})
	if err != nil {
		t.Fatalf("record error: %v", err)
	}
	if !strings.Contains(body, "dispatch_cycle") || !strings.Contains(body, "cycle_id=c2") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
