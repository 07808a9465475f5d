package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nroussel/airdispatch/core/kpi"
)

var sample = []kpi.Record{
	{AgentID: 1, Window: 0, Delivered: 5, OnTime: 4, Cancelled: 1},
	{AgentID: 1, Window: 100, Delivered: 2, OnTime: 2},
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sample); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out []kpi.Record
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0].Delivered != 5 {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "agent_id,window,delivered,on_time,cancelled" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if lines[2] != "1,100,2,2,0" {
		t.Fatalf("unexpected row: %s", lines[2])
	}
}
