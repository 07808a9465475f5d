package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/nroussel/airdispatch/core/metrics"
	"github.com/nroussel/airdispatch/infra/logger"
)

// InfluxSink writes dispatch events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

// RecordAssignments writes each assignment decision as a point.
func (s *InfluxSink) RecordAssignments(recs []coremetrics.AssignmentRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range recs {
		p := write.NewPointWithMeasurement("assignment_event").
			AddTag("cycle_id", r.CycleID).
			AddTag("agent_id", strconv.Itoa(r.AgentID)).
			AddTag("applied", strconv.FormatBool(r.Applied)).
			AddTag("component", "dispatch_manager").
			AddField("order_id", r.OrderID).
			AddField("tick", r.Tick).
			AddField("reason", r.Reason).
			SetTime(r.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordCycle persists the summary of one dispatch cycle.
func (s *InfluxSink) RecordCycle(rec coremetrics.CycleRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("dispatch_cycle").
		AddTag("cycle_id", rec.CycleID).
		AddTag("component", "dispatch_manager").
		AddField("tick", rec.Tick).
		AddField("ready_orders", rec.ReadyOrders).
		AddField("agents", rec.Agents).
		AddField("assigned", rec.Assigned).
		AddField("applied", rec.Applied).
		AddField("unassigned", rec.Unassigned).
		AddField("duration_ms", rec.Duration.Seconds()*1000).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordFleetStats writes a snapshot of the fleet counters.
func (s *InfluxSink) RecordFleetStats(rec coremetrics.FleetStatsRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("fleet_stats").
		AddTag("component", "simulation").
		AddField("tick", rec.Tick).
		AddField("completed", rec.Completed).
		AddField("cancelled", rec.Cancelled).
		AddField("on_time", rec.OnTime).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}
