package metrics

import (
	"context"
	"time"

	"github.com/nroussel/airdispatch/core/events"
	coremetrics "github.com/nroussel/airdispatch/core/metrics"
	"github.com/nroussel/airdispatch/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// fleet statistics events. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if e, isStats := ev.(events.FleetStatsEvent); isStats {
					if r, supported := sink.(coremetrics.FleetStatsRecorder); supported {
						_ = r.RecordFleetStats(coremetrics.FleetStatsRecord{
							Tick:      e.Tick,
							Completed: e.Completed,
							Cancelled: e.Cancelled,
							OnTime:    e.OnTime,
							Time:      time.Now(),
						})
					}
				}
			}
		}
	}()
}
