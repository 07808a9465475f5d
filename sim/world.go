package sim

import (
	"math/rand"

	"github.com/nroussel/airdispatch/config"
	"github.com/nroussel/airdispatch/core/events"
	"github.com/nroussel/airdispatch/core/kpi"
	"github.com/nroussel/airdispatch/core/logger"
	"github.com/nroussel/airdispatch/core/model"
	"github.com/nroussel/airdispatch/core/state"
	"github.com/nroussel/airdispatch/internal/eventbus"
)

// World drives the physical side of an episode: order arrival, agent
// movement, pickups, deliveries and expirations. The dispatch engine only
// decides assignments; everything that happens to an assigned order
// afterwards happens here.
type World struct {
	fleet *state.Machine
	cfg   config.SimConfig
	gen   *OrderGenerator
	log   logger.Logger
	bus   eventbus.EventBus
	kpi   kpi.Store
}

// NewWorld creates a world bound to the fleet state machine. The bus and
// KPI store may be nil.
func NewWorld(fleet *state.Machine, cfg config.SimConfig, log logger.Logger, bus eventbus.EventBus, kpiStore kpi.Store) *World {
	return &World{
		fleet: fleet,
		cfg:   cfg,
		gen:   NewOrderGenerator(cfg),
		log:   log,
		bus:   bus,
		kpi:   kpiStore,
	}
}

// SpawnFleet registers cfg.Agents idle agents at random positions.
func (w *World) SpawnFleet() error {
	rng := rand.New(rand.NewSource(w.cfg.Seed + 1))
	for i := 1; i <= w.cfg.Agents; i++ {
		a := model.Agent{
			ID:     i,
			Status: model.AgentIdle,
			Location: model.Location{
				X: rng.Float64() * w.cfg.MapSize,
				Y: rng.Float64() * w.cfg.MapSize,
			},
			MaxCapacity: w.cfg.MaxCapacity,
		}
		if err := w.fleet.AddAgent(a); err != nil {
			return err
		}
	}
	return nil
}

// Step advances the world by one tick: new orders arrive, expired orders
// are cancelled and every agent moves toward its current objective.
func (w *World) Step(tick int) {
	for _, o := range w.gen.Tick(tick) {
		if err := w.fleet.CreateOrder(o); err != nil {
			w.log.Errorf("create order %d: %v", o.ID, err)
			continue
		}
		w.publish(events.OrderEvent{OrderID: o.ID, Tick: tick, Status: model.OrderReady})
	}
	w.expireOrders(tick)
	for _, a := range w.fleet.AgentsSnapshot() {
		w.stepAgent(a, tick)
	}
	if w.cfg.StatsInterval > 0 && tick%w.cfg.StatsInterval == 0 {
		completed, cancelled, onTime := w.fleet.Stats()
		w.publish(events.FleetStatsEvent{
			Tick:      tick,
			Completed: completed,
			Cancelled: cancelled,
			OnTime:    onTime,
		})
	}
}

// expireOrders cancels orders whose deadline has passed before pickup.
func (w *World) expireOrders(tick int) {
	for _, id := range w.fleet.ExpiredOrders(tick) {
		order, ok := w.fleet.Order(id)
		if !ok {
			continue
		}
		if err := w.fleet.Cancel(id); err != nil {
			w.log.Warnf("cancel order %d: %v", id, err)
			continue
		}
		if w.kpi != nil && order.HasAgent() {
			_ = w.kpi.Add(kpi.Record{AgentID: order.AssignedAgent, Window: tick, Cancelled: 1})
		}
		w.publish(events.OrderEvent{OrderID: id, Tick: tick, Status: model.OrderCancelled})
	}
}

// stepAgent moves one agent toward its serving order and performs the
// pickup or delivery on arrival. The lowest order id is always served
// first, with cargo taking precedence over pending pickups.
func (w *World) stepAgent(snap model.AgentSnapshot, tick int) {
	agentID := snap.AgentID
	orders := w.fleet.AssignedOrders(agentID)
	if len(orders) == 0 {
		if snap.Status != model.AgentIdle {
			_ = w.fleet.SetAgentStatus(agentID, model.AgentIdle)
		}
		return
	}
	if snap.Status != model.AgentBusy {
		_ = w.fleet.SetAgentStatus(agentID, model.AgentBusy)
	}

	serving := orders[0]
	for _, o := range orders {
		if o.Status == model.OrderPickedUp {
			serving = o
			break
		}
	}
	_ = w.fleet.SetServingOrder(agentID, serving.ID)

	target := serving.Merchant
	if serving.Status == model.OrderPickedUp {
		target = serving.Dropoff
	}
	pos := w.moveToward(snap.Location, target)
	_ = w.fleet.MoveAgent(agentID, pos)
	if pos != target {
		return
	}

	switch serving.Status {
	case model.OrderAssigned:
		if err := w.fleet.Pickup(agentID, serving.ID); err != nil {
			w.log.Warnf("pickup order %d by agent %d: %v", serving.ID, agentID, err)
		} else {
			w.publish(events.OrderEvent{OrderID: serving.ID, Tick: tick, Status: model.OrderPickedUp})
		}
	case model.OrderPickedUp:
		onTime := tick <= serving.Deadline
		if err := w.fleet.Deliver(agentID, serving.ID, tick); err != nil {
			w.log.Warnf("deliver order %d by agent %d: %v", serving.ID, agentID, err)
			return
		}
		if w.kpi != nil {
			rec := kpi.Record{AgentID: agentID, Window: tick, Delivered: 1}
			if onTime {
				rec.OnTime = 1
			}
			_ = w.kpi.Add(rec)
		}
		w.publish(events.OrderEvent{OrderID: serving.ID, Tick: tick, Status: model.OrderDelivered, OnTime: onTime})
		if len(w.fleet.AssignedOrders(agentID)) == 0 {
			_ = w.fleet.SetAgentStatus(agentID, model.AgentIdle)
		}
	}
}

// moveToward advances from cur to target by at most one tick of travel.
func (w *World) moveToward(cur, target model.Location) model.Location {
	dist := cur.DistanceTo(target)
	if dist <= w.cfg.AgentSpeed {
		return target
	}
	frac := w.cfg.AgentSpeed / dist
	return model.Location{
		X: cur.X + (target.X-cur.X)*frac,
		Y: cur.Y + (target.Y-cur.Y)*frac,
	}
}

// Generated returns the total number of orders created so far.
func (w *World) Generated() int { return w.gen.Generated() }

func (w *World) publish(ev eventbus.Event) {
	if w.bus != nil {
		w.bus.Publish(ev)
	}
}
