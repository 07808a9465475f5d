package sim

import (
	"testing"

	"github.com/nroussel/airdispatch/config"
	"github.com/nroussel/airdispatch/core/kpi"
	"github.com/nroussel/airdispatch/core/model"
	"github.com/nroussel/airdispatch/core/state"
	"github.com/nroussel/airdispatch/infra/logger"
)

func newWorld(t *testing.T, cfg config.SimConfig) (*World, *state.Machine, *kpi.MemoryStore) {
	t.Helper()
	fleet := state.NewMachine()
	store := kpi.NewMemoryStore()
	w := NewWorld(fleet, cfg, logger.NopLogger{}, nil, store)
	if err := w.SpawnFleet(); err != nil {
		t.Fatalf("spawn fleet: %v", err)
	}
	return w, fleet, store
}

func TestSpawnFleet(t *testing.T) {
	cfg := simConfig()
	cfg.Agents = 4
	_, fleet, _ := newWorld(t, cfg)
	agents := fleet.AgentsSnapshot()
	if len(agents) != 4 {
		t.Fatalf("expected 4 agents, got %d", len(agents))
	}
	for _, a := range agents {
		if a.Status != model.AgentIdle {
			t.Fatalf("agent %d not idle", a.AgentID)
		}
		if a.Location.X < 0 || a.Location.X > cfg.MapSize {
			t.Fatalf("agent %d out of bounds", a.AgentID)
		}
	}
}

func TestAgentPicksUpAndDelivers(t *testing.T) {
	cfg := simConfig()
	cfg.Agents = 1
	cfg.OrderRate = 0
	cfg.AgentSpeed = 1000 // reach any target in one tick
	w, fleet, store := newWorld(t, cfg)

	order := model.Order{
		ID:         1,
		MerchantID: 1,
		Merchant:   model.Location{X: 10, Y: 10},
		Dropoff:    model.Location{X: 20, Y: 20},
		Deadline:   100,
	}
	if err := fleet.CreateOrder(order); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if err := fleet.Assign(1, 1, true); err != nil {
		t.Fatalf("assign: %v", err)
	}

	w.Step(1) // move to merchant, pick up
	o, ok := fleet.Order(1)
	if !ok || o.Status != model.OrderPickedUp {
		t.Fatalf("expected picked up, got %+v", o)
	}
	w.Step(2) // move to dropoff, deliver
	if _, ok := fleet.Order(1); ok {
		t.Fatalf("order should be destroyed after delivery")
	}
	completed, _, onTime := fleet.Stats()
	if completed != 1 || onTime != 1 {
		t.Fatalf("stats mismatch: completed=%d onTime=%d", completed, onTime)
	}
	recs, err := store.Query(1, 0, 100)
	if err != nil || len(recs) != 1 {
		t.Fatalf("kpi query: %v %d", err, len(recs))
	}
	if recs[0].Delivered != 1 || recs[0].OnTime != 1 {
		t.Fatalf("kpi record mismatch: %+v", recs[0])
	}
	a, _ := fleet.Agent(1)
	if a.Status != model.AgentIdle || a.CurrentLoad != 0 {
		t.Fatalf("agent not reset: %+v", a)
	}
}

func TestExpiredOrderCancelled(t *testing.T) {
	cfg := simConfig()
	cfg.Agents = 1
	cfg.OrderRate = 0
	w, fleet, store := newWorld(t, cfg)

	order := model.Order{
		ID:         1,
		MerchantID: 1,
		Merchant:   model.Location{X: 10, Y: 10},
		Dropoff:    model.Location{X: 20, Y: 20},
		Deadline:   1,
	}
	if err := fleet.CreateOrder(order); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if err := fleet.Assign(1, 1, true); err != nil {
		t.Fatalf("assign: %v", err)
	}

	w.Step(5)
	if _, ok := fleet.Order(1); ok {
		t.Fatalf("expired order should be cancelled")
	}
	_, cancelled, _ := fleet.Stats()
	if cancelled != 1 {
		t.Fatalf("expected 1 cancelled, got %d", cancelled)
	}
	recs, err := store.Query(1, 0, 100)
	if err != nil || len(recs) != 1 {
		t.Fatalf("kpi query: %v %d", err, len(recs))
	}
	if recs[0].Cancelled != 1 {
		t.Fatalf("kpi cancel not recorded: %+v", recs[0])
	}
	a, _ := fleet.Agent(1)
	if a.CurrentLoad != 0 {
		t.Fatalf("agent load not released: %+v", a)
	}
}

func TestMovementIsBounded(t *testing.T) {
	cfg := simConfig()
	cfg.Agents = 1
	cfg.OrderRate = 0
	cfg.AgentSpeed = 1
	w, fleet, _ := newWorld(t, cfg)

	if err := fleet.MoveAgent(1, model.Location{X: 0, Y: 0}); err != nil {
		t.Fatalf("move: %v", err)
	}
	order := model.Order{
		ID:         1,
		MerchantID: 1,
		Merchant:   model.Location{X: 50, Y: 0},
		Dropoff:    model.Location{X: 60, Y: 0},
		Deadline:   1000,
	}
	if err := fleet.CreateOrder(order); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if err := fleet.Assign(1, 1, true); err != nil {
		t.Fatalf("assign: %v", err)
	}

	w.Step(1)
	a, _ := fleet.Agent(1)
	if a.Location.DistanceTo(model.Location{X: 0, Y: 0}) > 1.0001 {
		t.Fatalf("agent moved too far: %+v", a.Location)
	}
	if a.Status != model.AgentBusy {
		t.Fatalf("agent should be busy while serving")
	}
	if a.ServingOrder != 1 {
		t.Fatalf("serving order not recorded: %d", a.ServingOrder)
	}
}
