package dispatch

import (
	"reflect"
	"testing"

	"github.com/nroussel/airdispatch/core/model"
)

// scenarioInput builds three ready orders and two agents: agent 1 IDLE near
// the first merchant, agent 2 BUSY near the last.
func scenarioInput() CycleInput {
	return CycleInput{
		Tick: 0,
		Orders: []model.OrderSnapshot{
			{OrderID: 1, Merchant: model.Location{X: 0, Y: 0}, Dropoff: model.Location{X: 1, Y: 1}, Deadline: 1000},
			{OrderID: 2, Merchant: model.Location{X: 5, Y: 5}, Dropoff: model.Location{X: 6, Y: 6}, Deadline: 1000},
			{OrderID: 3, Merchant: model.Location{X: 9, Y: 9}, Dropoff: model.Location{X: 8, Y: 8}, Deadline: 1000},
		},
		Agents: []model.AgentSnapshot{
			{AgentID: 1, Location: model.Location{X: 0, Y: 1}, Status: model.AgentIdle, MaxCapacity: 2},
			{AgentID: 2, Location: model.Location{X: 9, Y: 8}, Status: model.AgentBusy, CurrentLoad: 1, MaxCapacity: 2},
		},
		Constraints: model.RouteConstraints{MaxOrdersPerAgent: 2},
		Seed:        42,
	}
}

func newTestAssigner() *MOPSOAssigner {
	cfg := Config{AllowBusyFallback: true}
	cfg.SetDefaults()
	return NewMOPSOAssigner(cfg)
}

func TestAssignIdleFirst(t *testing.T) {
	a := newTestAssigner()
	a.AllowBusyFallback = false
	asn := a.Assign(scenarioInput())
	if len(asn[2]) != 0 {
		t.Fatalf("busy agent must not receive orders without fallback: %v", asn)
	}
	if len(asn[1]) == 0 {
		t.Fatalf("idle agent should receive orders: %v", asn)
	}
	if len(asn[1]) > 2 {
		t.Fatalf("idle agent over capacity: %v", asn[1])
	}
}

func TestAssignDefaultConfigIdleOnly(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()
	a := NewMOPSOAssigner(cfg)
	asn := a.Assign(scenarioInput())
	if len(asn[2]) != 0 {
		t.Fatalf("out of the box the busy agent must stay untouched: %v", asn)
	}
	if len(asn[1]) == 0 {
		t.Fatalf("idle agent should still be served: %v", asn)
	}
}

func TestAssignBusyFallback(t *testing.T) {
	a := newTestAssigner()
	// three orders, idle capacity two: at least one leftover, which is
	// a third of the batch and crosses the default threshold
	asn := a.Assign(scenarioInput())
	total := asn.Orders()
	if total != 3 {
		t.Fatalf("fallback should place all three orders, got %d: %v", total, asn)
	}
	if len(asn[2]) == 0 {
		t.Fatalf("busy agent should absorb the leftover: %v", asn)
	}
	if len(asn[2]) > 1 {
		t.Fatalf("busy agent residual capacity is one: %v", asn[2])
	}
}

func TestAssignThresholdBlocksFallback(t *testing.T) {
	a := newTestAssigner()
	a.LeftoverThreshold = 0.9 // one leftover of three stays below
	asn := a.Assign(scenarioInput())
	if len(asn[2]) != 0 {
		t.Fatalf("threshold should suppress the busy pass: %v", asn)
	}
}

func TestAssignDeterministic(t *testing.T) {
	a := newTestAssigner()
	x := a.Assign(scenarioInput())
	y := a.Assign(scenarioInput())
	if !reflect.DeepEqual(x, y) {
		t.Fatalf("same seed diverged:\n%v\n%v", x, y)
	}
}

func TestAssignNoOrders(t *testing.T) {
	a := newTestAssigner()
	in := scenarioInput()
	in.Orders = nil
	if asn := a.Assign(in); len(asn) != 0 {
		t.Fatalf("no orders should yield empty assignment: %v", asn)
	}
}

func TestAssignNoIdleNoFallback(t *testing.T) {
	a := newTestAssigner()
	a.AllowBusyFallback = false
	in := scenarioInput()
	in.Agents[0].Status = model.AgentBusy
	if asn := a.Assign(in); asn.Orders() != 0 {
		t.Fatalf("no idle agents and no fallback should assign nothing: %v", asn)
	}
}

func TestAssignNoIdleWithFallback(t *testing.T) {
	a := newTestAssigner()
	in := scenarioInput()
	in.Agents[0].Status = model.AgentBusy
	asn := a.Assign(in)
	if asn.Orders() == 0 {
		t.Fatalf("fallback should still serve orders with an all-busy fleet")
	}
}

func TestAssignMaxOrdersTrim(t *testing.T) {
	a := newTestAssigner()
	a.MaxOrders = 1
	asn := a.Assign(scenarioInput())
	if asn.Orders() > 1 {
		t.Fatalf("max orders trim ignored: %v", asn)
	}
}

func TestMergeAssignmentsReTrims(t *testing.T) {
	in := scenarioInput()
	first := model.Assignment{1: {1, 2}}
	second := model.Assignment{1: {3}}
	merged := mergeAssignments(first, second, in)
	if len(merged[1]) != 2 {
		t.Fatalf("merge must re-trim to residual capacity: %v", merged[1])
	}
	if merged[1][0] != 1 || merged[1][1] != 2 {
		t.Fatalf("first-pass orders should survive the trim: %v", merged[1])
	}
}

func TestGreedyAssignerNearest(t *testing.T) {
	in := scenarioInput()
	asn := GreedyAssigner{}.Assign(in)
	if got := asn[1]; len(got) == 0 || got[0] != 1 {
		t.Fatalf("order 1 should go to the co-located idle agent: %v", asn)
	}
	if got := asn[2]; len(got) != 1 || got[0] != 2 {
		t.Fatalf("order 2 should go to the closer busy agent: %v", asn)
	}
	if got := asn[1]; len(got) != 2 || got[1] != 3 {
		t.Fatalf("order 3 should fall to the remaining capacity: %v", asn)
	}
}

func TestEDFAssignerUrgencyFirst(t *testing.T) {
	in := scenarioInput()
	// tighten order 3's deadline so it picks first and takes the near agent
	in.Orders[2].Deadline = 10
	asn := EDFAssigner{}.Assign(in)
	if got := asn[2]; len(got) == 0 || got[0] != 3 {
		t.Fatalf("most urgent order should be placed first: %v", asn)
	}
}

func TestBaselinesRespectCapacity(t *testing.T) {
	in := scenarioInput()
	in.Constraints.MaxOrdersPerAgent = 1
	for name, a := range map[string]Assigner{"greedy": GreedyAssigner{}, "edf": EDFAssigner{}} {
		asn := a.Assign(in)
		for id, ids := range asn {
			if len(ids) > 1 {
				t.Fatalf("%s: agent %d exceeds route constraint: %v", name, id, ids)
			}
		}
	}
}
