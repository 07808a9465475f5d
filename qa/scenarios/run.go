package scenarios

import (
	"testing"

	"github.com/nroussel/airdispatch/core/dispatch"
	"github.com/nroussel/airdispatch/core/model"
	"github.com/nroussel/airdispatch/core/state"
	"github.com/nroussel/airdispatch/infra/logger"
	"github.com/nroussel/airdispatch/internal/eventbus"
)

// RunScenario replays one declarative dispatch scenario against a fresh
// fleet and checks the applied and unassigned counters.
func RunScenario(t *testing.T, sc *Scenario) {
	fleet := state.NewMachine()
	for _, def := range sc.Agents {
		if err := fleet.AddAgent(def.ToModel()); err != nil {
			t.Fatalf("scenario %s: add agent %d: %v", sc.Name, def.ID, err)
		}
		if def.Busy {
			if err := fleet.SetAgentStatus(def.ID, model.AgentBusy); err != nil {
				t.Fatalf("scenario %s: set status %d: %v", sc.Name, def.ID, err)
			}
		}
	}
	for _, def := range sc.Orders {
		if err := fleet.CreateOrder(def.ToModel()); err != nil {
			t.Fatalf("scenario %s: create order %d: %v", sc.Name, def.ID, err)
		}
	}

	cfg := dispatch.Config{Policy: sc.Policy, Seed: sc.Seed}
	cfg.SetDefaults()
	assigner, err := newAssigner(cfg)
	if err != nil {
		t.Fatalf("scenario %s: %v", sc.Name, err)
	}
	mgr, err := dispatch.NewManager(assigner, fleet, cfg, logger.NopLogger{}, nil, eventbus.New())
	if err != nil {
		t.Fatalf("scenario %s: manager: %v", sc.Name, err)
	}
	defer mgr.Close()

	res := mgr.RunCycle(1)
	if got := res.AppliedOrders(); got != sc.Expected.Applied {
		t.Errorf("scenario %s: expected %d applied, got %d (%v)", sc.Name, sc.Expected.Applied, got, res.Assignment)
	}
	if res.Unassigned != sc.Expected.Unassigned {
		t.Errorf("scenario %s: expected %d unassigned, got %d", sc.Name, sc.Expected.Unassigned, res.Unassigned)
	}
}

func newAssigner(cfg dispatch.Config) (dispatch.Assigner, error) {
	switch cfg.Policy {
	case "greedy":
		return dispatch.GreedyAssigner{MaxOrders: cfg.MaxOrders}, nil
	case "edf":
		return dispatch.EDFAssigner{MaxOrders: cfg.MaxOrders}, nil
	default:
		return dispatch.NewMOPSOAssigner(cfg), nil
	}
}
