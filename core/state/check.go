package state

import (
	"fmt"
	"sort"

	"github.com/nroussel/airdispatch/core/model"
)

// Violation describes one invariant breach found by ConsistencyCheck.
type Violation struct {
	Kind    string `json:"kind"`
	OrderID int    `json:"order_id,omitempty"`
	AgentID int    `json:"agent_id,omitempty"`
	Detail  string `json:"detail"`
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] order=%d agent=%d: %s", v.Kind, v.OrderID, v.AgentID, v.Detail)
}

// ConsistencyCheck scans all orders and agents and reports every invariant
// violation without correcting any of them. A violation signals a
// caller-side contract breach, so repairs are deliberately left to offline
// inspection. Intended for tests and telemetry, not the dispatch hot path.
func (m *Machine) ConsistencyCheck() []Violation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Violation

	orderIDs := make([]int, 0, len(m.orders))
	for id := range m.orders {
		orderIDs = append(orderIDs, id)
	}
	sort.Ints(orderIDs)
	for _, id := range orderIDs {
		o := m.orders[id]
		attached := o.Status == model.OrderAssigned || o.Status == model.OrderPickedUp
		if attached != o.HasAgent() {
			out = append(out, Violation{
				Kind:    "order_agent_link",
				OrderID: id,
				AgentID: o.AssignedAgent,
				Detail:  fmt.Sprintf("status %s with assigned agent %d", o.Status, o.AssignedAgent),
			})
			continue
		}
		if !attached {
			continue
		}
		agent, ok := m.agents[o.AssignedAgent]
		if !ok {
			out = append(out, Violation{
				Kind:    "dangling_agent",
				OrderID: id,
				AgentID: o.AssignedAgent,
				Detail:  "assigned agent does not exist",
			})
			continue
		}
		if o.Status == model.OrderPickedUp && !agent.Carrying(id) {
			out = append(out, Violation{
				Kind:    "cargo_missing",
				OrderID: id,
				AgentID: agent.ID,
				Detail:  "PICKED_UP order absent from agent cargo",
			})
		}
	}

	agentIDs := make([]int, 0, len(m.agents))
	for id := range m.agents {
		agentIDs = append(agentIDs, id)
	}
	sort.Ints(agentIDs)
	for _, id := range agentIDs {
		a := m.agents[id]
		cargoIDs := make([]int, 0, len(a.Cargo))
		for oid := range a.Cargo {
			cargoIDs = append(cargoIDs, oid)
		}
		sort.Ints(cargoIDs)
		for _, oid := range cargoIDs {
			o, ok := m.orders[oid]
			switch {
			case !ok:
				out = append(out, Violation{
					Kind:    "cargo_stale",
					OrderID: oid,
					AgentID: id,
					Detail:  "cargo references a destroyed order",
				})
			case o.Status != model.OrderPickedUp:
				out = append(out, Violation{
					Kind:    "cargo_status",
					OrderID: oid,
					AgentID: id,
					Detail:  fmt.Sprintf("cargo order has status %s", o.Status),
				})
			case o.AssignedAgent != id:
				out = append(out, Violation{
					Kind:    "cargo_owner",
					OrderID: oid,
					AgentID: id,
					Detail:  fmt.Sprintf("cargo order assigned to agent %d", o.AssignedAgent),
				})
			}
		}
		assignedNotPicked := 0
		for _, o := range m.orders {
			if o.AssignedAgent == id && o.Status == model.OrderAssigned {
				assignedNotPicked++
			}
		}
		if a.CurrentLoad != len(a.Cargo)+assignedNotPicked {
			out = append(out, Violation{
				Kind:    "load_mismatch",
				AgentID: id,
				Detail: fmt.Sprintf("current_load %d != cargo %d + assigned %d",
					a.CurrentLoad, len(a.Cargo), assignedNotPicked),
			})
		}
		if a.CurrentLoad > a.MaxCapacity {
			out = append(out, Violation{
				Kind:    "over_capacity",
				AgentID: id,
				Detail:  fmt.Sprintf("current_load %d exceeds max capacity %d", a.CurrentLoad, a.MaxCapacity),
			})
		}
	}
	return out
}
