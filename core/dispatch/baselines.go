package dispatch

import (
	"math"
	"sort"

	"github.com/nroussel/airdispatch/core/model"
)

// GreedyAssigner assigns each order to the nearest agent with spare
// capacity. It serves as a deterministic baseline for comparison runs.
type GreedyAssigner struct {
	MaxOrders int
}

// Assign implements the Assigner interface.
func (g GreedyAssigner) Assign(in CycleInput) model.Assignment {
	orders := in.Orders
	if g.MaxOrders > 0 && len(orders) > g.MaxOrders {
		orders = orders[:g.MaxOrders]
	}
	return nearestFit(orders, in.Agents, in.Constraints)
}

// EDFAssigner sorts orders by deadline before the nearest-agent pass, so the
// most urgent orders pick their agent first.
type EDFAssigner struct {
	MaxOrders int
}

// Assign implements the Assigner interface.
func (e EDFAssigner) Assign(in CycleInput) model.Assignment {
	orders := append([]model.OrderSnapshot(nil), in.Orders...)
	if e.MaxOrders > 0 && len(orders) > e.MaxOrders {
		orders = orders[:e.MaxOrders]
	}
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].Deadline < orders[j].Deadline })
	return nearestFit(orders, in.Agents, in.Constraints)
}

// nearestFit walks the orders in the given sequence and hands each to the
// closest agent that still has room, tracking remaining capacity as it goes.
func nearestFit(orders []model.OrderSnapshot, agents []model.AgentSnapshot, cons model.RouteConstraints) model.Assignment {
	remaining := make(map[int]int, len(agents))
	for _, a := range agents {
		c := a.ResidualCapacity()
		if m := cons.MaxOrdersPerAgent; m > 0 && m < c {
			c = m
		}
		remaining[a.AgentID] = c
	}

	asn := make(model.Assignment)
	for _, o := range orders {
		best := model.NoAgent
		bestDist := math.Inf(1)
		for _, a := range agents {
			if remaining[a.AgentID] <= 0 {
				continue
			}
			if d := a.Location.DistanceTo(o.Merchant); d < bestDist {
				bestDist = d
				best = a.AgentID
			}
		}
		if best == model.NoAgent {
			continue
		}
		asn[best] = append(asn[best], o.OrderID)
		remaining[best]--
	}
	return asn
}
