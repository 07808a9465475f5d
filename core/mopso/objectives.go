package mopso

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/nroussel/airdispatch/core/model"
)

// NumObjectives is the size of every fitness vector produced by Evaluate.
const NumObjectives = 3

// Objective indices within a fitness vector.
const (
	ObjTravel = iota
	ObjOnTime
	ObjBalance
)

// travelEstimate returns the tick cost for the agent to serve the order:
// the leg to the merchant plus the leg to the drop-off, at unit speed.
func travelEstimate(agent model.AgentSnapshot, order model.OrderSnapshot) float64 {
	return agent.Location.DistanceTo(order.Merchant) + order.Merchant.DistanceTo(order.Dropoff)
}

// Evaluate computes the maximization fitness vector for a decoded assignment.
//
// All three objectives are monotone proxies: total travel distance shrinks
// the first, on-time coverage grows the second and an even spread of load
// across the fleet grows the third. Every unassigned order charges twice the
// worst single-order travel to the first objective, so covering an order is
// always cheaper than skipping it. Iteration follows the snapshot slices so
// the result is identical for identical inputs.
func Evaluate(p Problem, asn model.Assignment) []float64 {
	orderByID := make(map[int]model.OrderSnapshot, len(p.Orders))
	for _, o := range p.Orders {
		orderByID[o.OrderID] = o
	}

	var totalTravel float64
	onTime := 0
	assigned := 0
	fractions := make([]float64, 0, len(p.Agents))
	for _, agent := range p.Agents {
		ids := asn[agent.AgentID]
		for _, id := range ids {
			order, ok := orderByID[id]
			if !ok {
				continue
			}
			travel := travelEstimate(agent, order)
			totalTravel += travel
			assigned++
			if p.Tick+int(math.Ceil(travel)) <= order.Deadline {
				onTime++
			}
		}
		if agent.MaxCapacity > 0 {
			fractions = append(fractions, float64(agent.CurrentLoad+len(ids))/float64(agent.MaxCapacity))
		}
	}
	if unassigned := len(p.Orders) - assigned; unassigned > 0 {
		totalTravel += float64(unassigned) * skipPenalty(p)
	}

	fitness := make([]float64, NumObjectives)
	fitness[ObjTravel] = 1 / (1 + totalTravel)
	if n := len(p.Orders); n > 0 {
		fitness[ObjOnTime] = float64(onTime) / float64(n)
	}
	variance := 0.0
	if len(fractions) > 1 {
		variance = stat.Variance(fractions, nil)
	}
	fitness[ObjBalance] = 1 / (1 + variance)
	return fitness
}

// skipPenalty is the travel charge for leaving one order unassigned: twice
// the worst agent-to-order service distance in the problem.
func skipPenalty(p Problem) float64 {
	worst := 0.0
	for _, agent := range p.Agents {
		for _, order := range p.Orders {
			if t := travelEstimate(agent, order); t > worst {
				worst = t
			}
		}
	}
	return 2 * worst
}
