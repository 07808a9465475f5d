package dispatch

import (
	"math/rand"
	"sort"

	"github.com/nroussel/airdispatch/core/model"
	"github.com/nroussel/airdispatch/core/mopso"
)

// MOPSOAssigner layers the two-pass assignment policy over the MOPSO
// optimizer. The first pass offers the ready orders to IDLE agents with
// spare capacity; when the busy fallback is enabled and too many orders
// remain, a second pass offers the leftovers to BUSY agents.
type MOPSOAssigner struct {
	Optimizer mopso.Optimizer
	MaxOrders int
	// PrioritizeIdle enables the two-pass idle-first policy. When false a
	// single pass runs over every agent with capacity.
	PrioritizeIdle    bool
	AllowBusyFallback bool
	// LeftoverThreshold is the unassigned fraction at or above which the
	// busy fallback pass runs.
	LeftoverThreshold float64
}

// NewMOPSOAssigner returns an assigner configured from cfg.
func NewMOPSOAssigner(cfg Config) *MOPSOAssigner {
	opt := mopso.NewOptimizer()
	opt.Particles = cfg.Particles
	opt.Iterations = cfg.Iterations
	opt.ArchiveSize = cfg.ArchiveSize
	opt.Workers = cfg.Workers
	return &MOPSOAssigner{
		Optimizer:         opt,
		MaxOrders:         cfg.MaxOrders,
		PrioritizeIdle:    cfg.PrioritizeIdle == nil || *cfg.PrioritizeIdle,
		AllowBusyFallback: cfg.AllowBusyFallback,
		LeftoverThreshold: cfg.LeftoverThreshold,
	}
}

// Assign implements the Assigner interface.
func (a *MOPSOAssigner) Assign(in CycleInput) model.Assignment {
	rng := rand.New(rand.NewSource(in.Seed))
	orders := in.Orders
	if a.MaxOrders > 0 && len(orders) > a.MaxOrders {
		orders = orders[:a.MaxOrders]
	}
	if len(orders) == 0 {
		return model.Assignment{}
	}

	if !a.PrioritizeIdle {
		asn := a.runPass(in, orders, withCapacity(in.Agents), rng)
		ordersAssigned.WithLabelValues("single").Add(float64(asn.Orders()))
		return asn
	}

	idle := idleWithCapacity(in.Agents)
	if len(idle) == 0 {
		if !a.AllowBusyFallback {
			return model.Assignment{}
		}
		asn := a.runPass(in, orders, withCapacity(in.Agents), rng)
		ordersAssigned.WithLabelValues("single").Add(float64(asn.Orders()))
		return asn
	}

	first := a.runPass(in, orders, idle, rng)
	ordersAssigned.WithLabelValues("idle").Add(float64(first.Orders()))
	if !a.AllowBusyFallback || len(first) == 0 {
		return first
	}
	leftovers := unassignedOrders(orders, first)
	if float64(len(leftovers)) < float64(len(orders))*a.LeftoverThreshold {
		return first
	}

	busy := busyWithCapacity(in.Agents)
	if len(busy) == 0 || len(leftovers) == 0 {
		return first
	}
	second := a.runPass(in, leftovers, busy, rng)
	merged := mergeAssignments(first, second, in)
	if gained := merged.Orders() - first.Orders(); gained > 0 {
		ordersAssigned.WithLabelValues("busy").Add(float64(gained))
	}
	return merged
}

// runPass executes one optimizer run restricted to the given orders and
// agents. Empty inputs contribute nothing.
func (a *MOPSOAssigner) runPass(in CycleInput, orders []model.OrderSnapshot, agents []model.AgentSnapshot, rng *rand.Rand) model.Assignment {
	if len(orders) == 0 || len(agents) == 0 {
		return model.Assignment{}
	}
	asn := a.Optimizer.Run(mopso.Problem{
		Tick:        in.Tick,
		Orders:      orders,
		Agents:      agents,
		Merchants:   in.Merchants,
		Constraints: in.Constraints,
		Weights:     in.Weights,
	}, rng)
	if len(asn) == 0 {
		archiveEmpty.Inc()
	}
	return asn
}

// mergeAssignments appends the second-pass lists after the first-pass ones
// and re-trims any agent that ended up beyond its residual capacity. Both
// passes already respect capacity on their own; the trim guards the merge.
func mergeAssignments(first, second model.Assignment, in CycleInput) model.Assignment {
	merged := make(model.Assignment, len(first)+len(second))
	for id, ids := range first {
		merged[id] = append([]int(nil), ids...)
	}
	for id, ids := range second {
		merged[id] = append(merged[id], ids...)
	}
	caps := make(map[int]int, len(in.Agents))
	for _, ag := range in.Agents {
		c := ag.ResidualCapacity()
		if m := in.Constraints.MaxOrdersPerAgent; m > 0 && m < c {
			c = m
		}
		caps[ag.AgentID] = c
	}
	for id, ids := range merged {
		if c, ok := caps[id]; ok && len(ids) > c {
			merged[id] = ids[:c]
		}
	}
	return merged
}

// unassignedOrders returns the orders absent from the assignment, in the
// original snapshot order.
func unassignedOrders(orders []model.OrderSnapshot, asn model.Assignment) []model.OrderSnapshot {
	taken := make(map[int]struct{})
	for _, ids := range asn {
		for _, id := range ids {
			taken[id] = struct{}{}
		}
	}
	var left []model.OrderSnapshot
	for _, o := range orders {
		if _, ok := taken[o.OrderID]; !ok {
			left = append(left, o)
		}
	}
	return left
}

func idleWithCapacity(agents []model.AgentSnapshot) []model.AgentSnapshot {
	var out []model.AgentSnapshot
	for _, a := range agents {
		if a.Status == model.AgentIdle && a.CanAcceptMore() {
			out = append(out, a)
		}
	}
	return out
}

func busyWithCapacity(agents []model.AgentSnapshot) []model.AgentSnapshot {
	var out []model.AgentSnapshot
	for _, a := range agents {
		if a.Status != model.AgentIdle && a.CanAcceptMore() {
			out = append(out, a)
		}
	}
	return out
}

func withCapacity(agents []model.AgentSnapshot) []model.AgentSnapshot {
	var out []model.AgentSnapshot
	for _, a := range agents {
		if a.CanAcceptMore() {
			out = append(out, a)
		}
	}
	return out
}

// sortedAgentIDs returns the assignment's agent ids in ascending order, for
// deterministic application and logging.
func sortedAgentIDs(asn model.Assignment) []int {
	ids := make([]int, 0, len(asn))
	for id := range asn {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
