package dispatch

import (
	"github.com/nroussel/airdispatch/core/model"
)

// FallbackPolicy is the deterministic substitution rule applied when the
// decoded candidate slot is invalid.
type FallbackPolicy string

const (
	FallbackNone       FallbackPolicy = "none"
	FallbackCargoFirst FallbackPolicy = "cargo_first"
	FallbackFirstValid FallbackPolicy = "first_valid"
)

// FleetView answers the liveness and cargo queries the resolver needs. The
// state machine implements it.
type FleetView interface {
	OrderExists(orderID int) bool
	Agent(agentID int) (model.Agent, bool)
}

// Resolver decodes a continuous selection signal into a concrete candidate
// slot. It never mutates fleet state; it only recommends an index. The only
// state it keeps are monotone observability counters.
type Resolver struct {
	Policy FallbackPolicy
	Fleet  FleetView
}

// NewResolver returns a resolver using the given fallback policy.
func NewResolver(policy FallbackPolicy, fleet FleetView) *Resolver {
	return &Resolver{Policy: policy, Fleet: fleet}
}

// Resolve maps raw in [-1,1] onto the candidate sequence by uniform binning
// and substitutes per the fallback policy when the selected slot is invalid.
// The boolean is false when no policy yields a valid slot; skipping the
// decision point is the normal reaction, not an error.
func (r *Resolver) Resolve(agentID int, candidates []model.CandidateSlot, raw float64) (int, bool) {
	if len(candidates) == 0 {
		resolverDecisions.WithLabelValues("no_candidate").Inc()
		return 0, false
	}
	idx := binIndex(raw, len(candidates))
	if r.slotValid(candidates[idx]) {
		resolverDecisions.WithLabelValues("direct").Inc()
		return idx, true
	}

	switch r.Policy {
	case FallbackCargoFirst:
		if i, ok := r.firstCargoSlot(agentID, candidates); ok {
			resolverDecisions.WithLabelValues("fallback_cargo").Inc()
			return i, true
		}
		fallthrough
	case FallbackFirstValid:
		for i, c := range candidates {
			if r.slotValid(c) {
				resolverDecisions.WithLabelValues("fallback_first_valid").Inc()
				return i, true
			}
		}
	case FallbackNone:
	}
	resolverDecisions.WithLabelValues("no_candidate").Inc()
	return 0, false
}

// binIndex maps raw in [-1,1] to a slot index via uniform binning, clamped
// to the valid range.
func binIndex(raw float64, k int) int {
	if raw < -1 {
		raw = -1
	}
	if raw > 1 {
		raw = 1
	}
	idx := int((raw + 1) / 2 * float64(k))
	if idx >= k {
		idx = k - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

func (r *Resolver) slotValid(c model.CandidateSlot) bool {
	return c.Valid && c.OrderID >= 0 && r.Fleet.OrderExists(c.OrderID)
}

// firstCargoSlot returns the first valid slot whose order is already on
// board the agent.
func (r *Resolver) firstCargoSlot(agentID int, candidates []model.CandidateSlot) (int, bool) {
	agent, ok := r.Fleet.Agent(agentID)
	if !ok {
		return 0, false
	}
	for i, c := range candidates {
		if r.slotValid(c) && agent.Carrying(c.OrderID) {
			return i, true
		}
	}
	return 0, false
}
