package dispatch

import (
	"github.com/nroussel/airdispatch/core/model"
)

// CycleInput carries the snapshots one dispatch cycle works from. All
// fields are read-only views; assigners must not mutate them.
type CycleInput struct {
	Tick        int
	Orders      []model.OrderSnapshot
	Agents      []model.AgentSnapshot
	Merchants   map[int]model.Location
	Constraints model.RouteConstraints
	Weights     []float64
	// Seed drives every random draw of the cycle. Identical seed and
	// snapshots produce identical assignments.
	Seed int64
}

// Assigner computes an order-to-agent assignment for one cycle. Empty
// inputs yield an empty assignment, never an error.
type Assigner interface {
	Assign(in CycleInput) model.Assignment
}

// CycleResult describes what one dispatch cycle decided and applied.
type CycleResult struct {
	CycleID    string
	Tick       int
	Assignment model.Assignment
	// Applied counts orders accepted by the state machine per agent; the
	// remainder of Assignment was rejected.
	Applied    map[int]int
	Rejections map[string]int // rejection code -> count
	Unassigned int
}

// AppliedOrders returns the total number of applied assignments.
func (r CycleResult) AppliedOrders() int {
	n := 0
	for _, c := range r.Applied {
		n += c
	}
	return n
}
