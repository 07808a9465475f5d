package model

// OrderSnapshot is a read-only view of a READY order handed to the optimizer.
type OrderSnapshot struct {
	OrderID  int      `json:"order_id"`
	Merchant Location `json:"merchant_location"`
	Dropoff  Location `json:"dropoff_location"`
	Deadline int      `json:"deadline_tick"`
}

// AgentSnapshot is a read-only view of an agent at the start of a cycle.
type AgentSnapshot struct {
	AgentID     int         `json:"agent_id"`
	Location    Location    `json:"location"`
	Status      AgentStatus `json:"status"`
	CurrentLoad int         `json:"current_load"`
	MaxCapacity int         `json:"max_capacity"`
}

// ResidualCapacity returns the spare capacity captured in the snapshot.
func (a AgentSnapshot) ResidualCapacity() int {
	res := a.MaxCapacity - a.CurrentLoad
	if res < 0 {
		return 0
	}
	return res
}

// CanAcceptMore reports whether the snapshot had spare capacity.
func (a AgentSnapshot) CanAcceptMore() bool {
	return a.CurrentLoad < a.MaxCapacity
}

// RouteConstraints bounds what a single dispatch cycle may assign.
type RouteConstraints struct {
	MaxOrdersPerAgent int `json:"max_orders_per_agent"`
}

// CandidateSlot is one of the fixed per-agent decision options exposed to
// the external selection layer. Invalid slots are placeholders.
type CandidateSlot struct {
	OrderID int  `json:"order_id"`
	Valid   bool `json:"valid"`
}

// Assignment maps agent ids to the ordered list of order ids they received.
type Assignment map[int][]int

// Orders returns the total number of order ids in the assignment.
func (a Assignment) Orders() int {
	n := 0
	for _, ids := range a {
		n += len(ids)
	}
	return n
}
