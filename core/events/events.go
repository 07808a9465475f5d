package events

import "github.com/nroussel/airdispatch/core/model"

// CycleEvent is published when a dispatch cycle completes.
type CycleEvent struct {
	CycleID    string
	Tick       int
	Assigned   int
	Applied    int
	Unassigned int
}

// AssignmentEvent is published for each order offered to an agent.
type AssignmentEvent struct {
	CycleID string
	Tick    int
	AgentID int
	OrderID int
	Applied bool
}

// RejectionEvent is emitted when the state machine refuses an assignment.
type RejectionEvent struct {
	CycleID string
	Tick    int
	AgentID int
	OrderID int
	Code    string
}

// OrderEvent is published when an order is created or changes status
// outside a dispatch cycle (pickup, delivery, cancellation).
type OrderEvent struct {
	OrderID int
	Tick    int
	Status  model.OrderStatus
	OnTime  bool
}

// FleetStatsEvent carries cumulative fleet counters, published periodically
// by the simulation loop.
type FleetStatsEvent struct {
	Tick      int
	Completed int
	Cancelled int
	OnTime    int
}
