package model

import "fmt"

// AgentStatus defines the availability state of a delivery agent.
type AgentStatus int

const (
	AgentIdle AgentStatus = iota
	AgentBusy
)

// String returns a human-readable representation of the agent status.
func (s AgentStatus) String() string {
	switch s {
	case AgentIdle:
		return "IDLE"
	case AgentBusy:
		return "BUSY"
	default:
		return "unknown"
	}
}

// Agent represents a mobile delivery agent (drone).
//
// CurrentLoad counts every order the agent is responsible for, whether
// picked up or still awaiting pickup; Cargo holds only the picked-up ones.
type Agent struct {
	ID           int
	Status       AgentStatus
	Location     Location
	CurrentLoad  int
	MaxCapacity  int
	Cargo        map[int]struct{} // order ids currently on board
	ServingOrder int              // order the agent is moving toward, NoAgent if none
}

// Validate checks that the agent configuration is sound.
func (a Agent) Validate() error {
	if a.MaxCapacity <= 0 {
		return fmt.Errorf("max capacity must be positive")
	}
	return nil
}

// ResidualCapacity returns how many more orders the agent can take on.
func (a Agent) ResidualCapacity() int {
	res := a.MaxCapacity - a.CurrentLoad
	if res < 0 {
		return 0
	}
	return res
}

// CanAcceptMore reports whether the agent has spare capacity.
func (a Agent) CanAcceptMore() bool {
	return a.CurrentLoad < a.MaxCapacity
}

// Carrying reports whether the given order is on board.
func (a Agent) Carrying(orderID int) bool {
	_, ok := a.Cargo[orderID]
	return ok
}
