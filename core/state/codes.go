package state

import "fmt"

// Code identifies why an operation was rejected. Rejections are no-ops: the
// fleet state is untouched whenever one is returned.
type Code string

const (
	CodeOrderNotFound    Code = "order_not_found"
	CodeAgentNotFound    Code = "agent_not_found"
	CodeOrderNotReady    Code = "order_not_ready"
	CodeOrderNotAssigned Code = "order_not_assigned"
	CodeOrderNotPickedUp Code = "order_not_picked_up"
	CodeAlreadyAssigned  Code = "already_assigned"
	CodeAgentBusy        Code = "agent_busy"
	CodeCapacityExceeded Code = "capacity_exceeded"
	CodeWrongAgent       Code = "wrong_agent"
	CodeNotInCargo       Code = "not_in_cargo"
	CodeNotCancellable   Code = "not_cancellable"
	CodeInvalidAgent     Code = "invalid_agent"
	CodeDuplicateID      Code = "duplicate_id"
)

// RejectionError carries the operation name and the machine-readable reason
// a transition was refused.
type RejectionError struct {
	Op   string
	Code Code
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("state: %s rejected: %s", e.Op, e.Code)
}

// Reason extracts the rejection code from an error, or the empty code when
// the error is not a rejection.
func Reason(err error) Code {
	if re, ok := err.(*RejectionError); ok {
		return re.Code
	}
	return ""
}
