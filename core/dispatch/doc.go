// Package dispatch implements the order-to-agent dispatch engine: the
// assignment policy layer on top of the MOPSO optimizer, the candidate
// resolver for external action signals, and the manager that runs one
// dispatch cycle per simulation tick against the fleet state machine.
//
// Assignment itself is pure: Assigners only read snapshots and return an
// assignment map. The manager is the single place where assignments are
// applied through the state machine, logged and measured.
package dispatch
