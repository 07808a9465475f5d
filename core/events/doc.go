// Package events defines the dispatch related events emitted on the event bus.
//
// Available event types:
//   - CycleEvent: one dispatch cycle finished
//   - AssignmentEvent: one order offered to an agent
//   - RejectionEvent: the state machine refused an assignment
//   - OrderEvent: an order entered or left the system
//   - FleetStatsEvent: periodic fleet-wide delivery counters
package events
