package model

import (
	"math"
	"testing"
)

func TestAgentResidualCapacity(t *testing.T) {
	a := Agent{MaxCapacity: 3, CurrentLoad: 1}
	if got := a.ResidualCapacity(); got != 2 {
		t.Fatalf("expected 2 got %d", got)
	}
}

func TestAgentResidualCapacityNeverNegative(t *testing.T) {
	a := Agent{MaxCapacity: 2, CurrentLoad: 5}
	if got := a.ResidualCapacity(); got != 0 {
		t.Fatalf("expected 0 got %d", got)
	}
	if a.CanAcceptMore() {
		t.Fatalf("overloaded agent must not accept more")
	}
}

func TestAgentValidate(t *testing.T) {
	if err := (Agent{MaxCapacity: 0}).Validate(); err == nil {
		t.Fatalf("zero capacity must fail validation")
	}
	if err := (Agent{MaxCapacity: 1}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAgentCarrying(t *testing.T) {
	a := Agent{Cargo: map[int]struct{}{7: {}}}
	if !a.Carrying(7) || a.Carrying(8) {
		t.Fatalf("cargo lookup wrong")
	}
}

func TestLocationDistance(t *testing.T) {
	d := Location{X: 0, Y: 0}.DistanceTo(Location{X: 3, Y: 4})
	if math.Abs(d-5) > 1e-9 {
		t.Fatalf("expected 5 got %v", d)
	}
	if (Location{X: 1, Y: 1}).DistanceTo(Location{X: 1, Y: 1}) != 0 {
		t.Fatalf("self distance must be zero")
	}
}

func TestOrderStatusString(t *testing.T) {
	cases := map[OrderStatus]string{
		OrderReady:     "READY",
		OrderAssigned:  "ASSIGNED",
		OrderPickedUp:  "PICKED_UP",
		OrderDelivered: "DELIVERED",
		OrderCancelled: "CANCELLED",
	}
	for s, want := range cases {
		if s.String() != want {
			t.Fatalf("status %d: expected %s got %s", s, want, s.String())
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	for _, s := range []OrderStatus{OrderDelivered, OrderCancelled} {
		if !s.Terminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	for _, s := range []OrderStatus{OrderReady, OrderAssigned, OrderPickedUp} {
		if s.Terminal() {
			t.Fatalf("%s should not be terminal", s)
		}
	}
}

func TestOrderHasAgent(t *testing.T) {
	o := Order{AssignedAgent: NoAgent}
	if o.HasAgent() {
		t.Fatalf("unassigned order must not report an agent")
	}
	o.AssignedAgent = 3
	if !o.HasAgent() {
		t.Fatalf("assigned order must report an agent")
	}
}

func TestAssignmentOrders(t *testing.T) {
	asn := Assignment{1: {10, 11}, 2: {12}}
	if got := asn.Orders(); got != 3 {
		t.Fatalf("expected 3 got %d", got)
	}
	if (Assignment{}).Orders() != 0 {
		t.Fatalf("empty assignment must count zero")
	}
}
