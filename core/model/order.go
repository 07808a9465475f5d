package model

// OrderStatus defines the lifecycle state of a delivery order.
type OrderStatus int

const (
	OrderReady OrderStatus = iota
	OrderAssigned
	OrderPickedUp
	OrderDelivered
	OrderCancelled
)

// String returns a human-readable representation of the order status.
func (s OrderStatus) String() string {
	switch s {
	case OrderReady:
		return "READY"
	case OrderAssigned:
		return "ASSIGNED"
	case OrderPickedUp:
		return "PICKED_UP"
	case OrderDelivered:
		return "DELIVERED"
	case OrderCancelled:
		return "CANCELLED"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status ends the order lifecycle.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// NoAgent marks an unset agent reference on an order.
const NoAgent = -1

// Order represents one delivery task from a merchant to a drop-off point.
type Order struct {
	ID            int
	Status        OrderStatus
	MerchantID    int
	Merchant      Location // pickup location
	Dropoff       Location
	Deadline      int // tick by which delivery counts as on time
	CreatedTick   int
	AssignedAgent int // NoAgent when unassigned
}

// HasAgent reports whether the order carries an agent reference.
// It must hold exactly when Status is ASSIGNED or PICKED_UP.
func (o Order) HasAgent() bool {
	return o.AssignedAgent != NoAgent
}
