package state

import (
	"sort"
	"sync"

	"github.com/nroussel/airdispatch/core/model"
)

// Machine owns all mutable order and agent data. Every lifecycle mutation
// flows through its operations; other components only read value snapshots.
// Preconditions are checked up front, so a rejected operation never leaves a
// partial mutation behind.
type Machine struct {
	mu        sync.RWMutex
	orders    map[int]*model.Order
	agents    map[int]*model.Agent
	merchants map[int]model.Location

	completed int
	cancelled int
	onTime    int
}

// NewMachine creates an empty fleet state machine.
func NewMachine() *Machine {
	return &Machine{
		orders:    make(map[int]*model.Order),
		agents:    make(map[int]*model.Agent),
		merchants: make(map[int]model.Location),
	}
}

func reject(op string, code Code) error {
	rejectionsTotal.WithLabelValues(op, string(code)).Inc()
	return &RejectionError{Op: op, Code: code}
}

// AddAgent registers an agent with the machine. Cargo and serving-order
// bookkeeping are initialized here regardless of the input value.
func (m *Machine) AddAgent(a model.Agent) error {
	if err := a.Validate(); err != nil {
		return reject("add_agent", CodeInvalidAgent)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.agents[a.ID]; ok {
		return reject("add_agent", CodeDuplicateID)
	}
	a.Cargo = make(map[int]struct{})
	a.CurrentLoad = 0
	a.ServingOrder = model.NoAgent
	m.agents[a.ID] = &a
	return nil
}

// CreateOrder registers a new READY order. The merchant location is recorded
// for later snapshots.
func (m *Machine) CreateOrder(o model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.ID]; ok {
		return reject("create_order", CodeDuplicateID)
	}
	o.Status = model.OrderReady
	o.AssignedAgent = model.NoAgent
	m.orders[o.ID] = &o
	m.merchants[o.MerchantID] = o.Merchant
	return nil
}

// Assign moves a READY order to ASSIGNED on the given agent. Unless
// allowBusy is set the agent must be IDLE, and it must have spare capacity.
func (m *Machine) Assign(agentID, orderID int, allowBusy bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return reject("assign", CodeOrderNotFound)
	}
	agent, ok := m.agents[agentID]
	if !ok {
		return reject("assign", CodeAgentNotFound)
	}
	if order.Status != model.OrderReady {
		return reject("assign", CodeOrderNotReady)
	}
	if order.HasAgent() {
		return reject("assign", CodeAlreadyAssigned)
	}
	if !agent.CanAcceptMore() {
		return reject("assign", CodeCapacityExceeded)
	}
	if !allowBusy && agent.Status != model.AgentIdle {
		return reject("assign", CodeAgentBusy)
	}
	order.Status = model.OrderAssigned
	order.AssignedAgent = agentID
	agent.CurrentLoad++
	transitionsTotal.WithLabelValues("assign").Inc()
	return nil
}

// Pickup moves an ASSIGNED order into its agent's cargo. Spatial
// co-location is the caller's responsibility.
func (m *Machine) Pickup(agentID, orderID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return reject("pickup", CodeOrderNotFound)
	}
	agent, ok := m.agents[agentID]
	if !ok {
		return reject("pickup", CodeAgentNotFound)
	}
	if order.Status != model.OrderAssigned {
		return reject("pickup", CodeOrderNotAssigned)
	}
	if order.AssignedAgent != agentID {
		return reject("pickup", CodeWrongAgent)
	}
	order.Status = model.OrderPickedUp
	agent.Cargo[orderID] = struct{}{}
	transitionsTotal.WithLabelValues("pickup").Inc()
	return nil
}

// Deliver completes a PICKED_UP order carried by the agent. The order is
// destroyed; the on-time counter increments once iff the completion tick is
// at or before the deadline.
func (m *Machine) Deliver(agentID, orderID, tick int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return reject("deliver", CodeOrderNotFound)
	}
	agent, ok := m.agents[agentID]
	if !ok {
		return reject("deliver", CodeAgentNotFound)
	}
	if order.Status != model.OrderPickedUp {
		return reject("deliver", CodeOrderNotPickedUp)
	}
	if order.AssignedAgent != agentID {
		return reject("deliver", CodeWrongAgent)
	}
	if !agent.Carrying(orderID) {
		return reject("deliver", CodeNotInCargo)
	}
	delete(agent.Cargo, orderID)
	if agent.CurrentLoad > 0 {
		agent.CurrentLoad--
	}
	if agent.ServingOrder == orderID {
		agent.ServingOrder = model.NoAgent
	}
	delete(m.orders, orderID)
	m.completed++
	if tick <= order.Deadline {
		m.onTime++
		onTimeDeliveries.Inc()
	}
	transitionsTotal.WithLabelValues("deliver").Inc()
	return nil
}

// Cancel aborts a READY or ASSIGNED order. An ASSIGNED cancellation
// symmetrically releases the agent's load bookkeeping.
func (m *Machine) Cancel(orderID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return reject("cancel", CodeOrderNotFound)
	}
	switch order.Status {
	case model.OrderReady:
	case model.OrderAssigned:
		if agent, ok := m.agents[order.AssignedAgent]; ok {
			if agent.CurrentLoad > 0 {
				agent.CurrentLoad--
			}
			if agent.ServingOrder == orderID {
				agent.ServingOrder = model.NoAgent
			}
		}
	default:
		return reject("cancel", CodeNotCancellable)
	}
	delete(m.orders, orderID)
	m.cancelled++
	transitionsTotal.WithLabelValues("cancel").Inc()
	return nil
}

// MoveAgent updates the agent position. Movement itself is computed by the
// external movement collaborator; the machine only records the result.
func (m *Machine) MoveAgent(agentID int, loc model.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	agent, ok := m.agents[agentID]
	if !ok {
		return reject("move_agent", CodeAgentNotFound)
	}
	agent.Location = loc
	return nil
}

// SetAgentStatus flips the agent between IDLE and BUSY.
func (m *Machine) SetAgentStatus(agentID int, status model.AgentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	agent, ok := m.agents[agentID]
	if !ok {
		return reject("set_agent_status", CodeAgentNotFound)
	}
	agent.Status = status
	return nil
}

// SetServingOrder records which order the agent is currently moving toward.
func (m *Machine) SetServingOrder(agentID, orderID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	agent, ok := m.agents[agentID]
	if !ok {
		return reject("set_serving_order", CodeAgentNotFound)
	}
	agent.ServingOrder = orderID
	return nil
}

// Order returns a copy of the order, if it still exists.
func (m *Machine) Order(orderID int) (model.Order, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[orderID]
	if !ok {
		return model.Order{}, false
	}
	return *o, true
}

// Agent returns a deep copy of the agent, if it exists.
func (m *Machine) Agent(agentID int) (model.Agent, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.agents[agentID]
	if !ok {
		return model.Agent{}, false
	}
	cp := *a
	cp.Cargo = make(map[int]struct{}, len(a.Cargo))
	for id := range a.Cargo {
		cp.Cargo[id] = struct{}{}
	}
	return cp, true
}

// ReadyOrders returns snapshots of READY orders in ascending id order,
// bounded to limit when limit is positive.
func (m *Machine) ReadyOrders(limit int) []model.OrderSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var snaps []model.OrderSnapshot
	for _, o := range m.orders {
		if o.Status != model.OrderReady {
			continue
		}
		snaps = append(snaps, model.OrderSnapshot{
			OrderID:  o.ID,
			Merchant: o.Merchant,
			Dropoff:  o.Dropoff,
			Deadline: o.Deadline,
		})
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].OrderID < snaps[j].OrderID })
	if limit > 0 && len(snaps) > limit {
		snaps = snaps[:limit]
	}
	return snaps
}

// AgentsSnapshot returns snapshots of all agents in ascending id order.
func (m *Machine) AgentsSnapshot() []model.AgentSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snaps := make([]model.AgentSnapshot, 0, len(m.agents))
	for _, a := range m.agents {
		snaps = append(snaps, model.AgentSnapshot{
			AgentID:     a.ID,
			Location:    a.Location,
			Status:      a.Status,
			CurrentLoad: a.CurrentLoad,
			MaxCapacity: a.MaxCapacity,
		})
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].AgentID < snaps[j].AgentID })
	return snaps
}

// Merchants returns a copy of the known merchant locations.
func (m *Machine) Merchants() map[int]model.Location {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := make(map[int]model.Location, len(m.merchants))
	for id, loc := range m.merchants {
		cp[id] = loc
	}
	return cp
}

// CandidateOrders returns the orders currently tied to the agent, cargo
// first, padded with invalid slots to exactly k entries.
func (m *Machine) CandidateOrders(agentID, k int) []model.CandidateSlot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slots := make([]model.CandidateSlot, 0, k)
	if _, ok := m.agents[agentID]; ok {
		var carried, pending []int
		for _, o := range m.orders {
			if o.AssignedAgent != agentID {
				continue
			}
			if o.Status == model.OrderPickedUp {
				carried = append(carried, o.ID)
			} else if o.Status == model.OrderAssigned {
				pending = append(pending, o.ID)
			}
		}
		sort.Ints(carried)
		sort.Ints(pending)
		for _, id := range append(carried, pending...) {
			if len(slots) == k {
				break
			}
			slots = append(slots, model.CandidateSlot{OrderID: id, Valid: true})
		}
	}
	for len(slots) < k {
		slots = append(slots, model.CandidateSlot{OrderID: model.NoAgent, Valid: false})
	}
	return slots
}

// AssignedOrders returns copies of the live orders tied to the agent in
// ascending id order.
func (m *Machine) AssignedOrders(agentID int) []model.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []model.Order
	for _, o := range m.orders {
		if o.AssignedAgent == agentID {
			res = append(res, *o)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// ExpiredOrders returns the ids of READY and ASSIGNED orders whose deadline
// lies strictly before the given tick, in ascending order.
func (m *Machine) ExpiredOrders(tick int) []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []int
	for _, o := range m.orders {
		if o.Deadline >= tick {
			continue
		}
		if o.Status == model.OrderReady || o.Status == model.OrderAssigned {
			ids = append(ids, o.ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// OrderExists reports whether the order is still alive.
func (m *Machine) OrderExists(orderID int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.orders[orderID]
	return ok
}

// Stats returns the completed, cancelled and on-time counters. The on-time
// counter is monotone and never exceeds the completed count.
func (m *Machine) Stats() (completed, cancelled, onTime int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.completed, m.cancelled, m.onTime
}
